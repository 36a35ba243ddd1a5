package configutil

import (
	"testing"

	"github.com/opengeos/geoagent/pkg/errorsx"
)

type fakeSettings struct {
	APIKey    string `mapstructure:"api_key"`
	Model     string `mapstructure:"model"`
	TimeoutMS int    `mapstructure:"timeout_ms"`
}

func TestDecodeSettingsWeakTyping(t *testing.T) {
	var out fakeSettings
	err := DecodeSettings(map[string]any{
		"api_key":    "sk-test",
		"model":      "llama3.1",
		"timeout_ms": "5000",
	}, &out)
	if err != nil {
		t.Fatalf("decode error: %v", err)
	}
	if out.APIKey != "sk-test" || out.Model != "llama3.1" {
		t.Fatalf("unexpected decode result: %+v", out)
	}
	if out.TimeoutMS != 5000 {
		t.Fatalf("expected weak typing to coerce timeout, got %d", out.TimeoutMS)
	}
}

func TestDecodeSettingsEmptyInputIsNoop(t *testing.T) {
	out := fakeSettings{Model: "keep"}
	if err := DecodeSettings(nil, &out); err != nil {
		t.Fatalf("decode error: %v", err)
	}
	if out.Model != "keep" {
		t.Fatalf("expected no-op on empty input, got %+v", out)
	}
}

func TestValidateSettingsMissingRequired(t *testing.T) {
	err := ValidateSettings(map[string]any{"model": ""}, Schema{
		Required: []string{"model"},
		Optional: []string{"api_key"},
	})
	if err == nil {
		t.Fatalf("expected missing required error")
	}
	if !errorsx.HasReason(err, errorsx.ReasonConfigInvalid) {
		t.Fatalf("expected config_invalid reason, got %v", errorsx.Reason(err))
	}
}

func TestRequireStringReason(t *testing.T) {
	err := RequireString(" ", "vendors.llm.provider")
	if err == nil {
		t.Fatalf("expected error for blank value")
	}
	if !errorsx.HasReason(err, errorsx.ReasonConfigInvalid) {
		t.Fatalf("expected config_invalid reason, got %v", errorsx.Reason(err))
	}
	if err := RequireString("openai", "vendors.llm.provider"); err != nil {
		t.Fatalf("expected non-blank value to pass, got %v", err)
	}
}

func TestValidateSettingsUnknownKey(t *testing.T) {
	err := ValidateSettings(map[string]any{"model": "x", "bogus": 1}, Schema{
		Required: []string{"model"},
	})
	if err == nil {
		t.Fatalf("expected unknown key error")
	}
	if ValidateSettings(map[string]any{"model": "x", "bogus": 1}, Schema{
		Required:     []string{"model"},
		AllowUnknown: true,
	}) != nil {
		t.Fatalf("expected AllowUnknown to accept extra keys")
	}
}

func TestValidateSettingsKeyNormalization(t *testing.T) {
	err := ValidateSettings(map[string]any{"Base-URL": "http://localhost:11434/v1"}, Schema{
		Optional: []string{"base_url"},
	})
	if err != nil {
		t.Fatalf("expected normalized key match, got %v", err)
	}
}
