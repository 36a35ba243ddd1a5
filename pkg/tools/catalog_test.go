package tools

import (
	"encoding/json"
	"testing"
)

func testDef(name string) Definition {
	return Definition{
		Name:        name,
		Description: "test tool",
		Params: []Param{
			{Name: "value", Type: TypeNumber, Required: true},
		},
	}
}

func okHandler(args map[string]any) (Result, error) {
	return ActionResult("test", args), nil
}

func TestRegisterAndLookup(t *testing.T) {
	c := NewCatalog()
	if err := c.Register(testDef("zoom_to"), okHandler); err != nil {
		t.Fatalf("register error: %v", err)
	}
	h, def, ok := c.Lookup("zoom_to")
	if !ok || h == nil {
		t.Fatalf("expected registered tool to be found")
	}
	if def.Name != "zoom_to" {
		t.Fatalf("unexpected definition: %+v", def)
	}
	if _, _, ok := c.Lookup("teleport"); ok {
		t.Fatalf("expected lookup miss for unregistered tool")
	}
}

func TestRegisterRejectsBadDefinitions(t *testing.T) {
	c := NewCatalog()
	if err := c.Register(Definition{}, okHandler); err == nil {
		t.Fatalf("expected error for empty name")
	}
	if err := c.Register(testDef("x"), nil); err == nil {
		t.Fatalf("expected error for nil handler")
	}
	bad := testDef("y")
	bad.Params[0].Type = "integer"
	if err := c.Register(bad, okHandler); err == nil {
		t.Fatalf("expected error for unsupported param type")
	}
}

func TestDefinitionsPreserveRegistrationOrder(t *testing.T) {
	c := NewCatalog()
	names := []string{"fly_to", "zoom_to", "add_basemap", "remove_layer"}
	for _, n := range names {
		if err := c.Register(testDef(n), okHandler); err != nil {
			t.Fatalf("register %s: %v", n, err)
		}
	}
	defs := c.Definitions()
	if len(defs) != len(names) {
		t.Fatalf("expected %d definitions, got %d", len(names), len(defs))
	}
	for i, n := range names {
		if defs[i].Name != n {
			t.Fatalf("position %d: expected %s, got %s", i, n, defs[i].Name)
		}
	}
}

func TestReRegistrationOverwritesInPlace(t *testing.T) {
	c := NewCatalog()
	c.MustRegister(testDef("a"), okHandler)
	c.MustRegister(testDef("b"), okHandler)
	replaced := testDef("a")
	replaced.Description = "second"
	c.MustRegister(replaced, okHandler)
	defs := c.Definitions()
	if len(defs) != 2 {
		t.Fatalf("expected overwrite, got %d definitions", len(defs))
	}
	if defs[0].Name != "a" || defs[0].Description != "second" {
		t.Fatalf("expected last write to win in place, got %+v", defs[0])
	}
}

func TestSchemaRendersRequiredAndItems(t *testing.T) {
	def := Definition{
		Name: "add_cog_layer",
		Params: []Param{
			{Name: "url", Type: TypeString, Required: true},
			{Name: "bands", Type: TypeArray, Items: TypeNumber},
		},
	}
	schema := def.Schema()
	if schema["type"] != "object" {
		t.Fatalf("expected object schema")
	}
	required, _ := schema["required"].([]string)
	if len(required) != 1 || required[0] != "url" {
		t.Fatalf("unexpected required set: %v", schema["required"])
	}
	props := schema["properties"].(map[string]any)
	bands := props["bands"].(map[string]any)
	if items, ok := bands["items"].(map[string]any); !ok || items["type"] != TypeNumber {
		t.Fatalf("expected array items type, got %v", bands)
	}
}

func TestValidateArgs(t *testing.T) {
	def := Definition{
		Name: "set_opacity",
		Params: []Param{
			{Name: "name", Type: TypeString, Required: true},
			{Name: "opacity", Type: TypeNumber, Required: true},
		},
	}
	if err := ValidateArgs(def, map[string]any{"name": "hillshade", "opacity": 0.5}); err != nil {
		t.Fatalf("expected valid args, got %v", err)
	}
	if err := ValidateArgs(def, map[string]any{"name": "hillshade"}); err == nil {
		t.Fatalf("expected missing required error")
	}
	if err := ValidateArgs(def, map[string]any{"name": "hillshade", "opacity": "half"}); err == nil {
		t.Fatalf("expected type mismatch error")
	}
	if err := ValidateArgs(def, map[string]any{"name": "h", "opacity": 1.0, "extra": true}); err == nil {
		t.Fatalf("expected unknown key error")
	}
}

func TestValidateArgsAllowUnknown(t *testing.T) {
	def := Definition{Name: "add_overture_3d_buildings", AllowUnknown: true}
	if err := ValidateArgs(def, map[string]any{"release": "2024-05", "opacity": 0.8}); err != nil {
		t.Fatalf("expected pass-through args to validate, got %v", err)
	}
}

func TestResultMarshalShapes(t *testing.T) {
	cases := []struct {
		in   Result
		want string
	}{
		{ActionResult("get_layer_names", nil), `{"action":"get_layer_names","payload":{}}`},
		{TextResult("hi"), `{"response":"hi"}`},
		{ErrorResult("boom"), `{"error":"boom"}`},
	}
	for _, tc := range cases {
		raw, err := json.Marshal(tc.in)
		if err != nil {
			t.Fatalf("marshal error: %v", err)
		}
		if string(raw) != tc.want {
			t.Fatalf("expected %s, got %s", tc.want, raw)
		}
	}
}
