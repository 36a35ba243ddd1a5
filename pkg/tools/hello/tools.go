// Package hello holds the greeting catalog, the smallest possible tool
// surface for wiring and testing a dispatcher end to end.
package hello

import (
	"fmt"

	"github.com/opengeos/geoagent/pkg/configutil"
	"github.com/opengeos/geoagent/pkg/tools"
)

// SystemPrompt for the greeting variant.
const SystemPrompt = "You are a friendly assistant. Use tools when appropriate; " +
	"otherwise respond naturally."

// NewCatalog builds the single-tool greeting catalog.
func NewCatalog() *tools.Catalog {
	c := tools.NewCatalog()
	c.MustRegister(tools.Definition{
		Name:        "greet",
		Description: "Generates a greeting for the given name.",
		Params: []tools.Param{
			{Name: "name", Type: tools.TypeString, Required: true, Description: "The name of the person to greet."},
		},
	}, greet)
	return c
}

func greet(args map[string]any) (tools.Result, error) {
	in := struct {
		Name string `mapstructure:"name"`
	}{}
	if err := configutil.DecodeSettings(args, &in); err != nil {
		return tools.Result{}, err
	}
	return tools.TextResult(fmt.Sprintf("Hello, %s! Welcome to the world of AI agents.", in.Name)), nil
}
