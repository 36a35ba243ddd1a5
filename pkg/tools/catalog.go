package tools

import (
	"fmt"

	"github.com/opengeos/geoagent/pkg/llm"
)

// Parameter types supported by tool schemas. These mirror the JSON type
// names used by Function Calling APIs.
const (
	TypeString  = "string"
	TypeNumber  = "number"
	TypeBoolean = "boolean"
	TypeArray   = "array"
	TypeObject  = "object"
)

// Param declares one named tool parameter.
type Param struct {
	Name        string
	Type        string
	Description string
	Required    bool
	Items       string   // element type for array params
	Enum        []string // allowed values for string params
}

// Definition describes a tool to the model. AllowUnknown relaxes argument
// validation for pass-through tools that forward arbitrary options.
type Definition struct {
	Name         string
	Description  string
	Params       []Param
	AllowUnknown bool
}

// Schema renders the definition as a JSON Schema object in Function Calling
// format.
func (d Definition) Schema() map[string]any {
	props := map[string]any{}
	var required []string
	for _, p := range d.Params {
		prop := map[string]any{"type": p.Type}
		if p.Description != "" {
			prop["description"] = p.Description
		}
		if p.Type == TypeArray && p.Items != "" {
			prop["items"] = map[string]any{"type": p.Items}
		}
		if len(p.Enum) > 0 {
			prop["enum"] = p.Enum
		}
		props[p.Name] = prop
		if p.Required {
			required = append(required, p.Name)
		}
	}
	schema := map[string]any{
		"type":       "object",
		"properties": props,
	}
	if len(required) > 0 {
		schema["required"] = required
	}
	return schema
}

// Handler executes a tool with arguments already parsed and validated
// against the declared params. Handlers are pure: they build an instruction
// or reply, they do not perform I/O.
type Handler func(args map[string]any) (Result, error)

type entry struct {
	def     Definition
	handler Handler
}

// Catalog is the tool registry. It is populated once at startup and
// read-only afterwards, so concurrent requests share it without locking.
// Definitions are advertised in registration order.
type Catalog struct {
	order   []string
	entries map[string]entry
}

func NewCatalog() *Catalog {
	return &Catalog{entries: make(map[string]entry)}
}

// Register adds a tool. Re-registering a name overwrites the previous entry
// and keeps its original position; registration happens once at startup in a
// fixed order, so last write wins by design.
func (c *Catalog) Register(def Definition, h Handler) error {
	if def.Name == "" {
		return fmt.Errorf("tool name cannot be empty")
	}
	if h == nil {
		return fmt.Errorf("tool %q: handler cannot be nil", def.Name)
	}
	for _, p := range def.Params {
		switch p.Type {
		case TypeString, TypeNumber, TypeBoolean, TypeArray, TypeObject:
		default:
			return fmt.Errorf("tool %q: param %q has unsupported type %q", def.Name, p.Name, p.Type)
		}
	}
	if _, exists := c.entries[def.Name]; !exists {
		c.order = append(c.order, def.Name)
	}
	c.entries[def.Name] = entry{def: def, handler: h}
	return nil
}

// MustRegister panics on registration errors. Catalogs are built from static
// tables at startup, where a bad definition is a programming error.
func (c *Catalog) MustRegister(def Definition, h Handler) {
	if err := c.Register(def, h); err != nil {
		panic(err)
	}
}

// Lookup returns the handler and definition for a tool name.
func (c *Catalog) Lookup(name string) (Handler, Definition, bool) {
	e, ok := c.entries[name]
	if !ok {
		return nil, Definition{}, false
	}
	return e.handler, e.def, true
}

// Definitions returns every registered definition in registration order.
func (c *Catalog) Definitions() []Definition {
	out := make([]Definition, 0, len(c.order))
	for _, name := range c.order {
		out = append(out, c.entries[name].def)
	}
	return out
}

// LLMTools converts the catalog for advertisement to a completion provider.
func (c *Catalog) LLMTools() []llm.Tool {
	out := make([]llm.Tool, 0, len(c.order))
	for _, name := range c.order {
		def := c.entries[name].def
		out = append(out, llm.Tool{
			Name:        def.Name,
			Description: def.Description,
			Schema:      def.Schema(),
		})
	}
	return out
}

// Len returns the number of registered tools.
func (c *Catalog) Len() int {
	return len(c.order)
}
