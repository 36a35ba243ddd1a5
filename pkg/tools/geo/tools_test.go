package geo

import (
	"encoding/json"
	"testing"

	"github.com/opengeos/geoagent/pkg/tools"
)

func invoke(t *testing.T, c *tools.Catalog, name string, args map[string]any) tools.Result {
	t.Helper()
	h, def, ok := c.Lookup(name)
	if !ok {
		t.Fatalf("tool %q not registered", name)
	}
	if err := tools.ValidateArgs(def, args); err != nil {
		t.Fatalf("args rejected for %q: %v", name, err)
	}
	res, err := h(args)
	if err != nil {
		t.Fatalf("invoke %q: %v", name, err)
	}
	return res
}

func TestEveryToolHasHandlerAndSchema(t *testing.T) {
	c := NewCatalog()
	defs := c.Definitions()
	if len(defs) != c.Len() {
		t.Fatalf("definitions/catalog size mismatch")
	}
	for _, def := range defs {
		h, got, ok := c.Lookup(def.Name)
		if !ok || h == nil {
			t.Fatalf("tool %q has no handler", def.Name)
		}
		if len(got.Params) != len(def.Params) {
			t.Fatalf("tool %q definition mismatch", def.Name)
		}
		schema := def.Schema()
		if schema["type"] != "object" {
			t.Fatalf("tool %q schema is not an object", def.Name)
		}
	}
}

func TestCoreCatalogContents(t *testing.T) {
	c := NewCatalog()
	core := []string{
		"fly_to", "zoom_to",
		"add_basemap", "add_cog_layer", "add_vector", "remove_layer", "get_layer_names",
		"set_terrain", "remove_terrain", "set_pitch", "set_opacity",
	}
	defs := c.Definitions()
	for i, name := range core {
		if defs[i].Name != name {
			t.Fatalf("position %d: expected %s, got %s", i, name, defs[i].Name)
		}
	}
}

func TestZoomToExactResult(t *testing.T) {
	res := invoke(t, NewCatalog(), "zoom_to", map[string]any{"zoom": float64(5)})
	raw, err := json.Marshal(res)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if want := `{"action":"zoom_to","payload":{"zoom":5}}`; string(raw) != want {
		t.Fatalf("expected %s, got %s", want, raw)
	}
}

func TestFlyToDefaultZoom(t *testing.T) {
	res := invoke(t, NewCatalog(), "fly_to", map[string]any{
		"longitude": -122.4, "latitude": 37.77,
	})
	if res.Payload["zoom"] != float64(12) {
		t.Fatalf("expected default zoom 12, got %v", res.Payload["zoom"])
	}
	if res.Payload["longitude"] != -122.4 || res.Payload["latitude"] != 37.77 {
		t.Fatalf("unexpected payload: %v", res.Payload)
	}
}

func TestAddCOGLayerOptionalFieldsAreNull(t *testing.T) {
	res := invoke(t, NewCatalog(), "add_cog_layer", map[string]any{
		"url": "https://example.com/scene.tif",
	})
	raw, err := json.Marshal(res)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	want := `{"action":"add_cog_layer","payload":{"bands":null,"name":null,"opacity":1,"url":"https://example.com/scene.tif"}}`
	if string(raw) != want {
		t.Fatalf("expected %s, got %s", want, raw)
	}
}

func TestGetLayerNamesEmptyPayload(t *testing.T) {
	res := invoke(t, NewCatalog(), "get_layer_names", map[string]any{})
	raw, _ := json.Marshal(res)
	if want := `{"action":"get_layer_names","payload":{}}`; string(raw) != want {
		t.Fatalf("expected %s, got %s", want, raw)
	}
}

func TestSetTerrainDefaultExaggeration(t *testing.T) {
	res := invoke(t, NewCatalog(), "set_terrain", map[string]any{})
	if res.Payload["exaggeration"] != float64(1) {
		t.Fatalf("expected default exaggeration 1.0, got %v", res.Payload["exaggeration"])
	}
}

func TestCreateMapDefaults(t *testing.T) {
	res := invoke(t, NewCatalog(), "create_map", map[string]any{})
	center, ok := res.Payload["center"].([]float64)
	if !ok || len(center) != 2 || center[0] != 0 || center[1] != 20 {
		t.Fatalf("expected default center [0 20], got %v", res.Payload["center"])
	}
	if res.Payload["style"] != "liberty" || res.Payload["projection"] != "globe" {
		t.Fatalf("unexpected defaults: %v", res.Payload)
	}
}

func TestFlyToRequiresCoordinates(t *testing.T) {
	c := NewCatalog()
	_, def, _ := c.Lookup("fly_to")
	if err := tools.ValidateArgs(def, map[string]any{}); err == nil {
		t.Fatalf("expected empty args to fail required-param validation")
	}
}

func TestOverturePassthrough(t *testing.T) {
	res := invoke(t, NewCatalog(), "add_overture_3d_buildings", map[string]any{
		"release": "2024-05", "opacity": 0.8,
	})
	if res.Payload["release"] != "2024-05" || res.Payload["opacity"] != 0.8 {
		t.Fatalf("expected pass-through payload, got %v", res.Payload)
	}
}
