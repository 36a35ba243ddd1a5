// Package geo holds the map-control tool catalog. Every handler is inert: it
// builds a JSON instruction for a remote mapping client to carry out, it does
// not touch a map itself.
package geo

import (
	"github.com/opengeos/geoagent/pkg/configutil"
	"github.com/opengeos/geoagent/pkg/tools"
)

// SystemPrompt steers the model toward a single minimal tool call.
const SystemPrompt = "You are a map control agent. Translate the user's request into a single tool call. " +
	"Call ONE tool with MINIMAL parameters only."

// ChatAction tags free-text replies in the map variant's result shape.
const ChatAction = "chat_response"

// NewCatalog builds the map-control catalog. Registration order is fixed;
// it determines the order tools are advertised to the model.
func NewCatalog() *tools.Catalog {
	c := tools.NewCatalog()

	// Core navigation.
	c.MustRegister(tools.Definition{
		Name:        "fly_to",
		Description: "Fly to longitude, latitude.",
		Params: []tools.Param{
			{Name: "longitude", Type: tools.TypeNumber, Required: true},
			{Name: "latitude", Type: tools.TypeNumber, Required: true},
			{Name: "zoom", Type: tools.TypeNumber},
		},
	}, flyTo)
	c.MustRegister(tools.Definition{
		Name:        "zoom_to",
		Description: "Zoom the map to a specific level.",
		Params: []tools.Param{
			{Name: "zoom", Type: tools.TypeNumber, Required: true},
		},
	}, zoomTo)

	// Layer management.
	c.MustRegister(tools.Definition{
		Name:        "add_basemap",
		Description: "Add a basemap by name.",
		Params: []tools.Param{
			{Name: "name", Type: tools.TypeString, Required: true},
		},
	}, addBasemap)
	c.MustRegister(tools.Definition{
		Name:        "add_cog_layer",
		Description: "Add a COG layer by URL.",
		Params: []tools.Param{
			{Name: "url", Type: tools.TypeString, Required: true},
			{Name: "name", Type: tools.TypeString},
			{Name: "opacity", Type: tools.TypeNumber},
			{Name: "bands", Type: tools.TypeArray, Items: tools.TypeNumber},
		},
	}, addCOGLayer)
	c.MustRegister(tools.Definition{
		Name:        "add_vector",
		Description: "Add a vector dataset.",
		Params: []tools.Param{
			{Name: "data", Type: tools.TypeString, Required: true},
			{Name: "name", Type: tools.TypeString},
		},
	}, addVector)
	c.MustRegister(tools.Definition{
		Name:        "remove_layer",
		Description: "Remove a layer by name.",
		Params: []tools.Param{
			{Name: "name", Type: tools.TypeString, Required: true},
		},
	}, removeLayer)
	c.MustRegister(tools.Definition{
		Name:        "get_layer_names",
		Description: "Get the names of all layers.",
	}, getLayerNames)

	// 3D and styling.
	c.MustRegister(tools.Definition{
		Name:        "set_terrain",
		Description: "Set terrain exaggeration.",
		Params: []tools.Param{
			{Name: "exaggeration", Type: tools.TypeNumber},
		},
	}, setTerrain)
	c.MustRegister(tools.Definition{
		Name:        "remove_terrain",
		Description: "Remove terrain.",
	}, removeTerrain)
	c.MustRegister(tools.Definition{
		Name:        "set_pitch",
		Description: "Set the map pitch.",
		Params: []tools.Param{
			{Name: "pitch", Type: tools.TypeNumber, Required: true},
		},
	}, setPitch)
	c.MustRegister(tools.Definition{
		Name:        "set_opacity",
		Description: "Set layer opacity.",
		Params: []tools.Param{
			{Name: "name", Type: tools.TypeString, Required: true},
			{Name: "opacity", Type: tools.TypeNumber, Required: true},
		},
	}, setOpacity)

	// Map setup and styling extras.
	c.MustRegister(tools.Definition{
		Name:        "create_map",
		Description: "Create or reset the map.",
		Params: []tools.Param{
			{Name: "center_lat", Type: tools.TypeNumber},
			{Name: "center_lon", Type: tools.TypeNumber},
			{Name: "zoom", Type: tools.TypeNumber},
			{Name: "style", Type: tools.TypeString},
			{Name: "projection", Type: tools.TypeString},
		},
	}, createMap)
	c.MustRegister(tools.Definition{
		Name:        "add_marker",
		Description: "Add a marker at lng, lat.",
		Params: []tools.Param{
			{Name: "lng_lat", Type: tools.TypeArray, Items: tools.TypeNumber, Required: true},
			{Name: "popup", Type: tools.TypeString},
		},
	}, addMarker)
	c.MustRegister(tools.Definition{
		Name:        "set_color",
		Description: "Set the color of a layer.",
		Params: []tools.Param{
			{Name: "name", Type: tools.TypeString, Required: true},
			{Name: "color", Type: tools.TypeString, Required: true},
		},
	}, setColor)
	c.MustRegister(tools.Definition{
		Name:        "set_visibility",
		Description: "Show or hide a layer.",
		Params: []tools.Param{
			{Name: "name", Type: tools.TypeString, Required: true},
			{Name: "visible", Type: tools.TypeBoolean, Required: true},
		},
	}, setVisibility)
	c.MustRegister(tools.Definition{
		Name:        "set_paint_property",
		Description: "Set a paint property of a layer.",
		Params: []tools.Param{
			{Name: "name", Type: tools.TypeString, Required: true},
			{Name: "prop", Type: tools.TypeString, Required: true},
			{Name: "value", Type: tools.TypeString, Required: true},
		},
	}, setPaintProperty)
	c.MustRegister(tools.Definition{
		Name:        "set_layout_property",
		Description: "Set a layout property of a layer.",
		Params: []tools.Param{
			{Name: "name", Type: tools.TypeString, Required: true},
			{Name: "prop", Type: tools.TypeString, Required: true},
			{Name: "value", Type: tools.TypeString, Required: true},
		},
	}, setLayoutProperty)
	c.MustRegister(tools.Definition{
		Name:         "add_overture_3d_buildings",
		Description:  "Add 3D buildings from Overture Maps.",
		AllowUnknown: true,
	}, addOverture3DBuildings)

	return c
}

func flyTo(args map[string]any) (tools.Result, error) {
	in := struct {
		Longitude float64 `mapstructure:"longitude"`
		Latitude  float64 `mapstructure:"latitude"`
		Zoom      float64 `mapstructure:"zoom"`
	}{Zoom: 12}
	if err := configutil.DecodeSettings(args, &in); err != nil {
		return tools.Result{}, err
	}
	return tools.ActionResult("fly_to", map[string]any{
		"longitude": in.Longitude,
		"latitude":  in.Latitude,
		"zoom":      in.Zoom,
	}), nil
}

func zoomTo(args map[string]any) (tools.Result, error) {
	in := struct {
		Zoom float64 `mapstructure:"zoom"`
	}{}
	if err := configutil.DecodeSettings(args, &in); err != nil {
		return tools.Result{}, err
	}
	return tools.ActionResult("zoom_to", map[string]any{"zoom": in.Zoom}), nil
}

func addBasemap(args map[string]any) (tools.Result, error) {
	in := struct {
		Name string `mapstructure:"name"`
	}{}
	if err := configutil.DecodeSettings(args, &in); err != nil {
		return tools.Result{}, err
	}
	return tools.ActionResult("add_basemap", map[string]any{"name": in.Name}), nil
}

func addCOGLayer(args map[string]any) (tools.Result, error) {
	in := struct {
		URL     string  `mapstructure:"url"`
		Name    *string `mapstructure:"name"`
		Opacity float64 `mapstructure:"opacity"`
		Bands   []int   `mapstructure:"bands"`
	}{Opacity: 1.0}
	if err := configutil.DecodeSettings(args, &in); err != nil {
		return tools.Result{}, err
	}
	return tools.ActionResult("add_cog_layer", map[string]any{
		"url":     in.URL,
		"name":    in.Name,
		"opacity": in.Opacity,
		"bands":   in.Bands,
	}), nil
}

func addVector(args map[string]any) (tools.Result, error) {
	in := struct {
		Data string  `mapstructure:"data"`
		Name *string `mapstructure:"name"`
	}{}
	if err := configutil.DecodeSettings(args, &in); err != nil {
		return tools.Result{}, err
	}
	return tools.ActionResult("add_vector", map[string]any{
		"data": in.Data,
		"name": in.Name,
	}), nil
}

func removeLayer(args map[string]any) (tools.Result, error) {
	in := struct {
		Name string `mapstructure:"name"`
	}{}
	if err := configutil.DecodeSettings(args, &in); err != nil {
		return tools.Result{}, err
	}
	return tools.ActionResult("remove_layer", map[string]any{"name": in.Name}), nil
}

func getLayerNames(map[string]any) (tools.Result, error) {
	return tools.ActionResult("get_layer_names", map[string]any{}), nil
}

func setTerrain(args map[string]any) (tools.Result, error) {
	in := struct {
		Exaggeration float64 `mapstructure:"exaggeration"`
	}{Exaggeration: 1.0}
	if err := configutil.DecodeSettings(args, &in); err != nil {
		return tools.Result{}, err
	}
	return tools.ActionResult("set_terrain", map[string]any{"exaggeration": in.Exaggeration}), nil
}

func removeTerrain(map[string]any) (tools.Result, error) {
	return tools.ActionResult("remove_terrain", map[string]any{}), nil
}

func setPitch(args map[string]any) (tools.Result, error) {
	in := struct {
		Pitch float64 `mapstructure:"pitch"`
	}{}
	if err := configutil.DecodeSettings(args, &in); err != nil {
		return tools.Result{}, err
	}
	return tools.ActionResult("set_pitch", map[string]any{"pitch": in.Pitch}), nil
}

func setOpacity(args map[string]any) (tools.Result, error) {
	in := struct {
		Name    string  `mapstructure:"name"`
		Opacity float64 `mapstructure:"opacity"`
	}{}
	if err := configutil.DecodeSettings(args, &in); err != nil {
		return tools.Result{}, err
	}
	return tools.ActionResult("set_opacity", map[string]any{
		"name":    in.Name,
		"opacity": in.Opacity,
	}), nil
}

func createMap(args map[string]any) (tools.Result, error) {
	in := struct {
		CenterLat  float64 `mapstructure:"center_lat"`
		CenterLon  float64 `mapstructure:"center_lon"`
		Zoom       float64 `mapstructure:"zoom"`
		Style      string  `mapstructure:"style"`
		Projection string  `mapstructure:"projection"`
	}{CenterLat: 20.0, Zoom: 2, Style: "liberty", Projection: "globe"}
	if err := configutil.DecodeSettings(args, &in); err != nil {
		return tools.Result{}, err
	}
	return tools.ActionResult("create_map", map[string]any{
		"center":     []float64{in.CenterLon, in.CenterLat},
		"zoom":       in.Zoom,
		"style":      in.Style,
		"projection": in.Projection,
	}), nil
}

func addMarker(args map[string]any) (tools.Result, error) {
	in := struct {
		LngLat []float64 `mapstructure:"lng_lat"`
		Popup  *string   `mapstructure:"popup"`
	}{}
	if err := configutil.DecodeSettings(args, &in); err != nil {
		return tools.Result{}, err
	}
	return tools.ActionResult("add_marker", map[string]any{
		"lng_lat": in.LngLat,
		"popup":   in.Popup,
	}), nil
}

func setColor(args map[string]any) (tools.Result, error) {
	in := struct {
		Name  string `mapstructure:"name"`
		Color string `mapstructure:"color"`
	}{}
	if err := configutil.DecodeSettings(args, &in); err != nil {
		return tools.Result{}, err
	}
	return tools.ActionResult("set_color", map[string]any{
		"name":  in.Name,
		"color": in.Color,
	}), nil
}

func setVisibility(args map[string]any) (tools.Result, error) {
	in := struct {
		Name    string `mapstructure:"name"`
		Visible bool   `mapstructure:"visible"`
	}{}
	if err := configutil.DecodeSettings(args, &in); err != nil {
		return tools.Result{}, err
	}
	return tools.ActionResult("set_visibility", map[string]any{
		"name":    in.Name,
		"visible": in.Visible,
	}), nil
}

func setPaintProperty(args map[string]any) (tools.Result, error) {
	return setLayerProperty("set_paint_property", args)
}

func setLayoutProperty(args map[string]any) (tools.Result, error) {
	return setLayerProperty("set_layout_property", args)
}

func setLayerProperty(action string, args map[string]any) (tools.Result, error) {
	in := struct {
		Name  string `mapstructure:"name"`
		Prop  string `mapstructure:"prop"`
		Value any    `mapstructure:"value"`
	}{}
	if err := configutil.DecodeSettings(args, &in); err != nil {
		return tools.Result{}, err
	}
	return tools.ActionResult(action, map[string]any{
		"name":  in.Name,
		"prop":  in.Prop,
		"value": in.Value,
	}), nil
}

func addOverture3DBuildings(args map[string]any) (tools.Result, error) {
	payload := make(map[string]any, len(args))
	for k, v := range args {
		payload[k] = v
	}
	return tools.ActionResult("add_overture_3d_buildings", payload), nil
}
