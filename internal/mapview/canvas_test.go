package mapview_test

import (
	"encoding/json"
	"testing"

	"github.com/UnknownOlympus/lifeline/internal/mapview"
	"github.com/UnknownOlympus/lifeline/internal/models"
	"github.com/paulmach/orb/geojson"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCanvas(t *testing.T) {
	canvas := mapview.NewCanvas()
	canvas.DrawMarkers([]mapview.Marker{
		{ID: "user", Kind: mapview.MarkerUser, Label: "You are here", Position: user},
		{ID: "hospital:1", Kind: mapview.MarkerHospital, Label: "A", Position: hospitalA.Coordinates(), Muted: true},
	})

	layer, err := canvas.DrawRoute(routeTo(hospitalA))
	require.NoError(t, err)
	canvas.FitBounds(user, hospitalA.Coordinates())

	data, err := json.Marshal(canvas)
	require.NoError(t, err)

	fc, err := geojson.UnmarshalFeatureCollection(data)
	require.NoError(t, err)
	require.Len(t, fc.Features, 3)
	assert.Equal(t, "user", fc.Features[0].ID)
	assert.Equal(t, "Point", fc.Features[0].Geometry.GeoJSONType())
	assert.Equal(t, true, fc.Features[1].Properties["muted"])
	assert.Equal(t, "LineString", fc.Features[2].Geometry.GeoJSONType())
	assert.Equal(t, "route", fc.Features[2].Properties["kind"])
	assert.Len(t, fc.BBox, 4)

	layer.Detach()
	layer.Detach()
	assert.Equal(t, 0, canvas.ActiveLayers())
	assert.Len(t, canvas.FeatureCollection().Features, 2)
}

func TestCanvas_DrawRouteRejectsEmptyPath(t *testing.T) {
	canvas := mapview.NewCanvas()

	_, err := canvas.DrawRoute(&models.Route{Path: []models.Coordinates{user}})

	require.ErrorIs(t, err, mapview.ErrEmptyRoute)
	assert.Equal(t, 0, canvas.ActiveLayers())
}
