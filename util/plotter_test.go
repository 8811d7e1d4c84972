package util

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"zoo-assistant/models/venue"
)

func TestPlotVenues(t *testing.T) {
	path := filepath.Join(t.TempDir(), "venues.html")
	venues := []venue.Venue{
		{VenueName: "大貓熊館", Category: "室內館", VenueLat: 24.996, VenueLon: 121.584, HasCoords: true},
		{VenueName: "企鵝館", Category: "室內館", VenueLat: 24.990, VenueLon: 121.590, HasCoords: true},
		{VenueName: "無座標館", Category: "室內館"},
	}

	require.NoError(t, PlotVenues(venues, path))

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Positive(t, info.Size())
}

func TestVenueSeries(t *testing.T) {
	venues := []venue.Venue{
		{VenueName: "企鵝館", Category: "室內館", VenueLat: 24.990, VenueLon: 121.590, HasCoords: true},
		{VenueName: "非洲區", VenueLat: 24.993, VenueLon: 121.588, HasCoords: true},
		{VenueName: "大貓熊館", Category: "室內館", VenueLat: 24.996, VenueLon: 121.584, HasCoords: true},
		{VenueName: "無座標館", Category: "室內館"},
	}

	order, series := venueSeries(venues)

	assert.Equal(t, []string{"室內館", uncategorized}, order)
	require.Len(t, series["室內館"], 2)
	assert.Equal(t, "企鵝館", series["室內館"][0].Name)
	assert.Equal(t, []float64{121.584, 24.996}, series["室內館"][1].Value)
	assert.Len(t, series[uncategorized], 1)
}

func TestPlotVenues_NothingToPlot(t *testing.T) {
	path := filepath.Join(t.TempDir(), "venues.html")

	err := PlotVenues([]venue.Venue{{VenueName: "無座標館"}}, path)

	assert.Error(t, err)
	assert.NoFileExists(t, path)
}
