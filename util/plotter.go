package util

import (
	"fmt"
	"log"
	"os"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"

	"zoo-assistant/models/venue"
)

const uncategorized = "其他"

// PlotVenues renders the located venues as a longitude/latitude scatter
// chart, one series per category, into an HTML file at path.
func PlotVenues(venues []venue.Venue, path string) error {
	order, series := venueSeries(venues)
	if len(order) == 0 {
		return fmt.Errorf("no located venues to plot")
	}

	scatter := charts.NewScatter()
	scatter.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{
			PageTitle: "Zoo Venues Map",
			Width:     "900px",
			Height:    "700px",
		}),
		charts.WithTitleOpts(opts.Title{Title: "館區位置"}),
		charts.WithLegendOpts(opts.Legend{Show: opts.Bool(true)}),
		charts.WithXAxisOpts(opts.XAxis{Name: "經度", Type: "value", Min: "dataMin", Max: "dataMax"}),
		charts.WithYAxisOpts(opts.YAxis{Name: "緯度", Type: "value", Min: "dataMin", Max: "dataMax"}),
	)

	for _, category := range order {
		scatter.AddSeries(category, series[category],
			charts.WithLabelOpts(opts.Label{
				Show:      opts.Bool(true),
				Formatter: "{b}",
			}),
		)
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create HTML file: %w", err)
	}
	defer f.Close()

	if err := scatter.Render(f); err != nil {
		return fmt.Errorf("failed to render chart: %w", err)
	}

	log.Printf("[PlotVenues] Venue map generated: %s", path)
	return nil
}

// venueSeries groups located venues by category in first-seen order.
func venueSeries(venues []venue.Venue) ([]string, map[string][]opts.ScatterData) {
	var order []string
	series := make(map[string][]opts.ScatterData)
	for _, v := range venues {
		if !v.HasCoords {
			continue
		}
		category := v.Category
		if category == "" {
			category = uncategorized
		}
		if _, ok := series[category]; !ok {
			order = append(order, category)
		}
		series[category] = append(series[category], opts.ScatterData{
			Name:  v.VenueName,
			Value: []float64{v.VenueLon, v.VenueLat},
		})
	}
	return order, series
}
