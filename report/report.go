// SPDX-License-Identifier: MIT
// Package report writes the outcome of a run: the per-episode regret table
// and the end-of-run route summary as CSV, and the regret curves as an HTML
// line chart.
package report

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/components"
	"github.com/go-echarts/go-echarts/v2/opts"

	"github.com/katalvlaran/routechoice/sim"
	"github.com/katalvlaran/routechoice/stats"
)

// File names written by Write.
const (
	EpisodesFile = "episodes.csv"
	RoutesFile   = "routes.csv"
	ChartFile    = "regret.html"
)

// ErrNoResult indicates Write was called without a result.
var ErrNoResult = errors.New("report: result is nil")

// Options selects what Write produces.
type Options struct {
	CSV   bool
	Chart bool
	Title string
}

func ftoa(v float64) string { return strconv.FormatFloat(v, 'g', 10, 64) }

// WriteEpisodes writes one row per episode: the average travel time, the
// four global regret measures, then real and estimated regret per OD pair.
func WriteEpisodes(w io.Writer, history []stats.EpisodeStats, ods []string) error {
	cw := csv.NewWriter(w)
	header := []string{"episode", "avg_travel_time", "real", "estimated", "abs_diff", "rel_diff"}
	for _, od := range ods {
		header = append(header, od+" real", od+" estimated")
	}
	if err := cw.Write(header); err != nil {
		return fmt.Errorf("report: %w", err)
	}
	for _, row := range history {
		rec := []string{
			strconv.Itoa(row.Episode),
			ftoa(row.AvgTravelTime),
			ftoa(row.Global.Real),
			ftoa(row.Global.Estimated),
			ftoa(row.Global.AbsDiff),
			ftoa(row.Global.RelDiff),
		}
		for _, od := range ods {
			r := row.PerOD[od]
			rec = append(rec, ftoa(r.Real), ftoa(r.Estimated))
		}
		if err := cw.Write(rec); err != nil {
			return fmt.Errorf("report: %w", err)
		}
	}
	cw.Flush()

	return cw.Error()
}

// WriteRoutes writes one row per OD route with its average cost, the
// demand-normalized strategy weight and the last episode's share.
func WriteRoutes(w io.Writer, sum stats.Summary) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"od", "route", "avg_cost", "strategy", "share"}); err != nil {
		return fmt.Errorf("report: %w", err)
	}
	for _, od := range sum.ODs {
		for k, c := range od.RouteCosts {
			rec := []string{od.OD, strconv.Itoa(k), ftoa(c), ftoa(at(od.Strategy, k)), ftoa(at(od.Shares, k))}
			if err := cw.Write(rec); err != nil {
				return fmt.Errorf("report: %w", err)
			}
		}
	}
	cw.Flush()

	return cw.Error()
}

func at(s []float64, i int) float64 {
	if i < len(s) {
		return s[i]
	}
	return 0
}

// RegretChart builds the line chart of global real and estimated regret.
func RegretChart(title string, history []stats.EpisodeStats) *charts.Line {
	line := charts.NewLine()
	line.SetGlobalOptions(
		charts.WithTitleOpts(opts.Title{Title: title, Subtitle: "global regret per episode"}),
		charts.WithInitializationOpts(opts.Initialization{Theme: "shine"}),
		charts.WithTooltipOpts(opts.Tooltip{Trigger: "axis"}),
	)

	x := make([]string, len(history))
	rs := make([]opts.LineData, len(history))
	est := make([]opts.LineData, len(history))
	for i, row := range history {
		x[i] = strconv.Itoa(row.Episode)
		rs[i] = opts.LineData{Value: row.Global.Real}
		est[i] = opts.LineData{Value: row.Global.Estimated}
	}
	line.SetXAxis(x).
		AddSeries("real regret", rs).
		AddSeries("estimated regret", est)

	return line
}

// TravelTimeChart builds the line chart of the average travel time.
func TravelTimeChart(history []stats.EpisodeStats) *charts.Line {
	line := charts.NewLine()
	line.SetGlobalOptions(
		charts.WithTitleOpts(opts.Title{Title: "average travel time"}),
		charts.WithInitializationOpts(opts.Initialization{Theme: "shine"}),
	)
	x := make([]string, len(history))
	y := make([]opts.LineData, len(history))
	for i, row := range history {
		x[i] = strconv.Itoa(row.Episode)
		y[i] = opts.LineData{Value: row.AvgTravelTime}
	}
	line.SetXAxis(x).AddSeries("avg travel time", y)

	return line
}

// RenderCharts renders both charts on one HTML page.
func RenderCharts(w io.Writer, title string, history []stats.EpisodeStats) error {
	page := components.NewPage()
	page.PageTitle = title
	page.AddCharts(RegretChart(title, history), TravelTimeChart(history))
	if err := page.Render(w); err != nil {
		return fmt.Errorf("report: render: %w", err)
	}
	return nil
}

// Write stores the selected reports for res under dir and returns the paths
// it created.
func Write(dir string, res *sim.Result, ods []string, o Options) ([]string, error) {
	if res == nil {
		return nil, ErrNoResult
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("report: %w", err)
	}

	var paths []string
	emit := func(name string, fn func(io.Writer) error) error {
		p := filepath.Join(dir, name)
		f, err := os.Create(p)
		if err != nil {
			return fmt.Errorf("report: %w", err)
		}
		if err = fn(f); err != nil {
			f.Close()
			return err
		}
		if err = f.Close(); err != nil {
			return fmt.Errorf("report: %w", err)
		}
		paths = append(paths, p)
		return nil
	}

	if o.CSV {
		if err := emit(EpisodesFile, func(w io.Writer) error { return WriteEpisodes(w, res.History, ods) }); err != nil {
			return paths, err
		}
		if err := emit(RoutesFile, func(w io.Writer) error { return WriteRoutes(w, res.Summary) }); err != nil {
			return paths, err
		}
	}
	if o.Chart {
		title := o.Title
		if title == "" {
			title = "route choice"
		}
		if err := emit(ChartFile, func(w io.Writer) error { return RenderCharts(w, title, res.History) }); err != nil {
			return paths, err
		}
	}

	return paths, nil
}
