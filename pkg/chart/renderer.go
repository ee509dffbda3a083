// Package chart renders metric time series as line charts for chat replies.
package chart

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"
	"go.uber.org/zap"

	"github.com/ekaya-inc/ekaya-groundwater/pkg/models"
)

const (
	chartDirPerm = 0o750
	chartWidth   = "900px"
	chartHeight  = "500px"
	nameHashLen  = 8
)

// Request describes a chart to draw.
type Request struct {
	Location string
	Metric   Metric
	Records  []*models.Record
}

// Renderer writes a chart and returns a reference the caller can link to.
// An empty reference with a nil error means there was nothing to plot.
type Renderer interface {
	Render(ctx context.Context, req Request) (string, error)
}

// FileRenderer writes HTML line charts into a directory served under URLPrefix.
type FileRenderer struct {
	dir       string
	urlPrefix string
	logger    *zap.Logger
}

var _ Renderer = (*FileRenderer)(nil)

// NewFileRenderer creates a renderer writing into dir. urlPrefix is prepended to
// the file name to build the returned reference.
func NewFileRenderer(dir, urlPrefix string, logger *zap.Logger) *FileRenderer {
	return &FileRenderer{
		dir:       dir,
		urlPrefix: urlPrefix,
		logger:    logger.Named("chart"),
	}
}

// Render draws req into <location>_<metric>_chart.html.
func (r *FileRenderer) Render(ctx context.Context, req Request) (string, error) {
	if len(req.Records) == 0 {
		return "", nil
	}
	if err := ctx.Err(); err != nil {
		return "", err
	}

	line := BuildLineChart(req)

	if err := os.MkdirAll(r.dir, chartDirPerm); err != nil {
		return "", fmt.Errorf("create chart dir: %w", err)
	}

	name := FileName(req.Location, req.Metric)
	if err := writeAtomic(filepath.Join(r.dir, name), line.Render); err != nil {
		return "", err
	}

	ref := joinURL(r.urlPrefix, name)
	r.logger.Debug("Chart written",
		zap.String("file", name),
		zap.String("metric", string(req.Metric)),
		zap.Int("points", len(req.Records)))
	return ref, nil
}

// BuildLineChart builds the go-echarts line chart for req without writing it.
func BuildLineChart(req Request) *charts.Line {
	series := GroupByLocation(Points(req.Records, req.Metric))
	location := req.Location
	if location == "" {
		location = "All locations"
	}

	line := charts.NewLine()
	line.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{
			PageTitle: fmt.Sprintf("%s in %s", titleCase(string(req.Metric)), location),
			Width:     chartWidth,
			Height:    chartHeight,
		}),
		charts.WithTitleOpts(opts.Title{
			Title: fmt.Sprintf("%s Over Years in %s", titleCase(string(req.Metric)), location),
			Left:  "center",
		}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true), Trigger: "axis"}),
		charts.WithLegendOpts(opts.Legend{Show: opts.Bool(true), Type: "scroll", Top: "8%"}),
		charts.WithXAxisOpts(opts.XAxis{Name: "Year"}),
		charts.WithYAxisOpts(opts.YAxis{Name: req.Metric.Label()}),
		charts.WithGridOpts(opts.Grid{Top: "20%", ContainLabel: opts.Bool(true)}),
	)
	line.SetXAxis(series.Years)

	for _, name := range series.Names {
		row := series.Values[name]
		data := make([]opts.LineData, len(row))
		for i, v := range row {
			if v == nil {
				data[i] = opts.LineData{Value: "-"}
				continue
			}
			data[i] = opts.LineData{Value: v}
		}
		line.AddSeries(name, data,
			charts.WithLineChartOpts(opts.LineChart{ShowSymbol: opts.Bool(true), ConnectNulls: opts.Bool(false)}),
		)
	}

	return line
}

// FileName derives the chart file name from the location and metric. When the
// location had to be sanitized a short hash of the raw name is added, so names
// differing only in separators never share a file.
func FileName(location string, metric Metric) string {
	safe := strings.Map(func(r rune) rune {
		switch r {
		case ' ', '/', '\\', ':', '.':
			return '_'
		}
		return r
	}, location)
	if safe == "" {
		safe = "all"
	}
	if safe != location && location != "" {
		sum := sha256.Sum256([]byte(location))
		safe += "_" + hex.EncodeToString(sum[:])[:nameHashLen]
	}
	return fmt.Sprintf("%s_%s_chart.html", safe, metric)
}

// writeAtomic renders into a temp file next to path and renames it into place,
// so a half-written chart is never served.
func writeAtomic(path string, render func(w io.Writer) error) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), ".chart-*.tmp")
	if err != nil {
		return fmt.Errorf("create temp chart file: %w", err)
	}
	tmpName := tmp.Name()

	if err := render(tmp); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("render chart: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("close chart file: %w", err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("move chart into place: %w", err)
	}
	return nil
}

func joinURL(prefix, name string) string {
	if prefix == "" {
		return name
	}
	return strings.TrimSuffix(prefix, "/") + "/" + name
}

func titleCase(s string) string {
	s = strings.ReplaceAll(s, "_", " ")
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
