package render

import (
	"bufio"
	"errors"
	"fmt"
	"math"
	"os"
	"path/filepath"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
	"gonum.org/v1/plot/vg/vgimg"

	"github.com/roach88/corona/internal/snapshot"
)

// Chart file names written by All.
const (
	FieldFile    = "field.png"
	SamplesFile  = "samples.png"
	VelocityFile = "velocity.png"
)

// Raster size of every chart.
const (
	widthIn  = 8.0
	heightIn = 5.0
	dpi      = 96
)

// velocityBins is the histogram bin count for particle velocities.
const velocityBins = 20

// ErrNoData is returned when a chart has nothing to draw.
var ErrNoData = errors.New("render: nothing to plot")

// All writes every chart for snap into dir and returns the written paths.
// Charts without data are skipped.
func All(snap snapshot.Snapshot, dir string) ([]string, error) {
	charts := []struct {
		file string
		draw func(snapshot.Snapshot, string) error
	}{
		{FieldFile, FieldProfile},
		{SamplesFile, func(s snapshot.Snapshot, path string) error { return TimeSeries(s.Samples, path) }},
		{VelocityFile, VelocityHistogram},
	}

	var written []string
	for _, c := range charts {
		path := filepath.Join(dir, c.file)
		err := c.draw(snap, path)
		if errors.Is(err, ErrNoData) {
			continue
		}
		if err != nil {
			return written, fmt.Errorf("render %s: %w", c.file, err)
		}
		written = append(written, path)
	}
	return written, nil
}

// FieldProfile draws the final field strength against the cell index.
func FieldProfile(snap snapshot.Snapshot, path string) error {
	if len(snap.Field) == 0 {
		return ErrNoData
	}

	p := plot.New()
	p.Title.Text = "Magnetic field strength"
	p.X.Label.Text = "cell"
	p.Y.Label.Text = "B"
	stylePlot(p)

	pts := make(plotter.XYs, len(snap.Field))
	for i, b := range snap.Field {
		pts[i].X = float64(i)
		pts[i].Y = b
	}

	line, err := plotter.NewLine(pts)
	if err != nil {
		return fmt.Errorf("cannot create line plot: %w", err)
	}
	line.LineStyle.Width = vg.Points(1.5)
	p.Add(line)

	return savePNG(p, path)
}

// TimeSeries draws the average field strength against elapsed time.
func TimeSeries(samples []snapshot.Sample, path string) error {
	if len(samples) == 0 {
		return ErrNoData
	}

	p := plot.New()
	p.Title.Text = "Average field strength"
	p.X.Label.Text = "time"
	p.Y.Label.Text = "mean B"
	stylePlot(p)

	pts := make(plotter.XYs, len(samples))
	for i, s := range samples {
		pts[i].X = s.Time
		pts[i].Y = s.Average
	}

	line, points, err := plotter.NewLinePoints(pts)
	if err != nil {
		return fmt.Errorf("cannot create line plot: %w", err)
	}
	line.LineStyle.Width = vg.Points(1.5)
	points.Shape = draw.CircleGlyph{}
	p.Add(line, points)

	return savePNG(p, path)
}

// VelocityHistogram draws the distribution of final particle velocities.
// Returns ErrNoData when every particle has the same velocity.
func VelocityHistogram(snap snapshot.Snapshot, path string) error {
	if len(snap.Particles) == 0 {
		return ErrNoData
	}

	values := make(plotter.Values, len(snap.Particles))
	for i, ps := range snap.Particles {
		values[i] = ps.Velocity
	}
	if floats.Min(values) == floats.Max(values) {
		return ErrNoData
	}

	p := plot.New()
	p.Title.Text = "Particle velocities"
	p.X.Label.Text = "velocity"
	p.Y.Label.Text = "count"
	stylePlot(p)

	hist, err := plotter.NewHist(values, velocityBins)
	if err != nil {
		return fmt.Errorf("cannot create histogram: %w", err)
	}
	p.Add(hist)

	return savePNG(p, path)
}

// limitedTicker produces at most maxLabels evenly spaced tick labels.
func limitedTicker(maxLabels int, labelFmt string) plot.Ticker {
	if maxLabels < 2 {
		maxLabels = 2
	}
	return plot.TickerFunc(func(min, max float64) []plot.Tick {
		if math.IsNaN(min) || math.IsNaN(max) || math.IsInf(min, 0) || math.IsInf(max, 0) {
			return nil
		}
		if min == max {
			return []plot.Tick{{Value: min, Label: fmt.Sprintf(labelFmt, min)}}
		}
		step := (max - min) / float64(maxLabels-1)

		ticks := make([]plot.Tick, 0, maxLabels)
		for i := 0; i < maxLabels; i++ {
			v := min + float64(i)*step
			ticks = append(ticks, plot.Tick{Value: v, Label: fmt.Sprintf(labelFmt, v)})
		}
		return ticks
	})
}

func stylePlot(p *plot.Plot) {
	p.Title.TextStyle.Font.Size = vg.Points(16)
	p.Title.Padding = vg.Points(8)
	p.X.Padding = vg.Points(10)
	p.Y.Padding = vg.Points(10)
	p.X.Tick.Marker = limitedTicker(8, "%.3g")
	p.Y.Tick.Marker = limitedTicker(8, "%.3g")
	p.Add(plotter.NewGrid())
}

// savePNG renders p to a raster canvas and writes it to path, creating the
// parent directory.
func savePNG(p *plot.Plot, path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("cannot create directory: %w", err)
	}

	c := vgimg.NewWith(
		vgimg.UseWH(vg.Length(widthIn)*vg.Inch, vg.Length(heightIn)*vg.Inch),
		vgimg.UseDPI(dpi),
	)
	p.Draw(draw.New(c))

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("cannot create png: %w", err)
	}
	defer f.Close()

	bw := bufio.NewWriter(f)
	png := vgimg.PngCanvas{Canvas: c}
	if _, err := png.WriteTo(bw); err != nil {
		return fmt.Errorf("cannot write png: %w", err)
	}
	if err := bw.Flush(); err != nil {
		return fmt.Errorf("cannot write png: %w", err)
	}
	return nil
}
