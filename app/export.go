package app

import (
	"fmt"
	"image"
	"image/gif"
	"image/png"
	"io"
	"os"
	"time"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/components"
	log "github.com/sirupsen/logrus"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"

	"github.com/AnkushinDaniil/hologram/entity/format"
	"github.com/AnkushinDaniil/hologram/render"
)

// Export file names inside the output directory.
const (
	FieldPNG          = "recording-field.png"
	InspectorPNG      = "inspector.png"
	ReconstructionPNG = "reconstruction.png"
	FieldGIF          = "recording.gif"
	ReconstructionGIF = "reconstruction.gif"
	ChartHTML         = "profile.html"
	ProfileCSV        = "profile.csv"
	ProfileBin        = "profile.bin"
	ProfilePlot       = "profile-plot.png"
)

func (a *App) export(f format.Format, s *sink, analysis *Analysis) error {
	exportTime := time.Now()
	var err error
	switch f {
	case format.Png:
		err = a.exportPNG(s)
	case format.Gif:
		err = a.exportGIF(s)
	case format.HTML:
		err = a.exportHTML(analysis)
	case format.Csv:
		err = a.create(ProfileCSV, analysis.Profile.WriteCSV)
	case format.Bin:
		err = a.create(ProfileBin, analysis.Profile.WriteBin)
	case format.Plot:
		err = a.exportPlot(analysis)
	default:
		err = fmt.Errorf("unsupported format: %s", f)
	}
	if err != nil {
		return err
	}
	log.WithFields(log.Fields{
		"format": f,
		"time":   time.Since(exportTime),
	}).Info("Exported")
	return nil
}

// create writes one output file through write.
func (a *App) create(name string, write func(w io.Writer) error) error {
	f, err := os.Create(a.path(name))
	if err != nil {
		return fmt.Errorf("failed to create file: %w", err)
	}
	if err := write(f); err != nil {
		f.Close()
		return fmt.Errorf("failed to write %s: %w", name, err)
	}
	return f.Close()
}

func (a *App) exportPNG(s *sink) error {
	images := map[string]image.Image{
		FieldPNG:          s.lastField.Flatten(),
		InspectorPNG:      a.recording.Inspector(s.params).Flatten(),
		ReconstructionPNG: s.lastRecon.Flatten(),
	}
	for name, img := range images {
		err := a.create(name, func(w io.Writer) error {
			return png.Encode(w, img)
		})
		if err != nil {
			return err
		}
	}
	return nil
}

func (a *App) exportGIF(s *sink) error {
	animations := map[string][]*image.Paletted{
		FieldGIF:          s.fieldGIF,
		ReconstructionGIF: s.reconGIF,
	}
	for name, frames := range animations {
		if len(frames) == 0 {
			return fmt.Errorf("no frames for %s", name)
		}
		delay := make([]int, len(frames))
		for i := range delay {
			delay[i] = a.Conf.GIFDelay
		}
		err := a.create(name, func(w io.Writer) error {
			return gif.EncodeAll(w, &gif.GIF{Image: frames, Delay: delay})
		})
		if err != nil {
			return err
		}
	}
	return nil
}

func (a *App) exportHTML(analysis *Analysis) error {
	page := components.NewPage()
	page.SetPageTitle(pageTitle)
	page.AddCharts(profileChart(analysis), visibilityChart(analysis))
	return a.create(ChartHTML, func(w io.Writer) error {
		return page.Render(w)
	})
}

func profileChart(analysis *Analysis) *charts.Line {
	values := analysis.Profile.Values()
	return createChart(
		"Recorded intensity along the plate",
		"Position y, px",
		"Intensity",
		positions(len(values), 1),
		series{name: analysis.Profile.Name(), data: analysis.Profile.Data()},
	)
}

func visibilityChart(analysis *Analysis) *charts.Line {
	return createChart(
		fmt.Sprintf("Fringe visibility, window %d px", analysis.Window),
		"Position y, px",
		"Visibility",
		positions(len(analysis.Visibility), float64(analysis.Window)),
		series{name: "Visibility", data: lineData(analysis.Visibility)},
	)
}

func (a *App) exportPlot(analysis *Analysis) error {
	p := plot.New()
	p.Title.Text = analysis.Profile.Name()
	p.X.Label.Text = "Position y, px"
	p.Y.Label.Text = "Normalized intensity"
	p.Add(plotter.NewGrid())

	norm := analysis.Profile.Normalized()
	xys := make(plotter.XYs, len(norm))
	for i, v := range norm {
		xys[i].X = float64(i)
		xys[i].Y = v
	}
	line, err := plotter.NewLine(xys)
	if err != nil {
		return fmt.Errorf("failed to create line: %w", err)
	}
	line.Color = render.ProfileColor
	p.Add(line)
	p.Legend.Add("I(y)", line)

	if err := p.Save(8*vg.Inch, 4*vg.Inch, a.path(ProfilePlot)); err != nil {
		return fmt.Errorf("failed to save plot: %w", err)
	}
	return nil
}
