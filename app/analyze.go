package app

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-echarts/go-echarts/v2/components"
	log "github.com/sirupsen/logrus"

	"github.com/AnkushinDaniil/hologram/entity"
	"github.com/AnkushinDaniil/hologram/interference"
	"github.com/AnkushinDaniil/hologram/visibility"
)

// Recorded is one exported profile stream read back from disk.
type Recorded struct {
	Profile    *entity.Profile
	Window     int
	Visibility []float64
}

// AnalyzeFiles charts the intensity and fringe visibility of every .bin
// stream at source, a file or a directory. A window below 1 uses the
// dominant fringe period of each stream.
func AnalyzeFiles(source, output string, window int) error {
	appTime := time.Now()
	defer func() {
		log.WithField("time", time.Since(appTime)).Debug("Analysis finished")
	}()
	log.WithFields(log.Fields{
		"source": source,
		"output": output,
		"window": window,
	}).Debug("Analysis started")

	filePaths, err := getFilenames(source)
	if err != nil {
		return fmt.Errorf("failed to get filenames: %w", err)
	}

	recorded, err := readRecorded(filePaths, window)
	if err != nil {
		return fmt.Errorf("failed to read streams: %w", err)
	}

	page := components.NewPage()
	page.SetPageTitle(pageTitle)
	page.AddCharts(recordedCharts(recorded)...)
	log.Info("Charts created")

	f, err := os.Create(output)
	if err != nil {
		return fmt.Errorf("failed to create file: %w", err)
	}
	defer f.Close()

	renderTime := time.Now()
	if err := page.Render(f); err != nil {
		return fmt.Errorf("failed to render chart: %w", err)
	}
	log.WithField("time", time.Since(renderTime)).Info("Chart rendered and saved")
	return nil
}

func getFilenames(source string) ([]string, error) {
	dir, err := os.Open(source)
	if err != nil {
		return nil, fmt.Errorf("failed to open source: %w", err)
	}
	defer dir.Close()

	fileInfo, err := dir.Stat()
	if err != nil {
		return nil, fmt.Errorf("failed to get file info: %w", err)
	}

	filePaths := make([]string, 0)

	if fileInfo.IsDir() {
		files, err := dir.ReadDir(0)
		if err != nil {
			return nil, fmt.Errorf("failed to read directory: %w", err)
		}
		for _, file := range files {
			if !file.IsDir() && filepath.Ext(file.Name()) == ".bin" {
				filePaths = append(filePaths, filepath.Join(source, file.Name()))
				log.WithField("name", file.Name()).Debug("Found file")
			}
		}
	} else if filepath.Ext(fileInfo.Name()) == ".bin" {
		filePaths = append(filePaths, source)
		log.WithField("name", fileInfo.Name()).Debug("Found file")
	}

	if len(filePaths) == 0 {
		return nil, fmt.Errorf("no .bin files found in %s", source)
	}

	return filePaths, nil
}

func readRecorded(filePaths []string, window int) ([]*Recorded, error) {
	recorded := make([]*Recorded, 0, len(filePaths))
	for _, filePath := range filePaths {
		log.WithField("name", filePath).Debug("Reading stream")
		data, err := os.ReadFile(filePath)
		if err != nil {
			return nil, fmt.Errorf("failed to read %s: %w", filePath, err)
		}
		name := strings.TrimSuffix(filepath.Base(filePath), filepath.Ext(filePath))
		profile, err := entity.ReadProfile(name, bytes.NewReader(data))
		if err != nil {
			return nil, fmt.Errorf("failed to read profile %s: %w", filePath, err)
		}

		w := window
		if w < 1 {
			w = int(interference.CarrierPeriod(profile.Values()) + 0.5)
			if w < 2 {
				w = len(profile.Values())
			}
		}
		vis, err := visibility.FromStream(bytes.NewReader(data), w)
		if err != nil {
			return nil, fmt.Errorf("failed to compute visibility of %s: %w", filePath, err)
		}
		peak, _ := visibility.Max(vis)
		log.WithFields(log.Fields{
			"name":       name,
			"samples":    len(profile.Values()),
			"window":     w,
			"visibility": peak,
		}).Info("Stream analyzed")
		recorded = append(recorded, &Recorded{Profile: profile, Window: w, Visibility: vis})
	}
	return recorded, nil
}

func recordedCharts(recorded []*Recorded) []components.Charter {
	intensity := make([]series, len(recorded))
	contrast := make([]series, len(recorded))
	for i, r := range recorded {
		intensity[i] = series{name: r.Profile.Name(), data: r.Profile.Data()}
		contrast[i] = series{name: fmt.Sprintf("Visibility %s", r.Profile.Name()), data: lineData(r.Visibility)}
	}
	first := recorded[0]
	return []components.Charter{
		createChart(
			"Recorded intensity",
			"Position y, px",
			"Normalized intensity",
			positions(len(first.Profile.Values()), 1),
			intensity...,
		),
		createChart(
			"Fringe visibility",
			"Position y, px",
			"Visibility",
			positions(len(first.Visibility), float64(first.Window)),
			contrast...,
		),
	}
}
