package entity

import (
	"bufio"
	"encoding/binary"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"strconv"

	"github.com/go-echarts/go-echarts/v2/opts"
	"gonum.org/v1/gonum/floats"
)

// BinScale converts intensities to the integer samples of a .bin stream.
const BinScale = 1000

// Profile is a recorded intensity pattern I(y) along the plate.
type Profile struct {
	name    string
	values  []float64
	divisor float64
}

func NewProfile(name string, values []float64, divisor float64) (*Profile, error) {
	if name == "" {
		return nil, errors.New("name is empty")
	}
	if len(values) == 0 {
		return nil, errors.New("profile is empty")
	}
	if divisor <= 0 || math.IsNaN(divisor) || math.IsInf(divisor, 0) {
		return nil, fmt.Errorf("invalid divisor: %v", divisor)
	}
	return &Profile{name: name, values: values, divisor: divisor}, nil
}

func (p *Profile) Name() string {
	return p.name
}

func (p *Profile) Values() []float64 {
	return p.values
}

func (p *Profile) Divisor() float64 {
	return p.divisor
}

// Normalized is the profile divided by its display divisor.
func (p *Profile) Normalized() []float64 {
	norm := make([]float64, len(p.values))
	floats.ScaleTo(norm, 1/p.divisor, p.values)
	return norm
}

// Data is the normalized profile as chart points.
func (p *Profile) Data() []opts.LineData {
	norm := p.Normalized()
	data := make([]opts.LineData, len(norm))
	for i, v := range norm {
		data[i] = opts.LineData{Value: v}
	}
	return data
}

type Stats struct {
	Min, Max, Mean float64
}

func (p *Profile) Stats() Stats {
	return Stats{
		Min:  floats.Min(p.values),
		Max:  floats.Max(p.values),
		Mean: floats.Sum(p.values) / float64(len(p.values)),
	}
}

// WriteBin writes the profile as big-endian 8-byte integer samples scaled
// by BinScale.
func (p *Profile) WriteBin(w io.Writer) error {
	bw := bufio.NewWriter(w)
	values := [8]byte{}
	for _, v := range p.values {
		binary.BigEndian.PutUint64(values[:], uint64(int64(math.Round(v*BinScale))))
		if _, err := bw.Write(values[:]); err != nil {
			return fmt.Errorf("failed to write sample: %w", err)
		}
	}
	return bw.Flush()
}

// ReadProfile reads a stream written by WriteBin. The divisor is the
// maximum of the samples.
func ReadProfile(name string, r io.Reader) (*Profile, error) {
	br := bufio.NewReader(r)
	values := [8]byte{}
	samples := make([]float64, 0, 1<<9)
	for {
		_, err := io.ReadFull(br, values[:])
		if err != nil {
			if err == io.EOF {
				break
			}
			return nil, fmt.Errorf("failed to read values: %w", err)
		}
		samples = append(samples, float64(int64(binary.BigEndian.Uint64(values[:])))/BinScale)
	}
	if len(samples) == 0 {
		return nil, errors.New("stream has no samples")
	}
	divisor := floats.Max(samples)
	if divisor <= 0 {
		divisor = 1
	}
	return NewProfile(name, samples, divisor)
}

// WriteCSV writes position, intensity and normalized intensity rows.
func (p *Profile) WriteCSV(w io.Writer) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"y", "intensity", "normalized"}); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}
	norm := p.Normalized()
	for i, v := range p.values {
		row := []string{
			strconv.Itoa(i),
			strconv.FormatFloat(v, 'g', -1, 64),
			strconv.FormatFloat(norm[i], 'g', -1, 64),
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("failed to write row %d: %w", i, err)
		}
	}
	cw.Flush()
	return cw.Error()
}
