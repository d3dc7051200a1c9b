// Package visibility measures fringe contrast (max-min)/(max+min) over
// consecutive windows of a sampled intensity signal.
package visibility

import (
	"bufio"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"math"
	"sync"
)

// SampleSize is the byte length of one big-endian sample in a stream.
const SampleSize = 8

var ErrWindow = errors.New("window must be positive")

// Windowed returns one visibility value per full window of values.
// A trailing partial window is dropped.
func Windowed(values []float64, window int) ([]float64, error) {
	if window < 1 {
		return nil, ErrWindow
	}
	return pipeline(values, 0, window), nil
}

// FromStream reads big-endian 8-byte signed samples from r and returns
// their windowed visibility. Samples are shifted so that the smallest
// negative sample becomes zero.
func FromStream(r io.Reader, window int) ([]float64, error) {
	if window < 1 {
		return nil, ErrWindow
	}
	samples, err := readValues(bufio.NewReader(r))
	if err != nil {
		return nil, fmt.Errorf("failed to read values: %w", err)
	}
	minimum := 0.0
	for _, v := range samples {
		if v < minimum {
			minimum = v
		}
	}
	return pipeline(samples, minimum, window), nil
}

// pipeline feeds samples through a producer goroutine into calculate and
// collects one visibility per full window.
func pipeline(samples []float64, offset float64, window int) []float64 {
	valueChan := make(chan float64, 1<<10)
	visibilityChan := make(chan float64, 1<<10)

	var wg sync.WaitGroup

	wg.Add(1)
	go func() {
		defer close(valueChan)
		defer wg.Done()
		for _, v := range samples {
			valueChan <- v
		}
	}()

	wg.Add(1)
	go func() {
		defer close(visibilityChan)
		defer wg.Done()
		calculate(valueChan, offset, window, visibilityChan)
	}()

	result := make([]float64, 0, len(samples)/window)
	for v := range visibilityChan {
		result = append(result, v)
	}
	wg.Wait()
	return result
}

func readValues(br *bufio.Reader) ([]float64, error) {
	values := [SampleSize]byte{}
	samples := make([]float64, 0, 1<<10)
	for {
		_, err := io.ReadFull(br, values[:])
		if err != nil {
			if err == io.EOF {
				break
			}
			if err == io.ErrUnexpectedEOF {
				return nil, fmt.Errorf("truncated sample after %d values", len(samples))
			}
			return nil, err
		}
		samples = append(samples, float64(int64(binary.BigEndian.Uint64(values[:]))))
	}
	return samples, nil
}

func calculate(valueChan <-chan float64, offset float64, window int, visibilityChan chan<- float64) {
	i := 0
	minimum, maximum := math.Inf(1), math.Inf(-1)
	for value := range valueChan {
		value -= offset
		if value < minimum {
			minimum = value
		}
		if value > maximum {
			maximum = value
		}
		i++
		if i == window {
			if maximum+minimum == 0 {
				visibilityChan <- 0
			} else {
				visibilityChan <- (maximum - minimum) / (maximum + minimum)
			}
			i = 0
			minimum, maximum = math.Inf(1), math.Inf(-1)
		}
	}
}

// Max returns the largest visibility and its window index, or (0, -1)
// for an empty series.
func Max(values []float64) (float64, int) {
	maxIdx := -1
	maxValue := 0.0
	for i, v := range values {
		if maxIdx < 0 || v > maxValue {
			maxIdx, maxValue = i, v
		}
	}
	return maxValue, maxIdx
}
