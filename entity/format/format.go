package format

import (
	"fmt"
	"strings"
)

type Format int8

const (
	HTML Format = iota
	Png
	Csv
	Gif
	Bin
	Plot
)

func UnmarshalText(text string) (Format, error) {
	switch text {
	case "html":
		return HTML, nil
	case "png":
		return Png, nil
	case "csv":
		return Csv, nil
	case "gif":
		return Gif, nil
	case "bin":
		return Bin, nil
	case "plot":
		return Plot, nil
	default:
		return 0, fmt.Errorf("invalid format: %q", text)
	}
}

func (f Format) String() string {
	switch f {
	case HTML:
		return "html"
	case Png:
		return "png"
	case Csv:
		return "csv"
	case Gif:
		return "gif"
	case Bin:
		return "bin"
	case Plot:
		return "plot"
	default:
		return fmt.Sprintf("Format(%d)", f)
	}
}

// ParseList parses a comma separated list such as "png,gif,html".
// Duplicates are dropped, order is kept.
func ParseList(text string) ([]Format, error) {
	seen := make(map[Format]bool)
	formats := make([]Format, 0)
	for _, part := range strings.Split(text, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		f, err := UnmarshalText(part)
		if err != nil {
			return nil, err
		}
		if seen[f] {
			continue
		}
		seen[f] = true
		formats = append(formats, f)
	}
	if len(formats) == 0 {
		return nil, fmt.Errorf("no formats in %q", text)
	}
	return formats, nil
}
