package dtx

import (
	"encoding/json"
	"strconv"
)

// ChartMetadata holds the metadata directives of a single chart file.
// Numeric fields carry a three-way state: never declared (Has* false,
// omitted from JSON), declared but unparseable (Has* true, nil, JSON
// null) and declared with a usable value. The null state tells callers
// the chart author wrote the directive but the value is unusable.
type ChartMetadata struct {
	Title    *string
	Artist   *string
	BPM      *float64
	HasBPM   bool
	Level    *int
	HasLevel bool
}

// MarshalJSON renders only the declared fields, mirroring the loose
// key set the format implies.
func (m ChartMetadata) MarshalJSON() ([]byte, error) {
	out := make(map[string]any, 4)
	if m.Title != nil {
		out["title"] = *m.Title
	}
	if m.Artist != nil {
		out["artist"] = *m.Artist
	}
	if m.HasBPM {
		out["bpm"] = m.BPM
	}
	if m.HasLevel {
		out["level"] = m.Level
	}
	return json.Marshal(out)
}

// ExtractMetadata scans decoded chart text for the TITLE, ARTIST, BPM
// and DLEVEL directives. Each line feeds at most one field; when a
// directive repeats on later lines the last occurrence wins.
func ExtractMetadata(content string) ChartMetadata {
	var meta ChartMetadata
	for _, line := range splitLines(content) {
		if title, ok := DirectiveValue(line, "TITLE"); ok {
			meta.Title = &title
			continue
		}
		if artist, ok := DirectiveValue(line, "ARTIST"); ok {
			meta.Artist = &artist
			continue
		}
		if raw, ok := DirectiveValue(line, "BPM"); ok {
			meta.HasBPM = true
			meta.BPM = nil
			if bpm, err := strconv.ParseFloat(raw, 64); err == nil {
				meta.BPM = &bpm
			}
			continue
		}
		if raw, ok := DirectiveValue(line, "DLEVEL"); ok {
			meta.HasLevel = true
			meta.Level = nil
			if level, err := strconv.Atoi(raw); err == nil {
				meta.Level = &level
			}
			continue
		}
	}
	return meta
}
