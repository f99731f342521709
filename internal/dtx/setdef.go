package dtx

import "strings"

// DifficultySlot is one numbered difficulty entry of a SET.def. Label
// and file arrive on separate lines and either may be missing.
type DifficultySlot struct {
	Label *string
	File  *string
}

// SetDef is the parsed form of a SET.def song index.
type SetDef struct {
	Title *string
	// Difficulties is keyed by the single character following the #L
	// prefix. The format only supports one-character slot keys; the
	// parser takes whatever character sits there.
	Difficulties map[byte]*DifficultySlot
}

// ExtractSetDef scans decoded SET.def text for the song title and the
// #L<n>LABEL / #L<n>FILE difficulty directives. Directives for the same
// slot merge regardless of order. The LABEL form is checked before FILE,
// matching how the directive pair is written by the chart editors.
func ExtractSetDef(content string) SetDef {
	def := SetDef{Difficulties: make(map[byte]*DifficultySlot)}
	for _, line := range splitLines(content) {
		if title, ok := DirectiveValue(line, "TITLE"); ok {
			def.Title = &title
			continue
		}
		if !strings.HasPrefix(line, "#L") {
			continue
		}
		if _, after, found := strings.Cut(line, "LABEL"); found {
			label := strings.TrimSpace(after)
			def.slot(line[2]).Label = &label
		} else if _, after, found := strings.Cut(line, "FILE"); found {
			file := strings.TrimSpace(after)
			def.slot(line[2]).File = &file
		}
	}
	return def
}

func (d SetDef) slot(key byte) *DifficultySlot {
	s, ok := d.Difficulties[key]
	if !ok {
		s = &DifficultySlot{}
		d.Difficulties[key] = s
	}
	return s
}
