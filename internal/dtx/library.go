package dtx

import (
	"errors"
	"fmt"
	"io/fs"
	"path"
	"sort"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// SetDefName is the index file that marks a directory as a song folder.
const SetDefName = "SET.def"

// Song is a complete song record assembled from a folder's SET.def and
// the chart files it references. Artist and BPM are taken from the first
// chart that declares them; they stay null when no chart does.
type Song struct {
	SongID string       `json:"song_id"`
	Title  string       `json:"title"`
	Artist *string      `json:"artist"`
	BPM    *float64     `json:"bpm"`
	Charts []ChartEntry `json:"charts"`
}

// ChartEntry is one playable difficulty of a song.
type ChartEntry struct {
	Difficulty      string `json:"difficulty"`
	DifficultyLabel string `json:"difficulty_label"`
	Level           int    `json:"level"`
	Filename        string `json:"filename"`
	Size            int64  `json:"size"`
}

// LooseFile is a chart file sitting directly in the library root,
// outside any song folder.
type LooseFile struct {
	Filename string `json:"filename"`
	Size     int64  `json:"size"`
}

// defaultLevel is assumed when a chart declares no usable DLEVEL.
const defaultLevel = 50

// difficultyNames maps the conventional SET.def labels to category
// names. Lookup is on the uppercased label; anything unmapped falls back
// to its own lowercased form.
var difficultyNames = map[string]string{
	"BASIC":    "easy",
	"ADVANCED": "medium",
	"EXTREME":  "hard",
	"MASTER":   "expert",
	"REAL":     "expert",
}

func normalizeDifficulty(label string) string {
	if name, ok := difficultyNames[strings.ToUpper(label)]; ok {
		return name
	}
	return strings.ToLower(label)
}

var folderTitleCaser = cases.Title(language.Und)

// folderTitle derives a display title from a folder name when the
// SET.def carries no usable TITLE directive.
func folderTitle(folder string) string {
	return folderTitleCaser.String(strings.ReplaceAll(folder, "_", " "))
}

// Library reads songs and charts from a filesystem rooted at the DTX
// directory. Nothing is cached: every call re-reads from the filesystem,
// so edits to the library show up on the next request.
type Library struct {
	fsys fs.FS
}

// NewLibrary returns a Library over fsys. Tests pass a fstest.MapFS;
// production code passes os.DirFS of the configured directory.
func NewLibrary(fsys fs.FS) *Library {
	return &Library{fsys: fsys}
}

// Stat reports info for a file inside the library, with fs.ErrNotExist
// semantics preserved for missing entries.
func (l *Library) Stat(name string) (fs.FileInfo, error) {
	return fs.Stat(l.fsys, name)
}

// ReadFile returns the raw bytes of a file inside the library.
func (l *Library) ReadFile(name string) ([]byte, error) {
	return fs.ReadFile(l.fsys, name)
}

// ChartMetadata reads and parses the metadata directives of a single
// chart file.
func (l *Library) ChartMetadata(name string) (ChartMetadata, error) {
	data, err := fs.ReadFile(l.fsys, name)
	if err != nil {
		return ChartMetadata{}, fmt.Errorf("read chart %s: %w", name, err)
	}
	return ExtractMetadata(DecodeChart(data)), nil
}

// SetDef reads and parses a song folder's SET.def.
func (l *Library) SetDef(folder string) (SetDef, error) {
	data, err := fs.ReadFile(l.fsys, path.Join(folder, SetDefName))
	if err != nil {
		return SetDef{}, fmt.Errorf("read %s/%s: %w", folder, SetDefName, err)
	}
	return ExtractSetDef(DecodeSetDef(data)), nil
}

// Song assembles the record for one song folder. A folder without a
// SET.def is not a song folder and yields (nil, nil). Slots missing a
// label or file, and slots whose chart file does not exist, are skipped
// silently; any other filesystem error aborts the whole song.
func (l *Library) Song(folder string) (*Song, error) {
	def, err := l.SetDef(folder)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, err
	}

	song := &Song{
		SongID: folder,
		Charts: []ChartEntry{},
	}
	if def.Title != nil && *def.Title != "" {
		song.Title = *def.Title
	} else {
		song.Title = folderTitle(folder)
	}

	// Slot order in the file is not otherwise meaningful; sorting the
	// keys keeps the chart list and the artist/bpm pick stable.
	keys := make([]byte, 0, len(def.Difficulties))
	for key := range def.Difficulties {
		keys = append(keys, key)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i] < keys[j] })

	for _, key := range keys {
		slot := def.Difficulties[key]
		if slot.Label == nil || slot.File == nil {
			continue
		}
		chartPath := path.Join(folder, *slot.File)
		info, err := fs.Stat(l.fsys, chartPath)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) || errors.Is(err, fs.ErrInvalid) {
				continue
			}
			return nil, fmt.Errorf("stat chart %s: %w", chartPath, err)
		}

		meta, err := l.ChartMetadata(chartPath)
		if err != nil {
			return nil, err
		}
		if song.Artist == nil && meta.Artist != nil && *meta.Artist != "" {
			song.Artist = meta.Artist
		}
		if song.BPM == nil && meta.BPM != nil && *meta.BPM != 0 {
			song.BPM = meta.BPM
		}

		level := defaultLevel
		if meta.Level != nil {
			level = *meta.Level
		}
		song.Charts = append(song.Charts, ChartEntry{
			Difficulty:      normalizeDifficulty(*slot.Label),
			DifficultyLabel: *slot.Label,
			Level:           level,
			Filename:        *slot.File,
			Size:            info.Size(),
		})
	}
	return song, nil
}

// ListSongs walks the library root once, assembling every song folder
// and collecting loose .dtx files. A missing root is an empty library,
// not an error. A failure inside any single song aborts the listing;
// there is no per-song isolation.
func (l *Library) ListSongs() ([]Song, []LooseFile, error) {
	songs := []Song{}
	loose := []LooseFile{}

	entries, err := fs.ReadDir(l.fsys, ".")
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return songs, loose, nil
		}
		return nil, nil, fmt.Errorf("read library root: %w", err)
	}

	for _, entry := range entries {
		if entry.IsDir() {
			song, err := l.Song(entry.Name())
			if err != nil {
				return nil, nil, err
			}
			if song != nil {
				songs = append(songs, *song)
			}
			continue
		}
		if strings.HasSuffix(entry.Name(), ".dtx") {
			info, err := entry.Info()
			if err != nil {
				return nil, nil, fmt.Errorf("stat %s: %w", entry.Name(), err)
			}
			loose = append(loose, LooseFile{Filename: entry.Name(), Size: info.Size()})
		}
	}
	return songs, loose, nil
}
