package dtx

import (
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mapFile(content string) *fstest.MapFile {
	return &fstest.MapFile{Data: []byte(content)}
}

func TestSongFolder(t *testing.T) {
	fsys := fstest.MapFS{
		"my_song/SET.def":  mapFile("#TITLE: My Song\n#L1LABEL BASIC\n#L1FILE bas.dtx\n#L2LABEL MASTER\n#L2FILE mas.dtx\n"),
		"my_song/bas.dtx":  mapFile("#TITLE: Foo\n#ARTIST: Bar\n#BPM: 150\n#DLEVEL: 30\n"),
		"my_song/mas.dtx":  mapFile("#TITLE: Foo\n#BPM: 150\n"),
		"my_song/song.ogg": mapFile("not audio"),
	}
	lib := NewLibrary(fsys)

	song, err := lib.Song("my_song")
	require.NoError(t, err)
	require.NotNil(t, song)

	assert.Equal(t, "my_song", song.SongID)
	assert.Equal(t, "My Song", song.Title)
	require.NotNil(t, song.Artist)
	assert.Equal(t, "Bar", *song.Artist)
	require.NotNil(t, song.BPM)
	assert.Equal(t, 150.0, *song.BPM)

	require.Len(t, song.Charts, 2)
	basic := song.Charts[0]
	assert.Equal(t, "easy", basic.Difficulty)
	assert.Equal(t, "BASIC", basic.DifficultyLabel)
	assert.Equal(t, 30, basic.Level)
	assert.Equal(t, "bas.dtx", basic.Filename)
	assert.Equal(t, int64(len(fsys["my_song/bas.dtx"].Data)), basic.Size)

	master := song.Charts[1]
	assert.Equal(t, "expert", master.Difficulty)
	assert.Equal(t, 50, master.Level, "missing DLEVEL defaults to 50")
}

func TestSongFolderWithoutSetDef(t *testing.T) {
	fsys := fstest.MapFS{
		"loose/whatever.dtx": mapFile("#TITLE: X\n"),
	}
	song, err := NewLibrary(fsys).Song("loose")
	require.NoError(t, err)
	assert.Nil(t, song)
}

func TestSongTitleFallsBackToFolderName(t *testing.T) {
	fsys := fstest.MapFS{
		"cool_track_2/SET.def": mapFile("#L1LABEL BASIC\n#L1FILE bas.dtx\n"),
		"cool_track_2/bas.dtx": mapFile("#TITLE: Chart Title\n"),
	}
	song, err := NewLibrary(fsys).Song("cool_track_2")
	require.NoError(t, err)
	require.NotNil(t, song)

	// The chart's own TITLE never names the song.
	assert.Equal(t, "Cool Track 2", song.Title)
}

func TestSongEmptySetDefTitleFallsBack(t *testing.T) {
	fsys := fstest.MapFS{
		"abc/SET.def": mapFile("#TITLE:\n"),
	}
	song, err := NewLibrary(fsys).Song("abc")
	require.NoError(t, err)
	require.NotNil(t, song)
	assert.Equal(t, "Abc", song.Title)
}

func TestSongSkipsDanglingSlots(t *testing.T) {
	fsys := fstest.MapFS{
		"s/SET.def": mapFile("#L1LABEL BASIC\n#L1FILE missing.dtx\n#L2LABEL ADVANCED\n#L3FILE orphan.dtx\n#L4LABEL EXTREME\n#L4FILE ext.dtx\n"),
		"s/ext.dtx": mapFile("#DLEVEL: 70\n"),
	}
	song, err := NewLibrary(fsys).Song("s")
	require.NoError(t, err)
	require.NotNil(t, song)

	// Slot 1 points at a missing file, slots 2 and 3 are each missing
	// half the pair; only slot 4 survives.
	require.Len(t, song.Charts, 1)
	assert.Equal(t, "hard", song.Charts[0].Difficulty)
	assert.Equal(t, 70, song.Charts[0].Level)
}

func TestSongUnmappedLabelLowercased(t *testing.T) {
	fsys := fstest.MapFS{
		"s/SET.def":   mapFile("#L1LABEL UnKnOwN\n#L1FILE chart.dtx\n"),
		"s/chart.dtx": mapFile("#BPM: 100\n"),
	}
	song, err := NewLibrary(fsys).Song("s")
	require.NoError(t, err)
	require.NotNil(t, song)

	require.Len(t, song.Charts, 1)
	assert.Equal(t, "unknown", song.Charts[0].Difficulty)
	assert.Equal(t, "UnKnOwN", song.Charts[0].DifficultyLabel)
}

func TestSongDifficultyNormalization(t *testing.T) {
	cases := map[string]string{
		"BASIC":    "easy",
		"basic":    "easy",
		"Advanced": "medium",
		"EXTREME":  "hard",
		"master":   "expert",
		"REAL":     "expert",
		"BONUS":    "bonus",
	}
	for label, want := range cases {
		assert.Equal(t, want, normalizeDifficulty(label), "label %q", label)
	}
}

func TestSongArtistAndBPMFirstFoundWins(t *testing.T) {
	fsys := fstest.MapFS{
		"s/SET.def": mapFile("#L1LABEL BASIC\n#L1FILE a.dtx\n#L2LABEL ADVANCED\n#L2FILE b.dtx\n"),
		"s/a.dtx":   mapFile("#BPM: abc\n"),
		"s/b.dtx":   mapFile("#ARTIST: Second\n#BPM: 142\n"),
	}
	song, err := NewLibrary(fsys).Song("s")
	require.NoError(t, err)
	require.NotNil(t, song)

	// Slot 1's BPM is declared but unusable, so slot 2 provides both.
	require.NotNil(t, song.Artist)
	assert.Equal(t, "Second", *song.Artist)
	require.NotNil(t, song.BPM)
	assert.Equal(t, 142.0, *song.BPM)
}

func TestListSongs(t *testing.T) {
	fsys := fstest.MapFS{
		"one/SET.def":  mapFile("#TITLE: One\n#L1LABEL BASIC\n#L1FILE b.dtx\n"),
		"one/b.dtx":    mapFile("#BPM: 120\n"),
		"not_a_song/x": mapFile("no SET.def here"),
		"loose.dtx":    mapFile("#TITLE: Loose\n"),
		"ignored.txt":  mapFile("nope"),
	}
	songs, loose, err := NewLibrary(fsys).ListSongs()
	require.NoError(t, err)

	require.Len(t, songs, 1)
	assert.Equal(t, "One", songs[0].Title)

	require.Len(t, loose, 1)
	assert.Equal(t, "loose.dtx", loose[0].Filename)
	assert.Equal(t, int64(len("#TITLE: Loose\n")), loose[0].Size)
}

func TestListSongsEmptyRoot(t *testing.T) {
	songs, loose, err := NewLibrary(fstest.MapFS{}).ListSongs()
	require.NoError(t, err)
	assert.Empty(t, songs)
	assert.Empty(t, loose)
	assert.NotNil(t, songs)
	assert.NotNil(t, loose)
}

func TestChartMetadataRead(t *testing.T) {
	fsys := fstest.MapFS{
		"chart.dtx": mapFile("#TITLE: T\n#DLEVEL: 12\n"),
	}
	meta, err := NewLibrary(fsys).ChartMetadata("chart.dtx")
	require.NoError(t, err)
	require.NotNil(t, meta.Title)
	assert.Equal(t, "T", *meta.Title)
	require.NotNil(t, meta.Level)
	assert.Equal(t, 12, *meta.Level)
}

func TestChartMetadataMissingFile(t *testing.T) {
	_, err := NewLibrary(fstest.MapFS{}).ChartMetadata("nope.dtx")
	assert.Error(t, err)
}
