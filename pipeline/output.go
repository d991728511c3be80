package pipeline

import (
	"pgm2xm/analysis"
	"pgm2xm/encode"
	"pgm2xm/parse"
	"pgm2xm/view"
)

type Result struct {
	XM          []byte
	Song        parse.Song
	Instruments int
	Samples     []encode.Sample
	Analysis    analysis.SongAnalysis
	Warnings    []string
}

// SongInfo summarizes one entry of the dump's song table. Err is set when
// the song cannot be read.
type SongInfo struct {
	Index     int
	Header    int
	Channels  int
	Patterns  int
	Positions int
	Err       error
}

func ListSongs(dump []byte) ([]SongInfo, error) {
	v := view.New(dump)
	n, err := parse.SongCount(v)
	if err != nil {
		return nil, err
	}
	songs := make([]SongInfo, 0, n)
	for i := 0; i < n; i++ {
		info := SongInfo{Index: i}
		info.Header, info.Err = parse.Locate(v, i)
		if info.Err == nil {
			var song parse.Song
			if song, info.Err = parse.ReadSong(v, info.Header); info.Err == nil {
				info.Channels = song.NumChannels
				info.Patterns = song.NumPatterns
				info.Positions = len(song.Positions)
			}
		}
		songs = append(songs, info)
	}
	return songs, nil
}

func (c *Context) logf(format string, args ...any) {
	if c.opts.Logf != nil {
		c.opts.Logf(format, args...)
	}
}

func (c *Context) warn(msg string) {
	c.warnings = append(c.warnings, msg)
	c.logf("  Warning: %s\n", msg)
}
