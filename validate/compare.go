package validate

import (
	"bytes"
	"fmt"
	"time"

	"github.com/pkg/errors"
	"github.com/quasilyte/xm/xmfile"
	"github.com/vova616/ibxmgo"

	"pgm2xm/parse"
)

// ReplayRate is the mixing rate used to measure the song length.
const ReplayRate = 48000

type CheckResult struct {
	Channels    int
	Patterns    int
	Instruments int
	Positions   int

	// Duration is the play time until the order list wraps.
	Duration   time.Duration
	Mismatches []string
}

func (r CheckResult) OK() bool {
	return len(r.Mismatches) == 0
}

// Check loads a converted module with two independent XM readers and
// compares its structure against the song it was made from.
func Check(xm []byte, song parse.Song, instruments int) (res CheckResult, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = errors.Errorf("XM reader panicked: %v", r)
		}
	}()

	m, err := xmfile.NewParser(xmfile.ParserConfig{}).ParseFromBytes(xm)
	if err != nil {
		return CheckResult{}, errors.Wrap(err, "xmfile")
	}
	res.Channels = int(m.NumChannels)
	res.Patterns = int(m.NumPatterns)
	res.Instruments = int(m.NumInstruments)
	res.Positions = len(m.PatternOrder)

	res.expect("channels", res.Channels, song.NumChannels)
	res.expect("patterns", res.Patterns, song.NumPatterns)
	res.expect("instruments", res.Instruments, instruments)
	res.expect("positions", res.Positions, len(song.Positions))
	for i, p := range m.PatternOrder {
		if i < len(song.Positions) {
			res.expect(fmt.Sprintf("position %d", i), int(p), int(song.Positions[i]))
		}
	}

	for i := range m.Patterns {
		rows := m.Patterns[i].Rows
		res.expect(fmt.Sprintf("pattern %d rows", i), len(rows), 64)
		for r, row := range rows {
			for ch, n := range row.Notes {
				if int(n.Instrument) > res.Instruments {
					res.mismatch("pattern %d row %d channel %d: instrument %d of %d", i, r, ch, n.Instrument, res.Instruments)
				}
			}
		}
	}

	mod, err := ibxmgo.Decode(bytes.NewReader(xm))
	if err != nil {
		return res, errors.Wrap(err, "ibxm")
	}
	player, err := ibxmgo.NewIBXM(mod, ReplayRate)
	if err != nil {
		return res, errors.Wrap(err, "ibxm")
	}
	samples := player.SongDuration()
	res.Duration = time.Duration(samples) * time.Second / ReplayRate
	if samples <= 0 {
		res.mismatch("song has no duration")
	}
	return res, nil
}

func (r *CheckResult) expect(what string, got, want int) {
	if got != want {
		r.mismatch("%s: got %d, want %d", what, got, want)
	}
}

func (r *CheckResult) mismatch(format string, args ...any) {
	r.Mismatches = append(r.Mismatches, fmt.Sprintf(format, args...))
}
