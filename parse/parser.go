package parse

import (
	"fmt"

	"github.com/pkg/errors"

	"pgm2xm/view"
)

const (
	MaxChannels = 16

	// SentinelGap is added to a channel's last pattern pointer to form the
	// pointer table's trailing entry.
	SentinelGap = 0x100
)

var ErrUnsupportedSong = errors.New("unsupported song layout")

type Song struct {
	Header      int
	NumChannels int
	NumPatterns int
	Positions   []byte

	// Pointers[ch] holds NumPatterns+1 dump offsets; the last one is the
	// sentinel and is never decoded.
	Pointers [][]uint16

	Warnings []string
}

func (s Song) PatternPtr(ch, pat int) int {
	return int(s.Pointers[ch][pat])
}

func (s Song) Sentinel(ch int) int {
	return int(s.Pointers[ch][s.NumPatterns])
}

// Bound returns the first dump offset past the data of a channel's pattern:
// the next table entry when it lies above the pattern, otherwise limit.
func (s Song) Bound(ch, pat, limit int) int {
	start := s.Pointers[ch][pat]
	next := s.Pointers[ch][pat+1]
	if next > start {
		return int(next)
	}
	return limit
}

func ReadSong(dump view.View, header int) (Song, error) {
	song := Song{Header: header}

	c := dump.Cursor(header)
	var counts [3]byte
	for i := range counts {
		b, err := c.ReadByte()
		if err != nil {
			return Song{}, errors.Wrapf(err, "song header at $%04X", header)
		}
		counts[i] = b
	}
	numPositions := int(counts[0])
	song.NumChannels = int(counts[1])
	song.NumPatterns = int(counts[2])

	if song.NumChannels == 0 || song.NumChannels > MaxChannels {
		return Song{}, errors.Wrapf(ErrUnsupportedSong, "%d channels (max %d)", song.NumChannels, MaxChannels)
	}
	if song.NumPatterns == 0 {
		return Song{}, errors.Wrap(ErrUnsupportedSong, "no patterns")
	}
	if numPositions == 0 {
		return Song{}, errors.Wrap(ErrUnsupportedSong, "empty position list")
	}

	c.Seek(header + 4)
	pos, err := dump.Bytes(c.Pos(), numPositions)
	if err != nil {
		return Song{}, errors.Wrap(err, "position list")
	}
	song.Positions = append([]byte(nil), pos...)
	c.Skip(numPositions + numPositions&1)

	for i, p := range song.Positions {
		if int(p) >= song.NumPatterns {
			song.Warnings = append(song.Warnings,
				fmt.Sprintf("position %d refers to pattern %d of %d", i, p, song.NumPatterns))
		}
	}

	song.Pointers = make([][]uint16, song.NumChannels)
	for ch := 0; ch < song.NumChannels; ch++ {
		ptrs := make([]uint16, song.NumPatterns+1)
		for i := 0; i < song.NumPatterns; i++ {
			w, err := c.ReadWord()
			if err != nil {
				return Song{}, errors.Wrapf(err, "pattern pointer ch%d pat%d", ch, i)
			}
			ptrs[i] = w
		}
		ptrs[song.NumPatterns] = ptrs[song.NumPatterns-1] + SentinelGap
		song.Pointers[ch] = ptrs
	}

	return song, nil
}
