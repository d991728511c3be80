package parse

import (
	"github.com/pkg/errors"

	"pgm2xm/view"
)

// Fixed locations in the Z80 driver's working RAM.
const (
	AddrSampleTable = 0x0060 // word: sample descriptor table
	AddrSongCount   = 0x0052 // byte: number of songs
	AddrSongTable   = 0x0070 // words: song header pointers
)

var ErrSongNotFound = errors.New("song not found")

func SongCount(dump view.View) (int, error) {
	n, err := dump.Byte(AddrSongCount)
	if err != nil {
		return 0, errors.Wrap(err, "song count")
	}
	return int(n), nil
}

// Locate returns the dump offset of the song header for the given index.
func Locate(dump view.View, song int) (int, error) {
	count, err := SongCount(dump)
	if err != nil {
		return 0, err
	}
	if song < 0 || song >= count {
		return 0, errors.Wrapf(ErrSongNotFound, "song $%02X (dump has %d)", song, count)
	}
	ptr, err := dump.Word(AddrSongTable + song*2)
	if err != nil {
		return 0, errors.Wrapf(err, "song $%02X pointer", song)
	}
	return int(ptr), nil
}

// SampleTable returns the dump offset of the sample descriptor table.
func SampleTable(dump view.View) (int, error) {
	ptr, err := dump.Word(AddrSampleTable)
	if err != nil {
		return 0, errors.Wrap(err, "sample table pointer")
	}
	return int(ptr), nil
}
