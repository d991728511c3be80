package encode

import (
	"fmt"

	"github.com/pkg/errors"

	"pgm2xm/parse"
	"pgm2xm/view"
)

const (
	DescriptorSize = 22
	FlagLoop       = 0x08

	// BIOSBase is subtracted from every address when the BIOS samples are
	// not loaded, so the main ROM starts at offset 0.
	BIOSBase = view.BIOSSize
)

func readAddr(b []byte, off int) uint32 {
	raw := uint32(b[off+2])<<24 | uint32(b[off+1])<<16 | uint32(b[off])<<8
	return raw >> 12
}

func ReadDescriptor(dump view.View, table, id int) (Descriptor, error) {
	off := table + id*DescriptorSize
	b, err := dump.Bytes(off, DescriptorSize)
	if err != nil {
		return Descriptor{}, errors.Wrapf(err, "sample $%02X descriptor", id)
	}
	return Descriptor{
		ID:        id,
		Offset:    off,
		Bank:      b[0],
		Flags:     b[1],
		Volume:    b[12],
		Start:     readAddr(b, 5),
		End:       readAddr(b, 9),
		LoopStart: readAddr(b, 15),
		LoopEnd:   readAddr(b, 19),
	}, nil
}

// Linear maps a bank-relative address into the sample space, before the
// base offset is removed.
func (d Descriptor) Linear(addr uint32) int {
	return int(uint32(d.Bank)<<20&0xFFFFFF | addr)
}

type Transcoder struct {
	dump     view.View
	table    int
	space    view.SampleSpace
	base     int
	Warnings []string
}

func NewTranscoder(dump view.View, space view.SampleSpace) (*Transcoder, error) {
	table, err := parse.SampleTable(dump)
	if err != nil {
		return nil, err
	}
	t := &Transcoder{dump: dump, table: table, space: space}
	if !space.HasBIOS() {
		t.base = BIOSBase
	}
	return t, nil
}

func (t *Transcoder) Base() int {
	return t.base
}

// Sample reads and converts the descriptor for id. Without BIOS samples, a
// start at or below the base offset after the offset is removed is silent,
// as is a descriptor whose start lies past its end. A start below the base
// or a range past the end of the sample space is silent with a warning.
func (t *Transcoder) Sample(id int) (Sample, error) {
	d, err := ReadDescriptor(t.dump, t.table, id)
	if err != nil {
		return Sample{}, err
	}

	s := Sample{
		ID:         id,
		Descriptor: d.Offset,
		Volume:     d.Volume,
		Loop:       d.Flags&FlagLoop != 0,
	}

	start := d.Linear(d.Start)
	end := d.Linear(d.End)
	s.Start = start - t.base
	if (t.base > 0 && s.Start >= 0 && s.Start <= t.base) || start > end {
		s.Start = 0
		s.Silent = true
		return s, nil
	}

	s.Length = end - start
	s.LoopStart, s.LoopLength = clampLoop(d.Linear(d.LoopStart)-start, d.Linear(d.LoopEnd)-d.Linear(d.LoopStart), s.Length)

	raw, err := t.space.Read(s.Start, s.Length)
	if err != nil {
		if errors.Cause(err) != view.ErrOutOfRange {
			return Sample{}, err
		}
		t.Warnings = append(t.Warnings, fmt.Sprintf("sample $%02X: %v, using silence", id, err))
		return Sample{ID: id, Descriptor: d.Offset, Volume: d.Volume, Loop: s.Loop, Silent: true}, nil
	}
	s.Data = DeltaEncode(raw)
	return s, nil
}

func clampLoop(start, length, sampleLen int) (int, int) {
	if start < 0 || start > sampleLen || length <= 0 {
		return 0, 0
	}
	if start+length > sampleLen {
		length = sampleLen - start
	}
	return start, length
}
