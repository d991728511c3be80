package view

import (
	"github.com/pkg/errors"
)

// BIOSSize is the linear size reserved for the BIOS sample image. The main
// sample ROM starts right after it.
const BIOSSize = 0x400000

// SampleSpace is the linear sample address space seen by the sound chip:
// the optional BIOS image at 0x000000 followed by the main ROM at BIOSSize.
// Without a BIOS image the main ROM starts at address 0.
type SampleSpace struct {
	bios    []byte
	rom     []byte
	hasBIOS bool
}

func NewSampleSpace(rom []byte) SampleSpace {
	return SampleSpace{rom: rom}
}

// NewSampleSpaceWithBIOS returns a space that places bios ahead of the ROM. A BIOS image
// shorter than BIOSSize reads as zero past its end.
func NewSampleSpaceWithBIOS(bios, rom []byte) (SampleSpace, error) {
	if len(bios) > BIOSSize {
		return SampleSpace{}, errors.Errorf("BIOS sample image is $%X bytes, limit $%X", len(bios), BIOSSize)
	}
	return SampleSpace{bios: bios, rom: rom, hasBIOS: true}, nil
}

func (s SampleSpace) HasBIOS() bool {
	return s.hasBIOS
}

func (s SampleSpace) Len() int {
	if s.hasBIOS {
		return BIOSSize + len(s.rom)
	}
	return len(s.rom)
}

// Read copies n bytes starting at linear address addr.
func (s SampleSpace) Read(addr, n int) ([]byte, error) {
	if addr < 0 || n < 0 || addr > s.Len()-n {
		return nil, errors.Wrapf(ErrOutOfRange, "sample range $%06X+$%X (size $%06X)", addr, n, s.Len())
	}
	out := make([]byte, n)
	if !s.hasBIOS {
		copy(out, s.rom[addr:addr+n])
		return out, nil
	}
	end := addr + n
	if addr < len(s.bios) {
		copy(out, s.bios[addr:min(end, len(s.bios))])
	}
	if end > BIOSSize {
		from := max(addr, BIOSSize)
		copy(out[from-addr:], s.rom[from-BIOSSize:end-BIOSSize])
	}
	return out, nil
}
