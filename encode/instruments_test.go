package encode

import (
	"bytes"
	"encoding/binary"
	"testing"

	"pgm2xm/parse"
	"pgm2xm/view"
)

const testTable = 0x4000

func putAddr(b []byte, off int, addr uint32) {
	raw := addr << 12
	b[off] = byte(raw >> 8)
	b[off+1] = byte(raw >> 16)
	b[off+2] = byte(raw >> 24)
}

type desc struct {
	bank, flags, volume byte
	start, end          uint32
	loopStart, loopEnd  uint32
}

func descriptorDump(descs map[int]desc) []byte {
	dump := make([]byte, 0x8000)
	binary.LittleEndian.PutUint16(dump[parse.AddrSampleTable:], testTable)
	for id, d := range descs {
		off := testTable + id*DescriptorSize
		dump[off] = d.bank
		dump[off+1] = d.flags
		dump[off+12] = d.volume
		putAddr(dump, off+5, d.start)
		putAddr(dump, off+9, d.end)
		putAddr(dump, off+15, d.loopStart)
		putAddr(dump, off+19, d.loopEnd)
	}
	return dump
}

func testROM(n int) []byte {
	rom := make([]byte, n)
	for i := range rom {
		rom[i] = byte(i*7 + i/3)
	}
	return rom
}

func TestReadDescriptor(t *testing.T) {
	dump := descriptorDump(map[int]desc{
		3: {bank: 0x05, flags: 0x08, volume: 0x30, start: 0x12345, end: 0x23456, loopStart: 0x13000, loopEnd: 0x20000},
	})
	d, err := ReadDescriptor(view.New(dump), testTable, 3)
	if err != nil {
		t.Fatal(err)
	}
	want := Descriptor{
		ID: 3, Offset: testTable + 3*DescriptorSize,
		Bank: 0x05, Flags: 0x08, Volume: 0x30,
		Start: 0x12345, End: 0x23456, LoopStart: 0x13000, LoopEnd: 0x20000,
	}
	if d != want {
		t.Errorf("got %+v, want %+v", d, want)
	}
	if got := d.Linear(d.Start); got != 0x512345 {
		t.Errorf("Linear: got $%06X, want $512345", got)
	}

	if _, err := ReadDescriptor(view.New(dump), 0x7FF0, 0); err == nil {
		t.Error("descriptor past dump end accepted")
	}
}

func TestAddressTranslation(t *testing.T) {
	tests := []struct {
		bank   byte
		raw    uint32
		bios   bool
		want   int
		silent bool
		warn   bool
	}{
		{bank: 0x08, raw: 0x00100, want: 0x400100},
		{bank: 0x09, raw: 0x00000, want: 0x500000},
		// At or below $400000 once the base is removed: BIOS region.
		{bank: 0x08, raw: 0x00000, silent: true},
		{bank: 0x05, raw: 0x00000, silent: true},
		{bank: 0x04, raw: 0x00100, silent: true},
		{bank: 0x04, raw: 0x00000, silent: true},
		// Below the base: no valid ROM offset.
		{bank: 0x03, raw: 0xFFF00, silent: true, warn: true},
		{bank: 0x00, raw: 0x00100, bios: true, want: 0x000100},
		{bank: 0x04, raw: 0x00000, bios: true, want: 0x400000},
		{bank: 0x05, raw: 0x00000, bios: true, want: 0x500000},
	}
	rom := testROM(0x500100)
	plain := view.NewSampleSpace(rom)
	withBIOS, err := view.NewSampleSpaceWithBIOS(testROM(0x1000), rom)
	if err != nil {
		t.Fatal(err)
	}
	for _, tt := range tests {
		dump := descriptorDump(map[int]desc{
			0: {bank: tt.bank, start: tt.raw, end: tt.raw + 0x10},
		})
		space := plain
		if tt.bios {
			space = withBIOS
		}
		tr, err := NewTranscoder(view.New(dump), space)
		if err != nil {
			t.Fatal(err)
		}
		s, err := tr.Sample(0)
		if err != nil {
			t.Fatal(err)
		}
		if s.Silent != tt.silent {
			t.Errorf("bank %X raw %05X bios=%v: silent %v, want %v", tt.bank, tt.raw, tt.bios, s.Silent, tt.silent)
			continue
		}
		if got := len(tr.Warnings) > 0; got != tt.warn {
			t.Errorf("bank %X raw %05X: warned %v, want %v (%q)", tt.bank, tt.raw, got, tt.warn, tr.Warnings)
		}
		if tt.silent {
			if s.Start != 0 || s.Length != 0 || s.LoopStart != 0 || s.LoopLength != 0 || len(s.Data) != 0 {
				t.Errorf("bank %X raw %05X: silent sample not zeroed: %+v", tt.bank, tt.raw, s)
			}
			continue
		}
		if s.Start != tt.want || s.Length != 0x10 {
			t.Errorf("bank %X raw %05X bios=%v: start $%06X len %X, want $%06X len 10", tt.bank, tt.raw, tt.bios, s.Start, s.Length, tt.want)
		}
	}
}

func TestTranscodeSample(t *testing.T) {
	rom := testROM(0x401000)
	dump := descriptorDump(map[int]desc{
		1: {bank: 0x08, flags: 0x08, volume: 0x40, start: 0x100, end: 0x180, loopStart: 0x110, loopEnd: 0x170},
		2: {bank: 0x08, start: 0x200, end: 0x100},
		3: {bank: 0x08, start: 0xF00, end: 0x1100},
		4: {bank: 0x08, flags: 0x08, start: 0x100, end: 0x120, loopStart: 0x118, loopEnd: 0x140},
		5: {bank: 0x08, flags: 0x08, start: 0x100, end: 0x120, loopStart: 0x0F0, loopEnd: 0x110},
	})
	tr, err := NewTranscoder(view.New(dump), view.NewSampleSpace(rom))
	if err != nil {
		t.Fatal(err)
	}

	t.Run("looped", func(t *testing.T) {
		s, err := tr.Sample(1)
		if err != nil {
			t.Fatal(err)
		}
		if s.Silent || s.Start != 0x400100 || s.Length != 0x80 || s.LoopStart != 0x10 || s.LoopLength != 0x60 {
			t.Errorf("got %+v", s)
		}
		if !s.Loop || s.Volume != 0x40 || s.Descriptor != testTable+DescriptorSize {
			t.Errorf("flags: got loop=%v vol=%X desc=$%04X", s.Loop, s.Volume, s.Descriptor)
		}
		if !bytes.Equal(DeltaDecode(s.Data), rom[0x400100:0x400180]) {
			t.Error("sample data does not decode back to ROM bytes")
		}
	})

	t.Run("start_after_end", func(t *testing.T) {
		s, _ := tr.Sample(2)
		if !s.Silent || s.Length != 0 || s.LoopLength != 0 {
			t.Errorf("got %+v, want silent", s)
		}
	})

	t.Run("past_rom_end", func(t *testing.T) {
		n := len(tr.Warnings)
		s, err := tr.Sample(3)
		if err != nil {
			t.Fatal(err)
		}
		if !s.Silent || s.Length != 0 || len(s.Data) != 0 {
			t.Errorf("got %+v, want silent", s)
		}
		if len(tr.Warnings) != n+1 {
			t.Errorf("got %d warnings, want %d", len(tr.Warnings), n+1)
		}
	})

	t.Run("loop_clamped", func(t *testing.T) {
		s, _ := tr.Sample(4)
		if s.LoopStart != 0x18 || s.LoopLength != 0x08 {
			t.Errorf("loop: got %X+%X, want 18+8", s.LoopStart, s.LoopLength)
		}
		s, _ = tr.Sample(5)
		if s.LoopStart != 0 || s.LoopLength != 0 {
			t.Errorf("loop before start: got %X+%X, want 0+0", s.LoopStart, s.LoopLength)
		}
	})
}
