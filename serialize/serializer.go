package serialize

import (
	"encoding/binary"
	"fmt"

	"github.com/pkg/errors"

	"pgm2xm/encode"
)

var ErrNoHeader = errors.New("XM header not written")

type Header struct {
	Title       string
	Tracker     string
	Positions   []byte
	NumChannels int
	NumPatterns int
	Tempo       int
	BPM         int
}

// Writer builds an XM file front to back. The instrument count in the song
// header is patched each time an instrument is appended.
type Writer struct {
	buf         []byte
	header      bool
	patterns    int
	instruments int
}

func NewWriter() *Writer {
	return &Writer{}
}

func (w *Writer) Header(h Header) error {
	if w.header {
		return errors.New("XM header already written")
	}
	if len(h.Positions) == 0 || len(h.Positions) > OrderSize {
		return errors.Errorf("%d positions, want 1-%d", len(h.Positions), OrderSize)
	}
	if h.Tempo == 0 {
		h.Tempo = DefaultTempo
	}
	if h.BPM == 0 {
		h.BPM = DefaultBPM
	}

	b := make([]byte, FileHeaderSize)
	copy(b, IDText)
	putString(b[TitleOffset:TitleOffset+TitleSize], h.Title)
	b[MarkerOffset] = Marker
	putString(b[TrackerOffset:TrackerOffset+TrackerSize], h.Tracker)
	put16(b, VersionOffset, Version)

	put32(b, HeaderOffset, HeaderSize)
	put16(b, SongLenOffset, len(h.Positions))
	put16(b, RestartOffset, 0)
	put16(b, ChannelsOffset, h.NumChannels)
	put16(b, PatternsOffset, h.NumPatterns)
	put16(b, InstrumentsOffset, 0)
	put16(b, FlagsOffset, 0)
	put16(b, TempoOffset, h.Tempo)
	put16(b, BPMOffset, h.BPM)
	copy(b[OrderOffset:OrderOffset+OrderSize], h.Positions)

	w.buf = append(w.buf, b...)
	w.header = true
	return nil
}

// Pattern appends a pattern block holding already packed cell data.
func (w *Writer) Pattern(packed []byte) error {
	if !w.header {
		return ErrNoHeader
	}
	if len(packed) > MaxPackedSize {
		return errors.Errorf("pattern %d packs to %d bytes, limit %d", w.patterns, len(packed), MaxPackedSize)
	}
	b := make([]byte, PatternHeaderSize)
	put32(b, 0, PatternHeaderSize)
	b[4] = 0
	put16(b, 5, PatternRows)
	put16(b, 7, len(packed))
	w.buf = append(w.buf, b...)
	w.buf = append(w.buf, packed...)
	w.patterns++
	return nil
}

// Instrument appends a one-sample instrument. Silent samples are written
// with zero length.
func (w *Writer) Instrument(s encode.Sample) error {
	if !w.header {
		return ErrNoHeader
	}
	if w.instruments == 0xFFFF {
		return errors.New("XM instrument count overflow")
	}

	inst := make([]byte, InstHeaderSize)
	put32(inst, 0, InstHeaderSize)
	putString(inst[InstNameOffset:InstNameOffset+InstNameSize], fmt.Sprintf("%02x at %04x", s.ID, s.Descriptor))
	inst[InstTypeOffset] = 0
	put16(inst, InstCountOffset, 1)
	put32(inst, InstSampleHdr, SampleHeaderSize)

	data := s.Data
	length, loopStart, loopLen := s.Length, s.LoopStart, s.LoopLength
	if s.Silent {
		data = nil
		length, loopStart, loopLen = 0, 0, 0
	}
	if len(data) != length {
		return errors.Errorf("sample $%02X: %d data bytes for length %d", s.ID, len(data), length)
	}

	smp := make([]byte, SampleHeaderSize)
	put32(smp, 0, length)
	put32(smp, 4, loopStart)
	put32(smp, 8, loopLen)
	smp[SampleVolOffset] = s.Volume
	smp[SampleFineOffset] = 0
	if s.Loop && loopLen > 0 {
		smp[SampleTypeOffset] = SampleLoopForward
	}
	smp[SamplePanOffset] = SamplePanCenter
	smp[SampleRelOffset] = 0
	putString(smp[SampleNameOffset:SampleNameOffset+SampleNameSize], fmt.Sprintf("%02x at %06x", s.ID, s.Start))

	w.buf = append(w.buf, inst...)
	w.buf = append(w.buf, smp...)
	w.buf = append(w.buf, data...)
	w.instruments++
	put16(w.buf, InstrumentsOffset, w.instruments)
	return nil
}

func (w *Writer) Bytes() []byte {
	return w.buf
}

func (w *Writer) Len() int {
	return len(w.buf)
}

func (w *Writer) Patterns() int {
	return w.patterns
}

func (w *Writer) Instruments() int {
	return w.instruments
}

func put16(b []byte, off, v int) {
	binary.LittleEndian.PutUint16(b[off:], uint16(v))
}

func put32(b []byte, off, v int) {
	binary.LittleEndian.PutUint32(b[off:], uint32(v))
}

// putString copies s into a fixed field, truncating and leaving the rest
// zero.
func putString(dst []byte, s string) {
	copy(dst, s)
}
