package encode

import (
	"github.com/pkg/errors"

	"pgm2xm/decode"
)

const (
	packFlag  = 0x80
	emptyCell = packFlag

	MaxXMInstrument = 0xFF
)

var ErrInstrumentRange = errors.New("instrument number does not fit a pattern cell")

// PackCell appends one cell in XM compressed notation: a flag byte followed
// by the fields it announces. Empty cells are the bare flag byte.
func PackCell(dst []byte, c decode.Cell) ([]byte, error) {
	if c.Empty() {
		return append(dst, emptyCell), nil
	}
	dst = append(dst, packFlag|byte(c.Fields))
	if c.Fields&decode.FieldNote != 0 {
		dst = append(dst, c.Note)
	}
	if c.Fields&decode.FieldInst != 0 {
		if c.Inst < 1 || c.Inst > MaxXMInstrument {
			return dst, errors.Wrapf(ErrInstrumentRange, "instrument %d", c.Inst)
		}
		dst = append(dst, byte(c.Inst))
	}
	if c.Fields&decode.FieldEffect != 0 {
		dst = append(dst, c.Effect, c.Param)
	}
	return dst, nil
}

// PackPattern packs all rows, channels interleaved per row.
func PackPattern(pat decode.Pattern) ([]byte, error) {
	var out []byte
	for row := range pat.Rows {
		for _, c := range pat.Rows[row] {
			var err error
			if out, err = PackCell(out, c); err != nil {
				return nil, errors.Wrapf(err, "pattern %d row %d", pat.Index, row)
			}
		}
	}
	return out, nil
}
