// Package view provides bounds-checked read access to the driver dump and
// the sample-ROM images.
package view

import (
	"github.com/pkg/errors"
)

// ErrOutOfRange is the cause of every failed read.
var ErrOutOfRange = errors.New("read out of range")

// View is an immutable window over a byte slice.
type View struct {
	data []byte
}

func New(data []byte) View {
	return View{data: data}
}

// Len returns the number of bytes visible through the view.
func (v View) Len() int {
	return len(v.data)
}

func (v View) check(off, n int) error {
	if off < 0 || n < 0 || off > len(v.data)-n {
		return errors.Wrapf(ErrOutOfRange, "offset $%06X+%d (size $%06X)", off, n, len(v.data))
	}
	return nil
}

func (v View) Byte(off int) (byte, error) {
	if err := v.check(off, 1); err != nil {
		return 0, err
	}
	return v.data[off], nil
}

// Word reads a little-endian 16-bit value (Z80 byte order).
func (v View) Word(off int) (uint16, error) {
	if err := v.check(off, 2); err != nil {
		return 0, err
	}
	return uint16(v.data[off]) | uint16(v.data[off+1])<<8, nil
}

// Bytes returns a read-only sub-slice of n bytes. Callers must not modify it.
func (v View) Bytes(off, n int) ([]byte, error) {
	if err := v.check(off, n); err != nil {
		return nil, err
	}
	return v.data[off : off+n : off+n], nil
}

// Cursor walks a view sequentially.
type Cursor struct {
	v   View
	pos int
}

func (v View) Cursor(off int) *Cursor {
	return &Cursor{v: v, pos: off}
}

func (c *Cursor) Pos() int {
	return c.pos
}

func (c *Cursor) Seek(pos int) {
	c.pos = pos
}

func (c *Cursor) Skip(n int) {
	c.pos += n
}

// ReadByte reads one byte and advances. The cursor does not move on error.
func (c *Cursor) ReadByte() (byte, error) {
	b, err := c.v.Byte(c.pos)
	if err != nil {
		return 0, err
	}
	c.pos++
	return b, nil
}

func (c *Cursor) ReadWord() (uint16, error) {
	w, err := c.v.Word(c.pos)
	if err != nil {
		return 0, err
	}
	c.pos += 2
	return w, nil
}
