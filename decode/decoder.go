package decode

import (
	"fmt"

	"github.com/pkg/errors"

	"pgm2xm/parse"
	"pgm2xm/transform"
	"pgm2xm/view"
)

const (
	Rows = 64

	// NoteOffset moves driver note 0 to XM note 24 (C-2).
	NoteOffset = 24
)

// Field marks which parts of a cell are present, using the XM packing bits.
type Field byte

const (
	FieldNote   Field = 0x01
	FieldInst   Field = 0x02
	FieldEffect Field = 0x18 // effect type and parameter
)

// Cell is one channel's event for one row. Note already includes NoteOffset
// and Inst is the dense XM instrument number.
type Cell struct {
	Fields Field
	Note   byte
	Inst   int
	Effect byte
	Param  byte
}

func (c Cell) Empty() bool {
	return c.Fields == 0
}

// Pattern holds Rows[row][channel].
type Pattern struct {
	Index int
	Rows  [Rows][]Cell
}

// Resolver assigns XM instrument numbers to driver sample ids.
type Resolver interface {
	Resolve(id int) (int, error)
}

type Options struct {
	FineTuneFix bool
}

type Warning struct {
	Channel int
	Pattern int
	Row     int
	Offset  int
	Msg     string
}

func (w Warning) String() string {
	return fmt.Sprintf("pattern %d channel %d row %d at $%04X: %s", w.Pattern, w.Channel, w.Row, w.Offset, w.Msg)
}

type Decoder struct {
	dump     view.View
	insts    Resolver
	opts     Options
	Warnings []Warning
}

func NewDecoder(dump view.View, insts Resolver, opts Options) *Decoder {
	return &Decoder{dump: dump, insts: insts, opts: opts}
}

type channel struct {
	pos     int
	delay   int
	bound   int
	ended   bool
	overrun bool
}

// Pattern decodes one pattern across all channels. Rows are produced in
// row-major order so instruments are registered in playback order.
func (d *Decoder) Pattern(song parse.Song, pat int) (Pattern, error) {
	if pat < 0 || pat >= song.NumPatterns {
		return Pattern{}, errors.Errorf("pattern %d out of range (song has %d)", pat, song.NumPatterns)
	}

	chn := make([]channel, song.NumChannels)
	for ch := range chn {
		chn[ch] = channel{
			pos:   song.PatternPtr(ch, pat),
			bound: song.Bound(ch, pat, d.dump.Len()),
		}
	}

	out := Pattern{Index: pat}
	for row := 0; row < Rows; row++ {
		out.Rows[row] = make([]Cell, song.NumChannels)
		for ch := range chn {
			cell, err := d.advance(&chn[ch], ch, pat, row)
			if err != nil {
				return Pattern{}, err
			}
			out.Rows[row][ch] = cell
		}
	}
	return out, nil
}

func (d *Decoder) advance(c *channel, ch, pat, row int) (Cell, error) {
	if c.delay > 0 {
		c.delay--
		return Cell{}, nil
	}
	if c.ended {
		return Cell{}, nil
	}

	cmd, err := ReadCommand(d.dump, c.pos)
	if err != nil {
		if errors.Cause(err) != view.ErrOutOfRange {
			return Cell{}, err
		}
		d.warn(ch, pat, row, c.pos, "command stream runs past end of dump")
		c.ended = true
		return Cell{}, nil
	}

	if !c.overrun && c.pos+cmd.Size() > c.bound {
		d.warn(ch, pat, row, c.pos, fmt.Sprintf("command stream crosses next pattern at $%04X", c.bound))
		c.overrun = true
	}
	c.pos += cmd.Size()
	c.delay = cmd.Delay

	if cmd.Kind == KindUnknown {
		d.warn(ch, pat, row, cmd.Offset, fmt.Sprintf("unknown command $%02X", cmd.Op))
		return Cell{}, nil
	}
	return d.cell(cmd)
}

func (d *Decoder) cell(cmd Command) (Cell, error) {
	var cell Cell
	if cmd.Kind.HasNote() {
		cell.Fields |= FieldNote
		cell.Note = cmd.Note + NoteOffset
	}
	if cmd.Kind.HasInst() {
		// Driver instruments are numbered from 1; 0 wraps to sample $FF.
		inst, err := d.insts.Resolve(int(cmd.Inst - 1))
		if err != nil {
			return Cell{}, errors.Wrapf(err, "command at $%04X", cmd.Offset)
		}
		cell.Fields |= FieldInst
		cell.Inst = inst
	}
	if cmd.Kind.HasEffect() {
		cell.Fields |= FieldEffect
		cell.Effect = cmd.Effect
		cell.Param = cmd.Param
		if d.opts.FineTuneFix {
			cell.Param = transform.FineTune(cmd.Effect, cmd.Param)
		}
	}
	return cell, nil
}

func (d *Decoder) warn(ch, pat, row, off int, msg string) {
	d.Warnings = append(d.Warnings, Warning{
		Channel: ch,
		Pattern: pat,
		Row:     row,
		Offset:  off,
		Msg:     msg,
	})
}
