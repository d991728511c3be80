package decode

import (
	"fmt"

	"github.com/pkg/errors"

	"pgm2xm/view"
)

// Kind is the decoded form of an event bytecode opcode.
type Kind int

const (
	KindUnknown Kind = iota
	KindDelay
	KindEffect
	KindNote
	KindEffectNoteInst
	KindEffectNote
	KindEffectInst
)

var kindNames = [...]string{
	KindUnknown:        "unknown",
	KindDelay:          "delay",
	KindEffect:         "effect",
	KindNote:           "note",
	KindEffectNoteInst: "effect+note+inst",
	KindEffectNote:     "effect+note",
	KindEffectInst:     "effect+inst",
}

func (k Kind) String() string {
	if k >= 0 && int(k) < len(kindNames) {
		return kindNames[k]
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// Size is the number of bytes the command occupies, opcode included.
// Unknown opcodes count as one byte so the stream always moves forward.
func (k Kind) Size() int {
	switch k {
	case KindEffect, KindNote:
		return 2
	case KindEffectNote, KindEffectInst:
		return 3
	case KindEffectNoteInst:
		return 4
	}
	return 1
}

func (k Kind) HasEffect() bool {
	return k == KindEffect || k == KindEffectNoteInst || k == KindEffectNote || k == KindEffectInst
}

func (k Kind) HasNote() bool {
	return k == KindNote || k == KindEffectNoteInst || k == KindEffectNote
}

func (k Kind) HasInst() bool {
	return k == KindNote || k == KindEffectNoteInst || k == KindEffectInst
}

func Classify(op byte) Kind {
	switch {
	case op < 0x40:
		return KindDelay
	case op < 0x50:
		return KindEffect
	case op < 0x80:
		return KindUnknown
	case op < 0xC0:
		return KindNote
	case op < 0xD0:
		return KindEffectNoteInst
	case op < 0xE0:
		return KindEffectNote
	case op < 0xF0:
		return KindEffectInst
	}
	return KindUnknown
}

// Command is one decoded event. Inst is the raw driver instrument number.
type Command struct {
	Kind   Kind
	Op     byte
	Offset int
	Delay  int
	Effect byte
	Param  byte
	Note   byte
	Inst   byte
}

func (c Command) Size() int {
	return c.Kind.Size()
}

// ReadCommand decodes the command at off. Operand bytes past the end of the
// dump are reported as view.ErrOutOfRange.
func ReadCommand(dump view.View, off int) (Command, error) {
	op, err := dump.Byte(off)
	if err != nil {
		return Command{}, err
	}
	cmd := Command{
		Kind:   Classify(op),
		Op:     op,
		Offset: off,
	}
	if cmd.Kind.HasEffect() {
		cmd.Effect = op & 0x0F
	}

	operands, err := dump.Bytes(off+1, cmd.Size()-1)
	if err != nil {
		return Command{}, errors.Wrapf(err, "%s command $%02X at $%04X", cmd.Kind, op, off)
	}

	switch cmd.Kind {
	case KindDelay:
		cmd.Delay = int(op)
	case KindEffect:
		cmd.Param = operands[0]
	case KindNote:
		cmd.Note = op & 0x7F
		cmd.Inst = operands[0]
	case KindEffectNoteInst:
		cmd.Param, cmd.Note, cmd.Inst = operands[0], operands[1], operands[2]
	case KindEffectNote:
		cmd.Param, cmd.Note = operands[0], operands[1]
	case KindEffectInst:
		cmd.Param, cmd.Inst = operands[0], operands[1]
	}
	return cmd, nil
}
