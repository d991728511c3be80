package analysis

import (
	"reflect"
	"testing"

	"pgm2xm/decode"
	"pgm2xm/parse"
)

func emptyPattern(index, channels int) decode.Pattern {
	pat := decode.Pattern{Index: index}
	for r := range pat.Rows {
		pat.Rows[r] = make([]decode.Cell, channels)
	}
	return pat
}

func TestAnalyze(t *testing.T) {
	song := parse.Song{NumChannels: 2, NumPatterns: 4, Positions: []byte{0, 1, 2, 0}}
	pats := []decode.Pattern{emptyPattern(0, 2), emptyPattern(1, 2), emptyPattern(2, 2), emptyPattern(3, 2)}

	pats[0].Rows[0][0] = decode.Cell{Fields: decode.FieldNote | decode.FieldInst, Note: 40, Inst: 1}
	pats[0].Rows[4][1] = decode.Cell{Fields: decode.FieldNote | decode.FieldInst | decode.FieldEffect, Note: 41, Inst: 2, Effect: 0x0E, Param: 0x5B}
	// Pattern 1 breaks at row 16; pattern 2 jumps back to position 1 at row 32.
	pats[1].Rows[16][1] = decode.Cell{Fields: decode.FieldEffect, Effect: effectPatternBreak}
	pats[2].Rows[32][0] = decode.Cell{Fields: decode.FieldEffect, Effect: effectPatternBreak}
	pats[2].Rows[32][1] = decode.Cell{Fields: decode.FieldEffect, Effect: effectPositionJump, Param: 1}

	a := Analyze(song, pats)

	if !reflect.DeepEqual(a.ReachablePositions, []int{0, 1, 2}) {
		t.Errorf("reachable positions: got %v, want [0 1 2]", a.ReachablePositions)
	}
	if !reflect.DeepEqual(a.UnusedPatterns, []int{3}) {
		t.Errorf("unused patterns: got %v, want [3]", a.UnusedPatterns)
	}
	if a.PatternBreaks[0] != decode.Rows || a.PatternBreaks[1] != 16 || a.PatternBreaks[2] != 32 {
		t.Errorf("breaks: got %v", a.PatternBreaks)
	}
	if a.PatternJumps[1] != -1 || a.PatternJumps[2] != 1 {
		t.Errorf("jumps: got %v", a.PatternJumps)
	}
	if a.Notes != 2 || a.InstrumentFreq[1] != 1 || a.InstrumentFreq[2] != 1 {
		t.Errorf("cells: got %d notes, instruments %v", a.Notes, a.InstrumentFreq)
	}
	if got := a.UsedEffects(); !reflect.DeepEqual(got, []byte{0x0B, 0x0D, 0x0E}) {
		t.Errorf("effects: got % X, want 0B 0D 0E", got)
	}
}

func TestReachableSkipsBadPositions(t *testing.T) {
	song := parse.Song{NumChannels: 1, NumPatterns: 1, Positions: []byte{0, 9, 0}}
	a := Analyze(song, []decode.Pattern{emptyPattern(0, 1)})
	if !reflect.DeepEqual(a.ReachablePositions, []int{0, 1, 2}) {
		t.Errorf("reachable positions: got %v, want [0 1 2]", a.ReachablePositions)
	}
	if len(a.UnusedPatterns) != 0 {
		t.Errorf("unused patterns: got %v, want none", a.UnusedPatterns)
	}
}
