package analysis

import (
	"pgm2xm/decode"
	"pgm2xm/parse"
)

const (
	effectPositionJump = 0x0B
	effectPatternBreak = 0x0D
)

// getPatternBreakInfo finds the first row that leaves the pattern early. A
// position jump on that row wins over a pattern break.
func getPatternBreakInfo(pat *decode.Pattern) (breakRow int, jumpTarget int) {
	for row := range pat.Rows {
		found := false
		for _, c := range pat.Rows[row] {
			if c.Fields&decode.FieldEffect == 0 {
				continue
			}
			switch c.Effect {
			case effectPositionJump:
				return row, int(c.Param)
			case effectPatternBreak:
				found = true
			}
		}
		if found {
			return row, -1
		}
	}
	return decode.Rows, -1
}

// findReachablePositions follows the position list from the start, taking
// position jumps, until a position repeats or the list ends.
func findReachablePositions(song parse.Song, breaks, jumps map[int]int) []int {
	visited := make(map[int]bool)
	var positions []int
	pos := 0

	for pos >= 0 && pos < len(song.Positions) && !visited[pos] {
		visited[pos] = true
		positions = append(positions, pos)

		pat := int(song.Positions[pos])
		if pat >= song.NumPatterns {
			pos++
			continue
		}
		if breaks[pat] < decode.Rows && jumps[pat] >= 0 {
			pos = jumps[pat]
			continue
		}
		pos++
	}
	return positions
}
