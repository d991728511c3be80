package analysis

import (
	"sort"

	"pgm2xm/decode"
	"pgm2xm/parse"
)

type SongAnalysis struct {
	EffectUsage        map[byte]int
	InstrumentFreq     map[int]int
	ReachablePositions []int
	PatternBreaks      map[int]int // pattern -> row of its first Bxx/Dxx, 64 if none
	PatternJumps       map[int]int // pattern -> Bxx target position, -1 if none
	UnusedPatterns     []int       // patterns no reachable position plays
	Notes              int
}

// Analyze walks the decoded patterns of a song. pats[i] must be pattern i.
func Analyze(song parse.Song, pats []decode.Pattern) SongAnalysis {
	analysis := SongAnalysis{
		EffectUsage:    make(map[byte]int),
		InstrumentFreq: make(map[int]int),
		PatternBreaks:  make(map[int]int),
		PatternJumps:   make(map[int]int),
	}

	for i := range pats {
		breakRow, jumpTarget := getPatternBreakInfo(&pats[i])
		analysis.PatternBreaks[i] = breakRow
		analysis.PatternJumps[i] = jumpTarget
		analyzePatternCells(&analysis, &pats[i])
	}

	analysis.ReachablePositions = findReachablePositions(song, analysis.PatternBreaks, analysis.PatternJumps)

	played := make(map[int]bool)
	for _, pos := range analysis.ReachablePositions {
		played[int(song.Positions[pos])] = true
	}
	for i := 0; i < song.NumPatterns; i++ {
		if !played[i] {
			analysis.UnusedPatterns = append(analysis.UnusedPatterns, i)
		}
	}
	return analysis
}

func analyzePatternCells(analysis *SongAnalysis, pat *decode.Pattern) {
	for row := range pat.Rows {
		for _, c := range pat.Rows[row] {
			if c.Fields&decode.FieldNote != 0 {
				analysis.Notes++
			}
			if c.Fields&decode.FieldInst != 0 {
				analysis.InstrumentFreq[c.Inst]++
			}
			if c.Fields&decode.FieldEffect != 0 {
				analysis.EffectUsage[c.Effect]++
			}
		}
	}
}

// UsedEffects returns the effect numbers seen, in ascending order.
func (a SongAnalysis) UsedEffects() []byte {
	effects := make([]byte, 0, len(a.EffectUsage))
	for e := range a.EffectUsage {
		effects = append(effects, e)
	}
	sort.Slice(effects, func(i, j int) bool { return effects[i] < effects[j] })
	return effects
}
