package textproc

// Script is the dominant Unicode script family of a document, used to pick a
// pronunciation instruction for the synthesis engine.
type Script string

const (
	ScriptArabic     Script = "arabic"
	ScriptDevanagari Script = "devanagari"
	ScriptLatin      Script = "latin"
	ScriptCyrillic   Script = "cyrillic"
	ScriptUnknown    Script = "unknown"
)

// scriptRanges holds the classified codepoint ranges in canonical declaration
// order; the order doubles as the tie-break when counts are equal.
var scriptRanges = []struct {
	script   Script
	lo1, hi1 rune
	lo2, hi2 rune
}{
	{ScriptArabic, 0x0600, 0x06FF, 0, 0},
	{ScriptDevanagari, 0x0900, 0x097F, 0, 0},
	{ScriptLatin, 0x0041, 0x007A, 0x00C0, 0x024F},
	{ScriptCyrillic, 0x0400, 0x04FF, 0, 0},
}

// DetectScript classifies the dominant script of text by codepoint histogram.
// Characters outside every range are ignored; if nothing matches, the result
// is ScriptUnknown. The classification is a pure function of its input and is
// computed once per document, never per chunk.
func DetectScript(text string) Script {
	counts := make([]int, len(scriptRanges))
	for _, r := range text {
		for i, sr := range scriptRanges {
			if (r >= sr.lo1 && r <= sr.hi1) || (sr.lo2 != 0 && r >= sr.lo2 && r <= sr.hi2) {
				counts[i]++
				break
			}
		}
	}

	best := -1
	bestCount := 0
	for i, c := range counts {
		if c > bestCount {
			best = i
			bestCount = c
		}
	}
	if best < 0 {
		return ScriptUnknown
	}
	return scriptRanges[best].script
}
