package textproc

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"
)

// Unicode ranges stripped or repaired during normalization. PDF extraction
// leaves zero-width and bidi control characters behind as presentation hints;
// they carry no content and confuse downstream chunking.
var (
	reZeroWidth = regexp.MustCompile(`[\x{200B}-\x{200F}\x{202A}-\x{202E}\x{2066}-\x{2069}]`)
	reTabRun    = regexp.MustCompile(`\t+`)
	reSpaceNL   = regexp.MustCompile("[ \t]+\n")
	reNLSpace   = regexp.MustCompile("\n[ \t]+")
	reSpaceRun  = regexp.MustCompile("[ \t]{2,}")

	// Spurious separators injected between two Arabic letters: tab,
	// non-breaking space and the U+2000..U+200A space family. A plain
	// ASCII space is a legitimate word boundary and is left alone.
	reArabicGap = regexp.MustCompile(`([\x{0600}-\x{06FF}])[\t\x{00A0}\x{2000}-\x{200A}]+([\x{0600}-\x{06FF}])`)

	reArabicLetter = regexp.MustCompile(`[\x{0600}-\x{06FF}]`)
)

// Normalize cleans extraction and encoding artifacts out of raw text.
// It applies NFKC so visually identical codepoint sequences compare equal,
// strips zero-width and bidirectional control characters, collapses tab and
// space runs, and deletes spurious inter-letter spacing inside Arabic words.
// Normalize never fails and is idempotent: applying it twice yields the same
// string as applying it once.
func Normalize(text string) string {
	text = norm.NFKC.String(text)
	text = strings.ReplaceAll(text, "\r\n", "\n")
	text = reZeroWidth.ReplaceAllString(text, "")
	text = reTabRun.ReplaceAllString(text, " ")
	text = reSpaceNL.ReplaceAllString(text, "\n")
	text = reNLSpace.ReplaceAllString(text, "\n")
	text = reSpaceRun.ReplaceAllString(text, " ")

	// Regex replacement is non-overlapping, so a run like "X X X" needs a
	// second pass to catch the middle gap. Three passes converge in practice;
	// stop early once a pass is a no-op.
	for i := 0; i < 3; i++ {
		before := text
		text = reArabicGap.ReplaceAllString(text, "$1$2")
		if text == before {
			break
		}
	}

	return strings.TrimSpace(text)
}

// RepairReversedLines fixes the word-order corruption PDF extraction produces
// for right-to-left documents rendered left-to-right: any line whose letters
// are at least 60% Arabic has its whitespace-delimited tokens reversed
// (word order, not characters within a word).
//
// This is an extraction-artifact repair, not a general normalization: apply
// it exactly once, at extraction time. Reapplying it reverses the line back.
func RepairReversedLines(text string) string {
	lines := strings.Split(text, "\n")
	for i, line := range lines {
		arabic := len(reArabicLetter.FindAllString(line, -1))
		if arabic == 0 {
			continue
		}
		letters := 0
		for _, r := range line {
			if unicode.IsLetter(r) {
				letters++
			}
		}
		if letters == 0 {
			letters = 1
		}
		if float64(arabic)/float64(letters) < 0.6 {
			continue
		}
		tokens := strings.Fields(line)
		for l, r := 0, len(tokens)-1; l < r; l, r = l+1, r-1 {
			tokens[l], tokens[r] = tokens[r], tokens[l]
		}
		lines[i] = strings.Join(tokens, " ")
	}
	return strings.Join(lines, "\n")
}

// NormalizeExtracted is the normalization applied to freshly extracted PDF
// text: general cleanup plus the one-shot reversed-line repair.
func NormalizeExtracted(text string) string {
	return strings.TrimSpace(RepairReversedLines(Normalize(text)))
}
