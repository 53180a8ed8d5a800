package textproc

import (
	"regexp"
	"strings"
)

var (
	reAllSpace    = regexp.MustCompile(`\s+`)
	reControl     = regexp.MustCompile("[\x00-\x1F]")
	reSentenceCap = regexp.MustCompile(`([.!?])\s*([A-Z])`)
	reClauseSpace = regexp.MustCompile(`([,;:])\s*`)
	rePrePunct    = regexp.MustCompile(`\s+([.!?,:;])`)
	reEllipsis    = regexp.MustCompile(`\.{3,}`)

	reSentencePause = regexp.MustCompile(`([.!?])\s+`)
	reClausePause   = regexp.MustCompile(`([,:;])\s+`)
	reParaBreak     = regexp.MustCompile(`\n\n+`)
	reNewlines      = regexp.MustCompile(`\n+`)

	rePercent    = regexp.MustCompile(`\b(\d+)%`)
	reCelsius    = regexp.MustCompile(`\b(\d+)\s*°C`)
	reFahrenheit = regexp.MustCompile(`\b(\d+)\s*°F`)

	reBold    = regexp.MustCompile(`\*\*(.*?)\*\*`)
	reItalic  = regexp.MustCompile(`\*(.*?)\*`)
	reCode    = regexp.MustCompile("`(.*?)`")
	reBracket = regexp.MustCompile(`\[(.*?)\]`)
	reParen   = regexp.MustCompile(`\((.*?)\)`)

	reDupStops  = regexp.MustCompile(`([.!?])\s*[.!?]+`)
	reDupCommas = regexp.MustCompile(`,\s*,+`)
)

// typographic punctuation mapped to plain ASCII before synthesis.
var typographicReplacer = strings.NewReplacer(
	" ", " ",
	"•", "- ",
	"–", "-",
	"—", "--",
	"“", `"`,
	"”", `"`,
	"‘", "'",
	"’", "'",
)

// CleanText collapses every whitespace class to single spaces, maps common
// typographic punctuation to ASCII equivalents and normalizes the spacing
// around sentence and clause punctuation. It is the pre-pass run before
// speech optimization; pure, never fails.
func CleanText(raw string) string {
	text := reControl.ReplaceAllString(raw, " ")
	text = typographicReplacer.Replace(text)
	text = reAllSpace.ReplaceAllString(text, " ")

	text = reSentenceCap.ReplaceAllString(text, "$1 $2")
	text = reClauseSpace.ReplaceAllString(text, "$1 ")
	text = rePrePunct.ReplaceAllString(text, "$1")
	text = reEllipsis.ReplaceAllString(text, "...")
	text = reAllSpace.ReplaceAllString(text, " ")

	return strings.TrimSpace(text)
}

// Optimizer rewrites cleaned text for natural spoken delivery. The rewrite
// is deliberately not idempotent: pause markers are punctuation, so running
// it twice doubles them. Apply exactly once per pipeline run.
type Optimizer struct {
	lex *Lexicon
}

// NewOptimizer creates an optimizer using the given spoken-form lexicon.
// A nil lexicon falls back to the built-in table.
func NewOptimizer(lex *Lexicon) *Optimizer {
	if lex == nil {
		lex = DefaultLexicon()
	}
	return &Optimizer{lex: lex}
}

// Optimize applies the speech rewrite rules in order: spoken-form expansion
// (units, abbreviations, acronyms), pause-marker insertion, paragraph and
// line-break conversion, markdown and bracket stripping, then punctuation
// cleanup. Expansion runs before pause insertion so that title abbreviations
// ("Dr.") do not grow sentence pauses; pause insertion runs before the final
// cleanup, which collapses the duplicate punctuation it introduces.
func (o *Optimizer) Optimize(text string) string {
	// Numbers and units. 4-digit years are left for the engine to read.
	text = rePercent.ReplaceAllString(text, "$1 percent")
	text = reCelsius.ReplaceAllString(text, "$1 degrees Celsius")
	text = reFahrenheit.ReplaceAllString(text, "$1 degrees Fahrenheit")

	// Abbreviations and acronyms to their spoken form.
	text = o.lex.Apply(text)

	// Pause markers: a heavy pause after sentence stops, a light one after
	// clause punctuation, and paragraph breaks become pauses outright.
	text = reSentencePause.ReplaceAllString(text, "$1... ")
	text = reClausePause.ReplaceAllString(text, "$1, ")
	text = reParaBreak.ReplaceAllString(text, "... ")
	text = reNewlines.ReplaceAllString(text, " ")

	// Markdown emphasis and brackets read as their enclosed text; a
	// parenthetical becomes a comma-delimited aside.
	text = reBold.ReplaceAllString(text, "$1")
	text = reItalic.ReplaceAllString(text, "$1")
	text = reCode.ReplaceAllString(text, "$1")
	text = reBracket.ReplaceAllString(text, "$1")
	text = reParen.ReplaceAllString(text, ", $1,")

	// Final cleanup of what the rules above introduced.
	text = reAllSpace.ReplaceAllString(text, " ")
	text = reEllipsis.ReplaceAllString(text, "...")
	text = reDupStops.ReplaceAllString(text, "$1")
	text = reDupCommas.ReplaceAllString(text, ",")

	return strings.TrimSpace(text)
}

// OptimizeForSpeech rewrites text with the built-in lexicon.
func OptimizeForSpeech(text string) string {
	return NewOptimizer(nil).Optimize(text)
}
