package textproc

import (
	"strings"
	"testing"
)

func TestCleanText(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"collapse whitespace", "Hello   world\n\ttabs", "Hello world tabs"},
		{"space after sentence stop", "First.Second sentence", "First. Second sentence"},
		{"space after comma", "one ,two", "one, two"},
		{"no space before punctuation", "wait !", "wait!"},
		{"long ellipsis", "well.....", "well..."},
		{"smart quotes", "“hi” and ‘there’", `"hi" and 'there'`},
		{"dashes and bullets", "a – b — c • d", "a - b -- c - d"},
		{"control characters", "a\x01b\x02c", "a b c"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := CleanText(tt.in); got != tt.want {
				t.Errorf("CleanText(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestOptimizeAbbreviationsAndUnits(t *testing.T) {
	got := OptimizeForSpeech("Dr. Smith won 50% of the vote.")
	if !strings.Contains(got, "Doctor Smith won 50 percent of the vote") {
		t.Errorf("got %q", got)
	}
}

func TestOptimizeUnits(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"it reached 30 °C today", "it reached 30 degrees Celsius today"},
		{"about 98 °F outside", "about 98 degrees Fahrenheit outside"},
		{"turnout was 75%", "turnout was 75 percent"},
	}
	for _, tt := range tests {
		if got := OptimizeForSpeech(tt.in); got != tt.want {
			t.Errorf("OptimizeForSpeech(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestOptimizeSpokenForms(t *testing.T) {
	tests := []struct {
		in       string
		contains string
	}{
		{"Mr. Jones met Mrs. Lee", "Mister Jones met Missus Lee"},
		{"apples, oranges, etc.", "etcetera"},
		{"fast, i.e. very fast", "that is"},
		{"fruit, e.g. apples", "for example"},
		{"cats vs. dogs", "versus"},
		{"done w/o help", "without help"},
		{"the CEO spoke", "C E O"},
		{"a public API here", "A P I"},
	}
	for _, tt := range tests {
		got := OptimizeForSpeech(tt.in)
		if !strings.Contains(got, tt.contains) {
			t.Errorf("OptimizeForSpeech(%q) = %q, want substring %q", tt.in, got, tt.contains)
		}
	}
}

func TestOptimizeMarkdown(t *testing.T) {
	got := OptimizeForSpeech("This is **bold** and *italic* and `code` and [bracketed]")
	for _, bad := range []string{"*", "`", "[", "]"} {
		if strings.Contains(got, bad) {
			t.Errorf("markdown marker %q survived: %q", bad, got)
		}
	}
	for _, want := range []string{"bold", "italic", "code", "bracketed"} {
		if !strings.Contains(got, want) {
			t.Errorf("content %q lost: %q", want, got)
		}
	}
}

func TestOptimizeParenthetical(t *testing.T) {
	got := OptimizeForSpeech("He left (quietly) today.")
	if strings.ContainsAny(got, "()") {
		t.Errorf("parentheses survived: %q", got)
	}
	if !strings.Contains(got, ", quietly,") {
		t.Errorf("parenthetical not converted to aside: %q", got)
	}
}

func TestOptimizeCollapsesDuplicateStops(t *testing.T) {
	got := OptimizeForSpeech("Hello world. This is a test.")
	if strings.Contains(got, "..") {
		t.Errorf("duplicate stops not collapsed: %q", got)
	}
	if !strings.Contains(got, "world. This") {
		t.Errorf("sentence boundary mangled: %q", got)
	}
}

func TestOptimizeParagraphBreaks(t *testing.T) {
	got := OptimizeForSpeech("first paragraph\n\nsecond paragraph")
	if strings.Contains(got, "\n") {
		t.Errorf("newline survived: %q", got)
	}
	if !strings.Contains(got, "first paragraph") || !strings.Contains(got, "second paragraph") {
		t.Errorf("content lost: %q", got)
	}
}

func TestOptimizeWOrdering(t *testing.T) {
	// "w/o" must expand before "w/", otherwise "w/o" would read as "witho".
	got := OptimizeForSpeech("done w/o help but w/ care")
	if strings.Contains(got, "witho ") {
		t.Errorf("w/o corrupted by w/ rule: %q", got)
	}
	if !strings.Contains(got, "without help") || !strings.Contains(got, "with care") {
		t.Errorf("got %q", got)
	}
}
