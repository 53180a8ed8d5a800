package textproc

import (
	"strings"
	"testing"
)

func TestNormalizeWhitespace(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"crlf to lf", "line one\r\nline two", "line one\nline two"},
		{"tab runs", "a\t\t\tb", "a b"},
		{"space runs", "a    b", "a b"},
		{"trailing space before newline", "a  \nb", "a\nb"},
		{"leading space after newline", "a\n   b", "a\nb"},
		{"surrounding whitespace trimmed", "  hello  ", "hello"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Normalize(tt.in); got != tt.want {
				t.Errorf("Normalize(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestNormalizeStripsInvisibleCharacters(t *testing.T) {
	in := "zero\u200Bwidth\u200Fand\u202Ebidi\u2066marks"
	got := Normalize(in)
	if got != "zerowidthandbidimarks" {
		t.Errorf("Normalize(%q) = %q", in, got)
	}
}

func TestNormalizeNFKC(t *testing.T) {
	// U+FB01 is the "fi" ligature; NFKC decomposes it.
	if got := Normalize("ﬁle"); got != "file" {
		t.Errorf("ligature not folded: %q", got)
	}
	// Fullwidth digits fold to ASCII.
	if got := Normalize("１２３"); got != "123" {
		t.Errorf("fullwidth digits not folded: %q", got)
	}
}

func TestNormalizeIdempotent(t *testing.T) {
	inputs := []string{
		"plain english text",
		"a\t\tb  c\r\nd",
		"  padded  ",
		"كتاب جيد جدا",
		"mixed كتاب text\n\nwith paragraphs",
		"zero\u200Bwidth",
	}
	for _, in := range inputs {
		once := Normalize(in)
		twice := Normalize(once)
		if once != twice {
			t.Errorf("Normalize not idempotent for %q: %q != %q", in, once, twice)
		}
	}
}

func TestRepairReversedLines(t *testing.T) {
	// A mostly-Arabic line gets its token order reversed.
	in := "جدا جيد كتاب"
	want := "كتاب جيد جدا"
	if got := RepairReversedLines(in); got != want {
		t.Errorf("RepairReversedLines(%q) = %q, want %q", in, got, want)
	}
}

func TestRepairReversedLinesLeavesLatinAlone(t *testing.T) {
	in := "this is english\nand so is this"
	if got := RepairReversedLines(in); got != in {
		t.Errorf("latin text changed: %q", got)
	}
}

func TestRepairReversedLinesMixedBelowThreshold(t *testing.T) {
	// One Arabic word inside a latin sentence stays below the 60% ratio.
	in := "the word كتاب means book"
	if got := RepairReversedLines(in); got != in {
		t.Errorf("mixed line changed: %q", got)
	}
}

func TestRepairReversedLinesSelfInverting(t *testing.T) {
	in := "جدا جيد كتاب"
	if got := RepairReversedLines(RepairReversedLines(in)); got != in {
		t.Errorf("double repair did not restore input: %q", got)
	}
}

func TestNormalizeExtracted(t *testing.T) {
	in := "  English line\r\nجدا جيد كتاب  "
	got := NormalizeExtracted(in)
	if !strings.Contains(got, "English line") {
		t.Errorf("lost latin line: %q", got)
	}
	if !strings.Contains(got, "كتاب جيد جدا") {
		t.Errorf("arabic line not repaired: %q", got)
	}
}
