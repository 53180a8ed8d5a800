package textproc

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// Chunk is a bounded-size contiguous slice of document text queued for
// independent synthesis. SequenceIndex values are 1-based and gap-free in
// source order; Length is the character (rune) count of Text.
type Chunk struct {
	Text          string
	SequenceIndex int
	Length        int
}

// Segment splits text into ordered chunks of at most maxChunkSize characters,
// preferring sentence boundaries. Two passes: a coarse split at
// period-whitespace-uppercase boundaries with greedy accumulation, then a
// fine split of any still-oversized chunk at sentence-ending punctuation.
// A single fine-grained sentence longer than maxChunkSize is emitted as its
// own oversized chunk; content is never truncated or dropped.
//
// The boundary heuristics are deliberately naive (an abbreviation like
// "Mr. Smith" reads as a sentence end to the fine pass); chunk boundaries are
// tuned against them downstream, so they stay as documented.
func Segment(text string, maxChunkSize int) []Chunk {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil
	}

	coarse := accumulate(splitCoarse(text), maxChunkSize)

	var chunks []Chunk
	for _, c := range coarse {
		if utf8.RuneCountInString(c) <= maxChunkSize {
			chunks = append(chunks, Chunk{Text: c})
			continue
		}
		for _, f := range accumulate(splitFine(c), maxChunkSize) {
			chunks = append(chunks, Chunk{Text: f})
		}
	}

	for i := range chunks {
		chunks[i].SequenceIndex = i + 1
		chunks[i].Length = utf8.RuneCountInString(chunks[i].Text)
	}
	return chunks
}

// splitCoarse splits at a period followed by whitespace and an ASCII
// uppercase letter. The period stays with the preceding sentence; the
// whitespace between sentences is dropped.
func splitCoarse(text string) []string {
	runes := []rune(text)
	var parts []string
	start := 0
	for i := 0; i < len(runes); i++ {
		if runes[i] != '.' {
			continue
		}
		j := i + 1
		for j < len(runes) && unicode.IsSpace(runes[j]) {
			j++
		}
		if j > i+1 && j < len(runes) && runes[j] >= 'A' && runes[j] <= 'Z' {
			parts = append(parts, string(runes[start:i+1]))
			start = j
			i = j - 1
		}
	}
	if start < len(runes) {
		parts = append(parts, string(runes[start:]))
	}
	return parts
}

// splitFine splits at '.', '!' or '?' followed by whitespace, keeping the
// punctuation with the preceding sentence.
func splitFine(text string) []string {
	runes := []rune(text)
	var parts []string
	start := 0
	for i := 0; i < len(runes); i++ {
		switch runes[i] {
		case '.', '!', '?':
		default:
			continue
		}
		j := i + 1
		for j < len(runes) && unicode.IsSpace(runes[j]) {
			j++
		}
		if j > i+1 && j < len(runes) {
			parts = append(parts, string(runes[start:i+1]))
			start = j
			i = j - 1
		}
	}
	if start < len(runes) {
		parts = append(parts, string(runes[start:]))
	}
	return parts
}

// accumulate greedily packs sentences into chunks: when appending the next
// sentence would push the current chunk past maxSize, the chunk is closed and
// the sentence starts a new one. A lone sentence over maxSize passes through
// unchanged.
func accumulate(sentences []string, maxSize int) []string {
	var out []string
	var cur strings.Builder
	curLen := 0

	for _, s := range sentences {
		s = strings.TrimSpace(s)
		if s == "" {
			continue
		}
		n := utf8.RuneCountInString(s)
		if curLen > 0 && curLen+1+n > maxSize {
			out = append(out, cur.String())
			cur.Reset()
			curLen = 0
		}
		if curLen > 0 {
			cur.WriteByte(' ')
			curLen++
		}
		cur.WriteString(s)
		curLen += n
	}
	if curLen > 0 {
		out = append(out, cur.String())
	}
	return out
}
