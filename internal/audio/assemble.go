// Package audio reassembles per-chunk synthesis output into one playable
// buffer.
package audio

// Assemble concatenates MP3 segment buffers in the order given, which must
// be chunk sequence order. A single segment is returned as-is.
//
// This assumes the codec tolerates naive concatenation of independently
// generated frame streams, which holds for MP3 playback but is not
// bit-exact for seeking: players may show slight seek drift at segment
// boundaries. That is an accepted limitation, not a guarantee of the format.
func Assemble(segments [][]byte) []byte {
	switch len(segments) {
	case 0:
		return nil
	case 1:
		return segments[0]
	}

	total := 0
	for _, s := range segments {
		total += len(s)
	}

	out := make([]byte, total)
	off := 0
	for _, s := range segments {
		off += copy(out[off:], s)
	}
	return out
}
