package framer

import "bytes"

// Framer assembles complete lines from a stream of byte chunks for one
// source. A line may span any number of chunks; at most one partial line is
// held between feeds. Lines are delivered without their LF or CRLF
// terminator. Splitting is byte-based, so chunk boundaries may fall inside
// multi-byte characters without corrupting the framed line.
type Framer struct {
	pending []byte
}

// Feed consumes one chunk and returns the complete lines it finishes, in
// input order.
func (f *Framer) Feed(chunk []byte) []string {
	var lines []string
	for len(chunk) > 0 {
		i := bytes.IndexByte(chunk, '\n')
		if i < 0 {
			f.pending = append(f.pending, chunk...)
			break
		}
		line := chunk[:i]
		if len(f.pending) > 0 {
			line = append(f.pending, line...)
		}
		lines = append(lines, string(trimCR(line)))
		f.pending = f.pending[:0]
		chunk = chunk[i+1:]
	}
	return lines
}

// Flush returns the unterminated leftover at end of input, if any. The
// framer is empty afterwards. A trailing CR is kept: without an LF after
// it, the CR is content rather than part of a terminator.
func (f *Framer) Flush() (string, bool) {
	if len(f.pending) == 0 {
		return "", false
	}
	line := string(f.pending)
	f.pending = f.pending[:0]
	return line, true
}

func trimCR(b []byte) []byte {
	if n := len(b); n > 0 && b[n-1] == '\r' {
		return b[:n-1]
	}
	return b
}
