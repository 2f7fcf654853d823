package at

// BufferLength is the size of the command line buffer. A line holds at most
// BufferLength-1 bytes.
const BufferLength = 1024

// Framer reassembles a serial byte stream into command lines.
//
// Carriage returns are dropped and a line feed ends the line. When the buffer
// is full the pending bytes are emitted as a complete line and the byte that
// did not fit is discarded. Only one partial line exists at a time.
type Framer struct {
	buf [BufferLength]byte
	pos int
}

// Feed consumes one byte. It returns the completed line and true when b
// terminates a line, or nil and false while the line is still incomplete.
//
// The returned slice aliases the internal buffer and is only valid until the
// next call to Feed.
func (f *Framer) Feed(b byte) ([]byte, bool) {
	if b == CR {
		return nil, false
	}
	if b != LF && f.pos < BufferLength-1 {
		f.buf[f.pos] = b
		f.pos++
		return nil, false
	}

	line := f.buf[:f.pos]
	f.pos = 0
	return line, true
}

// Pending returns the number of bytes accumulated for the current line.
func (f *Framer) Pending() int {
	return f.pos
}
