// Package bitstream packs and unpacks bit fields of 1 to 32 bits into a
// byte-oriented buffer, most significant bit first, both within a field
// and across byte boundaries. This is the wire-level bit order mandated
// by the compressed-video bitstream syntax; the syntax layer above calls
// in here once per syntax element and never touches bytes directly.
package bitstream

import (
	"github.com/govideo/gohevc/hevc/log"
)

// Writer accumulates bit fields into a growable byte buffer it owns.
// Up to 7 bits that do not yet form a whole byte are carried between
// calls in heldBits, left-justified (bit 7 is the oldest pending bit).
type Writer struct {
	fifo        []byte
	heldBits    uint8
	numHeldBits uint
}

func NewWriter() *Writer {
	return &Writer{}
}

// WriteBits appends the low n bits of bits to the stream, MSB first.
// n must be at most 32, and bits must have no set bit at position n or
// above; both are caller contracts, not recoverable conditions.
func (w *Writer) WriteBits(bits uint32, n uint) {
	if n > 32 {
		panic("bitstream: cannot write more than 32 bits at once")
	}
	if log.Tracing() {
		log.Tracef("bitstream: write %2d bits: 0x%X", n, bits)
	}

	// Whatever does not fill a whole byte after this call stays held
	// until the next one.
	total := n + w.numHeldBits
	nextNumHeld := total % 8
	nextHeld := uint8(bits << (8 - nextNumHeld))

	if total < 8 {
		// Not enough accumulated to emit a byte; the unused low bits of
		// the held byte are zero, so OR the new bits straight in.
		w.heldBits |= nextHeld
		w.numHeldBits = nextNumHeld
		return
	}

	// Justify the held bits so they sit immediately above the bits of
	// this call that get emitted, then write out whole bytes MSB first.
	up := (n - nextNumHeld) &^ 7
	word := uint32(w.heldBits)<<up | bits>>nextNumHeld

	switch total >> 3 {
	case 4:
		w.fifo = append(w.fifo, byte(word>>24))
		fallthrough
	case 3:
		w.fifo = append(w.fifo, byte(word>>16))
		fallthrough
	case 2:
		w.fifo = append(w.fifo, byte(word>>8))
		fallthrough
	case 1:
		w.fifo = append(w.fifo, byte(word))
	}

	w.heldBits = nextHeld
	w.numHeldBits = nextNumHeld
}

// WriteAlignOne pads the stream with one-bits up to the next byte
// boundary. No-op when already aligned.
func (w *Writer) WriteAlignOne() {
	n := w.NumBitsUntilByteAligned()
	w.WriteBits(1<<n-1, n)
}

// WriteAlignZero pads the stream with zero-bits up to the next byte
// boundary. No-op when already aligned.
func (w *Writer) WriteAlignZero() {
	if w.numHeldBits == 0 {
		return
	}
	// Unused low bits of the held byte are already zero.
	w.fifo = append(w.fifo, w.heldBits)
	w.heldBits = 0
	w.numHeldBits = 0
}

// Bytes returns the flushed bytes of the stream. Held bits are not
// visible; align first if a complete result is required. The returned
// slice is a view into the writer and is invalidated by the next
// mutating call.
func (w *Writer) Bytes() []byte {
	return w.fifo
}

// Len returns the number of flushed bytes.
func (w *Writer) Len() int {
	return len(w.fifo)
}

// NumberOfWrittenBits returns the total bits written, held bits included.
func (w *Writer) NumberOfWrittenBits() uint {
	return 8*uint(len(w.fifo)) + w.numHeldBits
}

// NumBitsUntilByteAligned returns how many bits (0-7) are still needed
// to reach the next byte boundary.
func (w *Writer) NumBitsUntilByteAligned() uint {
	return (8 - w.numHeldBits) & 7
}

// Reset empties the writer so it can be reused for another stream.
func (w *Writer) Reset() {
	w.fifo = w.fifo[:0]
	w.heldBits = 0
	w.numHeldBits = 0
}

// InsertAt splices all flushed bytes of src into the stream immediately
// before byte offset pos, shifting everything at and after pos later.
// src must be byte aligned; this is how independently encoded fragments
// (a rewritten header, a parameter set) are spliced into a larger
// stream without re-encoding it.
func (w *Writer) InsertAt(src *Writer, pos int) {
	if src.NumberOfWrittenBits()%8 != 0 {
		panic("bitstream: insert source is not byte aligned")
	}
	log.Tracef("bitstream: insert %d bytes at offset %d", src.Len(), pos)

	fifo := make([]byte, 0, len(w.fifo)+len(src.fifo))
	fifo = append(fifo, w.fifo[:pos]...)
	fifo = append(fifo, src.fifo...)
	fifo = append(fifo, w.fifo[pos:]...)
	w.fifo = fifo
}
