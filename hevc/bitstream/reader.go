package bitstream

import (
	"github.com/pkg/errors"

	"github.com/govideo/gohevc/hevc/log"
)

// Reader consumes bit fields from a byte buffer it does not own; the
// caller keeps the buffer alive for the reader's lifetime and must not
// mutate it. Bits already loaded from the buffer but not yet consumed
// sit in the low numHeldBits bits of heldBits; anything above them is
// stale and gets masked off on consumption.
type Reader struct {
	fifo        []byte
	cursor      int
	heldBits    uint8
	numHeldBits uint
}

// NewReader returns a reader over buf with the read position at bit 0.
func NewReader(buf []byte) *Reader {
	return &Reader{fifo: buf}
}

// ReadBits extracts the next n bits of the stream, MSB first, returning
// them right-justified. n must be at most 32. Reading past the end of
// the buffer returns an error and leaves the reader untouched; the
// framing above is expected to make that impossible on a conforming
// stream, and a decode hitting it must abort rather than continue on a
// desynchronized position.
func (r *Reader) ReadBits(n uint) (uint32, error) {
	if n > 32 {
		panic("bitstream: cannot read more than 32 bits at once")
	}

	if n <= r.numHeldBits {
		// Enough residue from the last byte load; mask off the stale
		// high bits above the residue.
		v := uint32(r.heldBits>>(r.numHeldBits-n)) & (1<<n - 1)
		r.numHeldBits -= n
		if log.Tracing() {
			log.Tracef("bitstream: read %2d bits: 0x%X", n, v)
		}
		return v, nil
	}

	// All held bits become the top of the result; the rest comes from
	// whole bytes loaded MSB first into a 32-bit word.
	want := n
	n -= r.numHeldBits
	v := uint32(r.heldBits) & (1<<r.numHeldBits - 1)
	v <<= n

	numBytes := int((n - 1) >> 3)
	if r.cursor+numBytes >= len(r.fifo) {
		return 0, errors.Errorf(
			"bitstream: read of %d more bits overruns buffer (%d bytes unread)",
			n, len(r.fifo)-r.cursor)
	}

	var word uint32
	switch numBytes {
	case 3:
		word = uint32(r.fifo[r.cursor]) << 24
		r.cursor++
		fallthrough
	case 2:
		word |= uint32(r.fifo[r.cursor]) << 16
		r.cursor++
		fallthrough
	case 1:
		word |= uint32(r.fifo[r.cursor]) << 8
		r.cursor++
		fallthrough
	case 0:
		word |= uint32(r.fifo[r.cursor])
		r.cursor++
	}

	// The low bits of the last loaded byte that the caller did not ask
	// for become the new residue.
	nextNumHeld := (32 - n) % 8
	v |= word >> nextNumHeld
	r.heldBits = uint8(word)
	r.numHeldBits = nextNumHeld

	if log.Tracing() {
		log.Tracef("bitstream: read %2d bits: 0x%X", want, v)
	}
	return v, nil
}

// PeekBits returns the next n bits without moving the read position.
// Running past the physical end of the buffer is not a fault here: the
// missing bits read as zero, as if the stream carried an infinite zero
// suffix. Callers use this to branch on upcoming syntax (start codes,
// trailing bits) before committing to a real read, possibly right at
// the end of the buffer.
func (r *Reader) PeekBits(n uint) uint32 {
	if n > 32 {
		panic("bitstream: cannot peek more than 32 bits at once")
	}

	savedHeld := r.heldBits
	savedNumHeld := r.numHeldBits
	savedCursor := r.cursor

	toRead := n
	if left := r.NumBitsLeft(); left < toRead {
		toRead = left
	}
	v, _ := r.ReadBits(toRead) // bounded above, cannot overrun
	v <<= n - toRead

	r.heldBits = savedHeld
	r.numHeldBits = savedNumHeld
	r.cursor = savedCursor
	return v
}

// NumBitsLeft returns how many bits remain unread in the buffer.
func (r *Reader) NumBitsLeft() uint {
	return 8*uint(len(r.fifo)-r.cursor) + r.numHeldBits
}
