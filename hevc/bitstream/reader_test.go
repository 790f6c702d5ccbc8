package bitstream

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReadBits(t *testing.T) {
	r := NewReader([]byte{0xb9, 0x40})

	v, err := r.ReadBits(3)
	require.NoError(t, err)
	assert.Equal(t, uint32(0x5), v)

	v, err = r.ReadBits(8)
	require.NoError(t, err)
	assert.Equal(t, uint32(0xca), v)

	// 5 bits of zero padding remain.
	assert.Equal(t, uint(5), r.NumBitsLeft())
	v, err = r.ReadBits(5)
	require.NoError(t, err)
	assert.Equal(t, uint32(0), v)
	assert.Equal(t, uint(0), r.NumBitsLeft())
}

func TestReadBitsWide(t *testing.T) {
	r := NewReader([]byte{0x3b, 0xd5, 0xb7, 0xdd, 0xff})

	v, err := r.ReadBits(3)
	require.NoError(t, err)
	assert.Equal(t, uint32(0x1), v)

	v, err = r.ReadBits(32)
	require.NoError(t, err)
	assert.Equal(t, uint32(0xdeadbeef), v)

	v, err = r.ReadBits(5)
	require.NoError(t, err)
	assert.Equal(t, uint32(0x1f), v)
}

func TestRoundTrip(t *testing.T) {
	rng := rand.New(rand.NewSource(0x265))

	type field struct {
		v uint32
		n uint
	}
	fields := make([]field, 1000)
	w := NewWriter()
	for i := range fields {
		n := uint(rng.Intn(32) + 1)
		v := rng.Uint32() & (1<<n - 1)
		fields[i] = field{v, n}
		w.WriteBits(v, n)
	}
	w.WriteAlignZero()

	r := NewReader(w.Bytes())
	for i, f := range fields {
		v, err := r.ReadBits(f.n)
		require.NoError(t, err, "field %d", i)
		require.Equal(t, f.v, v, "field %d (%d bits)", i, f.n)
	}
}

func TestPeekBits(t *testing.T) {
	r := NewReader([]byte{0xb9, 0x40, 0x17})

	assert.Equal(t, uint32(0x5), r.PeekBits(3))
	assert.Equal(t, uint32(0xb9), r.PeekBits(8))
	assert.Equal(t, uint32(0xb94017), r.PeekBits(24))
	assert.Equal(t, uint(24), r.NumBitsLeft())

	// Peeking commits nothing; the next read starts at bit 0.
	v, err := r.ReadBits(3)
	require.NoError(t, err)
	assert.Equal(t, uint32(0x5), v)
	assert.Equal(t, uint32(0xca), r.PeekBits(8))
}

func TestPeekBitsAgreesWithRead(t *testing.T) {
	rng := rand.New(rand.NewSource(0x33))
	buf := make([]byte, 64)
	rng.Read(buf)

	r := NewReader(buf)
	for r.NumBitsLeft() > 0 {
		n := uint(rng.Intn(32) + 1)
		if left := r.NumBitsLeft(); n > left {
			n = left
		}
		peeked := r.PeekBits(n)
		v, err := r.ReadBits(n)
		require.NoError(t, err)
		require.Equal(t, peeked, v)
	}
}

func TestPeekBitsPastEnd(t *testing.T) {
	r := NewReader([]byte{0xff})

	// The missing 4 bits read as zero.
	assert.Equal(t, uint32(0xff0), r.PeekBits(12))
	assert.Equal(t, uint(8), r.NumBitsLeft())

	v, err := r.ReadBits(8)
	require.NoError(t, err)
	assert.Equal(t, uint32(0xff), v)
	assert.Equal(t, uint32(0), r.PeekBits(32))

	r = NewReader(nil)
	assert.Equal(t, uint32(0), r.PeekBits(16))
}

func TestReadBitsOverrun(t *testing.T) {
	r := NewReader([]byte{0xab})

	_, err := r.ReadBits(9)
	require.Error(t, err)

	// The failed read must not have consumed anything.
	v, err := r.ReadBits(8)
	require.NoError(t, err)
	assert.Equal(t, uint32(0xab), v)

	_, err = r.ReadBits(1)
	require.Error(t, err)
}

func TestReadBitsTooWide(t *testing.T) {
	r := NewReader([]byte{0, 0, 0, 0, 0})
	assert.Panics(t, func() { r.ReadBits(33) })
	assert.Panics(t, func() { r.PeekBits(33) })
}

func TestNumBitsLeft(t *testing.T) {
	r := NewReader([]byte{0x12, 0x34})
	assert.Equal(t, uint(16), r.NumBitsLeft())

	_, err := r.ReadBits(3)
	require.NoError(t, err)
	assert.Equal(t, uint(13), r.NumBitsLeft())

	_, err = r.ReadBits(13)
	require.NoError(t, err)
	assert.Equal(t, uint(0), r.NumBitsLeft())
}
