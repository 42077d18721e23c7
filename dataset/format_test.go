package dataset

import (
	"bytes"
	"encoding/binary"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/tensorann/testutil"
)

// repetitive returns n copies of the same few vectors so codecs can shrink it.
func repetitive(n, d int) [][]float64 {
	base := testutil.NewRNG(1).UnitVectors(4, d)
	out := make([][]float64, n)
	for i := range out {
		out[i] = base[i%len(base)]
	}
	return out
}

func TestMarshalRoundTrip(t *testing.T) {
	tests := []struct {
		name        string
		data        [][]float64
		compression Compression
		want        Compression
	}{
		{"None", testutil.NewRNG(2).UnitVectors(10, 8), CompressionNone, CompressionNone},
		{"LZ4", repetitive(200, 16), CompressionLZ4, CompressionLZ4},
		{"ZSTD", repetitive(200, 16), CompressionZSTD, CompressionZSTD},
		{"Empty", [][]float64{}, CompressionZSTD, CompressionNone},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			buf, err := Marshal(tt.data, tt.compression)
			require.NoError(t, err)

			got, h, err := Unmarshal(buf)
			require.NoError(t, err)
			assert.Equal(t, tt.want, h.Compression)
			assert.Equal(t, uint32(len(tt.data)), h.N)
			assert.Len(t, got, len(tt.data))
			for i := range tt.data {
				assert.Equal(t, tt.data[i], got[i])
			}

			streamed, _, err := Decode(bytes.NewReader(buf))
			require.NoError(t, err)
			assert.Equal(t, got, streamed)
		})
	}
}

func TestMarshal_CompressionShrinks(t *testing.T) {
	data := repetitive(500, 32)

	plain, err := Marshal(data, CompressionNone)
	require.NoError(t, err)
	packed, err := Marshal(data, CompressionZSTD)
	require.NoError(t, err)

	assert.Equal(t, HeaderSize+500*32*8, len(plain))
	assert.Less(t, len(packed), len(plain)/4)
}

func TestMarshal_Ragged(t *testing.T) {
	_, err := Marshal([][]float64{{1, 0}, {1}}, CompressionNone)
	assert.ErrorIs(t, err, ErrRagged)
}

func TestUnmarshal_Corruption(t *testing.T) {
	data := testutil.NewRNG(3).UnitVectors(5, 4)
	buf, err := Marshal(data, CompressionNone)
	require.NoError(t, err)

	t.Run("Magic", func(t *testing.T) {
		bad := bytes.Clone(buf)
		bad[0] ^= 0xFF
		_, _, err := Unmarshal(bad)
		assert.ErrorIs(t, err, ErrInvalidMagic)
	})

	t.Run("Version", func(t *testing.T) {
		bad := bytes.Clone(buf)
		bad[4] = 9
		_, _, err := Unmarshal(bad)
		assert.ErrorIs(t, err, ErrUnsupportedVersion)
	})

	t.Run("Compression", func(t *testing.T) {
		bad := bytes.Clone(buf)
		bad[6] = 7
		_, _, err := Unmarshal(bad)
		assert.ErrorIs(t, err, ErrUnknownCompression)
	})

	t.Run("Payload", func(t *testing.T) {
		bad := bytes.Clone(buf)
		bad[HeaderSize+3] ^= 0xFF
		_, _, err := Unmarshal(bad)
		assert.ErrorIs(t, err, ErrChecksumMismatch)
	})

	t.Run("Truncated", func(t *testing.T) {
		_, _, err := Unmarshal(buf[:len(buf)-1])
		assert.ErrorIs(t, err, ErrCorrupt)

		_, _, err = Decode(bytes.NewReader(buf[:HeaderSize-1]))
		assert.ErrorIs(t, err, ErrCorrupt)

		_, _, err = Decode(bytes.NewReader(buf[:len(buf)-1]))
		assert.ErrorIs(t, err, ErrCorrupt)
	})

	t.Run("PayloadLongerThanRaw", func(t *testing.T) {
		bad := bytes.Clone(buf)
		binary.LittleEndian.PutUint64(bad[16:], 1<<40)
		_, _, err := Unmarshal(bad)
		assert.ErrorIs(t, err, ErrCorrupt)

		_, _, err = Decode(bytes.NewReader(bad))
		assert.ErrorIs(t, err, ErrCorrupt)
	})

	t.Run("HugeShape", func(t *testing.T) {
		bad := bytes.Clone(buf)
		binary.LittleEndian.PutUint32(bad[8:], 0xFFFFFFFF)
		binary.LittleEndian.PutUint32(bad[12:], 0xFFFFFFFF)
		binary.LittleEndian.PutUint64(bad[16:], 0xFFFFFFFFFFFFFFFF)
		_, err := DecodeHeader(bad)
		assert.ErrorIs(t, err, ErrCorrupt)

		_, _, err = Decode(bytes.NewReader(bad))
		assert.ErrorIs(t, err, ErrCorrupt)
	})
}

func TestParseCompression(t *testing.T) {
	for _, c := range []Compression{CompressionNone, CompressionLZ4, CompressionZSTD} {
		got, err := ParseCompression(c.String())
		require.NoError(t, err)
		assert.Equal(t, c, got)
	}

	_, err := ParseCompression("brotli")
	assert.ErrorIs(t, err, ErrUnknownCompression)
}
