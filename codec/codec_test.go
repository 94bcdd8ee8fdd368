package codec

import (
	"bytes"
	"hash/crc32"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestPackUnpackRoundtrip(t *testing.T) {
	buf := make([]byte, 8)

	PutU16(buf, 0xBEEF)
	require.Equal(t, uint16(0xBEEF), U16(buf))

	PutU32(buf, 0xDEADBEEF)
	require.Equal(t, uint32(0xDEADBEEF), U32(buf))

	PutU64(buf, 0x0102030405060708)
	require.Equal(t, uint64(0x0102030405060708), U64(buf))
}

func TestCRC32MatchesStandardTable(t *testing.T) {
	data := []byte("the quick brown fox jumps over the lazy dog")
	require.Equal(t, crc32.ChecksumIEEE(data), CRC32(data))
}

func TestXORReduce(t *testing.T) {
	require.Equal(t, byte(0), XORReduce([]byte{0, 0, 0, 0}))
	require.Equal(t, byte(0x0F), XORReduce([]byte{0x01, 0x02, 0x0C}))
	require.Equal(t, byte(0x5A), XORReduce([]byte{0x5A}))
}

func TestWholeFileHashDeterministic(t *testing.T) {
	data := bytes.Repeat([]byte{0x42}, 3*ChunkSize+17)

	h1, err := WholeFileHash(bytes.NewReader(data))
	require.NoError(t, err)
	h2, err := WholeFileHash(bytes.NewReader(data))
	require.NoError(t, err)

	require.Equal(t, h1, h2)
	require.Len(t, h1, HashSize)

	extended := append(append([]byte{}, data...), 0x00)
	other, err := WholeFileHash(bytes.NewReader(extended))
	require.NoError(t, err)
	require.NotEqual(t, h1, other)
}
