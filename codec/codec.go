// Package codec holds the low-level primitives the parity
// format is built from: little-endian integer packing, the XOR reducers
// behind the block grid, the block CRC, and the whole-file streaming hash.
package codec

import (
	"encoding/binary"
	"hash/crc32"
	"io"

	"lukechampine.com/blake3"
)

// HashSize is the width, in bytes, of the whole-file hash pinned by the
// format (BLAKE3-256).
const HashSize = 32

// ChunkSize is the minimum streaming buffer size used by WholeFileHash.
const ChunkSize = 1 << 20 // 1 MiB

// PutU16 encodes v as little-endian into buf[:2].
func PutU16(buf []byte, v uint16) { binary.LittleEndian.PutUint16(buf, v) }

// PutU32 encodes v as little-endian into buf[:4].
func PutU32(buf []byte, v uint32) { binary.LittleEndian.PutUint32(buf, v) }

// PutU64 encodes v as little-endian into buf[:8].
func PutU64(buf []byte, v uint64) { binary.LittleEndian.PutUint64(buf, v) }

// U16 decodes a little-endian uint16 from buf[:2].
func U16(buf []byte) uint16 { return binary.LittleEndian.Uint16(buf) }

// U32 decodes a little-endian uint32 from buf[:4].
func U32(buf []byte) uint32 { return binary.LittleEndian.Uint32(buf) }

// U64 decodes a little-endian uint64 from buf[:8].
func U64(buf []byte) uint64 { return binary.LittleEndian.Uint64(buf) }

// CRC32 computes the CRC-32/IEEE checksum over b, matching a standard
// table-driven implementation byte for byte. hash/crc32 uses a
// lazily-built IEEE table internally (crc32.ChecksumIEEE), so there is no
// third-party alternative to reach for here: this is the IEEE polynomial
// the format pins, not a faster/incompatible variant.
func CRC32(b []byte) uint32 {
	return crc32.ChecksumIEEE(b)
}

// XORReduce returns the XOR of every byte in b, used for both the row and
// column reducers of the block grid.
func XORReduce(b []byte) byte {
	var acc byte
	for _, v := range b {
		acc ^= v
	}
	return acc
}

// WholeFileHash streams r to EOF through a BLAKE3-256 digest in ChunkSize
// chunks and returns the resulting HashSize-byte digest. Collisions are not
// a security concern here; the digest only identifies "bit-identical data
// file".
func WholeFileHash(r io.Reader) ([]byte, error) {
	h := blake3.New(HashSize, nil)
	buf := make([]byte, ChunkSize)
	for {
		n, err := io.ReadFull(r, buf)
		h.Write(buf[:n])
		if err == io.EOF || err == io.ErrUnexpectedEOF {
			break
		}
		if err != nil {
			return nil, err
		}
	}
	return h.Sum(nil), nil
}
