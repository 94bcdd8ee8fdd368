package pars

import (
	"fmt"
	"io"

	"github.com/danhtran/pars/codec"
)

var (
	// MagicStart is the fixed 4-byte prefix of every parity file.
	MagicStart = [4]byte{'P', 'A', 'R', 'S'}
	// MagicEnd is the fixed 4-byte trailer of every parity file.
	MagicEnd = [4]byte{'S', 'R', 'A', 'P'}
)

// HashSize is the width of the whole-file hash pinned by this format
// (BLAKE3-256). See SPEC_FULL.md Open Question 1.
const HashSize = codec.HashSize

// fixedHeaderLen is the byte length of the header prefix up to and
// including file_name_length, i.e. everything before the variable-length
// file name: magic(4) + file_size(8) + whole_hash(H) + block_dim(4) +
// full_block_count(8) + last_block_dim(4) + file_name_length(2).
const fixedHeaderLen = 4 + 8 + HashSize + 4 + 8 + 4 + 2

// FileHeader is the parsed parity-file header, exposed to callers via
// GetHeader for read-only inspection.
type FileHeader struct {
	FileSize       uint64
	WholeHash      []byte
	BlockDim       uint32
	FullBlockCount uint64
	LastBlockDim   uint32
	FileName       string
}

// RecordByteLen returns the on-disk size of a single full-block parity
// record: crc(4) + col(D) + row(D).
func (h *FileHeader) RecordByteLen() uint64 {
	return uint64(2*h.BlockDim) + 4
}

// TailRecordByteLen returns the on-disk size of the tail-block parity
// record, or 0 if there is no tail.
func (h *FileHeader) TailRecordByteLen() uint64 {
	if h.LastBlockDim == 0 {
		return 0
	}
	return uint64(2*h.LastBlockDim) + 4
}

// ExpectedFileSize is the parity-file size implied by the header fields,
// per the §3 invariant.
func (h *FileHeader) ExpectedFileSize() uint64 {
	size := fixedHeaderLen + uint64(len(h.FileName))
	size += h.RecordByteLen() * h.FullBlockCount
	size += h.TailRecordByteLen()
	size += 4 // trailer
	return size
}

// writeHeader writes the magic-start-through-file-name prefix, bit exact.
func writeHeader(w io.Writer, h *FileHeader) error {
	if len(h.WholeHash) != HashSize {
		return fmt.Errorf("pars: whole file hash must be %d bytes, got %d", HashSize, len(h.WholeHash))
	}

	buf := make([]byte, fixedHeaderLen)
	off := 0
	copy(buf[off:], MagicStart[:])
	off += 4
	codec.PutU64(buf[off:], h.FileSize)
	off += 8
	copy(buf[off:], h.WholeHash)
	off += HashSize
	codec.PutU32(buf[off:], h.BlockDim)
	off += 4
	codec.PutU64(buf[off:], h.FullBlockCount)
	off += 8
	codec.PutU32(buf[off:], h.LastBlockDim)
	off += 4
	nameBytes := []byte(h.FileName)
	codec.PutU16(buf[off:], uint16(len(nameBytes)))
	off += 2

	if _, err := w.Write(buf); err != nil {
		return err
	}
	_, err := w.Write(nameBytes)
	return err
}

// readHeader reads the magic-start-through-file-name prefix from r. r must
// yield at least fixedHeaderLen bytes before the file name. A wrong start
// magic is reported as a ParityMagicMissing *Error; the end magic is not
// checked here.
func readHeader(r io.Reader) (*FileHeader, error) {
	buf := make([]byte, fixedHeaderLen)
	if _, err := io.ReadFull(r, buf); err != nil {
		return nil, err
	}

	if string(buf[0:4]) != string(MagicStart[:]) {
		return nil, errMagicMissing("start")
	}

	h := &FileHeader{}
	off := 4
	h.FileSize = codec.U64(buf[off:])
	off += 8
	h.WholeHash = append([]byte(nil), buf[off:off+HashSize]...)
	off += HashSize
	h.BlockDim = codec.U32(buf[off:])
	off += 4
	h.FullBlockCount = codec.U64(buf[off:])
	off += 8
	h.LastBlockDim = codec.U32(buf[off:])
	off += 4
	nameLen := codec.U16(buf[off:])

	name := make([]byte, nameLen)
	if nameLen > 0 {
		if _, err := io.ReadFull(r, name); err != nil {
			return nil, err
		}
	}
	h.FileName = string(name)

	return h, nil
}

func errMagicMissing(which string) error {
	return newErr(ParityMagicMissing, fmt.Sprintf("%s magic missing or corrupt", which), nil)
}
