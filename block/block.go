// Package block implements the per-block parity arithmetic: computing a
// block's row/column XOR vectors and CRC, and deciding, from a stored
// parity record and a freshly read block, whether the block is intact,
// fixable, fixed, or unrecoverable.
package block

import "github.com/danhtran/pars/codec"

// Verdict is the four-way outcome of checking one block against its
// stored parity record. It is deliberately a distinct type, not a bare
// int or bool, so callers can't confuse it with an unrelated flag.
type Verdict int

const (
	// Ok means the freshly computed CRC matched the stored CRC.
	Ok Verdict = iota
	// Fixable means exactly one row and one column XOR mismatched, but
	// repair was not requested.
	Fixable
	// Fixed means exactly one row and one column XOR mismatched and the
	// single bad byte was located and corrected.
	Fixed
	// Unfixable means the CRC mismatched but the row/column mismatch
	// pattern does not pin down a single byte (zero mismatches, or more
	// than one row or column involved).
	Unfixable
)

func (v Verdict) String() string {
	switch v {
	case Ok:
		return "ok"
	case Fixable:
		return "fixable"
	case Fixed:
		return "fixed"
	case Unfixable:
		return "unfixable"
	default:
		return "unknown"
	}
}

// Record is the on-disk parity record for one block: its CRC plus its
// column and row XOR vectors, each of length Dim (the block's own edge
// length, which is the tail block's D' for the trailing block).
type Record struct {
	CRC uint32
	Col []byte
	Row []byte
}

// Dim returns the block's edge length, i.e. len(Row) (== len(Col)).
func (r Record) Dim() int { return len(r.Row) }

// ByteLen is the on-disk size of the record: crc(4) + col(D) + row(D).
func (r Record) ByteLen() int { return 4 + 2*len(r.Row) }

// Compute derives the parity record for a D_block x D_block grid stored
// in buf, where only the first nData bytes of buf (nData <= dim*dim) hold
// actual data; any bytes beyond nData are padding. The CRC covers only
// buf[:nData], while the row and column vectors cover the whole buffer,
// padding included, so callers zero the padding. buf must have length
// dim*dim.
func Compute(buf []byte, dim int, nData int) Record {
	row := make([]byte, dim)
	col := make([]byte, dim)
	for i := 0; i < dim; i++ {
		r := buf[i*dim : i*dim+dim]
		row[i] = codec.XORReduce(r)
		for j := 0; j < dim; j++ {
			col[j] ^= r[j]
		}
	}
	crc := codec.CRC32(buf[:nData])
	return Record{CRC: crc, Col: col, Row: row}
}

// Outcome is the result of Verify: the verdict, the row and column of the
// bad byte within the block when the verdict is Fixable or Fixed, and,
// when the verdict is Fixed, the corrected byte value.
type Outcome struct {
	Verdict    Verdict
	FixRow     int
	FixCol     int
	FixedValue byte
}

// Verify checks a freshly read block (buf, of length dim*dim, with only
// the first nData bytes real) against its stored parity record. When the
// mismatch pattern pins a single byte and repair is true, the corrected
// byte value is computed and returned in Outcome; the caller is
// responsible for writing it back.
func Verify(buf []byte, dim int, nData int, stored Record, repair bool) Outcome {
	fresh := Compute(buf, dim, nData)
	if fresh.CRC == stored.CRC {
		return Outcome{Verdict: Ok}
	}

	fixRow, rowErrors := -1, 0
	for i := 0; i < dim; i++ {
		if fresh.Row[i] != stored.Row[i] {
			rowErrors++
			if fixRow == -1 {
				fixRow = i
			}
		}
	}
	fixCol, colErrors := -1, 0
	for j := 0; j < dim; j++ {
		if fresh.Col[j] != stored.Col[j] {
			colErrors++
			if fixCol == -1 {
				fixCol = j
			}
		}
	}

	if rowErrors != 1 || colErrors != 1 {
		return Outcome{Verdict: Unfixable}
	}

	if !repair {
		return Outcome{Verdict: Fixable, FixRow: fixRow, FixCol: fixCol}
	}

	rowStart := fixRow * dim
	rowData := buf[rowStart : rowStart+dim]
	var xorOthers byte
	for k, v := range rowData {
		if k == fixCol {
			continue
		}
		xorOthers ^= v
	}
	fixed := stored.Row[fixRow] ^ xorOthers

	return Outcome{
		Verdict:    Fixed,
		FixRow:     fixRow,
		FixCol:     fixCol,
		FixedValue: fixed,
	}
}
