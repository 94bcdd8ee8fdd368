package pars

import (
	"fmt"
	"io"
	"os"

	"github.com/danhtran/pars/block"
	"github.com/danhtran/pars/codec"
)

// writeRecord writes a block's parity record in bit-exact order:
// crc(u32) || col[D] || row[D].
func writeRecord(w io.Writer, rec block.Record) error {
	buf := make([]byte, 4+len(rec.Col)+len(rec.Row))
	codec.PutU32(buf, rec.CRC)
	off := 4
	copy(buf[off:], rec.Col)
	off += len(rec.Col)
	copy(buf[off:], rec.Row)
	if _, err := w.Write(buf); err != nil {
		return err
	}
	return nil
}

// readRecord reads one parity record of the given block edge length dim.
func readRecord(r io.Reader, dim int) (block.Record, error) {
	buf := make([]byte, 4+2*dim)
	if _, err := io.ReadFull(r, buf); err != nil {
		return block.Record{}, err
	}
	rec := block.Record{
		CRC: codec.U32(buf),
		Col: append([]byte(nil), buf[4:4+dim]...),
		Row: append([]byte(nil), buf[4+dim:4+2*dim]...),
	}
	return rec, nil
}

// openParityHeader opens the parity file at path, validates the start and
// end magic, parses the header, and checks that the total on-disk size
// matches the size implied by the header fields (the §3 invariant). The
// caller owns the returned *os.File and must close it.
func openParityHeader(path string) (*os.File, *FileHeader, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, newErr(IOAccessError, "opening parity file", err)
	}

	info, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, nil, newErr(IOAccessError, "statting parity file", err)
	}
	size := uint64(info.Size())
	if size < fixedHeaderLen+4 {
		f.Close()
		return nil, nil, newErr(ParityHeaderTruncated, "file shorter than fixed header prefix", nil)
	}

	h, err := readHeader(f)
	if err != nil {
		f.Close()
		if pe, ok := err.(*Error); ok {
			return nil, nil, pe
		}
		// readHeader only fails this way when the declared file_name_length
		// runs past the end of a file that otherwise looked long enough.
		return nil, nil, newErr(ParityHeaderTruncated, "header fields run past end of file", err)
	}

	trailer := make([]byte, 4)
	if _, err := f.ReadAt(trailer, int64(size)-4); err != nil {
		f.Close()
		return nil, nil, newErr(IOAccessError, "reading parity trailer", err)
	}
	if string(trailer) != string(MagicEnd[:]) {
		f.Close()
		return nil, nil, errMagicMissing("end")
	}

	if h.ExpectedFileSize() != size {
		f.Close()
		return nil, nil, newErr(ParitySizeInconsistent,
			fmt.Sprintf("file size %d does not match header-implied size %d", size, h.ExpectedFileSize()), nil)
	}

	return f, h, nil
}

// blockRecordsOffset is the byte offset at which the first block parity
// record begins, immediately after the header's file name.
func blockRecordsOffset(h *FileHeader) int64 {
	return int64(fixedHeaderLen) + int64(len(h.FileName))
}
