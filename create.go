package pars

import (
	"io"
	"os"

	logging "github.com/ipfs/go-log/v2"

	"github.com/danhtran/pars/block"
	"github.com/danhtran/pars/codec"
	"github.com/danhtran/pars/sizing"
)

var logger = logging.Logger("pars")

// CreateParityWithBlockCount creates a parity file targeting count full
// blocks across the data file. count must be > 0.
func CreateParityWithBlockCount(count uint64, dataPath string, opts ...CreateOption) error {
	if count == 0 {
		return newErr(InvalidArgument, "block count must be > 0", nil)
	}
	return createParity(dataPath, func(size uint64) sizing.Layout {
		return sizing.ByBlockCount(count, size)
	}, opts...)
}

// CreateParityWithDataUsage creates a parity file targeting a data-usage
// ratio in (0, 1]: each stored parity byte corresponds to roughly 1/ratio
// data bytes.
func CreateParityWithDataUsage(ratio float64, dataPath string, opts ...CreateOption) error {
	if ratio <= 0 || ratio > 1 {
		return newErr(InvalidArgument, "data usage ratio must be in (0, 1]", nil)
	}
	return createParity(dataPath, func(size uint64) sizing.Layout {
		return sizing.ByDataUsage(ratio, size)
	}, opts...)
}

// CreateParityWithCoverage creates a parity file guaranteeing single-byte
// recovery within every window of coverage in (0, 1].
func CreateParityWithCoverage(coverage float64, dataPath string, opts ...CreateOption) error {
	if coverage <= 0 || coverage > 1 {
		return newErr(InvalidArgument, "coverage must be in (0, 1]", nil)
	}
	return createParity(dataPath, func(size uint64) sizing.Layout {
		return sizing.ByCoverage(coverage, size)
	}, opts...)
}

// CreateParityWithDimension creates a parity file using an explicit block
// edge length dim (subject to the §3 floor rules).
func CreateParityWithDimension(dim uint32, dataPath string, opts ...CreateOption) error {
	return createParity(dataPath, func(size uint64) sizing.Layout {
		return sizing.ByDimension(dim, size)
	}, opts...)
}

func createParity(dataPath string, layoutFn func(uint64) sizing.Layout, opts ...CreateOption) error {
	cfg := applyCreateOptions(dataPath, opts...)

	df, err := os.Open(dataPath)
	if err != nil {
		return newErr(IOAccessError, "opening data file", err)
	}
	defer df.Close()

	info, err := df.Stat()
	if err != nil {
		return newErr(IOAccessError, "statting data file", err)
	}
	size := uint64(info.Size())
	layout := layoutFn(size)

	logger.Debugf("creating parity file for %s: size=%d dim=%d blocks=%d tail_dim=%d",
		dataPath, size, layout.Dim, layout.FullBlockCount, layout.TailDim)

	name, err := storedName(cfg.outPath, dataPath)
	if err != nil {
		return newErr(IOAccessError, "computing stored file name", err)
	}

	pf, err := os.Create(cfg.outPath)
	if err != nil {
		return newErr(IOAccessError, "creating parity file", err)
	}
	defer pf.Close()

	whole, err := codec.WholeFileHash(df)
	if err != nil {
		return newErr(IOAccessError, "hashing data file", err)
	}

	h := &FileHeader{
		FileSize:       size,
		WholeHash:      whole,
		BlockDim:       layout.Dim,
		FullBlockCount: layout.FullBlockCount,
		LastBlockDim:   layout.TailDim,
		FileName:       name,
	}
	if err := writeHeader(pf, h); err != nil {
		return newErr(IOAccessError, "writing parity header", err)
	}

	if _, err := df.Seek(0, io.SeekStart); err != nil {
		return newErr(IOAccessError, "rewinding data file", err)
	}

	dim := int(layout.Dim)
	buf := make([]byte, dim*dim)
	for i := uint64(0); i < layout.FullBlockCount; i++ {
		if _, err := io.ReadFull(df, buf); err != nil {
			return newErr(IOAccessError, "reading full block", err)
		}
		rec := block.Compute(buf, dim, dim*dim)
		if err := writeRecord(pf, rec); err != nil {
			return newErr(IOAccessError, "writing block record", err)
		}
	}

	if layout.TailDim > 0 {
		tailDim := int(layout.TailDim)
		tailBytes := size - layout.FullBlockCount*uint64(dim)*uint64(dim)
		tailBuf := make([]byte, tailDim*tailDim)
		if _, err := io.ReadFull(df, tailBuf[:tailBytes]); err != nil {
			return newErr(IOAccessError, "reading tail block", err)
		}
		rec := block.Compute(tailBuf, tailDim, int(tailBytes))
		if err := writeRecord(pf, rec); err != nil {
			return newErr(IOAccessError, "writing tail block record", err)
		}
	}

	if _, err := pf.Write(MagicEnd[:]); err != nil {
		return newErr(IOAccessError, "writing parity trailer", err)
	}

	logger.Debugf("wrote parity file %s", cfg.outPath)
	return nil
}
