// Package pars implements the parity-file engine: a companion file format
// that records a whole-file fingerprint plus a per-block 2-D XOR parity
// grid and CRC, used to detect and repair single-byte corruption in an
// arbitrary data file.
//
// A parity file is produced once per data file with one of the
// CreateParityWith* functions, each exposing a different way to pick the
// block edge length (explicit dimension, target block count, data-usage
// ratio, or coverage guarantee). ValidateParity re-derives each block's
// parity from the current data file and reports, per block, whether it
// was intact, repairable, repaired, or unrecoverable. GetHeader reads a
// parity file's header without touching the data file.
//
// The format, block arithmetic, and error taxonomy are block-local and
// single-threaded: there is no internal parallelism, and a caller
// processing many files runs one invocation per file.
package pars
