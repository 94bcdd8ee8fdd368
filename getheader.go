package pars

// GetHeader reads the parity file's header (including the stored data
// file name) without touching the data file or performing any block
// scan. It is the read-side counterpart of the format layer, used by
// callers that want to display parity-file metadata without running a
// full validation pass.
func GetHeader(parityPath string) (*FileHeader, error) {
	f, h, err := openParityHeader(parityPath)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return h, nil
}
