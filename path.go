package pars

import (
	"path/filepath"
	"strings"
)

// storedName computes the file name to store in the parity-file header:
// dataPath, expressed relative to the directory containing the parity
// file at parityPath, with separators normalized to "/".
//
// This replaces the source's one-leading-byte trim (spec.md §9.2), which
// only happened to work when the two files sat in the same directory
// (where the computed relative path begins with "../" and trimming its
// first byte turns it into a same-directory reference). filepath.Rel
// already produces the correct relative path for every layout, so no
// trim is needed at all.
func storedName(parityPath, dataPath string) (string, error) {
	parityDir := filepath.Dir(parityPath)
	absParityDir, err := filepath.Abs(parityDir)
	if err != nil {
		return "", err
	}
	absData, err := filepath.Abs(dataPath)
	if err != nil {
		return "", err
	}
	rel, err := filepath.Rel(absParityDir, absData)
	if err != nil {
		return "", err
	}
	return filepath.ToSlash(rel), nil
}

// resolveName resolves a header's stored file name against the directory
// containing the parity file at parityPath. A name beginning with "/" (or,
// on the host OS, one filepath.IsAbs considers absolute) is used verbatim.
func resolveName(parityPath, name string) string {
	if strings.HasPrefix(name, "/") || filepath.IsAbs(name) {
		return filepath.FromSlash(name)
	}
	return filepath.Join(filepath.Dir(parityPath), filepath.FromSlash(name))
}
