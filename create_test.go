package pars

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func writeTempData(t *testing.T, data []byte) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "data.bin")
	require.NoError(t, os.WriteFile(path, data, 0o644))
	return path
}

func TestCreateParityWithDimensionScenarioS1(t *testing.T) {
	data := make([]byte, 256) // all zero
	dataPath := writeTempData(t, data)

	require.NoError(t, CreateParityWithDimension(4, dataPath))

	h, err := GetHeader(dataPath + ".pars")
	require.NoError(t, err)
	require.Equal(t, uint32(4), h.BlockDim)
	require.Equal(t, uint64(16), h.FullBlockCount)
	require.Equal(t, uint32(0), h.LastBlockDim)
	require.Equal(t, uint64(256), h.FileSize)
}

func TestCreateParityWithDimensionScenarioS3Tail(t *testing.T) {
	data := make([]byte, 300)
	for i := range data {
		data[i] = byte(i)
	}
	dataPath := writeTempData(t, data)
	outPath := dataPath + ".pars"

	require.NoError(t, CreateParityWithDimension(8, dataPath))

	h, err := GetHeader(outPath)
	require.NoError(t, err)
	require.Equal(t, uint32(8), h.BlockDim)
	require.Equal(t, uint64(4), h.FullBlockCount)
	require.Equal(t, uint32(7), h.LastBlockDim)

	info, err := os.Stat(outPath)
	require.NoError(t, err)
	require.Equal(t, h.ExpectedFileSize(), uint64(info.Size()))
}

func TestCreateParityIsIdempotent(t *testing.T) {
	data := make([]byte, 300)
	for i := range data {
		data[i] = byte(i * 3)
	}
	dataPath := writeTempData(t, data)
	outPath := dataPath + ".pars"

	require.NoError(t, CreateParityWithDimension(8, dataPath))
	first, err := os.ReadFile(outPath)
	require.NoError(t, err)

	require.NoError(t, CreateParityWithDimension(8, dataPath))
	second, err := os.ReadFile(outPath)
	require.NoError(t, err)

	require.Equal(t, first, second)
}

func TestCreateParityRejectsInvalidArguments(t *testing.T) {
	dataPath := writeTempData(t, make([]byte, 16))

	err := CreateParityWithBlockCount(0, dataPath)
	require.Error(t, err)
	var perr *Error
	require.ErrorAs(t, err, &perr)
	require.Equal(t, InvalidArgument, perr.Kind)

	err = CreateParityWithDataUsage(1.5, dataPath)
	require.Error(t, err)
	require.ErrorAs(t, err, &perr)
	require.Equal(t, InvalidArgument, perr.Kind)

	err = CreateParityWithCoverage(0, dataPath)
	require.Error(t, err)
	require.ErrorAs(t, err, &perr)
	require.Equal(t, InvalidArgument, perr.Kind)
}

func TestCreateParityWithOutPathOption(t *testing.T) {
	dataPath := writeTempData(t, make([]byte, 64))
	dir := filepath.Dir(dataPath)
	custom := filepath.Join(dir, "custom.pars")

	require.NoError(t, CreateParityWithDimension(4, dataPath, WithOutPath(custom)))

	_, err := os.Stat(custom)
	require.NoError(t, err)
}
