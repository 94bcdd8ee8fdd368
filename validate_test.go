package pars

import (
	"os"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestValidateRoundtripPristineFile(t *testing.T) {
	data := make([]byte, 256)
	for i := range data {
		data[i] = byte(i)
	}
	dataPath := writeTempData(t, data)
	require.NoError(t, CreateParityWithDimension(4, dataPath))

	res, err := ValidateParity(dataPath+".pars", false)
	require.NoError(t, err)
	require.True(t, res.Ok)
	require.False(t, res.AnalyzedBlocks)
	require.True(t, res.HashOk)
}

func TestValidateScenarioS2SingleByteRepair(t *testing.T) {
	data := make([]byte, 256)
	for i := range data {
		data[i] = byte(i)
	}
	dataPath := writeTempData(t, data)
	require.NoError(t, CreateParityWithDimension(4, dataPath))

	original := data[37]
	corrupted := append([]byte(nil), data...)
	corrupted[37] ^= 0x5A
	require.NoError(t, os.WriteFile(dataPath, corrupted, 0o644))

	res, err := ValidateParity(dataPath+".pars", true)
	require.NoError(t, err)
	require.Equal(t, 1, res.FixedBlocks)
	require.True(t, res.Ok)

	fixed, err := os.ReadFile(dataPath)
	require.NoError(t, err)
	require.Equal(t, original, fixed[37])

	res2, err := ValidateParity(dataPath+".pars", false)
	require.NoError(t, err)
	require.True(t, res2.Ok)
}

func TestValidateScenarioS4TwoByteUnrecoverable(t *testing.T) {
	data := make([]byte, 300)
	for i := range data {
		data[i] = byte(i)
	}
	dataPath := writeTempData(t, data)
	require.NoError(t, CreateParityWithDimension(8, dataPath))

	corrupted := append([]byte(nil), data...)
	corrupted[260] ^= 0x11
	corrupted[261] ^= 0x22
	require.NoError(t, os.WriteFile(dataPath, corrupted, 0o644))

	res, err := ValidateParity(dataPath+".pars", false)
	require.NoError(t, err)
	require.Equal(t, 0, res.FixedBlocks)
	require.Equal(t, 1, res.UnfixableBlocks)
	require.False(t, res.Ok)
}

func TestValidateScenarioS5MissingTrailer(t *testing.T) {
	dataPath := writeTempData(t, make([]byte, 256))
	require.NoError(t, CreateParityWithDimension(4, dataPath))
	parityPath := dataPath + ".pars"

	info, err := os.Stat(parityPath)
	require.NoError(t, err)
	require.NoError(t, os.Truncate(parityPath, info.Size()-4))

	_, err = GetHeader(parityPath)
	require.Error(t, err)
	var perr *Error
	require.ErrorAs(t, err, &perr)
	require.Equal(t, ParityMagicMissing, perr.Kind)

	_, err = ValidateParity(parityPath, false)
	require.Error(t, err)
	require.ErrorAs(t, err, &perr)
	require.Equal(t, ParityMagicMissing, perr.Kind)
}

func TestValidateScenarioS6DataFileGrown(t *testing.T) {
	dataPath := writeTempData(t, make([]byte, 256))
	require.NoError(t, CreateParityWithDimension(4, dataPath))

	f, err := os.OpenFile(dataPath, os.O_WRONLY|os.O_APPEND, 0o644)
	require.NoError(t, err)
	_, err = f.Write([]byte{0x00})
	require.NoError(t, f.Close())
	require.NoError(t, err)

	res, err := ValidateParity(dataPath+".pars", false)
	require.NoError(t, err)
	require.False(t, res.SizeOk)
	require.False(t, res.Ok)
	require.False(t, res.AnalyzedBlocks)
}

func TestValidateTwoByteSameColumnUnrecoverable(t *testing.T) {
	data := make([]byte, 256)
	for i := range data {
		data[i] = byte(i * 5)
	}
	dataPath := writeTempData(t, data)
	require.NoError(t, CreateParityWithDimension(4, dataPath))

	corrupted := append([]byte(nil), data...)
	// flip two bytes in the same column (col 1): offsets 1 and 1+4=5
	corrupted[1] ^= 0x01
	corrupted[5] ^= 0x02
	require.NoError(t, os.WriteFile(dataPath, corrupted, 0o644))

	res, err := ValidateParity(dataPath+".pars", true)
	require.NoError(t, err)
	require.Equal(t, 0, res.FixedBlocks)
	require.Equal(t, 1, res.UnfixableBlocks)
	require.False(t, res.Ok)
}
