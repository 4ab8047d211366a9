package thirdvm

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestImageInitialState(t *testing.T) {
	img := NewImage()
	base, err := img.ReadU32(AddrBase)
	require.NoError(t, err)
	assert.Equal(t, uint32(10), base)

	here, err := img.Here()
	require.NoError(t, err)
	assert.Equal(t, InitialHere, here)

	latest, err := img.ReadU32(AddrLatest)
	require.NoError(t, err)
	assert.Equal(t, uint32(0), latest)
}

func TestImageWriteReadRoundtrip(t *testing.T) {
	img := NewImage()
	require.NoError(t, img.WriteU32(AddrHere, 1000))
	require.NoError(t, img.WriteU8(AddrHere, 0xAB))
	b, err := img.ReadU8(AddrHere)
	require.NoError(t, err)
	assert.Equal(t, byte(0xAB), b)
}

func TestImageUnalignedAccess(t *testing.T) {
	img := NewImage()
	_, err := img.ReadU32(1)
	var target UnalignedAccessError
	assert.ErrorAs(t, err, &target)
}

func TestImageIllegalAddress(t *testing.T) {
	img := NewImage()
	_, err := img.ReadU8(img.Size() + 1000)
	var target IllegalAddressError
	assert.ErrorAs(t, err, &target)
}

func TestImageGrowWithinMaxExtend(t *testing.T) {
	img := NewImage()
	here, err := img.Here()
	require.NoError(t, err)
	require.NoError(t, img.WriteU8(here+MaxExtend-1, 1))
}

func TestImageGrowBeyondMaxExtendFails(t *testing.T) {
	img := NewImage()
	here, err := img.Here()
	require.NoError(t, err)
	_, werr := img.Here()
	require.NoError(t, werr)
	err = img.WriteU8(here+MaxExtend+1, 1)
	var target IllegalAddressError
	assert.ErrorAs(t, err, &target)
}

func TestImageAlign(t *testing.T) {
	img := NewImage()
	require.NoError(t, img.WriteU32(AddrHere, InitialHere+1))
	require.NoError(t, img.Align())
	here, err := img.Here()
	require.NoError(t, err)
	assert.Equal(t, uint32(0), here%4)
}

func TestImageHereHelpers(t *testing.T) {
	img := NewImage()
	// the 32-bit write goes first, while HERE is still 4-byte aligned
	require.NoError(t, img.WriteU32Here(0x01020304))
	require.NoError(t, img.WriteU8Here(1))
	require.NoError(t, img.WriteU8Here(2))

	here, err := img.Here()
	require.NoError(t, err)
	assert.Equal(t, InitialHere+6, here)
}
