package dedup

import (
	"errors"
	"image"
	"image/color"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aimd54/wardrobe-stylist/pkg/logger"
)

type stubStore struct {
	hashes []string
	err    error
}

func (s *stubStore) HashesByOwner(string) ([]string, error) {
	return s.hashes, s.err
}

// checker draws a cell-sized checkerboard, which gives a stable non-trivial hash.
func checker(size, cell int, a, b color.Color) image.Image {
	img := image.NewRGBA(image.Rect(0, 0, size, size))
	for y := 0; y < size; y++ {
		for x := 0; x < size; x++ {
			if (x/cell+y/cell)%2 == 0 {
				img.Set(x, y, a)
			} else {
				img.Set(x, y, b)
			}
		}
	}
	return img
}

// gradient draws a left-to-right brightness ramp.
func gradient(size int) image.Image {
	img := image.NewGray(image.Rect(0, 0, size, size))
	for y := 0; y < size; y++ {
		for x := 0; x < size; x++ {
			img.SetGray(x, y, color.Gray{Y: uint8(x * 255 / size)})
		}
	}
	return img
}

func TestDistance(t *testing.T) {
	d, err := Distance("0000000000000000", "000000000000000f")
	require.NoError(t, err)
	assert.Equal(t, 4, d)

	d, err = Distance("ffffffffffffffff", "0000000000000000")
	require.NoError(t, err)
	assert.Equal(t, 64, d)

	_, err = Distance("zz", "00")
	assert.Error(t, err)
}

func TestCheck_IdenticalImageIsDuplicate(t *testing.T) {
	img := checker(64, 16, color.Black, color.White)
	fp, err := Fingerprint(img)
	require.NoError(t, err)

	d := NewDetector(&stubStore{hashes: []string{fp}}, logger.NewNop())
	res, err := d.Check("ayse", img)
	require.NoError(t, err)

	assert.True(t, res.Duplicate)
	require.NotNil(t, res.Fingerprint)
	assert.Equal(t, fp, *res.Fingerprint)
}

func TestCheck_DistantHashesAreNotDuplicates(t *testing.T) {
	img := checker(64, 16, color.Black, color.White)
	fp, err := Fingerprint(img)
	require.NoError(t, err)

	// Flip five bits: exactly at the threshold, so not a duplicate.
	x, _ := parseHash(fp)
	far := formatHash(x ^ 0x1f)

	d := NewDetector(&stubStore{hashes: []string{far, "not-hex"}}, logger.NewNop())
	res, err := d.Check("ayse", img)
	require.NoError(t, err)
	assert.False(t, res.Duplicate)
	assert.NotNil(t, res.Fingerprint)

	// Four bits away is a duplicate.
	near := formatHash(x ^ 0x0f)
	res, err = d.WithStore(&stubStore{hashes: []string{near}}).Check("ayse", img)
	require.NoError(t, err)
	assert.True(t, res.Duplicate)
}

func TestCheck_DifferentImages(t *testing.T) {
	a := checker(64, 16, color.Black, color.White)
	b := gradient(64)

	fpA, err := Fingerprint(a)
	require.NoError(t, err)
	fpB, err := Fingerprint(b)
	require.NoError(t, err)
	dist, err := Distance(fpA, fpB)
	require.NoError(t, err)
	require.GreaterOrEqual(t, dist, Threshold)

	d := NewDetector(&stubStore{hashes: []string{fpA}}, logger.NewNop())
	res, err := d.Check("ayse", b)
	require.NoError(t, err)
	assert.False(t, res.Duplicate)
}

func TestCheck_StoreErrorPropagates(t *testing.T) {
	d := NewDetector(&stubStore{err: errors.New("db down")}, logger.NewNop())
	_, err := d.Check("ayse", gradient(32))
	assert.Error(t, err)
}

func TestCheck_UnhashableImageIsNotDuplicate(t *testing.T) {
	_, err := Fingerprint(nil)
	require.Error(t, err)

	// The store is never consulted once hashing fails.
	d := NewDetector(&stubStore{hashes: []string{"0000000000000000"}, err: errors.New("db down")}, logger.NewNop())
	res, err := d.Check("ayse", nil)
	require.NoError(t, err)
	assert.False(t, res.Duplicate)
	assert.Nil(t, res.Fingerprint)
}
