// Package dedup rejects near-duplicate uploads by comparing perceptual hashes.
package dedup

import (
	"fmt"
	"image"
	"math/bits"
	"strconv"

	"github.com/corona10/goimagehash"

	"github.com/aimd54/wardrobe-stylist/pkg/logger"
)

// Threshold is the Hamming distance below which two images count as the same.
const Threshold = 5

// HashStore returns the fingerprints already recorded for an owner.
type HashStore interface {
	HashesByOwner(owner string) ([]string, error)
}

// Result is the outcome of a duplicate check.
type Result struct {
	Duplicate   bool
	Fingerprint *string // nil when the image could not be hashed
}

// Detector compares candidate images against an owner's stored fingerprints.
type Detector struct {
	store HashStore
	log   *logger.Logger
}

// NewDetector creates a new duplicate detector.
func NewDetector(store HashStore, log *logger.Logger) *Detector {
	return &Detector{store: store, log: log}
}

// WithStore returns a detector reading from store, typically a repository bound to a transaction.
func (d *Detector) WithStore(store HashStore) *Detector {
	return &Detector{store: store, log: d.log}
}

// Fingerprint computes the 64-bit perceptual hash of img as 16 hex digits.
func Fingerprint(img image.Image) (string, error) {
	hash, err := goimagehash.PerceptionHash(img)
	if err != nil {
		return "", fmt.Errorf("failed to hash image: %w", err)
	}
	return formatHash(hash.GetHash()), nil
}

// Distance returns the Hamming distance between two stored fingerprints.
func Distance(a, b string) (int, error) {
	x, err := parseHash(a)
	if err != nil {
		return 0, err
	}
	y, err := parseHash(b)
	if err != nil {
		return 0, err
	}
	return bits.OnesCount64(x ^ y), nil
}

// Check reports whether img is a near-duplicate of anything owner already
// stored. A hashing failure is not a duplicate and yields a nil fingerprint.
// A store failure is returned as an error.
func (d *Detector) Check(owner string, img image.Image) (Result, error) {
	fp, err := Fingerprint(img)
	if err != nil {
		d.log.Warn().Err(err).Str("owner", owner).Msg("Perceptual hash failed, skipping duplicate check")
		return Result{}, nil
	}

	known, err := d.store.HashesByOwner(owner)
	if err != nil {
		return Result{}, fmt.Errorf("failed to load fingerprints for %s: %w", owner, err)
	}

	for _, k := range known {
		dist, err := Distance(fp, k)
		if err != nil {
			d.log.Debug().Err(err).Str("owner", owner).Str("hash", k).Msg("Skipping unreadable stored hash")
			continue
		}
		if dist < Threshold {
			return Result{Duplicate: true, Fingerprint: &fp}, nil
		}
	}

	return Result{Fingerprint: &fp}, nil
}

func formatHash(h uint64) string {
	return fmt.Sprintf("%016x", h)
}

func parseHash(s string) (uint64, error) {
	h, err := strconv.ParseUint(s, 16, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid fingerprint %q: %w", s, err)
	}
	return h, nil
}
