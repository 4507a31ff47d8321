package storage

import (
	"encoding/binary"
	"errors"
	"fmt"
	gomath "math"

	"github.com/cespare/xxhash/v2"

	"github.com/drakos74/polyfit/internal/math"
)

var (
	NotFoundErr = errors.New("not found")
)

// Key is the storage key for a fit.
// Hash is the fingerprint of the samples, Label describes how they were fitted.
type Key struct {
	Hash   uint64 `json:"hash"`
	Degree int    `json:"degree"`
	Label  string `json:"label"`
}

// NewKey creates the key for fitting the samples with the given degree.
// Samples with the same coordinates in the same order always produce the same key.
func NewKey(samples []math.Sample, degree int, label string) Key {
	d := xxhash.New()
	buf := make([]byte, 16)
	for _, s := range samples {
		binary.LittleEndian.PutUint64(buf[:8], gomath.Float64bits(s.X))
		binary.LittleEndian.PutUint64(buf[8:], gomath.Float64bits(s.Y))
		_, _ = d.Write(buf)
	}
	return Key{
		Hash:   d.Sum64(),
		Degree: degree,
		Label:  label,
	}
}

func (k Key) String() string {
	return fmt.Sprintf("%x_%d_%s", k.Hash, k.Degree, k.Label)
}

// Cache stores fit results.
type Cache interface {
	Put(k Key, result math.Result) error
	Get(k Key) (math.Result, error)
}
