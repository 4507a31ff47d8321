package storage

import (
	"fmt"

	"github.com/drakos74/polyfit/internal/math"
)

// VoidCache is a dummy cache which ignores all calls
type VoidCache struct {
}

func NewVoidCache() *VoidCache {
	return &VoidCache{}
}

func (v VoidCache) Put(k Key, result math.Result) error {
	return nil
}

func (v VoidCache) Get(k Key) (math.Result, error) {
	return math.Result{}, fmt.Errorf("not found '%v': %w", k, NotFoundErr)
}
