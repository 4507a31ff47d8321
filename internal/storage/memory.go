package storage

import (
	"fmt"
	"sync"

	"github.com/drakos74/polyfit/internal/math"
)

// MemoryCache keeps the latest fit results in memory.
// When full, the oldest entry is evicted first.
type MemoryCache struct {
	mutex    *sync.RWMutex
	size     int
	keys     []Key
	elements map[Key]math.Result
}

// NewMemoryCache creates a new cache holding at most size results.
func NewMemoryCache(size int) *MemoryCache {
	if size < 1 {
		size = 1
	}
	return &MemoryCache{
		mutex:    new(sync.RWMutex),
		size:     size,
		keys:     make([]Key, 0, size),
		elements: make(map[Key]math.Result),
	}
}

func (m *MemoryCache) Put(k Key, result math.Result) error {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	if _, ok := m.elements[k]; !ok {
		if len(m.keys) == m.size {
			delete(m.elements, m.keys[0])
			m.keys = m.keys[1:]
		}
		m.keys = append(m.keys, k)
	}
	m.elements[k] = clone(result)
	return nil
}

func (m *MemoryCache) Get(k Key) (math.Result, error) {
	m.mutex.RLock()
	defer m.mutex.RUnlock()
	if result, ok := m.elements[k]; ok {
		return clone(result), nil
	}
	return math.Result{}, fmt.Errorf("not found '%v': %w", k, NotFoundErr)
}

// clone copies the result slices, so that callers never share memory with the cache.
func clone(result math.Result) math.Result {
	return math.Result{
		Coefficients: append(math.Polynomial(nil), result.Coefficients...),
		Fitted:       append([]float64(nil), result.Fitted...),
		Residuals:    append([]float64(nil), result.Residuals...),
		RSquared:     result.RSquared,
	}
}

// Size returns the number of cached results.
func (m *MemoryCache) Size() int {
	m.mutex.RLock()
	defer m.mutex.RUnlock()
	return len(m.elements)
}
