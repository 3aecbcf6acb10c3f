// Package cache provides a generic LRU cache for derived artifacts that
// are expensive to rebuild: parsed font faces and convolution kernels.
//
// The cache holds at most a fixed number of entries and evicts the least
// recently used entry when a new one would exceed the capacity:
//
//	fonts := cache.New[uint64, *Font](16)
//	fonts.Set(key, font)
//	font, ok := fonts.Get(key)
//
// Cache is safe for concurrent use and must not be copied after creation.
package cache
