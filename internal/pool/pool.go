// Package pool provides bucketed sync.Pool instances for the scratch sample
// buffers used while resampling blocks and pictures. Buffers are organized by
// size class to minimize waste.
package pool

import (
	"sync"

	"github.com/deepteams/viewsynth/internal/dsp"
)

// Size classes for bucketed pools, in samples.
const (
	Size256  = 256
	Size1K   = 1024
	Size4K   = 4096
	Size16K  = 16384
	Size64K  = 65536
	Size256K = 262144
	Size1M   = 1048576
)

// bucketIndex returns the pool index for a given size.
func bucketIndex(size int) int {
	switch {
	case size <= Size256:
		return 0
	case size <= Size1K:
		return 1
	case size <= Size4K:
		return 2
	case size <= Size16K:
		return 3
	case size <= Size64K:
		return 4
	case size <= Size256K:
		return 5
	default:
		return 6
	}
}

var sizes = [7]int{Size256, Size1K, Size4K, Size16K, Size64K, Size256K, Size1M}

var pools [7]sync.Pool

func init() {
	for i := range pools {
		sz := sizes[i]
		pools[i] = sync.Pool{
			New: func() any {
				b := make([]dsp.Pel, sz)
				return &b
			},
		}
	}
}

// Get returns a sample slice of the requested length from the pool. The
// contents are unspecified. The caller must call Put when done.
func Get(size int) []dsp.Pel {
	idx := bucketIndex(size)
	bp := pools[idx].Get().(*[]dsp.Pel)
	b := *bp
	if cap(b) < size {
		b = make([]dsp.Pel, size)
		*bp = b
		return b
	}
	return b[:size]
}

// Put returns a sample slice to the pool. The slice must have been obtained
// from Get. Slices smaller than Size256 are not pooled.
func Put(b []dsp.Pel) {
	c := cap(b)
	if c < Size256 {
		return
	}
	idx := bucketIndex(c)
	// A slice only goes back to a bucket whose class it can fully serve.
	if c < sizes[idx] {
		if idx == 0 {
			return
		}
		idx--
	}
	b = b[:c]
	pools[idx].Put(&b)
}
