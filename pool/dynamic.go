package pool

import "sync"

// NewDynamic is a dynamic-size pool sized by the garbage collector. It is
// a thin wrapper around sync.Pool.
func NewDynamic(newFn func() interface{}) Pool {
	return &sync.Pool{New: newFn}
}
