package gleval

import (
	"errors"
	"fmt"

	"github.com/soypat/glgl/math/ms2"
)

// VecPool provides reusable scratch buffers to SDF evaluators via the userData
// argument of [SDF2.Evaluate]. Buffers acquired must be released after use.
// A VecPool is not safe for concurrent use, give each goroutine its own.
type VecPool struct {
	V2    bufPool[ms2.Vec]
	Float bufPool[float32]
}

// GetVecPool returns the VecPool stored in v. v may be a *VecPool or
// implement a VecPool() *VecPool method.
func GetVecPool(v any) (*VecPool, error) {
	switch vp := v.(type) {
	case *VecPool:
		if vp == nil {
			return nil, errors.New("nil *VecPool")
		}
		return vp, nil
	case interface{ VecPool() *VecPool }:
		pool := vp.VecPool()
		if pool == nil {
			return nil, errors.New("VecPool method returned nil")
		}
		return pool, nil
	}
	return nil, fmt.Errorf("userData of type %T does not contain a VecPool", v)
}

// AssertAllReleased returns an error if any buffer is still acquired or if
// a bad release was attempted.
func (vp *VecPool) AssertAllReleased() error {
	err := vp.V2.assertAllReleased()
	if err != nil {
		return fmt.Errorf("V2 pool: %w", err)
	}
	err = vp.Float.assertAllReleased()
	if err != nil {
		return fmt.Errorf("Float pool: %w", err)
	}
	return nil
}

// Clear drops all buffers so they may be garbage collected.
func (vp *VecPool) Clear() {
	vp.V2.clear()
	vp.Float.clear()
}

type bufPool[T any] struct {
	ins        [][]T
	acquired   []bool
	releaseErr error
}

// Acquire returns a buffer of the requested length. Contents are not zeroed.
func (bp *bufPool[T]) Acquire(length int) []T {
	if length <= 0 {
		return nil
	}
	free := -1
	for i, inUse := range bp.acquired {
		if inUse {
			continue
		}
		if cap(bp.ins[i]) >= length {
			bp.acquired[i] = true
			return bp.ins[i][:length]
		}
		free = i
	}
	buf := make([]T, length)
	if free >= 0 {
		// Replace a buffer that is too small instead of growing the pool.
		bp.ins[free] = buf
		bp.acquired[free] = true
		return buf
	}
	bp.ins = append(bp.ins, buf)
	bp.acquired = append(bp.acquired, true)
	return buf
}

// Release returns a buffer obtained from Acquire to the pool.
func (bp *bufPool[T]) Release(buf []T) error {
	if cap(buf) == 0 {
		return nil
	}
	for i, b := range bp.ins {
		if &b[:1][0] != &buf[:1][0] {
			continue
		}
		if !bp.acquired[i] {
			bp.releaseErr = errors.New("double release of buffer")
			return bp.releaseErr
		}
		bp.acquired[i] = false
		return nil
	}
	bp.releaseErr = errors.New("release of buffer not belonging to pool")
	return bp.releaseErr
}

func (bp *bufPool[T]) assertAllReleased() error {
	if bp.releaseErr != nil {
		return bp.releaseErr
	}
	for _, inUse := range bp.acquired {
		if inUse {
			return errors.New("buffer not released")
		}
	}
	return nil
}

func (bp *bufPool[T]) clear() {
	bp.ins = nil
	bp.acquired = nil
	bp.releaseErr = nil
}

// String returns a short description of pool usage.
func (bp *bufPool[T]) String() string {
	var total, inUse int
	for i, b := range bp.ins {
		total += cap(b)
		if bp.acquired[i] {
			inUse++
		}
	}
	return fmt.Sprintf("%d buffers (%d acquired) totalling %d elements", len(bp.ins), inUse, total)
}
