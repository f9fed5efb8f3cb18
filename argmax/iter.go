package argmax

import (
	"image"

	"github.com/soypat/gfill/gleval"
)

// IterConfig configures an [Iterator].
type IterConfig struct {
	// MinDistance stops iteration once the global maximum drops below it.
	MinDistance float32
	// Limit caps the amount of results. Zero or negative means no limit.
	Limit int
}

// Iterator produces the field's global maximum in descending order of distance
// as long as the caller inserts a shape into the field between results:
//
//	it := field.Iter(argmax.IterConfig{MinDistance: minDist})
//	for it.Next() {
//		r := it.Result()
//		// Build a shape from r and insert it.
//		err := field.InsertSDFDomain(argmax.DomainEmpirical(r.Point, r.Distance), shape)
//		...
//	}
//	if err := it.Err(); err != nil { ... }
//
// The Iterator holds no copy of the field. Calling Next without a successful insertion
// since the previous result exhausts the iterator and Err returns [ErrNoProgress].
// An exhausted Iterator stays exhausted; create a new one to continue from the
// field's current state.
type Iterator struct {
	f   *Field
	cfg IterConfig
	// gen is the field's insertion count when the last result was produced.
	gen       uint64
	pending   bool
	exhausted bool
	count     int
	last      ArgmaxResult
	err       error
}

// Iter returns a new Iterator over f's current state.
func (f *Field) Iter(cfg IterConfig) *Iterator {
	f.mustInit()
	return &Iterator{f: f, cfg: cfg}
}

// Next advances the iterator to the next global maximum and reports whether there is one.
func (it *Iterator) Next() bool {
	if it.exhausted {
		return false
	}
	if it.pending && it.f.insertions == it.gen {
		it.stop(ErrNoProgress)
		return false
	}
	if it.cfg.Limit > 0 && it.count >= it.cfg.Limit {
		it.stop(nil)
		return false
	}
	r := it.f.GlobalArgmax()
	if !(r.Distance >= it.cfg.MinDistance) {
		it.stop(nil)
		return false
	}
	it.last = r
	it.gen = it.f.insertions
	it.pending = true
	it.count++
	return true
}

func (it *Iterator) stop(err error) {
	it.exhausted = true
	it.err = err
	logger().Debug("argmax: iterator exhausted", "results", it.count, "err", err)
}

// Result returns the value produced by the last successful call to Next.
func (it *Iterator) Result() ArgmaxResult { return it.last }

// Count returns the amount of results produced.
func (it *Iterator) Count() int { return it.count }

// Exhausted reports whether Next will return false from now on.
func (it *Iterator) Exhausted() bool { return it.exhausted }

// Err returns the error that exhausted the iterator, if any.
func (it *Iterator) Err() error { return it.err }

// FillConfig configures [Field.Fill].
type FillConfig struct {
	IterConfig
	// Domain estimates the region updated by each placed shape.
	Domain DomainEstimator
	// Whole disables domain estimation and inserts every shape over the whole field.
	Whole bool
}

// Fill runs the query-then-insert loop. place is called with each global maximum
// and returns the shape to insert there; returning a nil shape and nil error stops the fill.
// The fill also stops when the estimated domain of a maximum covers no cells, which
// happens once the free distance reaches zero with no domain margin.
// Fill returns the amount of shapes inserted.
func (f *Field) Fill(cfg FillConfig, place func(r ArgmaxResult) (gleval.SDF2, error)) (int, error) {
	it := f.Iter(cfg.IterConfig)
	n := 0
	for it.Next() {
		r := it.Result()
		var domain image.Rectangle
		if cfg.Whole {
			domain = f.bounds()
		} else if domain = f.pixelRect(cfg.Domain.Domain(r)); domain.Empty() {
			logger().Debug("argmax: fill reached empty domain", "inserted", n, "distance", r.Distance)
			return n, nil
		}
		shape, err := place(r)
		if err != nil {
			return n, err
		} else if shape == nil {
			return n, nil
		}
		if err = f.insertRect(domain, shape); err != nil {
			return n, err
		}
		n++
	}
	return n, it.Err()
}
