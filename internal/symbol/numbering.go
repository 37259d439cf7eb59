package symbol

import "sort"

// NumberingPool is the set of numbers in use by one numbered kind.
type NumberingPool struct {
	used map[int]struct{}
}

// NewNumberingPool returns a pool holding the given numbers. Non-positive
// numbers are ignored.
func NewNumberingPool(numbers ...int) *NumberingPool {
	p := &NumberingPool{used: make(map[int]struct{})}
	for _, n := range numbers {
		p.Reserve(n)
	}
	return p
}

// Allocate returns the smallest positive integer not in the pool and adds
// it to the pool.
func (p *NumberingPool) Allocate() int {
	n := 1
	for {
		if _, taken := p.used[n]; !taken {
			p.used[n] = struct{}{}
			return n
		}
		n++
	}
}

// Reserve adds n to the pool. It reports false when n is not positive or
// already taken.
func (p *NumberingPool) Reserve(n int) bool {
	if n <= 0 {
		return false
	}
	if _, taken := p.used[n]; taken {
		return false
	}
	p.used[n] = struct{}{}
	return true
}

// Release returns n to the pool.
func (p *NumberingPool) Release(n int) {
	delete(p.used, n)
}

// Contains reports whether n is in use.
func (p *NumberingPool) Contains(n int) bool {
	_, ok := p.used[n]
	return ok
}

// Len returns the number of numbers in use.
func (p *NumberingPool) Len() int { return len(p.used) }

// Numbers returns the numbers in use in ascending order.
func (p *NumberingPool) Numbers() []int {
	out := make([]int, 0, len(p.used))
	for n := range p.used {
		out = append(out, n)
	}
	sort.Ints(out)
	return out
}
