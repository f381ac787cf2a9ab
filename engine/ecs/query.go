package ecs

// Join2 calls f for every entity having both components, iterating the smaller store
func Join2[A, B any](a *Store[A], b *Store[B], f func(e Entity, a *A, b *B)) {
	if a.Len() <= b.Len() {
		a.Each(func(e Entity, va *A) {
			if vb, ok := b.Get(e); ok {
				f(e, va, vb)
			}
		})
	} else {
		b.Each(func(e Entity, vb *B) {
			if va, ok := a.Get(e); ok {
				f(e, va, vb)
			}
		})
	}
}

// Join3 calls f for every entity having all three components, iterating the smallest store
func Join3[A, B, C any](a *Store[A], b *Store[B], c *Store[C], f func(e Entity, a *A, b *B, c *C)) {
	switch {
	case a.Len() <= b.Len() && a.Len() <= c.Len():
		a.Each(func(e Entity, va *A) {
			vb, ok := b.Get(e)
			if !ok {
				return
			}
			if vc, ok := c.Get(e); ok {
				f(e, va, vb, vc)
			}
		})
	case b.Len() <= c.Len():
		b.Each(func(e Entity, vb *B) {
			va, ok := a.Get(e)
			if !ok {
				return
			}
			if vc, ok := c.Get(e); ok {
				f(e, va, vb, vc)
			}
		})
	default:
		c.Each(func(e Entity, vc *C) {
			va, ok := a.Get(e)
			if !ok {
				return
			}
			if vb, ok := b.Get(e); ok {
				f(e, va, vb, vc)
			}
		})
	}
}
