package ecs

// All queries walk the first argument's dense array, so visiting order is
// the insertion order of that component and is stable between ticks.

// Join visits entities that have both A and B, read-only.
func Join[A, B any](ra Reader[A], rb Reader[B], fn func(EntityID, A, B)) {
	sa, sb := ra.s, rb.s
	for i, id := range sa.ids {
		if d := sb.slot(id); d != absent {
			fn(id, sa.dense[i], sb.dense[d])
		}
	}
}

// Join3 visits entities that have A, B and C, read-only.
func Join3[A, B, C any](ra Reader[A], rb Reader[B], rc Reader[C], fn func(EntityID, A, B, C)) {
	sa, sb, sc := ra.s, rb.s, rc.s
	for i, id := range sa.ids {
		db := sb.slot(id)
		if db == absent {
			continue
		}
		if dc := sc.slot(id); dc != absent {
			fn(id, sa.dense[i], sb.dense[db], sc.dense[dc])
		}
	}
}

// Each2 visits entities that have A and B, with A writable.
func Each2[A, B any](sa *Store[A], rb Reader[B], fn func(EntityID, *A, B)) {
	sb := rb.s
	for i, id := range sa.ids {
		if d := sb.slot(id); d != absent {
			fn(id, &sa.dense[i], sb.dense[d])
		}
	}
}

// Each3 visits entities that have A, B and C, with A and B writable.
// Passing the same store as both A and B panics: the callback would receive
// two mutable pointers to one component.
func Each3[A, B, C any](sa *Store[A], sb *Store[B], rc Reader[C], fn func(EntityID, *A, *B, C)) {
	if any(sa) == any(sb) {
		panic("ecs: Each3 called with overlapping mutable stores")
	}
	sc := rc.s
	for i, id := range sa.ids {
		db := sb.slot(id)
		if db == absent {
			continue
		}
		if dc := sc.slot(id); dc != absent {
			fn(id, &sa.dense[i], &sb.dense[db], sc.dense[dc])
		}
	}
}
