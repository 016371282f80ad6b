package main

import "container/heap"

// EffectKind names a delayed effect. Together with an entity id it forms the
// key under which at most one effect is pending.
type EffectKind int

const (
	EffectStealthEnd EffectKind = iota
	EffectShieldEnd
	EffectSlowEnd
	EffectFrozenEnd
	EffectProjectileSlowEnd
	EffectBleed
	EffectBurn
	EffectPoison
)

type effectKey struct {
	entity EntityID
	kind   EffectKind
}

type scheduledEffect struct {
	key   effectKey
	at    float64
	seq   uint64
	apply func(g *Game)
}

type effectQueue []*scheduledEffect

func (q effectQueue) Len() int { return len(q) }
func (q effectQueue) Less(i, j int) bool {
	if q[i].at == q[j].at {
		return q[i].seq < q[j].seq
	}
	return q[i].at < q[j].at
}
func (q effectQueue) Swap(i, j int)       { q[i], q[j] = q[j], q[i] }
func (q *effectQueue) Push(x interface{}) { *q = append(*q, x.(*scheduledEffect)) }
func (q *effectQueue) Pop() interface{} {
	old := *q
	n := len(old)
	e := old[n-1]
	old[n-1] = nil
	*q = old[:n-1]
	return e
}

// EffectScheduler runs delayed effects inside the tick loop, ordered by game
// time. Scheduling a key that is already pending replaces the pending effect,
// so refreshing a status extends it instead of stacking a second reversal.
type EffectScheduler struct {
	queue   effectQueue
	pending map[effectKey]uint64
	seq     uint64
}

// NewEffectScheduler creates an empty scheduler
func NewEffectScheduler() *EffectScheduler {
	return &EffectScheduler{pending: make(map[effectKey]uint64)}
}

// Schedule arranges for apply to run once the game clock reaches at
func (s *EffectScheduler) Schedule(entity EntityID, kind EffectKind, at float64, apply func(g *Game)) {
	s.seq++
	key := effectKey{entity, kind}
	s.pending[key] = s.seq
	heap.Push(&s.queue, &scheduledEffect{key: key, at: at, seq: s.seq, apply: apply})
}

// Pending reports whether an effect is waiting under the key
func (s *EffectScheduler) Pending(entity EntityID, kind EffectKind) bool {
	_, ok := s.pending[effectKey{entity, kind}]
	return ok
}

// Cancel drops the pending effect under the key, if any
func (s *EffectScheduler) Cancel(entity EntityID, kind EffectKind) {
	delete(s.pending, effectKey{entity, kind})
}

// CancelEntity drops every pending effect for an entity
func (s *EffectScheduler) CancelEntity(entity EntityID) {
	for key := range s.pending {
		if key.entity == entity {
			delete(s.pending, key)
		}
	}
}

// RunDue applies every live effect due at or before now, in time order.
// Effects may schedule further effects; those run in this call only if
// they are also due.
func (s *EffectScheduler) RunDue(g *Game, now float64) {
	for s.queue.Len() > 0 && s.queue[0].at <= now {
		e := heap.Pop(&s.queue).(*scheduledEffect)
		if seq, ok := s.pending[e.key]; !ok || seq != e.seq {
			continue
		}
		delete(s.pending, e.key)
		e.apply(g)
	}
}

// Len returns the number of live pending effects
func (s *EffectScheduler) Len() int {
	return len(s.pending)
}
