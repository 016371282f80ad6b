package main

// EntityID identifies any simulated entity. Zero means "none".
type EntityID int

// IDAllocator hands out entity ids for one game session
type IDAllocator struct {
	next EntityID
}

// Next returns a fresh id, never zero
func (a *IDAllocator) Next() EntityID {
	a.next++
	return a.next
}
