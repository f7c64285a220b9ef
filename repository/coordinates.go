package repository

import (
	"sync/atomic"

	"bff-gateway/domain"
)

type Coordinates struct {
	snapshot *atomic.Pointer[map[string]domain.Coordinate]
}

func NewCoordinates() Coordinates {
	snapshot := &atomic.Pointer[map[string]domain.Coordinate]{}
	empty := map[string]domain.Coordinate{}
	snapshot.Store(&empty)
	return Coordinates{
		snapshot: snapshot,
	}
}

// Swap replaces the whole snapshot. The map must not be modified afterwards.
func (r Coordinates) Swap(coords map[string]domain.Coordinate) {
	r.snapshot.Store(&coords)
}

func (r Coordinates) Get(venueId string) (domain.Coordinate, bool) {
	coord, ok := (*r.snapshot.Load())[venueId]
	return coord, ok
}

func (r Coordinates) Len() int {
	return len(*r.snapshot.Load())
}
