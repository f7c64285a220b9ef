package service

import (
	"context"
	"fmt"

	"bff-gateway/domain"

	"github.com/pkg/errors"
	"github.com/txix-open/isp-kit/log"
)

type CoordinatesStore interface {
	Swap(coords map[string]domain.Coordinate)
}

type Coordinates struct {
	venues VenueRepo
	store  CoordinatesStore
	logger log.Logger
}

func NewCoordinates(venues VenueRepo, store CoordinatesStore, logger log.Logger) Coordinates {
	return Coordinates{
		venues: venues,
		store:  store,
		logger: logger,
	}
}

// Refresh replaces the coordinate snapshot only when the upstream returned at least one located venue.
func (s Coordinates) Refresh(ctx context.Context) error {
	items, err := s.venues.Discover(ctx)
	if err != nil {
		return errors.WithMessage(err, "discover venues")
	}

	next := make(map[string]domain.Coordinate)
	for _, item := range items.Items {
		id, ok := itemId(item)
		if !ok {
			continue
		}
		coord, ok := extractCoordinate(item)
		if ok {
			next[id] = coord
		}
	}
	if len(next) == 0 {
		s.logger.Debug(ctx, "coordinates: empty result, keeping previous snapshot")
		return nil
	}

	s.store.Swap(next)
	s.logger.Debug(ctx, "coordinates: refreshed", log.Int("venues", len(next)))
	return nil
}

// itemId formats any json id, numeric ids included, the same way for cards and the coordinate cache.
func itemId(item map[string]any) (string, bool) {
	id := item["id"]
	if id == nil {
		return "", false
	}
	formatted := fmt.Sprintf("%v", id)
	return formatted, formatted != ""
}

func extractCoordinate(item map[string]any) (domain.Coordinate, bool) {
	sources := []map[string]any{item}
	for _, key := range []string{"location", "geo", "data"} {
		nested, ok := item[key].(map[string]any)
		if ok {
			sources = append(sources, nested)
		}
	}

	var lat, lng *float64
	for _, source := range sources {
		if lat == nil {
			lat = number(source["lat"])
		}
		if lng == nil {
			lng = number(source["lng"])
		}
	}
	if lat == nil || lng == nil {
		return domain.Coordinate{}, false
	}
	return domain.Coordinate{Lat: *lat, Lng: *lng}, true
}

func number(value any) *float64 {
	f, ok := value.(float64)
	if !ok {
		return nil
	}
	return &f
}
