package service

import (
	"context"
	"fmt"
	"math"
	"time"

	"bff-gateway/domain"
)

var (
	defaultVibeVenues = []vibeVenue{
		{id: "v1", title: "Energetic Bar"},
		{id: "v2", title: "Chill Lounge"},
	}
	vibeCenter = domain.Coordinate{Lat: 37.7749, Lng: -122.4194}
)

type vibeVenue struct {
	id    string
	title string
}

// Vibe emits synthetic venue scores for local development clients.
type Vibe struct {
	coords    CoordinatesReader
	publisher Publisher
	random    func() float64
	now       func() time.Time
}

func NewVibe(coords CoordinatesReader, publisher Publisher, random func() float64, now func() time.Time) Vibe {
	return Vibe{
		coords:    coords,
		publisher: publisher,
		random:    random,
		now:       now,
	}
}

func (s Vibe) Tick(ctx context.Context) {
	rooms := []string{
		domain.RoomInsiderAll,
		fmt.Sprintf(domain.RoomInsiderInterestFmt, domain.CardTypeVenue),
		fmt.Sprintf(domain.RoomInsiderInterestFmt, "dining"),
	}
	for _, venue := range defaultVibeVenues {
		coord, ok := s.coords.Get(venue.id)
		if !ok {
			coord = domain.Coordinate{
				Lat: vibeCenter.Lat + (s.random()-0.5)*0.02, //nolint:mnd
				Lng: vibeCenter.Lng + (s.random()-0.5)*0.02, //nolint:mnd
			}
		}
		s.publisher.Publish(ctx, domain.EventVibeUpdate, domain.VibeUpdate{
			VenueId: venue.id,
			Type:    domain.CardTypeVenue,
			Score:   math.Round((s.random()*5+3)*10) / 10, //nolint:mnd
			Ts:      s.now().UnixMilli(),
			Lat:     coord.Lat,
			Lng:     coord.Lng,
			Title:   venue.title,
		}, rooms...)
	}
}
