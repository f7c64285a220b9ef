package service

import (
	"context"
	"fmt"
	"slices"
	"sync"

	"bff-gateway/domain"

	"github.com/pkg/errors"
	"github.com/txix-open/isp-kit/http/httpcli"
	"github.com/txix-open/isp-kit/log"
)

const (
	valetOfferId = "valet-offer-1"
)

type VenueRepo interface {
	Discover(ctx context.Context) (*domain.UpstreamItems, error)
}

type ParkingRepo interface {
	Search(ctx context.Context) (*domain.UpstreamItems, error)
}

type CoordinatesReader interface {
	Get(venueId string) (domain.Coordinate, bool)
}

type Discovery struct {
	venues  VenueRepo
	parking ParkingRepo
	coords  CoordinatesReader
	intn    func(n int) int
	logger  log.Logger
}

func NewDiscovery(
	venues VenueRepo,
	parking ParkingRepo,
	coords CoordinatesReader,
	intn func(n int) int,
	logger log.Logger,
) Discovery {
	return Discovery{
		venues:  venues,
		parking: parking,
		coords:  coords,
		intn:    intn,
		logger:  logger,
	}
}

// Cards merges venue, parking and valet offers.
// With interests the order is a weighted shuffle favoring matching card types.
func (s Discovery) Cards(ctx context.Context, interests []string) ([]domain.Card, error) {
	var (
		venues, parking       *domain.UpstreamItems
		venuesErr, parkingErr error
	)
	wg := sync.WaitGroup{}
	wg.Add(2) //nolint:mnd
	go func() {
		defer wg.Done()
		venues, venuesErr = s.venues.Discover(ctx)
	}()
	go func() {
		defer wg.Done()
		parking, parkingErr = s.parking.Search(ctx)
	}()
	wg.Wait()

	venueItems, err := s.itemsOrEmpty(ctx, "venue", venues, venuesErr)
	if err != nil {
		return nil, err
	}
	parkingItems, err := s.itemsOrEmpty(ctx, "parking", parking, parkingErr)
	if err != nil {
		return nil, err
	}

	cards := make([]domain.Card, 0, len(venueItems)+len(parkingItems)+1)
	for _, item := range venueItems {
		cards = append(cards, s.venueCard(item))
	}
	for _, item := range parkingItems {
		cards = append(cards, domain.Card{
			Id:       fmt.Sprintf("p:%v", item["id"]),
			Type:     domain.CardTypeParking,
			Title:    item["name"],
			Subtitle: item["distance"],
			Tags:     item["features"],
			Data:     item,
		})
	}
	cards = append(cards, domain.Card{
		Id:       valetOfferId,
		Type:     domain.CardTypeValet,
		Title:    "Valet Available",
		Subtitle: "Request drop-off & services",
		Data:     map[string]bool{"offer": true},
	})

	if len(interests) == 0 {
		return cards, nil
	}
	return s.weightedShuffle(cards, interests), nil
}

// itemsOrEmpty treats a non-2xx upstream answer as an empty list.
// Transport failures are returned.
func (s Discovery) itemsOrEmpty(ctx context.Context, upstream string, items *domain.UpstreamItems, err error) ([]map[string]any, error) {
	if err == nil {
		return items.Items, nil
	}
	errResp := httpcli.ErrorResponse{}
	if errors.As(err, &errResp) {
		s.logger.Info(ctx, "discovery: upstream answered with error status",
			log.String("upstream", upstream),
			log.Int("statusCode", errResp.StatusCode),
		)
		return nil, nil
	}
	return nil, errors.WithMessagef(err, "discovery: %s", upstream)
}

func (s Discovery) venueCard(item map[string]any) domain.Card {
	id, _ := itemId(item)
	card := domain.Card{
		Id:       id,
		Type:     domain.CardTypeVenue,
		Title:    item["title"],
		Subtitle: item["subtitle"],
		Rating:   item["rating"],
		Distance: item["distance"],
		Price:    item["price"],
		Data:     item,
	}
	coord, ok := extractCoordinate(item)
	if !ok {
		coord, ok = s.coords.Get(card.Id)
	}
	if ok {
		card.Lat = &coord.Lat
		card.Lng = &coord.Lng
	}
	return card
}

func (s Discovery) weightedShuffle(cards []domain.Card, interests []string) []domain.Card {
	expanded := make([]domain.Card, 0, len(cards))
	for _, card := range cards {
		for range weight(card, interests) {
			expanded = append(expanded, card)
		}
	}
	for i := len(expanded) - 1; i > 0; i-- {
		j := s.intn(i + 1)
		expanded[i], expanded[j] = expanded[j], expanded[i]
	}

	seen := make(map[string]bool, len(cards))
	result := make([]domain.Card, 0, len(cards))
	for _, card := range expanded {
		if seen[card.Id] {
			continue
		}
		seen[card.Id] = true
		result = append(result, card)
	}
	return result
}

func weight(card domain.Card, interests []string) int {
	w := 1
	if card.Type == domain.CardTypeVenue && slices.Contains(interests, "dining") {
		w += 2
	}
	if slices.Contains(interests, card.Type) {
		w += 3
	}
	return w
}
