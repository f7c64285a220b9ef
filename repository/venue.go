package repository

import (
	"context"
	"time"

	"bff-gateway/domain"
	"bff-gateway/helpers"

	"github.com/pkg/errors"
	"github.com/txix-open/isp-kit/http/httpcli"
)

const (
	venueDiscoverPath = "/venues/discover"
	parkingSearchPath = "/parking/search"
)

type Venue struct {
	cli     *httpcli.Client
	hosts   helpers.HostManager
	timeout time.Duration
}

func NewVenue(cli *httpcli.Client, hosts helpers.HostManager, timeout time.Duration) Venue {
	return Venue{
		cli:     cli,
		hosts:   hosts,
		timeout: timeout,
	}
}

func (r Venue) Discover(ctx context.Context) (*domain.UpstreamItems, error) {
	return getItems(ctx, r.cli, r.hosts, venueDiscoverPath, r.timeout)
}

type Parking struct {
	cli     *httpcli.Client
	hosts   helpers.HostManager
	timeout time.Duration
}

func NewParking(cli *httpcli.Client, hosts helpers.HostManager, timeout time.Duration) Parking {
	return Parking{
		cli:     cli,
		hosts:   hosts,
		timeout: timeout,
	}
}

func (r Parking) Search(ctx context.Context) (*domain.UpstreamItems, error) {
	return getItems(ctx, r.cli, r.hosts, parkingSearchPath, r.timeout)
}

func getItems(
	ctx context.Context,
	cli *httpcli.Client,
	hosts helpers.HostManager,
	path string,
	timeout time.Duration,
) (*domain.UpstreamItems, error) {
	endpoint, err := helpers.JoinUrl(hosts, path)
	if err != nil {
		return nil, errors.WithMessage(err, "upstream url")
	}

	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	resp := domain.UpstreamItems{}
	_, err = cli.Get(endpoint).
		JsonResponseBody(&resp).
		StatusCodeToError().
		Do(ctx)
	if err != nil {
		return nil, errors.WithMessagef(err, "call %s", endpoint)
	}
	return &resp, nil
}
