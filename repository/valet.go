package repository

import (
	"context"
	"fmt"
	"net/url"
	"time"

	"bff-gateway/helpers"

	"github.com/pkg/errors"
	"github.com/txix-open/isp-kit/http/httpcli"
)

type Valet struct {
	cli     *httpcli.Client
	hosts   helpers.HostManager
	timeout time.Duration
}

func NewValet(cli *httpcli.Client, hosts helpers.HostManager, timeout time.Duration) Valet {
	return Valet{
		cli:     cli,
		hosts:   hosts,
		timeout: timeout,
	}
}

func (r Valet) MarkPaid(ctx context.Context, ticketId string) error {
	endpoint, err := helpers.JoinUrl(r.hosts, fmt.Sprintf("/valet/tickets/%s/paid", url.PathEscape(ticketId)))
	if err != nil {
		return errors.WithMessage(err, "valet url")
	}

	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	_, err = r.cli.Post(endpoint).
		StatusCodeToError().
		Do(ctx)
	if err != nil {
		return errors.WithMessagef(err, "call %s", endpoint)
	}
	return nil
}
