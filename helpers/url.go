package helpers

import (
	"net/url"
	"strings"

	"github.com/pkg/errors"
)

type HostManager interface {
	Next() (string, error)
}

// NextBaseUrl picks the next upstream and returns it as an absolute url without trailing slash.
func NextBaseUrl(hosts HostManager) (*url.URL, error) {
	host, err := hosts.Next()
	if err != nil {
		return nil, errors.WithMessage(err, "next host")
	}
	if !strings.Contains(host, "://") {
		host = "http://" + host
	}
	target, err := url.Parse(strings.TrimSuffix(host, "/"))
	if err != nil {
		return nil, errors.WithMessagef(err, "parse upstream url %s", host)
	}
	return target, nil
}

func JoinUrl(hosts HostManager, path string) (string, error) {
	base, err := NextBaseUrl(hosts)
	if err != nil {
		return "", err
	}
	return base.String() + path, nil
}
