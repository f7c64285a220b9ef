package helpers_test

import (
	"testing"

	"bff-gateway/helpers"

	"github.com/stretchr/testify/require"
	"github.com/txix-open/isp-kit/lb"
)

func TestNextBaseUrl(t *testing.T) {
	t.Parallel()
	require := require.New(t)

	hosts := lb.NewRoundRobin([]string{"localhost:8092", "https://venue.internal/"})

	first, err := helpers.NextBaseUrl(hosts)
	require.NoError(err)
	second, err := helpers.NextBaseUrl(hosts)
	require.NoError(err)

	urls := []string{first.String(), second.String()}
	require.ElementsMatch([]string{"http://localhost:8092", "https://venue.internal"}, urls)
}

func TestJoinUrl(t *testing.T) {
	t.Parallel()
	require := require.New(t)

	hosts := lb.NewRoundRobin([]string{"http://valet:8096"})
	joined, err := helpers.JoinUrl(hosts, "/valet/tickets/t1/paid")
	require.NoError(err)
	require.EqualValues("http://valet:8096/valet/tickets/t1/paid", joined)
}

func TestNextBaseUrlNoHosts(t *testing.T) {
	t.Parallel()
	require := require.New(t)

	_, err := helpers.NextBaseUrl(lb.NewRoundRobin(nil))
	require.Error(err)
}
