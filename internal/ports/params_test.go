package ports

import (
	"net/http/httptest"
	"testing"
	"time"

	"github.com/madevisual/chessdash/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseGameFilter(t *testing.T) {
	t.Parallel()

	t.Run("empty query matches everything", func(t *testing.T) {
		t.Parallel()
		r := httptest.NewRequest("GET", "/v1/players/alice/games", nil)
		filter, err := parseGameFilter(r)
		require.NoError(t, err)
		assert.Equal(t, domain.GameFilter{}, filter)
	})

	t.Run("full query", func(t *testing.T) {
		t.Parallel()
		r := httptest.NewRequest("GET", "/v1/players/alice/games?from=2023-01&to=2023-06&time_class=blitz&rated=true", nil)
		filter, err := parseGameFilter(r)
		require.NoError(t, err)
		require.NotNil(t, filter.From)
		assert.Equal(t, domain.ArchiveMonth{Year: 2023, Month: time.January}, *filter.From)
		require.NotNil(t, filter.To)
		assert.Equal(t, domain.ArchiveMonth{Year: 2023, Month: time.June}, *filter.To)
		require.NotNil(t, filter.TimeClass)
		assert.Equal(t, domain.TimeClassBlitz, *filter.TimeClass)
		require.NotNil(t, filter.Rated)
		assert.True(t, *filter.Rated)
	})

	t.Run("invalid values fail", func(t *testing.T) {
		t.Parallel()
		for _, query := range []string{
			"from=notamonth",
			"to=2023-13",
			"time_class=hyperbullet",
			"rated=perhaps",
			"from=2023-06&to=2023-01",
		} {
			r := httptest.NewRequest("GET", "/v1/players/alice/games?"+query, nil)
			_, err := parseGameFilter(r)
			require.Error(t, err, "query %q should fail", query)
		}
	})
}

func TestParseLocation(t *testing.T) {
	t.Parallel()

	t.Run("missing tz means utc", func(t *testing.T) {
		t.Parallel()
		r := httptest.NewRequest("GET", "/v1/players/alice/seasonality", nil)
		loc, err := parseLocation(r)
		require.NoError(t, err)
		assert.Equal(t, time.UTC, loc)
	})

	t.Run("iana zone name", func(t *testing.T) {
		t.Parallel()
		r := httptest.NewRequest("GET", "/v1/players/alice/seasonality?tz=Europe/Oslo", nil)
		loc, err := parseLocation(r)
		require.NoError(t, err)
		assert.Equal(t, "Europe/Oslo", loc.String())
	})

	t.Run("invalid zone fails", func(t *testing.T) {
		t.Parallel()
		r := httptest.NewRequest("GET", "/v1/players/alice/seasonality?tz=Mars/Olympus", nil)
		_, err := parseLocation(r)
		require.Error(t, err)
	})
}

func TestParseColor(t *testing.T) {
	t.Parallel()

	r := httptest.NewRequest("GET", "/v1/players/alice/openings", nil)
	color, err := parseColor(r)
	require.NoError(t, err)
	assert.Nil(t, color)

	r = httptest.NewRequest("GET", "/v1/players/alice/openings?color=black", nil)
	color, err = parseColor(r)
	require.NoError(t, err)
	require.NotNil(t, color)
	assert.Equal(t, domain.ColorBlack, *color)

	r = httptest.NewRequest("GET", "/v1/players/alice/openings?color=green", nil)
	_, err = parseColor(r)
	require.Error(t, err)
}
