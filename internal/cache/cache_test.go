package cache

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/segyhp/loan-reports/internal/domain"
	"github.com/segyhp/loan-reports/internal/filter"
	customError "github.com/segyhp/loan-reports/pkg/errors"
)

func TestKey(t *testing.T) {
	start := domain.Date("2024-01-01")
	far := domain.FarPast
	f := filter.Filters{StartDate: &start}

	assert.Equal(t,
		"loan-reports:v2:catalogue:2024-01-01:-:upcoming-from-today:2024-05-01",
		Key(KindCatalogue, "", f, filter.UpcomingFromToday, "2024-05-01"))
	assert.Equal(t,
		"loan-reports:v2:detail:borrower-list:2024-01-01:-:upcoming-in-range:2024-05-01",
		Key(KindDetail, "borrower-list", f, filter.UpcomingInRange, "2024-05-01"))
	assert.NotEqual(t,
		Key(KindCatalogue, "", f, filter.UpcomingFromToday, "2024-05-01"),
		Key(KindCatalogue, "", f, filter.UpcomingFromToday, "2024-05-02"))

	// an explicit bound equal to the sentinel still keys apart from an absent one
	assert.NotEqual(t,
		Key(KindCatalogue, "", filter.Filters{}, filter.UpcomingFromToday, "2024-05-01"),
		Key(KindCatalogue, "", filter.Filters{StartDate: &far}, filter.UpcomingFromToday, "2024-05-01"))
}

func TestReportCache_RoundTrip(t *testing.T) {
	srv := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: srv.Addr()})
	t.Cleanup(func() { client.Close() })
	c := New(client, time.Minute)

	var dest map[string]int
	hit, err := c.Get(context.Background(), "k", &dest)
	require.NoError(t, err)
	assert.False(t, hit)

	require.NoError(t, c.Set(context.Background(), "k", map[string]int{"a": 1}))
	hit, err = c.Get(context.Background(), "k", &dest)
	require.NoError(t, err)
	assert.True(t, hit)
	assert.Equal(t, map[string]int{"a": 1}, dest)

	srv.FastForward(2 * time.Minute)
	hit, err = c.Get(context.Background(), "k", &dest)
	require.NoError(t, err)
	assert.False(t, hit)
}

func TestReportCache_Disabled(t *testing.T) {
	var nilCache *ReportCache
	for name, c := range map[string]*ReportCache{"nil": nilCache, "no client": New(nil, time.Minute)} {
		t.Run(name, func(t *testing.T) {
			assert.False(t, c.Enabled())

			var dest map[string]any
			hit, err := c.Get(context.Background(), "k", &dest)
			assert.NoError(t, err)
			assert.False(t, hit)
			assert.NoError(t, c.Set(context.Background(), "k", map[string]int{"a": 1}))
		})
	}
}

func TestReportCache_UnreachableServer(t *testing.T) {
	client := redis.NewClient(&redis.Options{
		Addr:        "127.0.0.1:1",
		DialTimeout: 100 * time.Millisecond,
		MaxRetries:  -1,
	})
	t.Cleanup(func() { client.Close() })
	c := New(client, time.Minute)
	require.True(t, c.Enabled())

	var dest map[string]any
	hit, err := c.Get(context.Background(), "k", &dest)
	assert.False(t, hit)
	require.Error(t, err)
	assert.Equal(t, customError.ErrCodeCacheError, customError.CodeOf(err))

	err = c.Set(context.Background(), "k", map[string]int{"a": 1})
	require.Error(t, err)
	var be *customError.BusinessError
	assert.True(t, errors.As(err, &be))
}
