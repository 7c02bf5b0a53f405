package catalog

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestCacheRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "catalog.db")

	cache, err := OpenCache(path)
	require.NoError(t, err)
	defer cache.Close()

	ctx := context.Background()
	original := Sample()

	require.NoError(t, cache.Save(ctx, original))

	loaded, err := cache.Load(ctx)
	require.NoError(t, err)

	require.Equal(t, original.Plans, loaded.Plans)
	require.Equal(t, original.ServiceAreas, loaded.ServiceAreas)
	require.Equal(t, original.Rates, loaded.Rates)
	require.Empty(t, loaded.PlanRates)
}

func TestCacheSaveReplacesSnapshot(t *testing.T) {
	path := filepath.Join(t.TempDir(), "catalog.db")

	cache, err := OpenCache(path)
	require.NoError(t, err)
	defer cache.Close()

	ctx := context.Background()
	require.NoError(t, cache.Save(ctx, Sample()))

	small := &Catalog{
		Plans:        []Plan{{ID: "X1", MarketingName: "Only Plan"}},
		ServiceAreas: []ServiceArea{{ID: "A1", StateCode: "CA", CoverEntireState: true}},
		PlanRates:    []PlanRate{{PlanID: "X1", StateCode: "CA", AvgRate: 123.45}},
	}
	require.NoError(t, cache.Save(ctx, small))

	loaded, err := cache.Load(ctx)
	require.NoError(t, err)
	require.Len(t, loaded.Plans, 1)
	require.Equal(t, "X1", loaded.Plans[0].ID)
	require.True(t, loaded.Aggregated())
	require.Empty(t, loaded.Rates)
}

func TestCacheLoadEmpty(t *testing.T) {
	path := filepath.Join(t.TempDir(), "catalog.db")

	cache, err := OpenCache(path)
	require.NoError(t, err)
	defer cache.Close()

	_, err = cache.Load(context.Background())
	require.ErrorIs(t, err, ErrEmptyCache)
}
