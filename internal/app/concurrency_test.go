package app_test

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rpggio/assetledger/internal/domain/asset"
	"github.com/rpggio/assetledger/internal/domain/maintenance"
)

const batchWidth = 3

// Every batch commits exactly batchWidth forecasts against one asset, so any
// snapshot that observes a partial batch shows a ref count that is not a
// multiple of batchWidth.
func TestConcurrent_ReadersSeeWholeBatches(t *testing.T) {
	ctx := context.Background()
	a := newApp(t)
	register(t, a, "key-a", "alice")
	register(t, a, "key-b", "bob")

	const assets = 3
	for i := 0; i < assets; i++ {
		_, err := a.Assets.Create(ctx, "key-a", asset.CreateRequest{Fields: asset.Fields{AssetNumber: fmt.Sprintf("A-%d", i)}})
		require.NoError(t, err)
	}

	const writers, batchesPerWriter = 4, 10
	var (
		writersWG sync.WaitGroup
		readersWG sync.WaitGroup
		done      atomic.Bool
	)

	for w := 0; w < writers; w++ {
		writersWG.Add(1)
		go func(w int) {
			defer writersWG.Done()
			credential := []string{"key-a", "key-b"}[w%2]
			for b := 0; b < batchesPerWriter; b++ {
				target := uint64((w + b) % assets)
				entries := make([]maintenance.ForecastEntry, 0, batchWidth+1)
				for i := 0; i < batchWidth; i++ {
					entries = append(entries, maintenance.ForecastEntry{
						AssetIndex:  target,
						Cost:        decimal.NewFromInt(int64(i + 1)),
						Description: fmt.Sprintf("w%d-b%d-%d", w, b, i),
					})
				}
				// Odd batches end on a missing asset; the valid prefix still commits.
				if b%2 == 1 {
					entries = append(entries, maintenance.ForecastEntry{AssetIndex: assets + 10})
				}
				out, err := a.Maintenance.AddForecastBatch(ctx, credential, entries)
				if !assert.NoError(t, err) {
					return
				}
				assert.Equal(t, batchWidth, out.Committed)
			}
		}(w)
	}

	const readers = 4
	for r := 0; r < readers; r++ {
		readersWG.Add(1)
		go func(r int) {
			defer readersWG.Done()
			for !done.Load() {
				views, err := a.Query.ListAssets(ctx)
				if !assert.NoError(t, err) {
					return
				}
				if !assert.Len(t, views, assets) {
					return
				}
				total := 0
				for _, v := range views {
					assert.Zero(t, len(v.ForecastRefs)%batchWidth, "asset %d shows a partial batch", v.Index)
					total += len(v.ForecastRefs)
				}
				assert.Zero(t, total%batchWidth)

				target := uint64(r % assets)
				forecasts, err := a.Query.GetAssetForecasts(ctx, target)
				if !assert.NoError(t, err) {
					return
				}
				assert.Zero(t, len(forecasts)%batchWidth, "asset %d forecasts show a partial batch", target)
				for _, f := range forecasts {
					assert.Equal(t, target, f.AssetIndex)
					assert.NotEmpty(t, f.CreatedByName)
				}
			}
		}(r)
	}

	writersWG.Wait()
	done.Store(true)
	readersWG.Wait()

	total := 0
	for i := 0; i < assets; i++ {
		forecasts, err := a.Query.GetAssetForecasts(ctx, uint64(i))
		require.NoError(t, err)
		total += len(forecasts)
	}
	require.Equal(t, writers*batchesPerWriter*batchWidth, total)
}

func TestConcurrent_CreateKeepsIndicesDense(t *testing.T) {
	ctx := context.Background()
	a := newApp(t)
	register(t, a, "key-a", "alice")

	const goroutines, perGoroutine = 8, 12
	var (
		wg   sync.WaitGroup
		mu   sync.Mutex
		seen = make(map[uint64]bool)
	)
	for g := 0; g < goroutines; g++ {
		wg.Add(1)
		go func(g int) {
			defer wg.Done()
			for i := 0; i < perGoroutine; i++ {
				out, err := a.Assets.Create(ctx, "key-a", asset.CreateRequest{
					Fields: asset.Fields{AssetNumber: fmt.Sprintf("G%d-%d", g, i)},
				})
				if !assert.NoError(t, err) || !assert.True(t, out.Success) {
					return
				}
				mu.Lock()
				assert.False(t, seen[out.Index], "index %d handed out twice", out.Index)
				seen[out.Index] = true
				mu.Unlock()
			}
		}(g)
	}
	wg.Wait()

	list, err := a.Assets.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, goroutines*perGoroutine)
	for i, got := range list {
		require.Equal(t, uint64(i), got.Index)
		require.True(t, seen[got.Index])
	}
}
