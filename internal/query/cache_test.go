package query

import (
	"context"
	"errors"
	"net/url"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"bazaaradmin/internal/api"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func staticFetcher(calls *atomic.Int64, data []api.Entity, err error) Fetcher {
	return func(ctx context.Context) ([]api.Entity, error) {
		calls.Add(1)
		return data, err
	}
}

func TestKeyCanonicalization(t *testing.T) {
	a := url.Values{}
	a.Set("status", "new")
	a.Set("q", "x")
	b := url.Values{}
	b.Set("q", "x")
	b.Set("status", "new")

	assert.Equal(t, Key("contact", a), Key("contact", b))
	assert.Equal(t, "contact", Key("contact", nil))
}

func TestFetchCachesSuccess(t *testing.T) {
	store := NewStore(nil)
	var calls atomic.Int64
	data := []api.Entity{{"id": "1"}}

	got, err := store.Fetch(context.Background(), "products", staticFetcher(&calls, data, nil))
	require.NoError(t, err)
	assert.Equal(t, data, got)

	got, err = store.Fetch(context.Background(), "products", staticFetcher(&calls, nil, errors.New("must not run")))
	require.NoError(t, err)
	assert.Equal(t, data, got)
	assert.Equal(t, int64(1), calls.Load())

	snap, ok := store.Snapshot("products")
	require.True(t, ok)
	assert.Equal(t, StatusSuccess, snap.Status)
	assert.False(t, snap.Stale)
}

func TestFetchStoresError(t *testing.T) {
	store := NewStore(nil)
	var calls atomic.Int64
	fetchErr := errors.New("backend down")

	_, err := store.Fetch(context.Background(), "orders", staticFetcher(&calls, nil, fetchErr))
	assert.ErrorIs(t, err, fetchErr)

	snap, ok := store.Snapshot("orders")
	require.True(t, ok)
	assert.Equal(t, StatusError, snap.Status)
	assert.ErrorIs(t, snap.Err, fetchErr)

	// An errored key is retried on the next read.
	data := []api.Entity{{"id": "o1"}}
	got, err := store.Fetch(context.Background(), "orders", staticFetcher(&calls, data, nil))
	require.NoError(t, err)
	assert.Equal(t, data, got)
	assert.Equal(t, int64(2), calls.Load())
}

func TestFetchDeduplicatesConcurrentReaders(t *testing.T) {
	store := NewStore(nil)
	var calls atomic.Int64
	release := make(chan struct{})
	fetcher := func(ctx context.Context) ([]api.Entity, error) {
		calls.Add(1)
		<-release
		return []api.Entity{{"id": "1"}}, nil
	}

	const readers = 8
	var started, done sync.WaitGroup
	started.Add(readers)
	done.Add(readers)
	for i := 0; i < readers; i++ {
		go func() {
			defer done.Done()
			started.Done()
			data, err := store.Fetch(context.Background(), "products", fetcher)
			assert.NoError(t, err)
			assert.Len(t, data, 1)
		}()
	}
	started.Wait()
	close(release)
	done.Wait()

	// Readers racing ahead of the first flight may start a second one,
	// but the full fan-in must not produce one fetch per reader.
	assert.LessOrEqual(t, calls.Load(), int64(2))
}

func TestInvalidateMarksStaleAndRefetches(t *testing.T) {
	store := NewStore(nil)
	var calls atomic.Int64
	data := []api.Entity{{"id": "1"}}

	_, err := store.Fetch(context.Background(), "inventory", staticFetcher(&calls, data, nil))
	require.NoError(t, err)

	store.Invalidate("inventory")

	snap, ok := store.Snapshot("inventory")
	require.True(t, ok)
	assert.True(t, snap.Stale)
	// Stale data stays readable until replaced.
	assert.Equal(t, data, snap.Data)

	fresh := []api.Entity{{"id": "1"}, {"id": "2"}}
	got, err := store.Fetch(context.Background(), "inventory", staticFetcher(&calls, fresh, nil))
	require.NoError(t, err)
	assert.Equal(t, fresh, got)
	assert.Equal(t, int64(2), calls.Load())
}

func TestInvalidateMatchesParamKeys(t *testing.T) {
	store := NewStore(nil)
	var calls atomic.Int64

	keyAll := Key("contact", nil)
	keyNew := Key("contact", url.Values{"status": []string{"new"}})
	_, err := store.Fetch(context.Background(), keyAll, staticFetcher(&calls, []api.Entity{}, nil))
	require.NoError(t, err)
	_, err = store.Fetch(context.Background(), keyNew, staticFetcher(&calls, []api.Entity{}, nil))
	require.NoError(t, err)

	store.Invalidate("contact")

	snapAll, _ := store.Snapshot(keyAll)
	snapNew, _ := store.Snapshot(keyNew)
	assert.True(t, snapAll.Stale)
	assert.True(t, snapNew.Stale)
}

func TestMutateInvalidatesOwnAndDependentsOnSuccess(t *testing.T) {
	store := NewStore(nil)
	var calls atomic.Int64
	_, err := store.Fetch(context.Background(), "inventory", staticFetcher(&calls, []api.Entity{}, nil))
	require.NoError(t, err)
	_, err = store.Fetch(context.Background(), "products", staticFetcher(&calls, []api.Entity{}, nil))
	require.NoError(t, err)

	spec, ok := api.Lookup("inventory")
	require.True(t, ok)

	err = store.Mutate(context.Background(), spec, func(ctx context.Context) error { return nil })
	require.NoError(t, err)

	invSnap, _ := store.Snapshot("inventory")
	prodSnap, _ := store.Snapshot("products")
	assert.True(t, invSnap.Stale)
	assert.True(t, prodSnap.Stale)
}

func TestMutateFailureDoesNotInvalidate(t *testing.T) {
	store := NewStore(nil)
	var calls atomic.Int64
	_, err := store.Fetch(context.Background(), "inventory", staticFetcher(&calls, []api.Entity{}, nil))
	require.NoError(t, err)
	_, err = store.Fetch(context.Background(), "products", staticFetcher(&calls, []api.Entity{}, nil))
	require.NoError(t, err)

	spec, ok := api.Lookup("inventory")
	require.True(t, ok)

	opErr := errors.New("rejected")
	err = store.Mutate(context.Background(), spec, func(ctx context.Context) error { return opErr })
	assert.ErrorIs(t, err, opErr)

	invSnap, _ := store.Snapshot("inventory")
	prodSnap, _ := store.Snapshot("products")
	assert.False(t, invSnap.Stale)
	assert.False(t, prodSnap.Stale)
}

func TestInFlightFetchSupersededByInvalidation(t *testing.T) {
	store := NewStore(nil)
	inFlight := make(chan struct{})
	release := make(chan struct{})
	staleData := []api.Entity{{"id": "old"}}

	var fetchDone sync.WaitGroup
	fetchDone.Add(1)
	go func() {
		defer fetchDone.Done()
		data, err := store.Fetch(context.Background(), "deals", func(ctx context.Context) ([]api.Entity, error) {
			close(inFlight)
			<-release
			return staleData, nil
		})
		// The caller still receives what it asked for.
		assert.NoError(t, err)
		assert.Equal(t, staleData, data)
	}()

	<-inFlight
	store.Invalidate("deals")
	close(release)
	fetchDone.Wait()

	// The superseded result must not have been stored as fresh.
	snap, ok := store.Snapshot("deals")
	require.True(t, ok)
	assert.True(t, snap.Stale)
	assert.NotEqual(t, StatusSuccess, snap.Status)

	var calls atomic.Int64
	fresh := []api.Entity{{"id": "new"}}
	got, err := store.Fetch(context.Background(), "deals", staticFetcher(&calls, fresh, nil))
	require.NoError(t, err)
	assert.Equal(t, fresh, got)
	assert.Equal(t, int64(1), calls.Load())
}

func TestClearDropsEverything(t *testing.T) {
	store := NewStore(nil)
	var calls atomic.Int64
	_, err := store.Fetch(context.Background(), "products", staticFetcher(&calls, []api.Entity{{"id": "1"}}, nil))
	require.NoError(t, err)

	store.Clear()

	_, ok := store.Snapshot("products")
	assert.False(t, ok)

	_, err = store.Fetch(context.Background(), "products", staticFetcher(&calls, []api.Entity{{"id": "1"}}, nil))
	require.NoError(t, err)
	assert.Equal(t, int64(2), calls.Load())
}

func TestClearDiscardsInFlightFetch(t *testing.T) {
	store := NewStore(nil)
	inFlight := make(chan struct{})
	release := make(chan struct{})

	var fetchDone sync.WaitGroup
	fetchDone.Add(1)
	go func() {
		defer fetchDone.Done()
		_, _ = store.Fetch(context.Background(), "users", func(ctx context.Context) ([]api.Entity, error) {
			close(inFlight)
			<-release
			return []api.Entity{{"id": "stale"}}, nil
		})
	}()

	<-inFlight
	store.Clear()
	close(release)
	fetchDone.Wait()

	snap, ok := store.Snapshot("users")
	if ok {
		assert.NotEqual(t, StatusSuccess, snap.Status)
	}
}
