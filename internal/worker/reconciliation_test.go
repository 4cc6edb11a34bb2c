package worker

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"contest-entry/internal/infrastructure/storage"
	"contest-entry/internal/metrics"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fakeStore struct {
	mu        sync.Mutex
	objects   []storage.Object
	deleted   []string
	cutoff    time.Time
	listErr   error
	deleteErr map[string]error
}

func (f *fakeStore) List(_ context.Context, before time.Time) ([]storage.Object, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.cutoff = before
	if f.listErr != nil {
		return nil, f.listErr
	}
	var out []storage.Object
	for _, o := range f.objects {
		if o.LastModified.Before(before) {
			out = append(out, o)
		}
	}
	return out, nil
}

func (f *fakeStore) Delete(_ context.Context, key string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.deleteErr[key]; err != nil {
		return err
	}
	f.deleted = append(f.deleted, key)
	return nil
}

type fakeIndex struct {
	referenced map[string]bool
	failOn     string
}

func (f *fakeIndex) ReferencesFile(_ context.Context, key string) (bool, error) {
	if key == f.failOn {
		return false, errors.New("db down")
	}
	return f.referenced[key], nil
}

var now = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

func newSweeper(store ObjectStore, index FileIndex) (*OrphanSweeper, *metrics.Metrics) {
	m := metrics.New(prometheus.NewRegistry())
	w := NewOrphanSweeper(store, index, m, zap.NewNop(), time.Minute, time.Hour)
	w.now = func() time.Time { return now }
	return w, m
}

func TestSweepRemovesOnlyOldUnreferencedObjects(t *testing.T) {
	store := &fakeStore{objects: []storage.Object{
		{Key: "1700000000000000000-1-orphan.jpg", LastModified: now.Add(-2 * time.Hour)},
		{Key: "1700000000000000000-2-kept.jpg", LastModified: now.Add(-2 * time.Hour)},
		{Key: "1700000000000000000-3-fresh.jpg", LastModified: now.Add(-time.Minute)},
	}}
	index := &fakeIndex{referenced: map[string]bool{"1700000000000000000-2-kept.jpg": true}}
	w, m := newSweeper(store, index)

	removed, err := w.Sweep(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, removed)
	assert.Equal(t, []string{"1700000000000000000-1-orphan.jpg"}, store.deleted)
	assert.Equal(t, now.Add(-time.Hour), store.cutoff)
	assert.Equal(t, 1.0, testutil.ToFloat64(m.OrphansSwept))
}

const (
	keyA = "1700000000000000000-11-a.png"
	keyB = "1700000000000000000-12-b.png"
	keyC = "1700000000000000000-13-c.png"
)

func TestSweepSkipsFailures(t *testing.T) {
	old := now.Add(-2 * time.Hour)
	store := &fakeStore{
		objects: []storage.Object{
			{Key: keyA, LastModified: old},
			{Key: keyB, LastModified: old},
			{Key: keyC, LastModified: old},
		},
		deleteErr: map[string]error{keyB: errors.New("denied")},
	}
	index := &fakeIndex{failOn: keyA}
	w, m := newSweeper(store, index)

	removed, err := w.Sweep(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, removed)
	assert.Equal(t, []string{keyC}, store.deleted)
	assert.Equal(t, 1.0, testutil.ToFloat64(m.OrphansSwept))
}

func TestSweepIgnoresForeignKeys(t *testing.T) {
	old := now.Add(-2 * time.Hour)
	store := &fakeStore{objects: []storage.Object{
		{Key: "index.html", LastModified: old},
		{Key: "backups/2025-01-01.tar", LastModified: old},
		{Key: "12-34", LastModified: old},
		{Key: "1700000000000000000-5-entry.mp3", LastModified: old},
	}}
	w, m := newSweeper(store, &fakeIndex{})

	removed, err := w.Sweep(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, removed)
	assert.Equal(t, []string{"1700000000000000000-5-entry.mp3"}, store.deleted)
	assert.Equal(t, 1.0, testutil.ToFloat64(m.OrphansSwept))
}

func TestSweepListError(t *testing.T) {
	store := &fakeStore{listErr: errors.New("bucket gone")}
	w, _ := newSweeper(store, &fakeIndex{})

	_, err := w.Sweep(context.Background())
	assert.EqualError(t, err, "bucket gone")
}

func TestRunStopsOnCancel(t *testing.T) {
	store := &fakeStore{objects: []storage.Object{{Key: "1700000000000000000-9-x.pdf", LastModified: now.Add(-2 * time.Hour)}}}
	w, _ := newSweeper(store, &fakeIndex{})
	w.interval = 10 * time.Millisecond

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		w.Run(ctx)
		close(done)
	}()

	require.Eventually(t, func() bool {
		store.mu.Lock()
		defer store.mu.Unlock()
		return len(store.deleted) > 0
	}, time.Second, 5*time.Millisecond)

	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("sweeper did not stop")
	}
}
