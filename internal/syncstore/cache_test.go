package syncstore

import (
	"context"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// unreachableRedis returns a client no server listens behind. Every
// command fails, which is exactly the degradation path under test.
func unreachableRedis(t *testing.T) *redis.Client {
	t.Helper()
	client := redis.NewClient(&redis.Options{
		Addr:        "127.0.0.1:1",
		DialTimeout: 50 * time.Millisecond,
		MaxRetries:  -1,
	})
	t.Cleanup(func() { client.Close() })
	return client
}

func TestCachedAdapterDegradesToRemoteOnCacheFailure(t *testing.T) {
	remote := NewMemoryAdapter()
	require.NoError(t, remote.Seed(CollectionStudents, "s1",
		StudentDocument{Name: "Ada", StudentID: "1001"}))

	cached := NewCachedAdapter(remote, unreachableRedis(t), time.Minute, nil, nil)

	records, err := cached.LoadCollection(context.Background(), CollectionStudents)
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "s1", records[0].ID)
}

func TestCachedAdapterSaveSucceedsWhenInvalidationFails(t *testing.T) {
	remote := NewMemoryAdapter()
	cached := NewCachedAdapter(remote, unreachableRedis(t), time.Minute, nil, nil)

	id, err := cached.SaveRecord(context.Background(), CollectionStudents,
		StudentDocument{Name: "Ada", StudentID: "1001"})
	require.NoError(t, err)
	assert.NotEmpty(t, id)

	records, err := remote.LoadCollection(context.Background(), CollectionStudents)
	require.NoError(t, err)
	assert.Len(t, records, 1)
}

func TestCachedAdapterRecordsMisses(t *testing.T) {
	remote := NewMemoryAdapter()
	metrics := &lookupRecorder{}
	cached := NewCachedAdapter(remote, unreachableRedis(t), time.Minute, nil, metrics)

	_, err := cached.LoadCollection(context.Background(), CollectionClasses)
	require.NoError(t, err)
	assert.Equal(t, 0, metrics.hits)
	assert.Equal(t, 1, metrics.misses)
}

type lookupRecorder struct {
	hits, misses int
}

func (r *lookupRecorder) RecordCacheLookup(hit bool) {
	if hit {
		r.hits++
	} else {
		r.misses++
	}
}
