package schemaregistry_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/FaveroFerreira/schema-registry-converter/schemaregistry"
)

func TestBlockingClient_cachesErrorsUntilRemoved(t *testing.T) {
	var hits int32
	s := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&hits, 1)
		w.WriteHeader(http.StatusInternalServerError)
	}))
	t.Cleanup(s.Close)

	inner, err := schemaregistry.FromURL(s.URL)
	require.NoError(t, err)

	blocking, err := schemaregistry.NewBlockingClient(inner, time.Minute)
	require.NoError(t, err)

	_, err = blocking.GetSchemaByID(context.Background(), 1)
	require.Error(t, err)
	_, err = blocking.GetSchemaByID(context.Background(), 1)
	require.Error(t, err)

	// Allow ristretto's async buffer to settle the first Set before
	// asserting the second call was served from cache.
	time.Sleep(10 * time.Millisecond)
	_, err = blocking.GetSchemaByID(context.Background(), 1)
	require.Error(t, err)

	assert.LessOrEqual(t, atomic.LoadInt32(&hits), int32(2))
	hitsBeforeRemoval := atomic.LoadInt32(&hits)

	blocking.RemoveErrorsFromCache()

	_, err = blocking.GetSchemaByID(context.Background(), 1)
	require.Error(t, err)
	assert.Greater(t, atomic.LoadInt32(&hits), hitsBeforeRemoval)
}

func TestBlockingClient_implementsClient(t *testing.T) {
	var _ schemaregistry.Client = (*schemaregistry.BlockingClient)(nil)
}
