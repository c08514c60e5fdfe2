package resolver

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/cimnine/netbox-sync/cache"
	"github.com/cimnine/netbox-sync/netbox/models"
)

type countingSource struct {
	calls   map[string]int
	objects map[string]models.Object
}

func (s *countingSource) Fetch(_ context.Context, ref string) (models.Object, error) {
	s.calls[ref]++
	obj, ok := s.objects[ref]
	if !ok {
		return nil, errors.New("404")
	}
	return obj, nil
}

func TestCachingResolverFetchesEachReferenceOnce(t *testing.T) {
	source := &countingSource{
		calls: map[string]int{},
		objects: map[string]models.Object{
			"/api/dcim/sites/1/": {"slug": models.String("zrh1")},
		},
	}
	r := CachingResolver{Source: source, Cache: cache.NewMemory()}

	for i := 0; i < 3; i++ {
		obj, ok := r.Resolve(context.Background(), "/api/dcim/sites/1/")
		assert.True(t, ok)
		assert.Equal(t, models.String("zrh1"), obj["slug"])
	}
	assert.Equal(t, 1, source.calls["/api/dcim/sites/1/"])
}

func TestCachingResolverDoesNotCacheFailures(t *testing.T) {
	source := &countingSource{calls: map[string]int{}, objects: map[string]models.Object{}}
	r := CachingResolver{Source: source, Cache: cache.NewMemory()}

	_, ok := r.Resolve(context.Background(), "/api/dcim/sites/2/")
	assert.False(t, ok)
	_, ok = r.Resolve(context.Background(), "/api/dcim/sites/2/")
	assert.False(t, ok)
	assert.Equal(t, 2, source.calls["/api/dcim/sites/2/"])

	_, ok = r.Resolve(context.Background(), "")
	assert.False(t, ok)
	assert.NotContains(t, source.calls, "")
}
