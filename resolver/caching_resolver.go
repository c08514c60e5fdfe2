package resolver

import (
	"context"

	"github.com/sirupsen/logrus"

	"github.com/cimnine/netbox-sync/netbox/models"
)

// Source and Cache are two independent implementations and are interchangeable
type CachingResolver struct {
	Source Sourcer
	Cache  Cacher
	Log    *logrus.Logger
}

// Resolve returns the object behind ref, asking the Source only on a cache
// miss. Failed lookups are not cached; the caller falls back to whatever data
// was embedded inline.
func (r CachingResolver) Resolve(ctx context.Context, ref string) (models.Object, bool) {
	if ref == "" {
		return nil, false
	}

	if obj, ok := r.Cache.Get(ref); ok {
		return obj, true
	}

	obj, err := r.Source.Fetch(ctx, ref)
	if err != nil {
		r.logger().WithError(err).Warnf("Error fetching detail %s", ref)
		return nil, false
	}

	r.Cache.Set(ref, obj)
	return obj, true
}

func (r CachingResolver) logger() *logrus.Logger {
	if r.Log != nil {
		return r.Log
	}
	return logrus.StandardLogger()
}
