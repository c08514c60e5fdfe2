package resolver

import (
	"context"

	"github.com/cimnine/netbox-sync/netbox/models"
)

// A Sourcer fetches the full representation of a referenced object
type Sourcer interface {
	Fetch(ctx context.Context, ref string) (models.Object, error)
}

// A Cacher keeps records of already resolved references
type Cacher interface {
	Get(ref string) (models.Object, bool)
	Set(ref string, obj models.Object)
}
