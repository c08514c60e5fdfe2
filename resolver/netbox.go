package resolver

import (
	"context"

	"github.com/cimnine/netbox-sync/netbox"
	"github.com/cimnine/netbox-sync/netbox/models"
)

type Netbox struct {
	Client *netbox.Client
}

func (n Netbox) Fetch(ctx context.Context, ref string) (models.Object, error) {
	return n.Client.GetObject(ctx, ref)
}
