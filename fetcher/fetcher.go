// Package fetcher pulls complete collections and single referenced objects
// out of NetBox.
package fetcher

import (
	"context"

	retry "github.com/sethvargo/go-retry"
	"github.com/sirupsen/logrus"
	"golang.org/x/time/rate"

	"github.com/cimnine/netbox-sync/netbox"
	"github.com/cimnine/netbox-sync/netbox/models"
)

// Transport is the NetBox collection endpoint as the Fetcher sees it.
// *netbox.Client implements it.
type Transport interface {
	GetPage(ctx context.Context, r netbox.Resolver, limit, offset int) (*models.Page, error)
}

// ReferenceResolver resolves one reference URL, usually through a cache.
// resolver.CachingResolver implements it.
type ReferenceResolver interface {
	Resolve(ctx context.Context, ref string) (models.Object, bool)
}

type Fetcher struct {
	Transport  Transport
	References ReferenceResolver
	PageSize   int
	Policy     RetryPolicy
	Throttle   *rate.Limiter
	Log        *logrus.Logger
}

// New returns a Fetcher with the default page size, retry policy and throttle.
func New(transport Transport, references ReferenceResolver) *Fetcher {
	return &Fetcher{
		Transport:  transport,
		References: references,
		PageSize:   DefaultPageSize,
		Policy:     DefaultRetryPolicy(),
		Throttle:   NewThrottle(DefaultThrottle),
	}
}

// FetchCollection returns every object of d in the order NetBox returns
// them. A failing page is retried according to the policy; with the default
// unbounded policy the only way out is a cancelled context.
func (f *Fetcher) FetchCollection(ctx context.Context, d models.Descriptor) ([]models.Object, error) {
	limit := f.PageSize
	if limit <= 0 {
		limit = DefaultPageSize
	}

	var results []models.Object
	offset := 0
	for {
		page, err := f.fetchPage(ctx, d, limit, offset)
		if err != nil {
			return nil, err
		}

		results = append(results, page.Results...)
		if !page.HasNext() || len(page.Results) == 0 {
			break
		}
		// NetBox caps limit at its MAX_PAGE_SIZE, so a page may be shorter
		// than requested.
		offset += len(page.Results)
	}

	return results, nil
}

// FetchReference resolves a single embedded reference. It returns false if
// no resolver is configured or the lookup failed.
func (f *Fetcher) FetchReference(ctx context.Context, ref string) (models.Object, bool) {
	if f.References == nil {
		return nil, false
	}
	return f.References.Resolve(ctx, ref)
}

func (f *Fetcher) fetchPage(ctx context.Context, d models.Descriptor, limit, offset int) (*models.Page, error) {
	var page *models.Page
	attempt := 0

	err := retry.Do(ctx, f.Policy.backoff(), func(ctx context.Context) error {
		attempt++
		if err := f.wait(ctx); err != nil {
			return err
		}

		p, err := f.Transport.GetPage(ctx, d, limit, offset)
		if err != nil {
			f.logger().WithError(err).WithFields(logrus.Fields{
				"endpoint": d.Endpoint(),
				"offset":   offset,
				"attempt":  attempt,
			}).Warn("Error fetching page, retrying")
			return retry.RetryableError(err)
		}

		page = p
		return nil
	})
	if err != nil {
		return nil, err
	}

	return page, nil
}

func (f *Fetcher) wait(ctx context.Context) error {
	if f.Throttle == nil {
		return nil
	}
	return f.Throttle.Wait(ctx)
}

func (f *Fetcher) logger() *logrus.Logger {
	if f.Log != nil {
		return f.Log
	}
	return logrus.StandardLogger()
}
