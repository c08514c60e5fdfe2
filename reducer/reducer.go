// Package reducer turns a NetBox object as the API returns it into a shape
// NetBox accepts on import: server managed fields are dropped and nested
// objects collapse to the scalar that identifies them.
package reducer

import (
	"context"
	"strings"

	"github.com/cimnine/netbox-sync/netbox/models"
)

// MaxDepth bounds how many reference hops a single reduction may follow.
const MaxDepth = 3

// referenceKeys in order of preference.
var referenceKeys = []string{"slug", "name", "id"}

var dropped = func() map[string]bool {
	m := make(map[string]bool, len(models.ServerManagedFields))
	for _, f := range models.ServerManagedFields {
		m[f] = true
	}
	return m
}()

// Resolver looks up the full object behind a reference URL.
// *fetcher.Fetcher implements it.
type Resolver interface {
	FetchReference(ctx context.Context, ref string) (models.Object, bool)
}

// Reducer is safe to use without a Resolver; references then resolve only
// from the data embedded in the object.
type Reducer struct {
	Resolver Resolver
}

// Reduce returns the import-safe form of raw. depth counts the reference
// hops already taken; callers start at 0.
func (r Reducer) Reduce(ctx context.Context, raw models.Object, depth int) models.Object {
	reduced := make(models.Object, len(raw))

	for key, value := range raw {
		if dropped[key] {
			continue
		}

		if key == "tags" {
			if tags, ok := value.AsSequence(); ok {
				reduced[key] = models.String(joinTags(tags))
				continue
			}
		}

		switch value.Kind() {
		case models.KindMapping:
			nested, _ := value.AsMapping()
			if ref, ok := r.reference(ctx, nested, depth); ok {
				reduced[key] = ref
			} else {
				reduced[key] = models.Mapping(primitives(nested))
			}
		case models.KindSequence:
			seq, _ := value.AsSequence()
			reduced[key] = r.references(ctx, seq, depth)
		case models.KindNull, models.KindBool, models.KindNumber, models.KindString:
			reduced[key] = value
		}
	}

	return reduced
}

// Reference returns the scalar identifying obj: its slug, else its name,
// else its numeric id.
func Reference(obj models.Object) (models.Value, bool) {
	for _, key := range referenceKeys {
		v, ok := obj[key]
		if !ok || !v.Primitive() || v.IsNull() {
			continue
		}
		if key == "id" && v.Kind() != models.KindNumber {
			continue
		}
		return v, true
	}
	return models.Value{}, false
}

// reference identifies a nested object. With a Resolver, a bare id reference
// that carries its URL is looked up so that the more portable slug or name
// can be used instead.
func (r Reducer) reference(ctx context.Context, nested models.Object, depth int) (models.Value, bool) {
	ref, ok := Reference(nested)
	if !ok || ref.Kind() != models.KindNumber {
		return ref, ok
	}

	if r.Resolver == nil || depth >= MaxDepth {
		return ref, true
	}

	url, _ := nested["url"].AsString()
	if url == "" {
		return ref, true
	}

	full, found := r.Resolver.FetchReference(ctx, url)
	if !found {
		return ref, true
	}

	if better, ok := Reference(r.Reduce(ctx, full, depth+1)); ok {
		return better, true
	}
	return ref, true
}

// references collapses the nested objects of a sequence to their references,
// dropping those that have none. A single reference is unwrapped to a bare
// scalar. Sequences without nested objects are kept as they are.
func (r Reducer) references(ctx context.Context, seq []models.Value, depth int) models.Value {
	if !containsMapping(seq) {
		return models.Sequence(seq)
	}

	refs := make([]models.Value, 0, len(seq))
	for _, e := range seq {
		nested, ok := e.AsMapping()
		if !ok {
			refs = append(refs, e)
			continue
		}
		if ref, ok := r.reference(ctx, nested, depth); ok {
			refs = append(refs, ref)
		}
	}

	if len(refs) == 1 {
		return refs[0]
	}
	return models.Sequence(refs)
}

func containsMapping(seq []models.Value) bool {
	for _, e := range seq {
		if e.Kind() == models.KindMapping {
			return true
		}
	}
	return false
}

func joinTags(tags []models.Value) string {
	names := make([]string, 0, len(tags))
	for _, tag := range tags {
		var name string
		if obj, ok := tag.AsMapping(); ok {
			name = tagName(obj)
		} else {
			name = tag.Text()
		}
		if name != "" {
			names = append(names, name)
		}
	}
	return strings.Join(names, ",")
}

func tagName(tag models.Object) string {
	for _, key := range []string{"slug", "name"} {
		if v, ok := tag[key]; ok && v.Primitive() && !v.IsNull() {
			return v.Text()
		}
	}
	return models.Mapping(tag).Text()
}

func primitives(obj models.Object) models.Object {
	out := make(models.Object, len(obj))
	for k, v := range obj {
		if v.Primitive() {
			out[k] = v
		}
	}
	return out
}
