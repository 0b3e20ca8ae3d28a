package app

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/suntech-x/cmsadmin/internal/cms"
	"github.com/suntech-x/cmsadmin/internal/domain"
	"github.com/suntech-x/cmsadmin/pkg/endpoints"
)

// resourceOps erases the entity type so commands can dispatch by name.
type resourceOps interface {
	list(ctx context.Context, opts endpoints.ListOptions) (any, error)
	get(ctx context.Context, id string) (any, error)
	create(ctx context.Context, payload []byte) (any, error)
	update(ctx context.Context, id string, payload []byte) (any, error)
	remove(ctx context.Context, id string) error
}

type typedOps[T any] struct {
	c *cms.Collection[T]
}

func (o typedOps[T]) list(ctx context.Context, opts endpoints.ListOptions) (any, error) {
	return o.c.List(ctx, opts)
}

func (o typedOps[T]) get(ctx context.Context, id string) (any, error) {
	return o.c.Get(ctx, id)
}

func (o typedOps[T]) create(ctx context.Context, payload []byte) (any, error) {
	item, err := decodePayload[T](payload)
	if err != nil {
		return nil, err
	}
	return o.c.Create(ctx, item)
}

func (o typedOps[T]) update(ctx context.Context, id string, payload []byte) (any, error) {
	item, err := decodePayload[T](payload)
	if err != nil {
		return nil, err
	}
	return o.c.Update(ctx, id, item)
}

func (o typedOps[T]) remove(ctx context.Context, id string) error {
	return o.c.Delete(ctx, id)
}

func decodePayload[T any](payload []byte) (T, error) {
	var item T
	if err := json.Unmarshal(payload, &item); err != nil {
		return item, fmt.Errorf("decode payload: %w", err)
	}
	return item, nil
}

func (c *CLI) resource(name string) (resourceOps, error) {
	resource, ok := endpoints.ParseResource(name)
	if !ok {
		return nil, fmt.Errorf("%w: unknown resource %q", ErrUsage, name)
	}
	switch resource {
	case endpoints.Category:
		return typedOps[domain.Category]{c: c.svc.Categories}, nil
	case endpoints.Industry:
		return typedOps[domain.Industry]{c: c.svc.Industries}, nil
	case endpoints.Product:
		return typedOps[domain.Product]{c: c.svc.Products}, nil
	default:
		return typedOps[domain.Post]{c: c.svc.Posts}, nil
	}
}
