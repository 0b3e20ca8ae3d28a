package cms

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/suntech-x/cmsadmin/pkg/endpoints"
	"github.com/suntech-x/cmsadmin/pkg/envelope"
	"github.com/suntech-x/cmsadmin/pkg/request"
)

// RawItem is an entity kept as the API returned it.
type RawItem = json.RawMessage

// Collection is the CRUD surface of one resource.
type Collection[T any] struct {
	svc      *Service
	resource endpoints.Resource
	// prepare runs on create and update payloads after validation.
	prepare func(*T) error
}

func newCollection[T any](svc *Service, resource endpoints.Resource, prepare func(*T) error) *Collection[T] {
	return &Collection[T]{svc: svc, resource: resource, prepare: prepare}
}

// Resource names the collection.
func (c *Collection[T]) Resource() endpoints.Resource { return c.resource }

// List returns one page.
func (c *Collection[T]) List(ctx context.Context, opts endpoints.ListOptions) (envelope.List[T], error) {
	raw, err := c.get(ctx, c.resource.List(opts))
	if err != nil {
		return envelope.List[T]{}, err
	}
	return envelope.DecodeList[T](raw)
}

// All returns every item without pagination.
func (c *Collection[T]) All(ctx context.Context) ([]T, error) {
	raw, err := c.get(ctx, c.resource.All())
	if err != nil {
		return nil, err
	}
	list, err := envelope.DecodeList[T](raw)
	if err != nil {
		return nil, err
	}
	return list.Items, nil
}

// Get fetches one item.
func (c *Collection[T]) Get(ctx context.Context, id any) (T, error) {
	var zero T
	raw, err := c.get(ctx, c.resource.Detail(id))
	if err != nil {
		return zero, err
	}
	return envelope.DecodeEntity[T](raw)
}

// Create validates item and posts it.
func (c *Collection[T]) Create(ctx context.Context, item T) (json.RawMessage, error) {
	if err := c.ready(&item); err != nil {
		return nil, err
	}
	return c.svc.client(false).Perform(ctx, c.resource.Create(), request.Options{
		Method: http.MethodPost,
		Body:   item,
	})
}

// Update validates item and patches the stored one.
func (c *Collection[T]) Update(ctx context.Context, id any, item T) (json.RawMessage, error) {
	if err := c.ready(&item); err != nil {
		return nil, err
	}
	return c.svc.client(false).Perform(ctx, c.resource.Update(id), request.Options{
		Method: http.MethodPatch,
		Body:   item,
	})
}

// Delete removes one item.
func (c *Collection[T]) Delete(ctx context.Context, id any) error {
	_, err := c.svc.client(false).Perform(ctx, c.resource.Delete(id), request.Options{Method: http.MethodDelete})
	return err
}

func (c *Collection[T]) get(ctx context.Context, path string) (json.RawMessage, error) {
	return c.svc.client(false).Perform(ctx, path, request.Options{Method: http.MethodGet})
}

func (c *Collection[T]) ready(item *T) error {
	if err := c.svc.check(string(c.resource), item); err != nil {
		return err
	}
	if c.prepare != nil {
		if err := c.prepare(item); err != nil {
			return fmt.Errorf("prepare %s: %w", c.resource, err)
		}
	}
	return nil
}
