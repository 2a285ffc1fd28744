package resources

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/otcheredev/lims-admin-console/internal/apiclient"
)

// Doer is the part of the API client the resource modules need
type Doer interface {
	Do(ctx context.Context, method, path string, params url.Values, body, out any) error
}

// Schema describes one backend resource: where it lives and how its wire
// payload maps to the view model in both directions.
type Schema[W, V any] struct {
	Name string
	// Path is the collection path relative to the API base, e.g. /doctors/doctors/
	Path string
	// EntityKey unwraps mutation responses such as {"tenant_user": {...}}
	EntityKey string
	// TenantParam adds ?<param>=<tenant id> to every call when set
	TenantParam string
	// StampTenant writes the tenant id into a create payload
	StampTenant func(w *W, tenantID string)
	// Actions are the detail routes POSTed as <path><id>/<action>/
	Actions []string
	// CollectionActions are the list routes read as <path><action>/
	CollectionActions []string

	ToView func(W) V
	ToWire func(V) W
}

// Resource is the typed client of one backend collection, bound to a tenant
type Resource[W, V any] struct {
	client   Doer
	schema   Schema[W, V]
	tenantID string
}

// New binds a schema to a client; tenantID scopes lists and creates when set
func New[W, V any](client Doer, schema Schema[W, V], tenantID string) *Resource[W, V] {
	return &Resource[W, V]{client: client, schema: schema, tenantID: tenantID}
}

// Name returns the schema name
func (r *Resource[W, V]) Name() string {
	return r.schema.Name
}

// Schema returns the resource's schema
func (r *Resource[W, V]) Schema() Schema[W, V] {
	return r.schema
}

// List fetches the collection; the API may answer with a bare array or a page envelope
func (r *Resource[W, V]) List(ctx context.Context, params url.Values) ([]V, int, error) {
	var raw json.RawMessage
	if err := r.client.Do(ctx, http.MethodGet, r.schema.Path, r.params(params), nil, &raw); err != nil {
		return nil, 0, fmt.Errorf("failed to list %s: %w", r.schema.Name, err)
	}

	wire, total, err := apiclient.DecodeList[W](raw)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to decode %s list: %w", r.schema.Name, err)
	}

	items := make([]V, 0, len(wire))
	for _, w := range wire {
		items = append(items, r.schema.ToView(w))
	}
	return items, total, nil
}

// Get fetches one entity
func (r *Resource[W, V]) Get(ctx context.Context, id string) (V, error) {
	return r.entity(ctx, http.MethodGet, r.itemPath(id), nil, "get")
}

// Create posts a new entity, stamping the tenant when the schema asks for it
func (r *Resource[W, V]) Create(ctx context.Context, v V) (V, error) {
	w := r.schema.ToWire(v)
	if r.schema.StampTenant != nil && r.tenantID != "" {
		r.schema.StampTenant(&w, r.tenantID)
	}
	return r.entity(ctx, http.MethodPost, r.schema.Path, w, "create")
}

// Update replaces an entity with a full PUT body
func (r *Resource[W, V]) Update(ctx context.Context, id string, v V) (V, error) {
	return r.entity(ctx, http.MethodPut, r.itemPath(id), r.schema.ToWire(v), "update")
}

// Delete removes an entity
func (r *Resource[W, V]) Delete(ctx context.Context, id string) error {
	if err := r.client.Do(ctx, http.MethodDelete, r.itemPath(id), r.params(nil), nil, nil); err != nil {
		return fmt.Errorf("failed to delete %s %s: %w", r.schema.Name, id, err)
	}
	return nil
}

// Action posts to a detail route such as /contracts/contracts/<id>/renew/
func (r *Resource[W, V]) Action(ctx context.Context, id, action string, body any) (json.RawMessage, error) {
	var raw json.RawMessage
	path := r.itemPath(id) + strings.Trim(action, "/") + "/"
	if err := r.client.Do(ctx, http.MethodPost, path, r.params(nil), body, &raw); err != nil {
		return nil, fmt.Errorf("failed to %s %s %s: %w", action, r.schema.Name, id, err)
	}
	return raw, nil
}

// CollectionAction reads a list route such as /accounting/entries/summary/
func (r *Resource[W, V]) CollectionAction(ctx context.Context, action string, params url.Values) (json.RawMessage, error) {
	var raw json.RawMessage
	path := r.schema.Path + strings.Trim(action, "/") + "/"
	if err := r.client.Do(ctx, http.MethodGet, path, r.params(params), nil, &raw); err != nil {
		return nil, fmt.Errorf("failed to fetch %s %s: %w", r.schema.Name, action, err)
	}
	return raw, nil
}

func (r *Resource[W, V]) entity(ctx context.Context, method, path string, body any, op string) (V, error) {
	var zero V
	var raw json.RawMessage
	if err := r.client.Do(ctx, method, path, r.params(nil), body, &raw); err != nil {
		return zero, fmt.Errorf("failed to %s %s: %w", op, r.schema.Name, err)
	}

	w, err := apiclient.DecodeEntity[W](raw, r.schema.EntityKey)
	if err != nil {
		return zero, fmt.Errorf("failed to decode %s: %w", r.schema.Name, err)
	}
	return r.schema.ToView(w), nil
}

func (r *Resource[W, V]) itemPath(id string) string {
	return r.schema.Path + url.PathEscape(id) + "/"
}

func (r *Resource[W, V]) params(in url.Values) url.Values {
	out := url.Values{}
	for k, vs := range in {
		out[k] = append([]string(nil), vs...)
	}
	if r.schema.TenantParam != "" && r.tenantID != "" {
		out.Set(r.schema.TenantParam, r.tenantID)
	}
	return out
}
