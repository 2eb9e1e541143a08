package apiclient

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"slices"
	"sort"
	"strings"
)

// Record is a free-form JSON object as returned by the resource endpoints.
type Record map[string]any

// ID returns the record identifier from "id" or "_id".
func (r Record) ID() string {
	for _, key := range []string{"id", "_id"} {
		switch v := r[key].(type) {
		case string:
			return v
		case float64:
			return fmt.Sprintf("%.0f", v)
		case nil:
		default:
			return fmt.Sprint(v)
		}
	}
	return ""
}

// Filter holds list query parameters.
type Filter map[string]string

// Values encodes the filter, skipping empty values.
func (f Filter) Values() url.Values {
	if len(f) == 0 {
		return nil
	}
	v := make(url.Values, len(f))
	for key, value := range f {
		if key != "" && value != "" {
			v.Set(key, value)
		}
	}
	return v
}

// ParseFilter builds a Filter from key=value pairs.
func ParseFilter(pairs []string) (Filter, error) {
	f := make(Filter, len(pairs))
	for _, p := range pairs {
		key, value, ok := strings.Cut(p, "=")
		if !ok || strings.TrimSpace(key) == "" {
			return nil, fmt.Errorf("apiclient: invalid filter %q, want key=value", p)
		}
		f[strings.TrimSpace(key)] = strings.TrimSpace(value)
	}
	return f, nil
}

// Resource is a CRUD endpoint group rooted at path.
type Resource[T any] struct {
	c    *Client
	path string
}

// NewResource binds a CRUD group to path, e.g. "/employees".
func NewResource[T any](c *Client, path string) *Resource[T] {
	return &Resource[T]{c: c, path: "/" + strings.Trim(path, "/")}
}

// Path returns the collection path.
func (r *Resource[T]) Path() string {
	return r.path
}

func (r *Resource[T]) itemPath(id string) string {
	return r.path + "/" + url.PathEscape(id)
}

func (r *Resource[T]) List(ctx context.Context, f Filter) ([]T, error) {
	var out []T
	if err := r.c.call(ctx, http.MethodGet, r.path, f.Values(), nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (r *Resource[T]) Get(ctx context.Context, id string) (T, error) {
	var out T
	err := r.c.call(ctx, http.MethodGet, r.itemPath(id), nil, nil, &out)
	return out, err
}

func (r *Resource[T]) Create(ctx context.Context, v T) (T, error) {
	var out T
	err := r.c.call(ctx, http.MethodPost, r.path, nil, v, &out)
	return out, err
}

func (r *Resource[T]) Update(ctx context.Context, id string, v T) (T, error) {
	var out T
	err := r.c.call(ctx, http.MethodPut, r.itemPath(id), nil, v, &out)
	return out, err
}

func (r *Resource[T]) Delete(ctx context.Context, id string) error {
	return r.c.call(ctx, http.MethodDelete, r.itemPath(id), nil, nil, nil)
}

// Resource names understood by Client.Resource.
const (
	ResourceEmployees    = "employees"
	ResourceDepartments  = "departments"
	ResourcePositions    = "positions"
	ResourceMovements    = "movements"
	ResourceSalaryTables = "salary-tables"
)

func (c *Client) Employees() *Resource[Record]    { return NewResource[Record](c, ResourceEmployees) }
func (c *Client) Departments() *Resource[Record]  { return NewResource[Record](c, ResourceDepartments) }
func (c *Client) Positions() *Resource[Record]    { return NewResource[Record](c, ResourcePositions) }
func (c *Client) Movements() *Resource[Record]    { return NewResource[Record](c, ResourceMovements) }
func (c *Client) SalaryTables() *Resource[Record] { return NewResource[Record](c, ResourceSalaryTables) }

// Resource returns the CRUD group for name.
func (c *Client) Resource(name string) (*Resource[Record], error) {
	if !slices.Contains(ResourceNames(), name) {
		return nil, fmt.Errorf("%w: %q", ErrUnknownResource, name)
	}
	return NewResource[Record](c, name), nil
}

// ResourceNames lists the known resource groups in sorted order.
func ResourceNames() []string {
	names := []string{ResourceEmployees, ResourceDepartments, ResourcePositions, ResourceMovements, ResourceSalaryTables}
	sort.Strings(names)
	return names
}
