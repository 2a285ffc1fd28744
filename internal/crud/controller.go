package crud

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"strconv"
	"strings"
)

// Controller is the type-erased face of a Screen used by the routing shell
type Controller interface {
	Name() string
	Title() string
	Fields() []Field
	Load(ctx context.Context, q Query) error
	SetQuery(q Query)
	CreateJSON(ctx context.Context, raw json.RawMessage) error
	UpdateJSON(ctx context.Context, id string, raw json.RawMessage) error
	Toggle(ctx context.Context, id string) error
	RequestDelete(id string) error
	ConfirmDelete(ctx context.Context) error
	CancelDelete()
	PendingDelete() string
	RunAction(ctx context.Context, id, action string, body any) error
	Report(ctx context.Context, name string) (json.RawMessage, error)
	DismissError()
	View() View
	Close()
}

var _ Controller = (*Screen[struct{}])(nil)

// View is a render-ready snapshot of a screen
type View struct {
	Name          string      `json:"name"`
	Title         string      `json:"title"`
	Singular      string      `json:"singular"`
	State         string      `json:"state"`
	Columns       []string    `json:"columns"`
	Rows          []Row       `json:"rows"`
	Loaded        int         `json:"loaded"`
	Total         int         `json:"total"`
	Stats         []StatValue `json:"stats"`
	Success       string      `json:"success,omitempty"`
	Error         string      `json:"error,omitempty"`
	Query         Query       `json:"query"`
	Facets        []FacetView `json:"facets,omitempty"`
	Fields        []Field     `json:"fields"`
	PendingDelete string      `json:"pendingDelete,omitempty"`
	Submitting    bool        `json:"submitting"`
	CanToggle     bool        `json:"canToggle"`
	Actions       []string    `json:"actions,omitempty"`
	Reports       []string    `json:"reports,omitempty"`
}

type Row struct {
	ID     string            `json:"id"`
	Cells  []string          `json:"cells"`
	Values map[string]string `json:"values"`
}

type StatValue struct {
	Label string `json:"label"`
	Value string `json:"value"`
}

type FacetView struct {
	Key      string   `json:"key"`
	Label    string   `json:"label"`
	Options  []string `json:"options"`
	Selected string   `json:"selected"`
}

// Fields returns the form fields of the screen
func (s *Screen[V]) Fields() []Field {
	return s.cfg.Fields
}

// View renders the current state. Expired success banners are dropped here.
func (s *Screen[V]) View() View {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.success != "" && s.opts.Now().Sub(s.successAt) >= s.opts.BannerTTL {
		s.success = ""
	}

	visible := s.items
	if !s.cfg.ServerSearch {
		visible = Filter(s.items, s.query, s.cfg.SearchFields, s.cfg.Facets)
	}

	v := View{
		Name:          s.cfg.Name,
		Title:         s.cfg.Title,
		Singular:      s.cfg.Singular,
		State:         s.state.String(),
		Columns:       make([]string, 0, len(s.cfg.Columns)),
		Rows:          make([]Row, 0, len(visible)),
		Loaded:        len(s.items),
		Total:         s.total,
		Stats:         make([]StatValue, 0, len(s.cfg.Stats)),
		Success:       s.success,
		Error:         s.errMsg,
		Query:         s.query,
		Fields:        s.cfg.Fields,
		PendingDelete: s.pendingDelete,
		Submitting:    s.mutating,
		CanToggle:     s.cfg.Toggle != nil,
		Actions:       s.cfg.Actions,
		Reports:       s.cfg.Reports,
	}

	for _, c := range s.cfg.Columns {
		v.Columns = append(v.Columns, c.Header)
	}
	for _, item := range visible {
		row := Row{ID: s.cfg.IDOf(item), Cells: make([]string, 0, len(s.cfg.Columns)), Values: formValues(item)}
		for _, c := range s.cfg.Columns {
			row.Cells = append(row.Cells, c.Value(item))
		}
		v.Rows = append(v.Rows, row)
	}
	for _, st := range s.cfg.Stats {
		v.Stats = append(v.Stats, StatValue{Label: st.Label, Value: st.Compute(s.items)})
	}
	for _, f := range s.cfg.Facets {
		selected := s.query.Filters[f.Key]
		if selected == "" {
			selected = All
		}
		v.Facets = append(v.Facets, FacetView{Key: f.Key, Label: f.Label, Options: f.Options, Selected: selected})
	}
	return v
}

// CreateJSON decodes a JSON payload into the view model and creates it
func (s *Screen[V]) CreateJSON(ctx context.Context, raw json.RawMessage) error {
	v, err := decodeInto[V](nil, raw)
	if err != nil {
		return s.reject(err)
	}
	_, err = s.Create(ctx, v)
	return err
}

// UpdateJSON overlays a partial JSON payload on the loaded entity and saves it
func (s *Screen[V]) UpdateJSON(ctx context.Context, id string, raw json.RawMessage) error {
	current, ok := s.find(id)
	if !ok {
		return s.reject(ErrNotFound)
	}
	base, err := json.Marshal(current)
	if err != nil {
		return s.reject(fmt.Errorf("failed to encode current %s: %w", s.cfg.Singular, err))
	}

	v, err := decodeInto[V](base, raw)
	if err != nil {
		return s.reject(err)
	}
	_, err = s.Update(ctx, id, v)
	return err
}

// reject shows an error raised before a mutation could start
func (s *Screen[V]) reject(err error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.mutating && !s.closed {
		s.fail(err)
	}
	return err
}

func decodeInto[V any](base, patch json.RawMessage) (V, error) {
	var out V
	merged := map[string]json.RawMessage{}

	if len(bytes.TrimSpace(base)) > 0 {
		if err := json.Unmarshal(base, &merged); err != nil {
			return out, fmt.Errorf("failed to decode current values: %w", err)
		}
	}
	if len(bytes.TrimSpace(patch)) > 0 {
		var overlay map[string]json.RawMessage
		if err := json.Unmarshal(patch, &overlay); err != nil {
			return out, &ValidationError{Message: "Invalid form data"}
		}
		for k, val := range overlay {
			merged[k] = val
		}
	}

	raw, err := json.Marshal(merged)
	if err != nil {
		return out, fmt.Errorf("failed to encode form data: %w", err)
	}
	if err := json.Unmarshal(raw, &out); err != nil {
		var typeErr *json.UnmarshalTypeError
		if errors.As(err, &typeErr) {
			return out, &ValidationError{Field: typeErr.Field, Message: fmt.Sprintf("%s has an invalid value", typeErr.Field)}
		}
		return out, &ValidationError{Message: "Invalid form data"}
	}
	return out, nil
}

// FormPayload converts submitted HTML form values into a JSON object keyed by
// field, coercing numbers and checkboxes. Fields missing from the form are left
// out, except checkboxes, which browsers omit when unchecked.
func FormPayload(fields []Field, form url.Values) (json.RawMessage, error) {
	out := make(map[string]any, len(fields))
	for _, f := range fields {
		if f.Type == "checkbox" {
			switch strings.ToLower(form.Get(f.Key)) {
			case "on", "true", "1", "yes":
				out[f.Key] = true
			default:
				out[f.Key] = false
			}
			continue
		}

		values, ok := form[f.Key]
		if !ok || len(values) == 0 {
			continue
		}
		raw := strings.TrimSpace(values[0])

		switch f.Type {
		case "number":
			if raw == "" {
				out[f.Key] = 0
				continue
			}
			n, err := strconv.ParseFloat(raw, 64)
			if err != nil {
				return nil, &ValidationError{Field: f.Key, Message: fmt.Sprintf("%s must be a number", f.Label)}
			}
			out[f.Key] = n
		case "int":
			if raw == "" {
				out[f.Key] = 0
				continue
			}
			n, err := strconv.Atoi(raw)
			if err != nil {
				return nil, &ValidationError{Field: f.Key, Message: fmt.Sprintf("%s must be a whole number", f.Label)}
			}
			out[f.Key] = n
		case "password":
			if raw != "" {
				out[f.Key] = raw
			}
		default:
			out[f.Key] = raw
		}
	}

	raw, err := json.Marshal(out)
	if err != nil {
		return nil, fmt.Errorf("failed to encode form: %w", err)
	}
	return raw, nil
}

// formValues flattens an entity to strings for pre-filled edit forms
func formValues(v any) map[string]string {
	raw, err := json.Marshal(v)
	if err != nil {
		return nil
	}
	var m map[string]any
	if err := json.Unmarshal(raw, &m); err != nil {
		return nil
	}

	out := make(map[string]string, len(m))
	for k, val := range m {
		switch t := val.(type) {
		case nil:
			out[k] = ""
		case string:
			out[k] = t
		case float64:
			out[k] = strconv.FormatFloat(t, 'f', -1, 64)
		case bool:
			out[k] = strconv.FormatBool(t)
		default:
			b, _ := json.Marshal(t)
			out[k] = string(b)
		}
	}
	return out
}
