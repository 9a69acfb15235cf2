package remoteapi

import (
	"errors"
	"fmt"

	"google.golang.org/protobuf/types/known/structpb"
)

var ErrBadRequest = errors.New("malformed table request")

// Request is the decoded form of every table call.
type Request struct {
	Table    string
	Filter   map[string]any
	Row      map[string]any
	Conflict []string
	Name     string
	// Username and Password are only set on Authenticate.
	Username string
	Password string
}

func (r Request) Encode() (*structpb.Struct, error) {
	m := map[string]any{}
	if r.Table != "" {
		m["table"] = r.Table
	}
	if r.Filter != nil {
		m["filter"] = r.Filter
	}
	if r.Row != nil {
		m["row"] = r.Row
	}
	if len(r.Conflict) > 0 {
		c := make([]any, len(r.Conflict))
		for i, v := range r.Conflict {
			c[i] = v
		}
		m["conflict"] = c
	}
	if r.Name != "" {
		m["name"] = r.Name
	}
	if r.Username != "" {
		m["username"] = r.Username
	}
	if r.Password != "" {
		m["password"] = r.Password
	}
	s, err := structpb.NewStruct(m)
	if err != nil {
		return nil, fmt.Errorf("encode request: %w", err)
	}
	return s, nil
}

func DecodeRequest(s *structpb.Struct) (Request, error) {
	var r Request
	m := s.AsMap()

	if v, ok := m["table"]; ok {
		t, ok := v.(string)
		if !ok {
			return r, fmt.Errorf("%w: table must be a string", ErrBadRequest)
		}
		r.Table = t
	}
	if v, ok := m["name"].(string); ok {
		r.Name = v
	}
	if v, ok := m["username"].(string); ok {
		r.Username = v
	}
	if v, ok := m["password"].(string); ok {
		r.Password = v
	}
	if v, ok := m["filter"]; ok && v != nil {
		f, ok := v.(map[string]any)
		if !ok {
			return r, fmt.Errorf("%w: filter must be an object", ErrBadRequest)
		}
		r.Filter = f
	}
	if v, ok := m["row"]; ok && v != nil {
		row, ok := v.(map[string]any)
		if !ok {
			return r, fmt.Errorf("%w: row must be an object", ErrBadRequest)
		}
		r.Row = row
	}
	if v, ok := m["conflict"]; ok && v != nil {
		list, ok := v.([]any)
		if !ok {
			return r, fmt.Errorf("%w: conflict must be a list", ErrBadRequest)
		}
		for _, c := range list {
			name, ok := c.(string)
			if !ok {
				return r, fmt.Errorf("%w: conflict entries must be strings", ErrBadRequest)
			}
			r.Conflict = append(r.Conflict, name)
		}
	}
	return r, nil
}

// EncodeRows wraps rows as {"rows": [...]}.
func EncodeRows(rows []map[string]any) (*structpb.Struct, error) {
	list := make([]any, len(rows))
	for i, r := range rows {
		list[i] = r
	}
	s, err := structpb.NewStruct(map[string]any{"rows": list})
	if err != nil {
		return nil, fmt.Errorf("encode rows: %w", err)
	}
	return s, nil
}

func DecodeRows(s *structpb.Struct) ([]map[string]any, error) {
	v, ok := s.AsMap()["rows"]
	if !ok || v == nil {
		return nil, nil
	}
	list, ok := v.([]any)
	if !ok {
		return nil, fmt.Errorf("%w: rows must be a list", ErrBadRequest)
	}
	out := make([]map[string]any, 0, len(list))
	for _, item := range list {
		row, ok := item.(map[string]any)
		if !ok {
			return nil, fmt.Errorf("%w: row must be an object", ErrBadRequest)
		}
		out = append(out, row)
	}
	return out, nil
}

func EncodeRow(row map[string]any) (*structpb.Struct, error) {
	s, err := structpb.NewStruct(row)
	if err != nil {
		return nil, fmt.Errorf("encode row: %w", err)
	}
	return s, nil
}

func EncodeURL(url string) *structpb.Struct {
	return &structpb.Struct{Fields: map[string]*structpb.Value{"url": structpb.NewStringValue(url)}}
}

func DecodeURL(s *structpb.Struct) (string, error) {
	url, ok := s.AsMap()["url"].(string)
	if !ok || url == "" {
		return "", fmt.Errorf("%w: missing url", ErrBadRequest)
	}
	return url, nil
}
