package pgstore

import (
	"fmt"
	"sort"
	"strings"

	"github.com/dmitrijs2005/conecta/internal/client/remote"
)

type table struct {
	columns []string
	orderBy string
}

// Only these tables and columns can be addressed; identifiers are never
// taken from callers verbatim.
var schema = map[string]table{
	remote.TableUsers: {
		columns: []string{"id", "username", "password_hash", "name", "email", "profile_photo", "user_type", "is_active", "created_at", "updated_at"},
		orderBy: "created_at, id",
	},
	remote.TableSettings: {
		columns: []string{"user_id", "speech_rate", "speech_volume", "high_contrast", "large_icons", "sound_feedback", "updated_at"},
		orderBy: "user_id",
	},
	remote.TableIcons: {
		columns: []string{"user_id", "catalog", "updated_at"},
		orderBy: "user_id",
	},
	remote.TableActivities: {
		columns: []string{"id", "user_id", "activity_type", "description", "created_at"},
		orderBy: "id",
	},
}

func lookup(name string) (table, error) {
	t, ok := schema[name]
	if !ok {
		return table{}, fmt.Errorf("%w: %q", ErrUnknownTable, name)
	}
	return t, nil
}

func (t table) has(col string) bool {
	for _, c := range t.columns {
		if c == col {
			return true
		}
	}
	return false
}

// sortedKeys returns the keys of m in lexical order so generated SQL is stable.
func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// where builds "WHERE a = $n AND b = $n+1" starting at placeholder start.
func (t table) where(f remote.Filter, start int) (string, []any, error) {
	if len(f) == 0 {
		return "", nil, nil
	}
	parts := make([]string, 0, len(f))
	args := make([]any, 0, len(f))
	for i, k := range sortedKeys(f) {
		if !t.has(k) {
			return "", nil, fmt.Errorf("%w: %q", ErrUnknownColumn, k)
		}
		parts = append(parts, fmt.Sprintf("%s = $%d", k, start+i))
		args = append(args, f[k])
	}
	return " WHERE " + strings.Join(parts, " AND "), args, nil
}

func (t table) values(r remote.Row) ([]string, []string, []any, error) {
	cols := sortedKeys(r)
	ph := make([]string, len(cols))
	args := make([]any, len(cols))
	for i, c := range cols {
		if !t.has(c) {
			return nil, nil, nil, fmt.Errorf("%w: %q", ErrUnknownColumn, c)
		}
		ph[i] = fmt.Sprintf("$%d", i+1)
		args[i] = r[c]
	}
	return cols, ph, args, nil
}
