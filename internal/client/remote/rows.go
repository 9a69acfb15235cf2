package remote

import (
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/dmitrijs2005/conecta/internal/client/models"
)

// DefaultOwner keys settings and icons when nobody is logged in.
const DefaultOwner = "default"

func owner(id string) string {
	if id == "" {
		return DefaultOwner
	}
	return id
}

func timestamp(t time.Time) string {
	return t.UTC().Format(time.RFC3339Nano)
}

func nullable(s string) any {
	if s == "" {
		return nil
	}
	return s
}

func userToRow(u models.User, now time.Time) Row {
	created := u.CreatedAt
	if created.IsZero() {
		created = now
	}
	typ := u.Type
	if typ == "" {
		typ = models.UserTypeUser
	}
	return Row{
		"id":            u.ID,
		"username":      u.Username,
		"password_hash": u.Password,
		"name":          u.Name,
		"email":         nullable(u.Email),
		"profile_photo": nullable(u.ProfilePhoto),
		"user_type":     string(typ),
		"is_active":     u.IsActive,
		"created_at":    timestamp(created),
		"updated_at":    timestamp(now),
	}
}

func rowToUser(r Row) (models.User, error) {
	id := rowString(r, "id")
	if id == "" {
		return models.User{}, fmt.Errorf("%w: user row without id", ErrInvalid)
	}
	created, err := rowTime(r, "created_at")
	if err != nil {
		return models.User{}, fmt.Errorf("%w: %v", ErrInvalid, err)
	}
	active := true
	if v, ok := r["is_active"]; ok && v != nil {
		active = rowBool(r, "is_active")
	}
	return models.User{
		ID:           id,
		Username:     rowString(r, "username"),
		Password:     rowString(r, "password_hash"),
		Name:         rowString(r, "name"),
		Email:        rowString(r, "email"),
		ProfilePhoto: rowString(r, "profile_photo"),
		Type:         models.UserType(rowString(r, "user_type")),
		IsActive:     active,
		CreatedAt:    created,
	}, nil
}

func settingsToRow(ownerID string, s models.Settings, now time.Time) Row {
	return Row{
		"user_id":        owner(ownerID),
		"speech_rate":    s.SpeechRate,
		"speech_volume":  s.SpeechVolume,
		"high_contrast":  s.HighContrast,
		"large_icons":    s.LargeIcons,
		"sound_feedback": s.SoundFeedback,
		"updated_at":     timestamp(now),
	}
}

// rowToSettings starts from the defaults so NULL columns keep default values.
func rowToSettings(r Row) models.Settings {
	s := models.DefaultSettings()
	if _, ok := r["speech_rate"]; ok {
		s.SpeechRate = rowFloat(r, "speech_rate", s.SpeechRate)
	}
	if _, ok := r["speech_volume"]; ok {
		s.SpeechVolume = rowFloat(r, "speech_volume", s.SpeechVolume)
	}
	if v, ok := r["high_contrast"]; ok && v != nil {
		s.HighContrast = rowBool(r, "high_contrast")
	}
	if v, ok := r["large_icons"]; ok && v != nil {
		s.LargeIcons = rowBool(r, "large_icons")
	}
	if v, ok := r["sound_feedback"]; ok && v != nil {
		s.SoundFeedback = rowBool(r, "sound_feedback")
	}
	return s
}

func catalogToRow(ownerID string, c models.Catalog, now time.Time) (Row, error) {
	data, err := json.Marshal(c)
	if err != nil {
		return nil, fmt.Errorf("%w: icon catalog: %v", ErrInvalid, err)
	}
	return Row{
		"user_id":    owner(ownerID),
		"catalog":    string(data),
		"updated_at": timestamp(now),
	}, nil
}

func rowToCatalog(r Row) (models.Catalog, error) {
	var c models.Catalog
	raw := rowString(r, "catalog")
	if raw == "" {
		return models.NewOrderedMap[[]models.Icon](), nil
	}
	if err := json.Unmarshal([]byte(raw), &c); err != nil {
		return c, fmt.Errorf("%w: icon catalog: %v", ErrInvalid, err)
	}
	return c, nil
}

func activityToRow(a models.Activity) Row {
	return Row{
		"user_id":       a.UserID,
		"activity_type": a.Type,
		"description":   a.Description,
		"created_at":    timestamp(a.CreatedAt),
	}
}

func rowString(r Row, col string) string {
	switch v := r[col].(type) {
	case nil:
		return ""
	case string:
		return v
	case []byte:
		return string(v)
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case int64:
		return strconv.FormatInt(v, 10)
	case int:
		return strconv.Itoa(v)
	default:
		return fmt.Sprint(v)
	}
}

func rowBool(r Row, col string) bool {
	switch v := r[col].(type) {
	case bool:
		return v
	case string:
		b, _ := strconv.ParseBool(v)
		return b
	case float64:
		return v != 0
	case int64:
		return v != 0
	default:
		return false
	}
}

func rowFloat(r Row, col string, def float64) float64 {
	switch v := r[col].(type) {
	case float64:
		return v
	case float32:
		return float64(v)
	case int64:
		return float64(v)
	case int:
		return float64(v)
	case string:
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return def
}

func rowTime(r Row, col string) (time.Time, error) {
	switch v := r[col].(type) {
	case nil:
		return time.Time{}, nil
	case time.Time:
		return v, nil
	case string:
		if v == "" {
			return time.Time{}, nil
		}
		t, err := time.Parse(time.RFC3339Nano, v)
		if err != nil {
			return time.Time{}, fmt.Errorf("column %s: %w", col, err)
		}
		return t, nil
	default:
		return time.Time{}, fmt.Errorf("column %s: unexpected %T", col, v)
	}
}
