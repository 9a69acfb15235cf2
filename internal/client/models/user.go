package models

import (
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/dmitrijs2005/conecta/internal/credentials"
	"github.com/google/uuid"
)

type UserType string

const (
	UserTypeAdmin UserType = "admin"
	UserTypeUser  UserType = "user"
)

// SeedAdminID is the fixed id of the seeded administrator, identical on
// every installation so local and remote copies line up.
var SeedAdminID = uuid.NewSHA1(uuid.NameSpaceURL, []byte("conecta://users/admin")).String()

// User is an account record. Password holds the stored credential, an
// argon2id string produced by the credentials package.
type User struct {
	ID           string    `json:"id"`
	Username     string    `json:"username"`
	Password     string    `json:"password,omitempty"`
	Name         string    `json:"name"`
	Email        string    `json:"email,omitempty"`
	ProfilePhoto string    `json:"profilePhoto,omitempty"`
	Type         UserType  `json:"type,omitempty"`
	IsActive     bool      `json:"isActive"`
	CreatedAt    time.Time `json:"createdAt,omitzero"`
}

// UnmarshalJSON accepts numeric ids from older records and treats a missing
// isActive as true.
func (u *User) UnmarshalJSON(b []byte) error {
	type alias User
	aux := struct {
		*alias
		ID       json.RawMessage `json:"id"`
		IsActive *bool           `json:"isActive"`
	}{alias: (*alias)(u)}

	if err := json.Unmarshal(b, &aux); err != nil {
		return err
	}

	id, err := decodeID(aux.ID)
	if err != nil {
		return err
	}
	u.ID = id
	u.IsActive = aux.IsActive == nil || *aux.IsActive
	return nil
}

func decodeID(raw json.RawMessage) (string, error) {
	if len(raw) == 0 || string(raw) == "null" {
		return "", nil
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s, nil
	}
	var n json.Number
	if err := json.Unmarshal(raw, &n); err != nil {
		return "", fmt.Errorf("user id: %w", err)
	}
	if i, err := n.Int64(); err == nil {
		return strconv.FormatInt(i, 10), nil
	}
	return n.String(), nil
}

// IsAdmin reports whether u may manage other users.
func (u User) IsAdmin() bool {
	return u.Type == UserTypeAdmin
}

// Sanitized returns u without the stored credential, as kept in the session.
func (u User) Sanitized() User {
	u.Password = ""
	return u
}

// NewUserID returns a time-ordered UUID (version 7).
func NewUserID() string {
	id, err := uuid.NewV7()
	if err != nil {
		return uuid.NewString()
	}
	return id.String()
}

// DefaultUsers is the user list of a fresh installation: one administrator
// with the well-known password admin123.
func DefaultUsers() []User {
	return []User{{
		ID:       SeedAdminID,
		Username: "admin",
		Password: credentials.MustHash("admin123"),
		Name:     "Administrador",
		Email:    "admin@conecta.com",
		Type:     UserTypeAdmin,
		IsActive: true,
	}}
}

// FindUser returns the index of the user with the given username, or -1.
func FindUser(users []User, username string) int {
	for i := range users {
		if users[i].Username == username {
			return i
		}
	}
	return -1
}

// FindUserByID returns the index of the user with the given id, or -1.
func FindUserByID(users []User, id string) int {
	for i := range users {
		if users[i].ID == id {
			return i
		}
	}
	return -1
}
