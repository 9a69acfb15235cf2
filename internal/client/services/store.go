// Package services holds the application logic of the Conecta client:
// login and registration, profile changes, usage statistics, the icon
// catalog, settings, user administration and report export. Services never
// touch storage directly; they go through a Store.
package services

import (
	"context"

	"github.com/dmitrijs2005/conecta/internal/client/models"
)

// Store is the persistence surface the services need. *datastore.Facade
// implements it.
type Store interface {
	LoadUsers(ctx context.Context) []models.User
	UpdateUsers(ctx context.Context, fn func(users *[]models.User) error) ([]models.User, error)
	AuthenticateUser(ctx context.Context, username, password string) (models.User, error)
	RegisterUser(ctx context.Context, u models.User) error
	DeleteRemoteUser(ctx context.Context, id string) error

	LoadSettings(ctx context.Context) models.Settings
	UpdateSettings(ctx context.Context, fn func(s *models.Settings) error) (models.Settings, error)

	LoadIcons(ctx context.Context) models.Catalog
	UpdateIcons(ctx context.Context, fn func(c *models.Catalog) error) (models.Catalog, error)

	LoadUsage(ctx context.Context) models.Usage
	UpdateUsage(ctx context.Context, fn func(u *models.Usage) error) (models.Usage, error)

	LogActivity(ctx context.Context, a models.Activity) error

	Session(ctx context.Context) (models.User, bool)
	SetSession(ctx context.Context, u models.User) error
	ClearSession(ctx context.Context) error

	PresignReportUpload(ctx context.Context, name string) (string, error)
	RemoteAvailable() bool
}
