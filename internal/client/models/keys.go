// Package models defines the Conecta data model: users, settings, the icon
// catalog, usage counters and activity entries, plus their seeded defaults
// and the Local Store keys they are kept under.
package models

// Local Store keys. The names are stable and shared with existing installations.
const (
	KeyUsers       = "conecta_users"
	KeyCurrentUser = "conecta_current_user"
	KeySettings    = "conecta-settings"
	KeyUsage       = "conecta-usage"
	KeyIcons       = "conecta-icons"
	KeyActivity    = "conecta-activity"
)
