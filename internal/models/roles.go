package models

import "time"

// RoleKind names one of the two role assignment sets.
type RoleKind string

const (
	// RoleAdmin grants full authority.
	RoleAdmin RoleKind = "admin"
	// RoleModerator grants read-only review authority.
	RoleModerator RoleKind = "moderator"
)

// Table returns the backing table for the set.
func (k RoleKind) Table() string {
	if k == RoleAdmin {
		return "admins"
	}
	return "moderators"
}

// Label is the human name used in messages.
func (k RoleKind) Label() string {
	if k == RoleAdmin {
		return "Admin"
	}
	return "Moderator"
}

// Noun is the lower-case name with its article, e.g. "an admin".
func (k RoleKind) Noun() string {
	if k == RoleAdmin {
		return "an admin"
	}
	return "a moderator"
}

// RoleAssignment is one row of the admin or moderator set, keyed by external id.
type RoleAssignment struct {
	ExternalID         string    `gorm:"primaryKey;size:32" json:"discordId"`
	DisplayName        string    `gorm:"size:100;not null" json:"username"`
	AddedByExternalID  string    `gorm:"size:32" json:"addedByDiscordId"`
	AddedByDisplayName string    `gorm:"size:100" json:"addedByUsername"`
	CreatedAt          time.Time `json:"timestamp"`
}

// BlacklistEntry blocks new submissions from one external id.
type BlacklistEntry struct {
	ExternalID               string    `gorm:"primaryKey;size:32" json:"discordId"`
	DisplayName              string    `gorm:"size:100;not null" json:"username"`
	Reason                   *string   `gorm:"type:text" json:"reason"`
	BlacklistedByExternalID  string    `gorm:"size:32" json:"blacklistedByDiscordId"`
	BlacklistedByDisplayName string    `gorm:"size:100" json:"blacklistedByUsername"`
	CreatedAt                time.Time `json:"timestamp"`
}

// TableName specifies the table name for GORM.
func (BlacklistEntry) TableName() string {
	return "blacklisted_users"
}
