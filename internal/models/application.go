package models

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ApplicationStatus defines lifecycle states for submitted applications.
type ApplicationStatus string

const (
	// ApplicationStatusPending indicates the application is awaiting review.
	ApplicationStatusPending ApplicationStatus = "pending"
	// ApplicationStatusAccepted indicates the application was accepted.
	ApplicationStatusAccepted ApplicationStatus = "accepted"
	// ApplicationStatusRejected indicates the application was denied.
	ApplicationStatusRejected ApplicationStatus = "rejected"
)

// Terminal reports whether no further transition is allowed out of s.
func (s ApplicationStatus) Terminal() bool {
	return s == ApplicationStatusAccepted || s == ApplicationStatusRejected
}

// ParseDecision accepts only the two review outcomes.
func ParseDecision(raw string) (ApplicationStatus, bool) {
	switch ApplicationStatus(strings.ToLower(strings.TrimSpace(raw))) {
	case ApplicationStatusAccepted:
		return ApplicationStatusAccepted, true
	case ApplicationStatusRejected:
		return ApplicationStatusRejected, true
	}
	return "", false
}

// Application is a user-submitted answer sheet for one application type.
type Application struct {
	ID                  string            `gorm:"primaryKey;size:36" json:"id"`
	ApplicantExternalID string            `gorm:"size:32;not null;index" json:"discordId"`
	ApplicantName       string            `gorm:"size:100;not null" json:"username"`
	ApplicantAvatarURL  *string           `gorm:"size:255" json:"avatar"`
	ApplicationType     string            `gorm:"size:64;not null" json:"applicationType"`
	Answers             map[string]string `gorm:"serializer:json;type:text;not null" json:"answers"`
	Status              ApplicationStatus `gorm:"type:varchar(20);not null;default:'pending';index" json:"status"`
	SubmittedAt         time.Time         `gorm:"not null;index" json:"timestamp"`
	ReviewerExternalID  *string           `gorm:"size:32" json:"reviewedByDiscordId,omitempty"`
	ReviewerName        *string           `gorm:"size:100" json:"reviewedByUsername,omitempty"`
	ReviewedAt          *time.Time        `json:"reviewTimestamp,omitempty"`
	ReviewReason        *string           `gorm:"type:text" json:"reviewReason"`
}

// TableName specifies the table name for GORM.
func (Application) TableName() string {
	return "applications"
}

// BeforeCreate assigns a time-ordered identifier when none is set.
func (a *Application) BeforeCreate(_ *gorm.DB) error {
	if a.ID == "" {
		id, err := uuid.NewV7()
		if err != nil {
			return err
		}
		a.ID = id.String()
	}
	return nil
}

// ParseApplicationID validates the textual form of an application identifier.
func ParseApplicationID(raw string) (string, error) {
	id, err := uuid.Parse(strings.TrimSpace(raw))
	if err != nil {
		return "", NewMalformedIDError("application")
	}
	return id.String(), nil
}

// NormalizeReason trims free text and maps blank input to nil.
func NormalizeReason(raw *string) *string {
	if raw == nil {
		return nil
	}
	trimmed := strings.TrimSpace(*raw)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}
