// Package domain contains the company model consumed by the engine.
package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
)

// Company is a taxpayer serviced by the platform.
type Company struct {
	ID           snowflake.ID `gorm:"primaryKey"`
	RUT          string       `gorm:"type:text;not null;uniqueIndex"`
	BusinessName string       `gorm:"type:text;not null"`

	// SII portal credentials. Presence gates the best-effort proposal fetch.
	SIIUser     string `gorm:"column:sii_user;type:text"`
	SIIPassword string `gorm:"column:sii_password;type:text"`

	CreatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP"`
	UpdatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP"`
}

func (Company) TableName() string { return "companies" }

// HasSIICredentials reports whether the company can talk to the authority.
func (c Company) HasSIICredentials() bool {
	return c.SIIUser != "" && c.SIIPassword != ""
}
