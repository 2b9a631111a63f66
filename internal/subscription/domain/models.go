// Package domain contains persistence models for subscriptions.
package domain

import (
	"context"
	"time"

	"github.com/bwmarrin/snowflake"
)

// SubscriptionStatus represents lifecycle states for a subscription.
type SubscriptionStatus string

const (
	SubscriptionStatusActive   SubscriptionStatus = "ACTIVE"
	SubscriptionStatusTrialing SubscriptionStatus = "TRIALING"
	SubscriptionStatusPastDue  SubscriptionStatus = "PAST_DUE"
	SubscriptionStatusCanceled SubscriptionStatus = "CANCELED"
	SubscriptionStatusEnded    SubscriptionStatus = "ENDED"
)

// Subscription captures a company's service agreement. Only active
// subscriptions are eligible for the monthly declaration sweep.
type Subscription struct {
	ID         snowflake.ID       `gorm:"primaryKey"`
	CompanyID  snowflake.ID       `gorm:"not null;index"`
	Status     SubscriptionStatus `gorm:"type:text;not null"`
	StartAt    time.Time          `gorm:"not null"`
	EndAt      *time.Time         `gorm:""`
	CanceledAt *time.Time         `gorm:""`
	CreatedAt  time.Time          `gorm:"not null;default:CURRENT_TIMESTAMP"`
	UpdatedAt  time.Time          `gorm:"not null;default:CURRENT_TIMESTAMP"`
}

// TableName sets the database table name.
func (Subscription) TableName() string { return "subscriptions" }

// Repository enumerates companies eligible for batch processing.
type Repository interface {
	ActiveCompanyIDs(ctx context.Context) ([]snowflake.ID, error)
}
