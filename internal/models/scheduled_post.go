package models

import (
	"time"

	"github.com/google/uuid"
)

const (
	PostScheduled  = "SCHEDULED"
	// PostPublishing marks a post claimed by a publisher run.
	PostPublishing = "PUBLISHING"
	PostPublished  = "PUBLISHED"
	PostFailed     = "FAILED"
)

type ScheduledPost struct {
	ID          uuid.UUID  `json:"id" db:"id"`
	TenantID    uuid.UUID  `json:"tenant_id" db:"tenant_id"`
	Content     string     `json:"content" db:"content"`
	Platform    Provider   `json:"platform" db:"platform"`
	ScheduledAt time.Time  `json:"scheduled_at" db:"scheduled_at"`
	Status      string     `json:"status" db:"status"`
	ExternalID  *string    `json:"external_id" db:"external_id"`
	Error       *string    `json:"error" db:"error"`
	PublishedAt *time.Time `json:"published_at" db:"published_at"`
	CreatedAt   time.Time  `json:"created_at" db:"created_at"`
}
