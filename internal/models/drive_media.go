package models

import (
	"time"

	"github.com/google/uuid"
)

type DriveMedia struct {
	ID            uuid.UUID `json:"id" db:"id"`
	TenantID      uuid.UUID `json:"tenant_id" db:"tenant_id"`
	FileID        string    `json:"file_id" db:"file_id"`
	Name          string    `json:"name" db:"name"`
	MimeType      string    `json:"mime_type" db:"mime_type"`
	WebViewLink   *string   `json:"web_view_link" db:"web_view_link"`
	ThumbnailLink *string   `json:"thumbnail_link" db:"thumbnail_link"`
	StorageKey    *string   `json:"-" db:"storage_key"`
	CachedURL     string    `json:"cached_url,omitempty" db:"-"`
	CreatedAt     time.Time `json:"created_at" db:"created_at"`
}
