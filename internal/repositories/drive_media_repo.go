package repositories

import (
	"context"
	"fmt"

	"socialai/internal/models"
)

// MaxDriveMediaPage caps any drive media listing.
const MaxDriveMediaPage = 100

type DriveMediaRepository interface {
	ListRecent(ctx context.Context, scope Scope, limit int) ([]*models.DriveMedia, error)
}

type driveMediaRepo struct {
	db DBTX
}

func NewDriveMediaRepo(db DBTX) DriveMediaRepository {
	return &driveMediaRepo{db: db}
}

func (r *driveMediaRepo) ListRecent(ctx context.Context, scope Scope, limit int) ([]*models.DriveMedia, error) {
	if limit <= 0 || limit > MaxDriveMediaPage {
		limit = MaxDriveMediaPage
	}
	where, args, err := scope.Where("")
	if err != nil {
		return nil, err
	}
	args = append(args, limit)
	query := fmt.Sprintf(`
		SELECT id, tenant_id, file_id, name, mime_type, web_view_link, thumbnail_link, storage_key, created_at
		FROM drive_media %s
		ORDER BY created_at DESC
		LIMIT $%d`, where, len(args))
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	media := []*models.DriveMedia{}
	for rows.Next() {
		m := &models.DriveMedia{}
		if err := rows.Scan(&m.ID, &m.TenantID, &m.FileID, &m.Name, &m.MimeType, &m.WebViewLink, &m.ThumbnailLink, &m.StorageKey, &m.CreatedAt); err != nil {
			return nil, err
		}
		media = append(media, m)
	}
	return media, rows.Err()
}
