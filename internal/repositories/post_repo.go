package repositories

import (
	"context"
	"fmt"
	"sort"
	"time"

	"socialai/internal/models"

	"github.com/google/uuid"
)

type PostRepository interface {
	// ClaimDue moves due SCHEDULED posts to PUBLISHING and returns them.
	// Rows locked by a concurrent claim are skipped, so each post is handed
	// to one publisher run only.
	ClaimDue(ctx context.Context, scope Scope, now time.Time, limit int) ([]*models.ScheduledPost, error)
	// MarkPublished and MarkFailed only touch PUBLISHING rows.
	MarkPublished(ctx context.Context, scope Scope, id uuid.UUID, externalID string, at time.Time) error
	MarkFailed(ctx context.Context, scope Scope, id uuid.UUID, reason string) error
}

type postRepo struct {
	db DBTX
}

func NewPostRepo(db DBTX) PostRepository {
	return &postRepo{db: db}
}

const postColumns = `id, tenant_id, content, platform, scheduled_at, status, external_id, error, published_at, created_at`

func (r *postRepo) ClaimDue(ctx context.Context, scope Scope, now time.Time, limit int) ([]*models.ScheduledPost, error) {
	where, args, err := scope.Where("", Eq("status", models.PostScheduled))
	if err != nil {
		return nil, err
	}
	args = append(args, now, limit, models.PostPublishing)
	n := len(args)
	query := fmt.Sprintf(`
		UPDATE scheduled_posts SET status = $%d
		WHERE id IN (
			SELECT id FROM scheduled_posts %s AND scheduled_at <= $%d
			ORDER BY scheduled_at ASC
			LIMIT $%d
			FOR UPDATE SKIP LOCKED
		)
		RETURNING `+postColumns, n, where, n-2, n-1)
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	posts := []*models.ScheduledPost{}
	for rows.Next() {
		p := &models.ScheduledPost{}
		if err := rows.Scan(&p.ID, &p.TenantID, &p.Content, &p.Platform, &p.ScheduledAt, &p.Status, &p.ExternalID, &p.Error, &p.PublishedAt, &p.CreatedAt); err != nil {
			return nil, err
		}
		posts = append(posts, p)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	// RETURNING carries no order.
	sort.Slice(posts, func(i, j int) bool { return posts[i].ScheduledAt.Before(posts[j].ScheduledAt) })
	return posts, nil
}

func (r *postRepo) MarkPublished(ctx context.Context, scope Scope, id uuid.UUID, externalID string, at time.Time) error {
	return r.update(ctx, scope, id, models.PostPublished, "external_id", externalID, at)
}

func (r *postRepo) MarkFailed(ctx context.Context, scope Scope, id uuid.UUID, reason string) error {
	return r.update(ctx, scope, id, models.PostFailed, "error", reason, nil)
}

func (r *postRepo) update(ctx context.Context, scope Scope, id uuid.UUID, status, column, value string, publishedAt any) error {
	where, args, err := scope.Where("", Eq("id", id), Eq("status", models.PostPublishing))
	if err != nil {
		return err
	}
	n := len(args)
	args = append(args, status, value, publishedAt)
	query := fmt.Sprintf(`UPDATE scheduled_posts SET status = $%d, %s = $%d, published_at = $%d %s`, n+1, column, n+2, n+3, where)
	tag, err := r.db.Exec(ctx, query, args...)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return models.ErrNotFound
	}
	return nil
}
