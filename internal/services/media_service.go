package services

import (
	"context"
	"time"

	"socialai/internal/models"
	"socialai/internal/repositories"

	"go.uber.org/zap"
)

const mediaURLExpiry = time.Hour

type MediaService interface {
	// ListRecent returns at most limit items of the caller tenant's media,
	// newest first, with presigned URLs for items cached in object storage.
	ListRecent(ctx context.Context, p *models.Principal, limit int) ([]*models.DriveMedia, error)
}

type mediaService struct {
	mediaRepo repositories.DriveMediaRepository
	storage   MinioService
	log       *zap.Logger
}

// NewMediaService accepts a nil storage when object storage is not configured.
func NewMediaService(mediaRepo repositories.DriveMediaRepository, storage MinioService, log *zap.Logger) MediaService {
	return &mediaService{mediaRepo: mediaRepo, storage: storage, log: log}
}

func (s *mediaService) ListRecent(ctx context.Context, p *models.Principal, limit int) ([]*models.DriveMedia, error) {
	scope, err := repositories.ScopeFor(p)
	if err != nil {
		return nil, err
	}
	media, err := s.mediaRepo.ListRecent(ctx, scope, limit)
	if err != nil {
		return nil, err
	}
	if s.storage == nil {
		return media, nil
	}

	for _, m := range media {
		if m.StorageKey == nil || *m.StorageKey == "" {
			continue
		}
		u, err := s.storage.PresignedGetURL(ctx, *m.StorageKey, mediaURLExpiry)
		if err != nil {
			s.log.Warn("presign drive media failed", zap.String("media_id", m.ID.String()), zap.Error(err))
			continue
		}
		m.CachedURL = u
	}
	return media, nil
}
