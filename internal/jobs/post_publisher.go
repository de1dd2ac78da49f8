package jobs

import (
	"context"
	"fmt"
	"sync"
	"time"

	"socialai/internal/metrics"
	"socialai/internal/models"
	"socialai/internal/repositories"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Publisher posts text to one social platform on behalf of a tenant.
type Publisher interface {
	Publish(ctx context.Context, tenantID uuid.UUID, text string) (string, error)
}

// RunResult summarises one publishing pass.
type RunResult struct {
	Due       int
	Published int
	Failed    int
}

const markAttempts = 3

// PostPublisher moves due SCHEDULED posts to PUBLISHED or FAILED.
type PostPublisher struct {
	postRepo    repositories.PostRepository
	publishers  map[models.Provider]Publisher
	metrics     *metrics.Metrics
	log         *zap.Logger
	batchSize   int
	concurrency int
	retryDelay  time.Duration
	now         func() time.Time
}

func NewPostPublisher(postRepo repositories.PostRepository, publishers map[models.Provider]Publisher, m *metrics.Metrics, log *zap.Logger, batchSize int) *PostPublisher {
	return &PostPublisher{
		postRepo:    postRepo,
		publishers:  publishers,
		metrics:     m,
		log:         log,
		batchSize:   batchSize,
		concurrency: 5,
		retryDelay:  500 * time.Millisecond,
		now:         time.Now,
	}
}

// PublishDue handles at most one batch. The claim is the only cross-tenant
// query; each post is then updated under its own tenant scope. A claimed
// post is never returned to SCHEDULED, so a run that dies mid-batch leaves
// it in PUBLISHING rather than risk posting it twice.
func (p *PostPublisher) PublishDue(ctx context.Context) (RunResult, error) {
	start := time.Now()
	defer func() {
		if p.metrics != nil {
			p.metrics.SchedulerRunTime.Observe(time.Since(start).Seconds())
		}
	}()

	posts, err := p.postRepo.ClaimDue(ctx, repositories.SystemScope(), p.now(), p.batchSize)
	if err != nil {
		return RunResult{}, fmt.Errorf("claim due posts: %w", err)
	}
	result := RunResult{Due: len(posts)}
	if len(posts) == 0 {
		return result, nil
	}

	var (
		mu  sync.Mutex
		wg  sync.WaitGroup
		sem = make(chan struct{}, p.concurrency)
	)
	for _, post := range posts {
		wg.Add(1)
		go func(post *models.ScheduledPost) {
			defer wg.Done()
			sem <- struct{}{}
			defer func() { <-sem }()

			ok := p.publishOne(ctx, post)
			mu.Lock()
			if ok {
				result.Published++
			} else {
				result.Failed++
			}
			mu.Unlock()
		}(post)
	}
	wg.Wait()

	p.log.Info("scheduled publishing run complete",
		zap.Int("due", result.Due),
		zap.Int("published", result.Published),
		zap.Int("failed", result.Failed),
	)
	return result, nil
}

func (p *PostPublisher) publishOne(ctx context.Context, post *models.ScheduledPost) bool {
	scope := repositories.TenantScope(post.TenantID)
	log := p.log.With(zap.String("post_id", post.ID.String()), zap.String("tenant_id", post.TenantID.String()))

	publisher, ok := p.publishers[post.Platform]
	if !ok {
		p.fail(ctx, scope, post, fmt.Sprintf("unsupported platform %q", post.Platform), log)
		return false
	}

	externalID, err := publisher.Publish(ctx, post.TenantID, post.Content)
	if err != nil {
		p.fail(ctx, scope, post, err.Error(), log)
		return false
	}

	// The post is live from here on; failing to record it must not fail it.
	p.count(post.Platform, "published")
	publishedAt := p.now()
	err = p.retry(ctx, func() error {
		return p.postRepo.MarkPublished(ctx, scope, post.ID, externalID, publishedAt)
	})
	if err != nil {
		log.Error("post published but not recorded; left in PUBLISHING",
			zap.String("external_id", externalID),
			zap.Error(err),
		)
	}
	return true
}

func (p *PostPublisher) retry(ctx context.Context, fn func() error) error {
	var err error
	for attempt := 1; attempt <= markAttempts; attempt++ {
		if err = fn(); err == nil {
			return nil
		}
		if attempt == markAttempts {
			break
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(p.retryDelay):
		}
	}
	return err
}

func (p *PostPublisher) fail(ctx context.Context, scope repositories.Scope, post *models.ScheduledPost, reason string, log *zap.Logger) {
	log.Warn("scheduled post failed", zap.String("reason", reason))
	err := p.retry(ctx, func() error { return p.postRepo.MarkFailed(ctx, scope, post.ID, reason) })
	if err != nil {
		log.Error("mark post failed", zap.Error(err))
	}
	p.count(post.Platform, "failed")
}

func (p *PostPublisher) count(platform models.Provider, result string) {
	if p.metrics != nil {
		p.metrics.PostsPublished.WithLabelValues(string(platform), result).Inc()
	}
}
