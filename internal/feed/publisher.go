package feed

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"music-genre-app/internal/domain"
	"music-genre-app/internal/storage"
)

// Source supplies the songs that go into the feed.
type Source interface {
	Feed(ctx context.Context) ([]domain.FeedItem, error)
}

// Publisher periodically renders the feed and uploads a snapshot to object storage.
type Publisher interface {
	Start(ctx context.Context) error
	Shutdown()
	PublishOnce(ctx context.Context) (string, error)
}

type Config struct {
	Bucket   string
	Key      string
	BaseURL  string
	Interval time.Duration
	ACL      string
	Logger   *logrus.Logger
}

type publisher struct {
	cfg     Config
	source  Source
	storage storage.Service

	wg     sync.WaitGroup
	cancel context.CancelFunc
}

func NewPublisher(cfg Config, source Source, store storage.Service) Publisher {
	if cfg.Interval <= 0 {
		cfg.Interval = 10 * time.Minute
	}
	if cfg.Logger == nil {
		cfg.Logger = logrus.New()
	}
	if strings.TrimSpace(cfg.Key) == "" {
		cfg.Key = "feeds/songs.rss"
	}
	return &publisher{
		cfg:     cfg,
		source:  source,
		storage: store,
	}
}

func (p *publisher) Start(ctx context.Context) error {
	if p.storage == nil || p.cfg.Bucket == "" {
		return fmt.Errorf("feed publisher requires a storage bucket")
	}

	runCtx, cancel := context.WithCancel(ctx)
	p.cancel = cancel

	p.wg.Add(1)
	go func() {
		defer p.wg.Done()
		p.run(runCtx)
	}()

	p.cfg.Logger.Infof("feed publisher started, every %s to s3://%s/%s", p.cfg.Interval, p.cfg.Bucket, p.cfg.Key)
	return nil
}

func (p *publisher) Shutdown() {
	if p.cancel != nil {
		p.cancel()
	}
	p.wg.Wait()
	p.cfg.Logger.Info("feed publisher stopped")
}

func (p *publisher) run(ctx context.Context) {
	logger := p.cfg.Logger.WithField("component", "feed")

	publish := func() {
		dest, err := p.PublishOnce(ctx)
		if err != nil {
			if ctx.Err() == nil {
				logger.Errorf("publish feed: %v", err)
			}
			return
		}
		logger.Debugf("feed published to %s", dest)
	}

	publish()

	ticker := time.NewTicker(p.cfg.Interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			publish()
		}
	}
}

func (p *publisher) PublishOnce(ctx context.Context) (string, error) {
	items, err := p.source.Feed(ctx)
	if err != nil {
		return "", fmt.Errorf("load feed items: %w", err)
	}

	doc := Render(p.cfg.BaseURL, items)
	return p.storage.Upload(ctx, storage.Object{
		Bucket:       p.cfg.Bucket,
		Key:          p.cfg.Key,
		Body:         strings.NewReader(doc),
		ContentType:  ContentType,
		CacheControl: CacheControl,
		ACL:          p.cfg.ACL,
	})
}
