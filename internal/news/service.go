package news

import (
	"context"
	"strings"
	"sync"
	"time"

	"finance-assistant/internal/logger"
	"finance-assistant/internal/types"
)

// Phrases that mark a headline's article as an earnings-surprise story.
var earningsKeywords = []string{"beat", "beats", "miss", "missed", "surprise", "falls short"}

// noSignalsPlaceholder fills the relevant list when nothing matched, so
// clients always have something to display.
const noSignalsPlaceholder = "No strong signals found."

// Service provides earnings-news retrieval with caching
type Service struct {
	scraper *Scraper
	cache   *newsCache
	cfg     *ServiceConfig
}

// ServiceConfig configures the earnings news service
type ServiceConfig struct {
	MaxHeadlines   int           // Headlines to inspect per ticker
	CacheDuration  time.Duration // How long to keep results
	ScraperTimeout time.Duration
}

// DefaultServiceConfig returns sensible defaults
func DefaultServiceConfig() *ServiceConfig {
	return &ServiceConfig{
		MaxHeadlines:   5,
		CacheDuration:  15 * time.Minute,
		ScraperTimeout: 10 * time.Second,
	}
}

// NewService creates an earnings news service
func NewService(cfg *ServiceConfig) *Service {
	if cfg == nil {
		cfg = DefaultServiceConfig()
	}
	return &Service{
		scraper: NewScraper(cfg.ScraperTimeout),
		cache:   newNewsCache(cfg.CacheDuration),
		cfg:     cfg,
	}
}

// EarningsNews returns the recent earnings headlines for a ticker, split
// into those whose articles carry surprise language and the full list.
func (s *Service) EarningsNews(ctx context.Context, ticker string) (types.EarningsNews, error) {
	if cached, ok := s.cache.get(ticker); ok {
		logger.Debug(ctx, "Earnings news cache hit", "ticker", ticker)
		return cached, nil
	}

	articles, err := s.scraper.FetchEarningsFeed(ctx, ticker, s.cfg.MaxHeadlines)
	if err != nil {
		return types.EarningsNews{}, err
	}

	result := s.classify(ctx, ticker, articles)
	s.cache.set(ticker, result)
	return result, nil
}

func (s *Service) classify(ctx context.Context, ticker string, articles []types.NewsArticle) types.EarningsNews {
	all := make([]string, 0, len(articles))
	relevant := []string{}

	for _, article := range articles {
		all = append(all, article.Title)

		text := s.scraper.ArticleText(ctx, article.URL)
		if text == "" {
			continue
		}
		if containsAny(text, earningsKeywords) {
			relevant = append(relevant, article.Title)
		}
	}

	if len(relevant) == 0 {
		relevant = []string{noSignalsPlaceholder}
	}

	return types.EarningsNews{
		Ticker:            ticker,
		RelevantHeadlines: relevant,
		AllHeadlines:      all,
	}
}

func containsAny(text string, keywords []string) bool {
	for _, kw := range keywords {
		if strings.Contains(text, kw) {
			return true
		}
	}
	return false
}

// newsCache stores earnings news results temporarily
type newsCache struct {
	mu   sync.RWMutex
	data map[string]*newsEntry
	ttl  time.Duration
}

type newsEntry struct {
	news      types.EarningsNews
	timestamp time.Time
}

func newNewsCache(ttl time.Duration) *newsCache {
	cache := &newsCache{
		data: make(map[string]*newsEntry),
		ttl:  ttl,
	}

	// Start cleanup goroutine
	go cache.cleanupLoop()

	return cache
}

func (c *newsCache) get(ticker string) (types.EarningsNews, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	entry, exists := c.data[ticker]
	if !exists {
		return types.EarningsNews{}, false
	}
	if time.Since(entry.timestamp) > c.ttl {
		return types.EarningsNews{}, false
	}
	return entry.news, true
}

func (c *newsCache) set(ticker string, news types.EarningsNews) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.data[ticker] = &newsEntry{
		news:      news,
		timestamp: time.Now(),
	}
}

// cleanupLoop periodically removes expired entries
func (c *newsCache) cleanupLoop() {
	ticker := time.NewTicker(10 * time.Minute)
	defer ticker.Stop()

	for range ticker.C {
		c.cleanup()
	}
}

func (c *newsCache) cleanup() {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := time.Now()
	for key, entry := range c.data {
		if now.Sub(entry.timestamp) > c.ttl {
			delete(c.data, key)
		}
	}
}
