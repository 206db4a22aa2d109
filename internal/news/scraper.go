package news

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/gocolly/colly/v2"

	"finance-assistant/internal/api"
	"finance-assistant/internal/logger"
	"finance-assistant/internal/types"
)

// Scraper pulls earnings headlines from the Google News RSS feed and
// inspects the linked articles for earnings-surprise language.
type Scraper struct {
	client  *api.Client
	timeout time.Duration
}

// NewScraper creates a scraper with the given per-request timeout.
func NewScraper(timeout time.Duration) *Scraper {
	return &Scraper{
		client: api.NewClient(
			api.WithTimeout(timeout),
			api.WithLogging(true),
		),
		timeout: timeout,
	}
}

// FetchEarningsFeed returns the latest "<ticker> earnings" headlines from
// Google News, newest first, up to maxItems.
func (s *Scraper) FetchEarningsFeed(ctx context.Context, ticker string, maxItems int) ([]types.NewsArticle, error) {
	articles := []types.NewsArticle{}

	c := colly.NewCollector(
		colly.AllowedDomains("news.google.com"),
	)
	c.SetRequestTimeout(s.timeout)

	c.OnRequest(func(r *colly.Request) {
		r.Headers.Set("User-Agent", "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36")
	})

	c.OnXML("//rss/channel/item", func(e *colly.XMLElement) {
		if len(articles) >= maxItems {
			return
		}
		title := strings.TrimSpace(e.ChildText("title"))
		link := strings.TrimSpace(e.ChildText("link"))
		if title == "" || link == "" {
			return
		}
		articles = append(articles, types.NewsArticle{
			Ticker:      ticker,
			Title:       title,
			URL:         link,
			Source:      strings.TrimSpace(e.ChildText("source")),
			PublishedAt: strings.TrimSpace(e.ChildText("pubDate")),
		})
	})

	c.OnError(func(r *colly.Response, err error) {
		logger.ErrorWithErr(ctx, "RSS fetch error", err, "ticker", ticker, "url", r.Request.URL.String())
	})

	feedURL := fmt.Sprintf("https://news.google.com/rss/search?q=%s",
		url.QueryEscape(ticker+" earnings"))

	if err := c.Visit(feedURL); err != nil {
		return nil, fmt.Errorf("failed to fetch news feed for %s: %w", ticker, err)
	}
	c.Wait()

	logger.Info(ctx, "Earnings feed fetched", "ticker", ticker, "headlines", len(articles))
	return articles, nil
}

// ArticleText fetches an article page and returns its visible text,
// lowercased for keyword matching. Fetch failures return "".
func (s *Scraper) ArticleText(ctx context.Context, articleURL string) string {
	resp, err := s.client.GET(ctx, articleURL, api.BrowserHeaders())
	if err != nil {
		logger.Warn(ctx, "Article fetch failed", "url", articleURL, "error", err)
		return ""
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(resp.String()))
	if err != nil {
		logger.Warn(ctx, "Article parse failed", "url", articleURL, "error", err)
		return ""
	}
	doc.Find("script, style, noscript").Remove()
	return strings.ToLower(doc.Text())
}
