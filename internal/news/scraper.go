package news

import (
	"context"
	"fmt"
	"net/url"
	"path/filepath"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"

	"github.com/poundfoolish/poundfoolish/internal/cache"
	"github.com/poundfoolish/poundfoolish/internal/config"
)

// Article is the readable body of one news item, extracted from its page.
type Article struct {
	Title       string    `json:"title"`
	Content     string    `json:"content"`
	Source      string    `json:"source"`
	URL         string    `json:"url"`
	PublishedAt time.Time `json:"published_at"`
}

// Scraper fetches article pages and extracts their text, so headlines from
// the provider feed can be read in full from the terminal. Extracted
// articles are cached for two hours.
type Scraper struct {
	client *resty.Client
	cache  *cache.Store
	logger *zap.Logger
}

func NewScraper(cfg *config.Config, logger *zap.Logger) *Scraper {
	client := resty.New()
	client.SetTimeout(30 * time.Second)
	client.SetHeader("User-Agent", "Mozilla/5.0 (compatible; poundfoolish/1.0)")

	store := cache.New(filepath.Join(cfg.DataCacheDir, "articles"), 2*time.Hour, cfg.CacheEnabled)

	return &Scraper{client: client, cache: store, logger: logger}
}

// ReadArticle fetches articleURL and extracts title, body text and source.
func (s *Scraper) ReadArticle(ctx context.Context, articleURL string) (*Article, error) {
	if strings.TrimSpace(articleURL) == "" {
		return nil, fmt.Errorf("article URL cannot be empty")
	}

	var cached Article
	if s.cache.Get(articleURL, &cached) {
		return &cached, nil
	}

	resp, err := s.client.R().SetContext(ctx).Get(articleURL)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch article: %w", err)
	}
	if resp.StatusCode() != 200 {
		return nil, fmt.Errorf("HTTP error %d when fetching article", resp.StatusCode())
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(resp.String()))
	if err != nil {
		return nil, fmt.Errorf("failed to parse HTML: %w", err)
	}

	article := extractArticle(doc, articleURL)
	if err := s.cache.Set(articleURL, article); err != nil {
		s.logger.Debug("failed to cache article", zap.String("url", articleURL), zap.Error(err))
	}
	return article, nil
}

func extractArticle(doc *goquery.Document, articleURL string) *Article {
	title := ""
	for _, selector := range []string{"h1", ".headline", ".article-title", ".entry-title", "title"} {
		if t := strings.TrimSpace(doc.Find(selector).First().Text()); t != "" {
			title = t
			break
		}
	}

	content := ""
	for _, selector := range []string{
		".article-content", ".entry-content", ".post-content",
		".article-body", ".story-body", "article",
	} {
		if sel := doc.Find(selector).First(); sel.Length() > 0 {
			if c := joinParagraphs(sel); c != "" {
				content = c
				break
			}
		}
	}
	if content == "" {
		content = joinParagraphs(doc.Selection)
	}

	source := ""
	if meta := doc.Find("meta[property='og:site_name']"); meta.Length() > 0 {
		source, _ = meta.Attr("content")
	}
	if source == "" {
		if u, err := url.Parse(articleURL); err == nil {
			source = u.Host
		}
	}

	publishedAt := time.Now()
	if meta := doc.Find("meta[property='article:published_time']"); meta.Length() > 0 {
		if dateStr, ok := meta.Attr("content"); ok {
			if t, err := time.Parse(time.RFC3339, dateStr); err == nil {
				publishedAt = t
			}
		}
	}

	return &Article{
		Title:       title,
		Content:     content,
		Source:      source,
		URL:         articleURL,
		PublishedAt: publishedAt,
	}
}

// joinParagraphs concatenates the text of <p> elements under sel.
func joinParagraphs(sel *goquery.Selection) string {
	var parts []string
	sel.Find("p").Each(func(_ int, p *goquery.Selection) {
		if text := strings.TrimSpace(p.Text()); text != "" {
			parts = append(parts, text)
		}
	})
	return strings.Join(parts, "\n\n")
}
