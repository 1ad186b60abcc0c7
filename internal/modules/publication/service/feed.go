package service

import (
	"fmt"
	"html"
	"time"

	"github.com/gorilla/feeds"
	"github.com/reshetovitsme/contentguard/internal/modules/publication/domain"
	"github.com/samber/oops"
)

const feedSize = 50

// FeedService renders the publication journal as an RSS feed
type FeedService struct {
	publications *Service
}

// NewFeedService creates a new feed service
func NewFeedService(publications *Service) *FeedService {
	return &FeedService{publications: publications}
}

// GenerateFeed builds a feed of the most recent publications
func (s *FeedService) GenerateFeed(baseURL string) (*feeds.Feed, error) {
	publications, err := s.publications.Recent(feedSize)
	if err != nil {
		return nil, oops.With("context", "failed to get publications").Wrap(err)
	}

	feed := &feeds.Feed{
		Title:       "ContentGuard - Publications",
		Link:        &feeds.Link{Href: fmt.Sprintf("%s/rss/publications", baseURL)},
		Description: "Content published or handed off for manual sharing by ContentGuard",
		Created:     time.Now(),
	}
	if len(publications) > 0 {
		feed.Updated = publications[0].CreatedAt
	}

	for _, p := range publications {
		feed.Items = append(feed.Items, publicationToFeedItem(p, baseURL))
	}

	return feed, nil
}

func publicationToFeedItem(p *domain.Publication, baseURL string) *feeds.Item {
	status := "published"
	if !p.Success {
		status = "manual share"
	}

	description := p.Text
	if description == "" {
		description = "No text content"
	}

	content := fmt.Sprintf("<p>%s</p><p><em>%s</em></p>", html.EscapeString(description), html.EscapeString(p.Message))
	if p.HasImage {
		content += "<p>Image attached</p>"
	}

	link := fmt.Sprintf("%s/api/publications#%s", baseURL, p.ID)
	if p.FallbackURL != "" {
		link = p.FallbackURL
	}

	return &feeds.Item{
		Title:       fmt.Sprintf("[%s, %s] %s", p.Platform, status, truncate(p.Text, 100)),
		Link:        &feeds.Link{Href: link},
		Description: description,
		Content:     content,
		Created:     p.CreatedAt,
		Id:          p.ID,
	}
}

func truncate(s string, maxLen int) string {
	runes := []rune(s)
	if len(runes) <= maxLen {
		return s
	}
	return string(runes[:maxLen]) + "..."
}
