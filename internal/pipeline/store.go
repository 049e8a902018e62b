package pipeline

import (
	"crypto/sha256"
	"fmt"
	"sync"
	"time"

	"github.com/dgallion1/entryview/internal/entry"
	"github.com/dgallion1/entryview/internal/toc"
)

// Page is a fully processed entry, ready to serve.
type Page struct {
	Entry          entry.Entry   `json:"entry"`
	Markdown       string        `json:"markdown"`
	HTML           string        `json:"html"`
	Headings       []toc.Heading `json:"headings"`
	ReadingMinutes int           `json:"reading_minutes"`
	ETag           string        `json:"etag"`
	RenderedAt     time.Time     `json:"rendered_at"`
}

// PageStore is a thread-safe in-memory page cache with TTL eviction.
type PageStore struct {
	mu    sync.Mutex
	pages map[string]*Page
	ttl   time.Duration
}

func NewPageStore(ttl time.Duration) *PageStore {
	return &PageStore{
		pages: make(map[string]*Page),
		ttl:   ttl,
	}
}

func (s *PageStore) Put(id string, page *Page) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.pages[id] = page
}

// Get returns the cached page, or nil when missing or expired.
func (s *PageStore) Get(id string) *Page {
	s.mu.Lock()
	defer s.mu.Unlock()
	page := s.pages[id]
	if page == nil || s.expired(page, time.Now()) {
		return nil
	}
	return page
}

func (s *PageStore) Delete(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.pages, id)
}

// Cleanup removes expired pages.
func (s *PageStore) Cleanup() {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := time.Now()
	for id, page := range s.pages {
		if s.expired(page, now) {
			delete(s.pages, id)
		}
	}
}

func (s *PageStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.pages)
}

func (s *PageStore) expired(page *Page, now time.Time) bool {
	return now.Sub(page.RenderedAt) > s.ttl
}

// ContentHashHex computes SHA-256 of content and returns hex string.
func ContentHashHex(data []byte) string {
	h := sha256.Sum256(data)
	return fmt.Sprintf("%x", h[:])
}
