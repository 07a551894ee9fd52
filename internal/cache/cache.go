// Package cache memoizes conversational model replies keyed by a
// context-sensitive fingerprint, with TTL expiry and size-bounded
// eviction.
//
// The cache file is not locked across processes; two ocode instances
// sharing a cache directory can race on the JSON file. Last writer wins.
package cache

import (
	"crypto/md5"
	"crypto/sha256"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"
)

// DefaultTTL is the entry lifetime when the caller does not pick one.
const DefaultTTL = 3600

// DefaultMaxEntries bounds the cache size.
const DefaultMaxEntries = 1000

// Message is a single conversation message, as sent to the model.
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// Entry is one cached reply with access metadata.
type Entry struct {
	Content    string  `json:"content"`
	Timestamp  float64 `json:"timestamp"`
	HitCount   int     `json:"hit_count"`
	TTLSeconds int     `json:"ttl_seconds"`
}

// Stats summarizes cache state.
type Stats struct {
	TotalEntries int     `json:"total_entries"`
	TotalHits    int     `json:"total_hits"`
	SizeBytes    int     `json:"size_bytes"`
	OldestEntry  float64 `json:"oldest_entry,omitempty"`
	HitRate      float64 `json:"hit_rate"`
}

// ResponseCache memoizes replies in memory and persists them as JSON.
// It is not safe for concurrent use; the request loop is single-threaded.
type ResponseCache struct {
	file       string
	maxEntries int
	defaultTTL int
	entries    map[string]*Entry

	// now is swappable for TTL tests.
	now func() float64
}

// Option configures a ResponseCache.
type Option func(*ResponseCache)

// WithMaxEntries overrides the entry cap.
func WithMaxEntries(n int) Option {
	return func(c *ResponseCache) {
		if n > 0 {
			c.maxEntries = n
		}
	}
}

// WithTTL overrides the default entry lifetime in seconds.
func WithTTL(seconds int) Option {
	return func(c *ResponseCache) {
		if seconds > 0 {
			c.defaultTTL = seconds
		}
	}
}

// New creates a cache persisting to dir/response_cache.json. A missing or
// corrupt file starts an empty cache silently.
func New(dir string, opts ...Option) *ResponseCache {
	c := &ResponseCache{
		file:       filepath.Join(dir, "response_cache.json"),
		maxEntries: DefaultMaxEntries,
		defaultTTL: DefaultTTL,
		entries:    make(map[string]*Entry),
		now:        func() float64 { return float64(time.Now().UnixNano()) / 1e9 },
	}
	for _, opt := range opts {
		opt(c)
	}
	c.load()
	return c
}

// nonCacheablePatterns blocks prompts whose answers are time- or
// randomness-dependent.
var nonCacheablePatterns = []string{
	"current time",
	"now",
	"today",
	"random",
	"generate uuid",
	"timestamp",
}

// IsCacheable reports whether a prompt's reply is safe to memoize.
func (c *ResponseCache) IsCacheable(prompt string) bool {
	lower := strings.ToLower(prompt)
	for _, pattern := range nonCacheablePatterns {
		if strings.Contains(lower, pattern) {
			return false
		}
	}
	return true
}

// Get returns the cached reply for (prompt, model, recent context), or
// "" and false on a miss. Expired entries are evicted lazily here. A hit
// refreshes the entry timestamp, making eviction order effectively LRU.
func (c *ResponseCache) Get(prompt, model string, messages []Message) (string, bool) {
	key := c.fingerprint(prompt, model, contextHash(messages))

	entry, ok := c.entries[key]
	if !ok {
		return "", false
	}

	if c.now()-entry.Timestamp > float64(entry.TTLSeconds) {
		delete(c.entries, key)
		return "", false
	}

	entry.HitCount++
	entry.Timestamp = c.now()
	return entry.Content, true
}

// Set stores a reply, evicts the oldest entries beyond the cap, and
// persists best-effort.
func (c *ResponseCache) Set(prompt, model, response string, messages []Message, ttlSeconds int) {
	if ttlSeconds <= 0 {
		ttlSeconds = c.defaultTTL
	}
	key := c.fingerprint(prompt, model, contextHash(messages))

	c.entries[key] = &Entry{
		Content:    response,
		Timestamp:  c.now(),
		HitCount:   0,
		TTLSeconds: ttlSeconds,
	}

	c.evict()
	c.save()
}

// Clear drops every entry and removes the cache file.
func (c *ResponseCache) Clear() {
	c.entries = make(map[string]*Entry)
	_ = os.Remove(c.file)
}

// GetStats summarizes the cache.
func (c *ResponseCache) GetStats() Stats {
	if len(c.entries) == 0 {
		return Stats{}
	}

	stats := Stats{TotalEntries: len(c.entries)}
	oldest := 0.0
	for _, entry := range c.entries {
		stats.TotalHits += entry.HitCount
		stats.SizeBytes += len(entry.Content)
		if oldest == 0 || entry.Timestamp < oldest {
			oldest = entry.Timestamp
		}
	}
	stats.OldestEntry = oldest
	stats.HitRate = float64(stats.TotalHits) / float64(stats.TotalEntries)
	return stats
}

// fingerprint derives the 16-hex-char entry key. The prompt is
// whitespace-normalized so formatting noise does not fragment the cache.
func (c *ResponseCache) fingerprint(prompt, model, contextHash string) string {
	normalized := strings.Join(strings.Fields(prompt), " ")
	sum := sha256.Sum256([]byte(fmt.Sprintf("%s|%s|%s", normalized, model, contextHash)))
	return fmt.Sprintf("%x", sum)[:16]
}

// contextHash digests the last 5 non-system messages so identical prompts
// in different conversations key differently.
func contextHash(messages []Message) string {
	recent := messages
	if len(recent) > 5 {
		recent = recent[len(recent)-5:]
	}
	filtered := make([]Message, 0, len(recent))
	for _, msg := range recent {
		if msg.Role != "system" {
			filtered = append(filtered, msg)
		}
	}
	data, err := json.Marshal(filtered)
	if err != nil {
		return ""
	}
	sum := md5.Sum(data)
	return fmt.Sprintf("%x", sum)[:8]
}

// evict removes the oldest entries until the cap holds. Runs
// synchronously inside Set.
func (c *ResponseCache) evict() {
	excess := len(c.entries) - c.maxEntries
	if excess <= 0 {
		return
	}

	type keyed struct {
		key string
		ts  float64
	}
	sorted := make([]keyed, 0, len(c.entries))
	for key, entry := range c.entries {
		sorted = append(sorted, keyed{key, entry.Timestamp})
	}
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].ts < sorted[j].ts })

	for i := 0; i < excess; i++ {
		delete(c.entries, sorted[i].key)
	}
}

// load reads the cache file; any failure resets to an empty cache.
func (c *ResponseCache) load() {
	data, err := os.ReadFile(c.file)
	if err != nil {
		return
	}
	var entries map[string]*Entry
	if err := json.Unmarshal(data, &entries); err != nil {
		c.entries = make(map[string]*Entry)
		return
	}
	for key, entry := range entries {
		if entry == nil {
			continue
		}
		if entry.TTLSeconds == 0 {
			entry.TTLSeconds = DefaultTTL
		}
		c.entries[key] = entry
	}
}

// save persists the whole map. Write failures are swallowed; losing the
// cache is acceptable.
func (c *ResponseCache) save() {
	if err := os.MkdirAll(filepath.Dir(c.file), 0o755); err != nil {
		return
	}
	data, err := json.MarshalIndent(c.entries, "", "  ")
	if err != nil {
		return
	}
	_ = os.WriteFile(c.file, data, 0o644)
}
