// Package session runs the interactive conversation loop: it keeps the
// rolling message context, expands @file references, records turns to
// history, and tracks per-session statistics.
package session

import (
	"context"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/ocode-ai/ocode/internal/cache"
	"github.com/ocode-ai/ocode/internal/history"
	"github.com/ocode-ai/ocode/internal/stats"
)

// maxContextMessages bounds the rolling conversation context sent to the
// model.
const maxContextMessages = 20

// Processor handles one user input against the current conversation.
type Processor interface {
	ProcessRequest(ctx context.Context, userInput string, history []cache.Message) (string, error)
}

// FileReader resolves @file references.
type FileReader interface {
	ReadFile(path string) (string, error)
	Exists(path string) bool
}

// Session is one interactive conversation.
type Session struct {
	ID string

	processor Processor
	files     FileReader
	store     *history.Store
	collector *stats.Collector
	logger    *zap.Logger

	messages []cache.Message
}

// New starts a session. The store may be nil to disable persistence, and
// the collector may be nil to track statistics privately.
func New(processor Processor, files FileReader, store *history.Store, model string, collector *stats.Collector, logger *zap.Logger) *Session {
	if logger == nil {
		logger = zap.NewNop()
	}
	if collector == nil {
		collector = stats.NewCollector()
	}
	s := &Session{
		ID:        uuid.NewString(),
		processor: processor,
		files:     files,
		store:     store,
		collector: collector,
		logger:    logger,
	}
	if store != nil {
		if err := store.CreateSession(s.ID, model); err != nil {
			logger.Warn("failed to record session", zap.Error(err))
			s.store = nil
		}
	}
	return s
}

// ProcessTurn runs one turn: expand file references, process the input,
// update context and history, and return the reply.
func (s *Session) ProcessTurn(ctx context.Context, input string) (string, error) {
	start := time.Now()

	contextMessages := s.contextWithFileRefs(input)

	reply, err := s.processor.ProcessRequest(ctx, input, contextMessages)
	s.collector.RecordRequest(time.Since(start))
	if err != nil {
		s.collector.RecordError()
		return "", err
	}

	s.append("user", input)
	s.append("assistant", reply)
	return reply, nil
}

// Resume seeds the rolling context from a stored session's recent turns.
// The resumed turns are context only; they are not re-saved under this
// session.
func (s *Session) Resume(sessionID string, limit int) error {
	if s.store == nil {
		return nil
	}
	if limit <= 0 || limit > maxContextMessages {
		limit = maxContextMessages
	}
	turns, err := s.store.RecentTurns(sessionID, limit)
	if err != nil {
		return err
	}
	for _, t := range turns {
		s.messages = append(s.messages, cache.Message{Role: t.Role, Content: t.Content})
	}
	if len(s.messages) > maxContextMessages {
		s.messages = s.messages[len(s.messages)-maxContextMessages:]
	}
	return nil
}

// Stats returns the session statistics.
func (s *Session) Stats() *stats.Stats {
	var historySize int64
	if s.store != nil {
		historySize = s.store.Size()
	}
	return s.collector.Collect(historySize)
}

// Messages returns a copy of the rolling context.
func (s *Session) Messages() []cache.Message {
	out := make([]cache.Message, len(s.messages))
	copy(out, s.messages)
	return out
}

func (s *Session) append(role, content string) {
	s.messages = append(s.messages, cache.Message{Role: role, Content: content})
	if len(s.messages) > maxContextMessages {
		s.messages = s.messages[len(s.messages)-maxContextMessages:]
	}

	if s.store != nil {
		if err := s.store.SaveTurn(uuid.NewString(), s.ID, role, content); err != nil {
			s.logger.Warn("failed to save turn", zap.Error(err))
		}
	}
}

var fileRefRe = regexp.MustCompile(`@([\w./\-]+\.\w+)`)

// contextWithFileRefs returns the rolling context, plus a system message
// carrying the contents of any readable @file references in the input.
func (s *Session) contextWithFileRefs(input string) []cache.Message {
	messages := make([]cache.Message, len(s.messages))
	copy(messages, s.messages)

	if s.files == nil {
		return messages
	}

	var sections []string
	seen := map[string]bool{}
	for _, match := range fileRefRe.FindAllStringSubmatch(input, -1) {
		path := match[1]
		if seen[path] || !s.files.Exists(path) {
			continue
		}
		seen[path] = true
		content, err := s.files.ReadFile(path)
		if err != nil {
			s.logger.Debug("file reference unreadable", zap.String("path", path), zap.Error(err))
			continue
		}
		sections = append(sections, fmt.Sprintf("Contents of %s:\n%s", path, content))
	}
	if len(sections) > 0 {
		messages = append(messages, cache.Message{
			Role:    "system",
			Content: strings.Join(sections, "\n\n"),
		})
	}
	return messages
}
