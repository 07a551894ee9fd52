package cli

import (
	"bufio"
	"fmt"
	"os"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/ocode-ai/ocode/internal/cache"
	"github.com/ocode-ai/ocode/internal/client"
	"github.com/ocode-ai/ocode/internal/config"
	"github.com/ocode-ai/ocode/internal/executor"
	"github.com/ocode-ai/ocode/internal/history"
	"github.com/ocode-ai/ocode/internal/permission"
	"github.com/ocode-ai/ocode/internal/session"
	"github.com/ocode-ai/ocode/internal/stats"
	"github.com/ocode-ai/ocode/internal/tools"
)

// app bundles the wired components behind one session.
type app struct {
	cfg     *config.Config
	cache   *cache.ResponseCache
	client  *client.OllamaClient
	store   *history.Store
	session *session.Session
}

// newApp wires the full pipeline from configuration.
func newApp(cfg *config.Config, logger *zap.Logger) (*app, error) {
	var responseCache *cache.ResponseCache
	if cfg.Cache.Enabled {
		responseCache = cache.New(cfg.Paths.CacheDir,
			cache.WithMaxEntries(cfg.Cache.MaxEntries),
			cache.WithTTL(cfg.Cache.TTLSeconds))
	}

	collector := stats.NewCollector()

	ollama := client.NewOllamaClient(&client.Config{
		BaseURL: cfg.Model.URL,
		Model:   cfg.Model.Name,
		Timeout: time.Duration(cfg.Model.TimeoutSeconds) * time.Second,
	}, responseCache, logger)
	ollama.SetRecorder(collector)

	workDir, err := os.Getwd()
	if err != nil {
		workDir = "."
	}

	files := tools.NewFileOperations()
	git := tools.NewGitOperations(workDir)
	search := tools.NewSearchOperations(workDir)
	shell := tools.NewBashOperations(time.Duration(cfg.Tools.CommandTimeoutSeconds) * time.Second)

	gate := permission.NewGate(permission.ApproverFunc(promptApproval))

	exec := executor.New(files, git, search, shell, ollama, gate, logger, executor.Options{
		AutoApprove:      cfg.Permissions.AutoApprove,
		MaxSearchResults: cfg.Tools.MaxSearchResults,
		MaxLogEntries:    cfg.Tools.MaxLogEntries,
		WorkDir:          workDir,
		Recorder:         collector,
	})

	store, err := history.Open(cfg.Paths.HistoryDB)
	if err != nil {
		logger.Warn("history disabled", zap.Error(err))
		store = nil
	}

	sess := session.New(exec, files, store, cfg.Model.Name, collector, logger)

	return &app{
		cfg:     cfg,
		cache:   responseCache,
		client:  ollama,
		store:   store,
		session: sess,
	}, nil
}

func (a *app) close() {
	if a.store != nil {
		_ = a.store.Close()
	}
}

// resumeLastSession seeds the context from the newest stored session,
// skipping the one just created. Returns true when turns were loaded.
func (a *app) resumeLastSession() (bool, error) {
	if a.store == nil {
		return false, nil
	}
	sessions, err := a.store.Sessions(5)
	if err != nil {
		return false, err
	}
	for _, prev := range sessions {
		if prev.ID == a.session.ID || prev.TurnCount == 0 {
			continue
		}
		if err := a.session.Resume(prev.ID, 0); err != nil {
			return false, err
		}
		return true, nil
	}
	return false, nil
}

// promptApproval asks the user to approve a gated operation on the
// terminal. Answering "a" approves the operation type for the session.
func promptApproval(op permission.OperationType, description string) permission.Decision {
	fmt.Printf("%s\n", warnStyle.Render("Permission required: "+description))
	fmt.Print("Allow? [y]es / [a]lways this session / [N]o: ")

	reader := bufio.NewReader(os.Stdin)
	answer, err := reader.ReadString('\n')
	if err != nil {
		return permission.Deny
	}
	switch strings.ToLower(strings.TrimSpace(answer)) {
	case "y", "yes":
		return permission.ApproveOnce
	case "a", "always":
		return permission.ApproveSession
	default:
		return permission.Deny
	}
}
