// Package executor turns detected tool intents into tool executions and
// assembles the combined user-facing response.
package executor

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/ocode-ai/ocode/internal/cache"
	"github.com/ocode-ai/ocode/internal/format"
	"github.com/ocode-ai/ocode/internal/intent"
	"github.com/ocode-ai/ocode/internal/permission"
	"github.com/ocode-ai/ocode/internal/recovery"
	"github.com/ocode-ai/ocode/internal/tools"
)

// FileSystem is the file collaborator the executor dispatches to.
type FileSystem interface {
	ReadFile(path string) (string, error)
	WriteFile(path, content string) error
	Exists(path string) bool
}

// Git is the git collaborator.
type Git interface {
	IsGitRepo(ctx context.Context) bool
	Status(ctx context.Context) (*tools.GitStatus, error)
	Diff(ctx context.Context, path string, staged bool) (string, error)
	Log(ctx context.Context, maxCount int) ([]tools.GitLogEntry, error)
}

// Searcher is the content search collaborator.
type Searcher interface {
	GrepFiles(pattern string, maxResults int) ([]tools.SearchMatch, error)
}

// Shell is the command execution collaborator.
type Shell interface {
	RunCommand(ctx context.Context, command, cwd string) *tools.CommandResult
}

// Model produces conversational replies.
type Model interface {
	Chat(ctx context.Context, messages []cache.Message) (string, error)
}

// Recorder counts tool executions for session statistics.
type Recorder interface {
	RecordTool()
}

// ToolResult is the outcome of executing one intent.
type ToolResult struct {
	Intent  intent.ToolIntent
	Success bool
	Output  string
}

// ExecutionPlan is the resolved set of intents for one request plus the
// decision whether a model reply is still needed.
type ExecutionPlan struct {
	Intents    []intent.ToolIntent
	NeedsModel bool
}

// Options configures an Executor.
type Options struct {
	AutoApprove      bool
	MaxSearchResults int
	MaxLogEntries    int
	WorkDir          string
	Recorder         Recorder
}

// Executor orchestrates intent analysis, permission checks, tool
// dispatch, and response assembly for one request at a time.
type Executor struct {
	files  FileSystem
	git    Git
	search Searcher
	shell  Shell
	model  Model
	gate   *permission.Gate
	logger *zap.Logger
	opts   Options
}

// New creates an executor over the given collaborators.
func New(files FileSystem, git Git, search Searcher, shell Shell, model Model, gate *permission.Gate, logger *zap.Logger, opts Options) *Executor {
	if logger == nil {
		logger = zap.NewNop()
	}
	if opts.MaxSearchResults <= 0 {
		opts.MaxSearchResults = 10
	}
	if opts.MaxLogEntries <= 0 {
		opts.MaxLogEntries = 10
	}
	return &Executor{
		files:  files,
		git:    git,
		search: search,
		shell:  shell,
		model:  model,
		gate:   gate,
		logger: logger,
		opts:   opts,
	}
}

// Plan analyzes the input and decides whether a model reply is needed on
// top of any tool output.
func (e *Executor) Plan(userInput string) ExecutionPlan {
	intents := intent.Analyze(userInput)
	return ExecutionPlan{
		Intents:    intents,
		NeedsModel: needsModelReply(intents, userInput),
	}
}

// ProcessRequest runs the full pipeline for one user input: analyze,
// execute tools, optionally consult the model, and assemble the reply.
// History is the prior conversation, oldest first.
func (e *Executor) ProcessRequest(ctx context.Context, userInput string, history []cache.Message) (string, error) {
	plan := e.Plan(userInput)

	// Pure conversation: no tool matched anything.
	if len(plan.Intents) == 1 && plan.Intents[0].Type == intent.None {
		messages := append(append([]cache.Message{}, history...),
			cache.Message{Role: "user", Content: userInput})
		reply, err := e.model.Chat(ctx, messages)
		if err != nil {
			return recovery.HandleToolError(err, "model request", userInput), nil
		}
		return reply, nil
	}

	var results []ToolResult
	for _, in := range plan.Intents {
		if in.Type == intent.None {
			continue
		}
		results = append(results, e.execute(ctx, in, userInput))
		if e.opts.Recorder != nil {
			e.opts.Recorder.RecordTool()
		}
		e.logger.Debug("executed intent",
			zap.String("type", in.Type.String()),
			zap.String("action", in.Action),
			zap.String("target", in.Target))
	}

	var modelReply string
	if plan.NeedsModel {
		messages := e.modelMessages(userInput, history, results)
		reply, err := e.model.Chat(ctx, messages)
		if err != nil {
			e.logger.Warn("model reply failed", zap.Error(err))
			modelReply = recovery.HandleToolError(err, "model request", userInput)
		} else {
			modelReply = reply
		}
	}

	return FormatCombinedResponse(results, modelReply), nil
}

// execute dispatches one intent to its tool category.
func (e *Executor) execute(ctx context.Context, in intent.ToolIntent, userInput string) ToolResult {
	switch in.Type {
	case intent.FileOp:
		return e.executeFile(in, userInput)
	case intent.GitOp:
		return e.executeGit(ctx, in, userInput)
	case intent.SearchOp:
		return e.executeSearch(in, userInput)
	case intent.BashOp:
		return e.executeBash(ctx, in, userInput)
	default:
		return ToolResult{Intent: in, Success: false,
			Output: recovery.HandleToolError(fmt.Errorf("tool not found: %s", in.Type), in.Type.String(), userInput)}
	}
}

func (e *Executor) executeFile(in intent.ToolIntent, userInput string) ToolResult {
	action := "file_operation " + in.Action

	switch in.Action {
	case "read":
		if in.Target == "" {
			return ToolResult{Intent: in, Success: false,
				Output: "Please specify which file you'd like me to read."}
		}
		if !e.checkPermission(permission.ReadFile, "Read file: "+in.Target) {
			return e.denied(in, action, userInput)
		}
		if !e.files.Exists(in.Target) {
			return ToolResult{Intent: in, Success: false,
				Output: fmt.Sprintf("File not found: %s. Would you like me to create it instead?", in.Target)}
		}
		content, err := e.files.ReadFile(in.Target)
		if err != nil {
			return ToolResult{Intent: in, Success: false,
				Output: recovery.HandleToolError(err, action, userInput)}
		}
		return ToolResult{Intent: in, Success: true,
			Output: format.FileContent(in.Target, content)}

	case "create":
		if !e.checkPermission(permission.WriteFile, "Create file: "+in.Target) {
			return e.denied(in, action, userInput)
		}
		return ToolResult{Intent: in, Success: true,
			Output: "I'll help you create that file. Let me generate appropriate content..."}

	case "edit":
		if in.Target == "" {
			return ToolResult{Intent: in, Success: false,
				Output: "Please specify which file you'd like me to edit."}
		}
		if !e.checkPermission(permission.WriteFile, "Edit file: "+in.Target) {
			return e.denied(in, action, userInput)
		}
		if !e.files.Exists(in.Target) {
			return ToolResult{Intent: in, Success: false,
				Output: fmt.Sprintf("File not found: %s. Would you like me to create it instead?", in.Target)}
		}
		return ToolResult{Intent: in, Success: true,
			Output: fmt.Sprintf("I'll help you edit %s. Let me analyze the current content...", in.Target)}

	default:
		return ToolResult{Intent: in, Success: false,
			Output: recovery.HandleToolError(fmt.Errorf("invalid command: %s", in.Action), action, userInput)}
	}
}

func (e *Executor) executeGit(ctx context.Context, in intent.ToolIntent, userInput string) ToolResult {
	action := "git_operation " + in.Action

	if !e.checkPermission(permission.GitOperation, "Git "+in.Action) {
		return e.denied(in, action, userInput)
	}
	if !e.git.IsGitRepo(ctx) {
		return ToolResult{Intent: in, Success: false,
			Output: "This directory is not a git repository."}
	}

	switch in.Action {
	case "status":
		status, err := e.git.Status(ctx)
		if err != nil {
			return ToolResult{Intent: in, Success: false,
				Output: recovery.HandleToolError(err, action, userInput)}
		}
		return ToolResult{Intent: in, Success: true, Output: format.GitStatus(status)}

	case "diff":
		diff, err := e.git.Diff(ctx, in.Target, false)
		if err != nil {
			return ToolResult{Intent: in, Success: false,
				Output: recovery.HandleToolError(err, action, userInput)}
		}
		if strings.TrimSpace(diff) == "" {
			return ToolResult{Intent: in, Success: true,
				Output: "No changes to show (working tree is clean)"}
		}
		return ToolResult{Intent: in, Success: true, Output: diff}

	case "log":
		entries, err := e.git.Log(ctx, e.opts.MaxLogEntries)
		if err != nil {
			return ToolResult{Intent: in, Success: false,
				Output: recovery.HandleToolError(err, action, userInput)}
		}
		return ToolResult{Intent: in, Success: true, Output: format.GitLog(entries)}

	default:
		return ToolResult{Intent: in, Success: false,
			Output: recovery.HandleToolError(fmt.Errorf("invalid command: git %s", in.Action), action, userInput)}
	}
}

func (e *Executor) executeSearch(in intent.ToolIntent, userInput string) ToolResult {
	action := "search_operation " + in.Action

	if in.Target == "" {
		return ToolResult{Intent: in, Success: false,
			Output: "Please specify what you'd like me to search for."}
	}
	if !e.checkPermission(permission.ReadFile, "Search for: "+in.Target) {
		return e.denied(in, action, userInput)
	}

	matches, err := e.search.GrepFiles(in.Target, e.opts.MaxSearchResults)
	if err != nil {
		return ToolResult{Intent: in, Success: false,
			Output: recovery.HandleToolError(err, action, userInput)}
	}
	return ToolResult{Intent: in, Success: true,
		Output: format.SearchResults(in.Target, matches, e.opts.MaxSearchResults)}
}

func (e *Executor) executeBash(ctx context.Context, in intent.ToolIntent, userInput string) ToolResult {
	action := "bash_command " + in.Action

	if in.Target == "" {
		return ToolResult{Intent: in, Success: false,
			Output: "Please specify which command you'd like me to run."}
	}
	if !e.checkPermission(permission.ExecuteCommand, "Run command: "+in.Target) {
		return e.denied(in, action, userInput)
	}

	result := e.shell.RunCommand(ctx, in.Target, e.opts.WorkDir)
	if !result.Success {
		errText := result.Error
		if errText == "" {
			errText = strings.TrimSpace(result.Stderr)
		}
		if errText == "" {
			errText = fmt.Sprintf("exit status %d", result.ReturnCode)
		}
		return ToolResult{Intent: in, Success: false,
			Output: format.CommandResult(in.Target, result.Stdout, errText)}
	}
	return ToolResult{Intent: in, Success: true,
		Output: format.CommandResult(in.Target, result.Stdout, "")}
}

// checkPermission runs the intent's operation through the approval gate.
func (e *Executor) checkPermission(op permission.OperationType, description string) bool {
	return e.gate == nil || e.gate.Check(op, description, e.opts.AutoApprove)
}

func (e *Executor) denied(in intent.ToolIntent, action, userInput string) ToolResult {
	return ToolResult{Intent: in, Success: false,
		Output: recovery.HandleToolError(fmt.Errorf("permission denied"), action, userInput)}
}

// modelMessages builds the conversation for a follow-up model reply,
// feeding tool output back as context.
func (e *Executor) modelMessages(userInput string, history []cache.Message, results []ToolResult) []cache.Message {
	messages := append([]cache.Message{}, history...)

	var toolContext strings.Builder
	for _, r := range results {
		if r.Output == "" {
			continue
		}
		toolContext.WriteString(r.Output)
		toolContext.WriteString("\n")
	}
	if toolContext.Len() > 0 {
		messages = append(messages, cache.Message{
			Role:    "system",
			Content: "Tool output for the current request:\n" + toolContext.String(),
		})
	}

	return append(messages, cache.Message{Role: "user", Content: userInput})
}

// conversationalMarkers indicate the user wants prose on top of raw tool
// output.
var conversationalMarkers = []string{
	"explain", "how", "why", "what", "help me", "can you", "please",
}

// needsModelReply decides whether the model should speak after tool
// execution. File creation and editing always need generated content;
// multi-tool requests and conversational phrasing get a narrated reply.
func needsModelReply(intents []intent.ToolIntent, userInput string) bool {
	nonNone := 0
	for _, in := range intents {
		if in.Type == intent.None {
			continue
		}
		nonNone++
		if in.Type == intent.FileOp && (in.Action == "create" || in.Action == "edit") {
			return true
		}
	}
	if nonNone > 1 {
		return true
	}

	lower := strings.ToLower(userInput)
	for _, marker := range conversationalMarkers {
		if strings.Contains(lower, marker) {
			return true
		}
	}
	return false
}

// FormatCombinedResponse assembles the final reply: successful tool
// output first, then failures, then the model reply, separated by blank
// lines.
func FormatCombinedResponse(results []ToolResult, modelReply string) string {
	var parts []string
	for _, r := range results {
		if r.Success && r.Output != "" {
			parts = append(parts, r.Output)
		}
	}
	for _, r := range results {
		if !r.Success && r.Output != "" {
			parts = append(parts, r.Output)
		}
	}
	if modelReply != "" {
		parts = append(parts, modelReply)
	}
	if len(parts) == 0 {
		return "No output generated."
	}
	return strings.Join(parts, "\n\n")
}
