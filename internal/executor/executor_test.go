package executor

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ocode-ai/ocode/internal/cache"
	"github.com/ocode-ai/ocode/internal/intent"
	"github.com/ocode-ai/ocode/internal/permission"
	"github.com/ocode-ai/ocode/internal/tools"
)

type fakeFS struct {
	files map[string]string
}

func (f *fakeFS) ReadFile(path string) (string, error) {
	content, ok := f.files[path]
	if !ok {
		return "", errors.New("no such file or directory")
	}
	return content, nil
}

func (f *fakeFS) WriteFile(path, content string) error {
	f.files[path] = content
	return nil
}

func (f *fakeFS) Exists(path string) bool {
	_, ok := f.files[path]
	return ok
}

type fakeGit struct {
	isRepo bool
	status *tools.GitStatus
	diff   string
	log    []tools.GitLogEntry
	err    error
}

func (g *fakeGit) IsGitRepo(context.Context) bool { return g.isRepo }
func (g *fakeGit) Status(context.Context) (*tools.GitStatus, error) {
	return g.status, g.err
}
func (g *fakeGit) Diff(context.Context, string, bool) (string, error) {
	return g.diff, g.err
}
func (g *fakeGit) Log(context.Context, int) ([]tools.GitLogEntry, error) {
	return g.log, g.err
}

type fakeSearch struct {
	matches []tools.SearchMatch
	err     error
	pattern string
}

func (s *fakeSearch) GrepFiles(pattern string, maxResults int) ([]tools.SearchMatch, error) {
	s.pattern = pattern
	return s.matches, s.err
}

type fakeShell struct {
	result  *tools.CommandResult
	command string
}

func (sh *fakeShell) RunCommand(ctx context.Context, command, cwd string) *tools.CommandResult {
	sh.command = command
	if sh.result != nil {
		return sh.result
	}
	return &tools.CommandResult{Success: true, Stdout: "ok\n", Command: command}
}

type fakeModel struct {
	reply    string
	err      error
	messages []cache.Message
	calls    int
}

func (m *fakeModel) Chat(ctx context.Context, messages []cache.Message) (string, error) {
	m.calls++
	m.messages = messages
	return m.reply, m.err
}

type testEnv struct {
	fs     *fakeFS
	git    *fakeGit
	search *fakeSearch
	shell  *fakeShell
	model  *fakeModel
	exec   *Executor
}

func newTestEnv(opts Options) *testEnv {
	env := &testEnv{
		fs:     &fakeFS{files: map[string]string{}},
		git:    &fakeGit{isRepo: true, status: &tools.GitStatus{Branch: "main"}},
		search: &fakeSearch{},
		shell:  &fakeShell{},
		model:  &fakeModel{reply: "model says hi"},
	}
	gate := permission.NewGate(nil)
	if opts.AutoApprove {
		gate.ApproveAllForSession()
	}
	env.exec = New(env.fs, env.git, env.search, env.shell, env.model, gate, nil, opts)
	return env
}

func TestProcessRequest_Conversation(t *testing.T) {
	env := newTestEnv(Options{})

	got, err := env.exec.ProcessRequest(context.Background(), "hello there", nil)

	require.NoError(t, err)
	assert.Equal(t, "model says hi", got)
	assert.Equal(t, 1, env.model.calls)
}

func TestProcessRequest_ConversationCarriesHistory(t *testing.T) {
	env := newTestEnv(Options{})
	history := []cache.Message{
		{Role: "user", Content: "earlier"},
		{Role: "assistant", Content: "reply"},
	}

	_, err := env.exec.ProcessRequest(context.Background(), "hello there", history)

	require.NoError(t, err)
	require.Len(t, env.model.messages, 3)
	assert.Equal(t, "earlier", env.model.messages[0].Content)
	assert.Equal(t, "hello there", env.model.messages[2].Content)
}

func TestProcessRequest_ReadFile(t *testing.T) {
	env := newTestEnv(Options{})
	env.fs.files["config.json"] = "{}"

	got, err := env.exec.ProcessRequest(context.Background(), "read the file config.json", nil)

	require.NoError(t, err)
	assert.Equal(t, "config.json:\n{}", got)
	assert.Zero(t, env.model.calls, "plain read needs no model reply")
}

func TestProcessRequest_ReadFileMissingTarget(t *testing.T) {
	env := newTestEnv(Options{})

	got, err := env.exec.ProcessRequest(context.Background(), "read the file", nil)

	require.NoError(t, err)
	assert.Equal(t, "Please specify which file you'd like me to read.", got)
}

func TestProcessRequest_ReadFileNotFound(t *testing.T) {
	env := newTestEnv(Options{})

	got, err := env.exec.ProcessRequest(context.Background(), "read the file ghost.txt", nil)

	require.NoError(t, err)
	assert.Equal(t, "File not found: ghost.txt. Would you like me to create it instead?", got)
}

func TestProcessRequest_CreateFileNeedsModel(t *testing.T) {
	env := newTestEnv(Options{AutoApprove: true})
	env.model.reply = "here is the generated file"

	got, err := env.exec.ProcessRequest(context.Background(), "create a file called notes.txt", nil)

	require.NoError(t, err)
	assert.Equal(t, "I'll help you create that file. Let me generate appropriate content...\n\nhere is the generated file", got)
	assert.Equal(t, 1, env.model.calls)
}

func TestProcessRequest_EditDeniedWithoutApproval(t *testing.T) {
	env := newTestEnv(Options{})
	env.fs.files["main.go"] = "package main"

	got, err := env.exec.ProcessRequest(context.Background(), "edit main.go", nil)

	require.NoError(t, err)
	assert.Contains(t, got, "I don't have permission to perform this operation")
}

func TestProcessRequest_EditMissingTarget(t *testing.T) {
	env := newTestEnv(Options{AutoApprove: true})

	got, err := env.exec.ProcessRequest(context.Background(), "edit the file", nil)

	require.NoError(t, err)
	assert.Contains(t, got, "Please specify which file you'd like me to edit.")
	assert.NotContains(t, got, "I'll help you edit .")
}

func TestProcessRequest_GitStatusOutsideRepo(t *testing.T) {
	env := newTestEnv(Options{AutoApprove: true})
	env.git.isRepo = false

	got, err := env.exec.ProcessRequest(context.Background(), "git status", nil)

	require.NoError(t, err)
	assert.Equal(t, "This directory is not a git repository.", got)
}

func TestProcessRequest_GitStatus(t *testing.T) {
	env := newTestEnv(Options{AutoApprove: true})
	env.git.status = &tools.GitStatus{
		Branch:   "main",
		Modified: []string{"a.go"},
		IsDirty:  true,
	}

	got, err := env.exec.ProcessRequest(context.Background(), "git status", nil)

	require.NoError(t, err)
	assert.Equal(t, "Repository: main\nModified: a.go", got)
}

func TestProcessRequest_GitDiffClean(t *testing.T) {
	env := newTestEnv(Options{AutoApprove: true})
	env.git.diff = "\n"

	got, err := env.exec.ProcessRequest(context.Background(), "git diff", nil)

	require.NoError(t, err)
	assert.Equal(t, "No changes to show (working tree is clean)", got)
}

func TestProcessRequest_SearchEndToEnd(t *testing.T) {
	env := newTestEnv(Options{})
	env.search.matches = []tools.SearchMatch{
		{File: "a.go", Line: 3, Content: "// TODO fix"},
		{File: "b.go", Line: 9, Content: "// TODO later"},
	}

	got, err := env.exec.ProcessRequest(context.Background(), "find all TODO comments", nil)

	require.NoError(t, err)
	assert.Equal(t, "TODO", env.search.pattern)
	assert.True(t, strings.HasPrefix(got, "Found 2 matches for 'TODO':"), got)
	assert.Contains(t, got, "  a.go:3 - // TODO fix")
}

func TestProcessRequest_SearchMissingTerm(t *testing.T) {
	env := newTestEnv(Options{})

	got, err := env.exec.ProcessRequest(context.Background(), "search for the", nil)

	require.NoError(t, err)
	assert.Equal(t, "Please specify what you'd like me to search for.", got)
}

func TestProcessRequest_BashCommand(t *testing.T) {
	env := newTestEnv(Options{AutoApprove: true})
	env.shell.result = &tools.CommandResult{Success: true, Stdout: "v20.1.0\n", Command: "npm version"}

	got, err := env.exec.ProcessRequest(context.Background(), "run npm version", nil)

	require.NoError(t, err)
	assert.Equal(t, "npm version", env.shell.command)
	assert.Equal(t, "$ npm version\nv20.1.0", got)
}

func TestProcessRequest_BashWhitelistFailure(t *testing.T) {
	env := newTestEnv(Options{AutoApprove: true})
	env.shell.result = &tools.CommandResult{
		Success: false,
		Error:   "command 'rm' not allowed for security reasons",
		Command: "rm -rf /",
	}

	got, err := env.exec.ProcessRequest(context.Background(), "run the command 'rm -rf /'", nil)

	require.NoError(t, err)
	assert.Equal(t, "$ rm -rf /\nError: command 'rm' not allowed for security reasons", got)
}

func TestProcessRequest_ModelFailureRecovers(t *testing.T) {
	env := newTestEnv(Options{})
	env.model.err = errors.New("connection failed: dial tcp: connection refused")

	got, err := env.exec.ProcessRequest(context.Background(), "hello there", nil)

	require.NoError(t, err)
	assert.Contains(t, got, "failed: connection failed")
	assert.Contains(t, got, "Suggestions:")
}

func TestPlan_NeedsModel(t *testing.T) {
	env := newTestEnv(Options{})

	tests := []struct {
		name  string
		input string
		want  bool
	}{
		{"create always needs model", "create a python script", true},
		{"plain read does not", "read the file config.json", false},
		{"conversational read does", "can you read the file config.json", true},
		{"explain marker", "run npm test and explain the output", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			plan := env.exec.Plan(tt.input)
			assert.Equal(t, tt.want, plan.NeedsModel)
		})
	}
}

func TestProcessRequest_MultiIntentIncludesToolContext(t *testing.T) {
	env := newTestEnv(Options{AutoApprove: true})
	env.fs.files["config.json"] = "{}"
	env.model.reply = "summary"

	got, err := env.exec.ProcessRequest(context.Background(), "show me config.json and the git status", nil)

	require.NoError(t, err)
	assert.Contains(t, got, "config.json:\n{}")
	assert.Contains(t, got, "Repository: main")
	assert.True(t, strings.HasSuffix(got, "summary"), got)

	// The model saw the tool output as context.
	require.NotEmpty(t, env.model.messages)
	var sawToolContext bool
	for _, m := range env.model.messages {
		if m.Role == "system" && strings.Contains(m.Content, "Tool output") {
			sawToolContext = true
		}
	}
	assert.True(t, sawToolContext)
}

type countingRecorder struct {
	tools int
}

func (r *countingRecorder) RecordTool() { r.tools++ }

func TestProcessRequest_RecordsToolExecutions(t *testing.T) {
	rec := &countingRecorder{}
	env := newTestEnv(Options{AutoApprove: true, Recorder: rec})
	env.fs.files["config.json"] = "{}"

	_, err := env.exec.ProcessRequest(context.Background(), "show me config.json and the git status", nil)
	require.NoError(t, err)
	assert.Equal(t, 2, rec.tools)

	_, err = env.exec.ProcessRequest(context.Background(), "hello there", nil)
	require.NoError(t, err)
	assert.Equal(t, 2, rec.tools, "pure conversation executes no tools")
}

func TestFormatCombinedResponse(t *testing.T) {
	success := ToolResult{Intent: intent.ToolIntent{Type: intent.FileOp}, Success: true, Output: "ok"}
	failure := ToolResult{Intent: intent.ToolIntent{Type: intent.GitOp}, Success: false, Output: "bad"}

	tests := []struct {
		name    string
		results []ToolResult
		reply   string
		want    string
	}{
		{"empty", nil, "", "No output generated."},
		{"model only", nil, "hi", "hi"},
		{"success before failure", []ToolResult{failure, success}, "", "ok\n\nbad"},
		{"all parts", []ToolResult{success, failure}, "hi", "ok\n\nbad\n\nhi"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, FormatCombinedResponse(tt.results, tt.reply))
		})
	}
}
