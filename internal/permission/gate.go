// Package permission gates side-effecting operations behind
// session-scoped approvals.
package permission

// OperationType identifies an operation class that may require approval.
type OperationType int

const (
	ReadFile OperationType = iota
	WriteFile
	DeleteFile
	ExecuteCommand
	GitOperation
	NetworkRequest
)

// allOperations lists every known operation type.
var allOperations = []OperationType{
	ReadFile, WriteFile, DeleteFile, ExecuteCommand, GitOperation, NetworkRequest,
}

// String returns the operation name.
func (o OperationType) String() string {
	switch o {
	case ReadFile:
		return "read_file"
	case WriteFile:
		return "write_file"
	case DeleteFile:
		return "delete_file"
	case ExecuteCommand:
		return "execute_command"
	case GitOperation:
		return "git_operation"
	case NetworkRequest:
		return "network_request"
	default:
		return "unknown"
	}
}

// Description returns a human-readable phrase for approval prompts.
func (o OperationType) Description() string {
	switch o {
	case WriteFile:
		return "modify files"
	case DeleteFile:
		return "delete files"
	case ExecuteCommand:
		return "execute commands"
	case GitOperation:
		return "perform git operations"
	case NetworkRequest:
		return "make network requests"
	default:
		return o.String()
	}
}

// Decision is the outcome of an approval escalation.
type Decision int

const (
	// Deny rejects the operation. An interrupted escalation also denies.
	Deny Decision = iota

	// ApproveOnce allows the operation without recording it.
	ApproveOnce

	// ApproveSession allows the operation and every future occurrence
	// within this session.
	ApproveSession
)

// Approver is the external channel a Gate escalates to when an operation
// is neither safe nor already approved.
type Approver interface {
	Approve(op OperationType, description string) Decision
}

// ApproverFunc adapts a function to the Approver interface.
type ApproverFunc func(op OperationType, description string) Decision

func (f ApproverFunc) Approve(op OperationType, description string) Decision {
	return f(op, description)
}

// Gate decides whether side-effecting operations may proceed. Read-only
// file access never consults session state.
type Gate struct {
	approver Approver
	approved map[OperationType]bool
}

// NewGate creates a permission gate. A nil approver denies everything
// that is not safe, session-approved, or auto-approved.
func NewGate(approver Approver) *Gate {
	return &Gate{
		approver: approver,
		approved: make(map[OperationType]bool),
	}
}

// Check reports whether the operation may proceed. Safe operations always
// pass. With autoApprove set, the operation is granted and recorded for
// the rest of the session.
func (g *Gate) Check(op OperationType, description string, autoApprove bool) bool {
	if op == ReadFile {
		return true
	}
	if g.approved[op] {
		return true
	}
	if autoApprove {
		g.approved[op] = true
		return true
	}
	if g.approver == nil {
		return false
	}
	switch g.approver.Approve(op, description) {
	case ApproveOnce:
		return true
	case ApproveSession:
		g.approved[op] = true
		return true
	default:
		return false
	}
}

// ApproveAllForSession records every known operation as approved.
func (g *Gate) ApproveAllForSession() {
	for _, op := range allOperations {
		g.approved[op] = true
	}
}

// Reset clears all session approvals.
func (g *Gate) Reset() {
	g.approved = make(map[OperationType]bool)
}

// Approved reports whether the operation is recorded as session-approved.
func (g *Gate) Approved(op OperationType) bool {
	return g.approved[op]
}
