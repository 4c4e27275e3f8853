// Package authz evaluates row-level access policies at the data-access
// boundary. Policies are declarative rows loaded from the store; any
// (table, operation) pair without a policy is denied, so handler or view
// code can never widen access by forgetting a check.
package authz

import (
	"context"
	"fmt"

	apperrors "github.com/dfarias/linguaflash/internal/errors"
	"github.com/dfarias/linguaflash/internal/logger"
	"github.com/dfarias/linguaflash/internal/session"
)

// Operation is a gated data-store operation.
type Operation string

const (
	OpSelect Operation = "select"
	OpInsert Operation = "insert"
	OpUpdate Operation = "update"
)

// Table names the engine binds policies to. These match the SQL schema by
// name; renaming a table breaks its policies.
const (
	TableFlashcards   = "flashcards"
	TableLevels       = "levels"
	TableQuizzes      = "quizzes"
	TableUserProgress = "user_progress"
	TableUserLevels   = "user_levels"
	TableQuizAttempts = "quiz_attempts"
)

// Rule vocabulary.
const (
	// RuleAuthenticated allows any authenticated identity.
	RuleAuthenticated = "authenticated"
	// RuleOwner allows only the identity the row belongs to. On update the
	// owner must match both before and after the write.
	RuleOwner = "owner"
)

// Policy is one declarative rule gating an operation on a table.
type Policy struct {
	Name      string
	Table     string
	Operation Operation
	Rule      string
}

// Attributes carry the row attributes a rule may inspect. Owner is the
// row's user_id (empty for catalog rows). NewOwner is the user_id after the
// write and is only consulted on update.
type Attributes struct {
	Owner    string
	NewOwner string
}

// Engine holds the loaded policy set and answers authorization checks.
type Engine struct {
	// table -> operation -> policies
	policies map[string]map[Operation][]Policy
}

// NewEngine builds an engine from the loaded policy set. Unknown rule names
// are configuration defects and fail construction.
func NewEngine(policies []Policy) (*Engine, error) {
	e := &Engine{policies: make(map[string]map[Operation][]Policy)}
	for _, p := range policies {
		switch p.Rule {
		case RuleAuthenticated, RuleOwner:
		default:
			return nil, fmt.Errorf("policy %q on %s: unknown rule %q", p.Name, p.Table, p.Rule)
		}
		byOp := e.policies[p.Table]
		if byOp == nil {
			byOp = make(map[Operation][]Policy)
			e.policies[p.Table] = byOp
		}
		byOp[p.Operation] = append(byOp[p.Operation], p)
	}
	return e, nil
}

// Authorize checks whether the session may perform op on table given the
// row attributes. It returns nil when some policy allows the request and an
// ACCESS_DENIED AppError otherwise.
func (e *Engine) Authorize(ctx context.Context, s session.Session, table string, op Operation, attrs Attributes) error {
	log := logger.FromContext(ctx).WithPrefix("authz")

	if !s.Authenticated() {
		log.Debug("denied: unauthenticated request for %s on %s", op, table)
		return apperrors.NewUnauthenticatedError()
	}

	for _, p := range e.policies[table][op] {
		if evalRule(p.Rule, s, op, attrs) {
			log.Debug("allowed by policy %q: %s on %s", p.Name, op, table)
			return nil
		}
	}

	log.Debug("denied: no policy allows %s on %s for user=%s", op, table, s.UserID)
	return apperrors.NewAccessDeniedError(fmt.Sprintf("%s on %s is not allowed", op, table))
}

func evalRule(rule string, s session.Session, op Operation, attrs Attributes) bool {
	switch rule {
	case RuleAuthenticated:
		return true
	case RuleOwner:
		if attrs.Owner != s.UserID {
			return false
		}
		// Identity cannot be reassigned by an update.
		if op == OpUpdate && attrs.NewOwner != s.UserID {
			return false
		}
		return true
	}
	return false
}
