package authz_test

import (
	"context"
	"fmt"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dfarias/linguaflash/internal/authz"
	apperrors "github.com/dfarias/linguaflash/internal/errors"
	"github.com/dfarias/linguaflash/internal/session"
)

func newTestEngine(t *testing.T) *authz.Engine {
	t.Helper()
	engine, err := authz.NewEngine([]authz.Policy{
		{Name: "flashcards_select", Table: authz.TableFlashcards, Operation: authz.OpSelect, Rule: authz.RuleAuthenticated},
		{Name: "progress_select", Table: authz.TableUserProgress, Operation: authz.OpSelect, Rule: authz.RuleOwner},
		{Name: "progress_insert", Table: authz.TableUserProgress, Operation: authz.OpInsert, Rule: authz.RuleOwner},
		{Name: "progress_update", Table: authz.TableUserProgress, Operation: authz.OpUpdate, Rule: authz.RuleOwner},
		{Name: "attempts_insert", Table: authz.TableQuizAttempts, Operation: authz.OpInsert, Rule: authz.RuleOwner},
	})
	require.NoError(t, err)
	return engine
}

func TestNewEngine_RejectsUnknownRule(t *testing.T) {
	_, err := authz.NewEngine([]authz.Policy{
		{Name: "bad", Table: authz.TableFlashcards, Operation: authz.OpSelect, Rule: "sometimes"},
	})
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "unknown rule")
}

func TestAuthorize_UnauthenticatedIsAlwaysDenied(t *testing.T) {
	engine := newTestEngine(t)
	ctx := context.Background()

	err := engine.Authorize(ctx, session.Anonymous, authz.TableFlashcards, authz.OpSelect, authz.Attributes{})
	require.Error(t, err)
	assert.True(t, apperrors.IsCode(err, apperrors.ErrCodeAccessDenied))
}

func TestAuthorize_AuthenticatedCatalogRead(t *testing.T) {
	engine := newTestEngine(t)
	ctx := context.Background()
	sess := session.Session{UserID: "user-a"}

	err := engine.Authorize(ctx, sess, authz.TableFlashcards, authz.OpSelect, authz.Attributes{})
	assert.NoError(t, err)
}

func TestAuthorize_DefaultDeny(t *testing.T) {
	engine := newTestEngine(t)
	ctx := context.Background()
	sess := session.Session{UserID: "user-a"}

	tests := []struct {
		name  string
		table string
		op    authz.Operation
		attrs authz.Attributes
	}{
		{"catalog insert has no policy", authz.TableFlashcards, authz.OpInsert, authz.Attributes{}},
		{"catalog update has no policy", authz.TableFlashcards, authz.OpUpdate, authz.Attributes{}},
		{"unknown table", "secrets", authz.OpSelect, authz.Attributes{}},
		{"op without policy on per-user table", authz.TableQuizAttempts, authz.OpUpdate, authz.Attributes{Owner: "user-a", NewOwner: "user-a"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := engine.Authorize(ctx, sess, tt.table, tt.op, tt.attrs)
			require.Error(t, err)
			assert.True(t, apperrors.IsCode(err, apperrors.ErrCodeAccessDenied))
		})
	}
}

func TestAuthorize_OwnerRule(t *testing.T) {
	engine := newTestEngine(t)
	ctx := context.Background()
	sess := session.Session{UserID: "user-a"}

	// Own rows are fine.
	ownAttrs := authz.Attributes{Owner: "user-a", NewOwner: "user-a"}
	assert.NoError(t, engine.Authorize(ctx, sess, authz.TableUserProgress, authz.OpSelect, ownAttrs))
	assert.NoError(t, engine.Authorize(ctx, sess, authz.TableUserProgress, authz.OpInsert, ownAttrs))
	assert.NoError(t, engine.Authorize(ctx, sess, authz.TableUserProgress, authz.OpUpdate, ownAttrs))

	// Someone else's rows are not.
	otherAttrs := authz.Attributes{Owner: "user-b", NewOwner: "user-b"}
	for _, op := range []authz.Operation{authz.OpSelect, authz.OpInsert, authz.OpUpdate} {
		err := engine.Authorize(ctx, sess, authz.TableUserProgress, op, otherAttrs)
		require.Error(t, err, "op=%s", op)
		assert.True(t, apperrors.IsCode(err, apperrors.ErrCodeAccessDenied))
	}
}

func TestAuthorize_UpdateCannotReassignOwner(t *testing.T) {
	engine := newTestEngine(t)
	ctx := context.Background()
	sess := session.Session{UserID: "user-a"}

	err := engine.Authorize(ctx, sess, authz.TableUserProgress, authz.OpUpdate,
		authz.Attributes{Owner: "user-a", NewOwner: "user-b"})
	require.Error(t, err)
	assert.True(t, apperrors.IsCode(err, apperrors.ErrCodeAccessDenied))
}

func TestAuthorize_IsolationAcrossRandomIdentityPairs(t *testing.T) {
	engine := newTestEngine(t)
	ctx := context.Background()

	for i := 0; i < 50; i++ {
		a := uuid.NewString()
		b := uuid.NewString()
		sessA := session.Session{UserID: a}
		attrsB := authz.Attributes{Owner: b, NewOwner: b}

		t.Run(fmt.Sprintf("pair_%02d", i), func(t *testing.T) {
			for _, op := range []authz.Operation{authz.OpSelect, authz.OpInsert, authz.OpUpdate} {
				err := engine.Authorize(ctx, sessA, authz.TableUserProgress, op, attrsB)
				require.Error(t, err, "identity %s must not touch rows of %s", a, b)
			}
			// And each identity can still reach its own rows.
			attrsA := authz.Attributes{Owner: a, NewOwner: a}
			require.NoError(t, engine.Authorize(ctx, sessA, authz.TableUserProgress, authz.OpSelect, attrsA))
		})
	}
}
