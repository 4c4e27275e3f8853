package sqlite

import (
	"context"
	"database/sql"

	"github.com/dfarias/linguaflash/internal/authz"
	"github.com/dfarias/linguaflash/internal/logger"
	"github.com/dfarias/linguaflash/internal/repository"
)

type policyRepository struct {
	db *sql.DB
}

// NewPolicyRepository creates a new PolicyRepository implementation
func NewPolicyRepository(db *sql.DB) repository.PolicyRepository {
	return &policyRepository{db: db}
}

func (r *policyRepository) List(ctx context.Context) ([]authz.Policy, error) {
	log := logger.FromContext(ctx).WithPrefix("policy_repo")
	log.Debug("loading access policies")

	rows, err := r.db.QueryContext(ctx, `
SELECT name, table_name, operation, rule
FROM access_policies
ORDER BY table_name, name
`)
	if err != nil {
		log.Error("failed to load policies: %v", err)
		return nil, err
	}
	defer rows.Close()

	var policies []authz.Policy
	for rows.Next() {
		var p authz.Policy
		var op string
		if err := rows.Scan(&p.Name, &p.Table, &op, &p.Rule); err != nil {
			log.Error("failed to scan policy row: %v", err)
			return nil, err
		}
		p.Operation = authz.Operation(op)
		policies = append(policies, p)
	}
	log.Debug("loaded %d policies", len(policies))
	return policies, rows.Err()
}
