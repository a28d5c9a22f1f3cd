// Package store persists emitted dedup.MatchResult pairs to Postgres for
// audit purposes. It is optional: cmd/corpmatchd only wires it up when
// config.Config.AuditStoreEnabled is true.
package store

import (
	"context"
	"net/http"
	"time"

	"github.com/Gobusters/ectoerror/httperror"
	"github.com/Gobusters/ectologger"
	"github.com/google/uuid"
	"github.com/huandu/go-sqlbuilder"
	"github.com/jmoiron/sqlx"

	"github.com/Ramsey-B/corpmatch/pkg/dedup"
	"github.com/Ramsey-B/corpmatch/pkg/fingerprint"
	"github.com/Ramsey-B/corpmatch/pkg/tracing"
)

// Repository handles audit-row persistence for emitted duplicate pairs.
type Repository struct {
	db     *sqlx.DB
	logger ectologger.Logger
}

// NewRepository creates a new audit repository.
func NewRepository(db *sqlx.DB, logger ectologger.Logger) *Repository {
	return &Repository{db: db, logger: logger}
}

// RecordMatch inserts one MatchResult as an audit row, skipping the insert
// if a row with the same fingerprint already exists.
func (r *Repository) RecordMatch(ctx context.Context, result dedup.MatchResult, countryCode string) error {
	ctx, span := tracing.StartSpan(ctx, "store.Repository.RecordMatch")
	defer span.End()

	row := AuditRow{
		ID:          uuid.New().String(),
		Fingerprint: fingerprint.FromNamePair(result.Name1, result.Name2, countryCode),
		Name1:       result.Name1,
		Name2:       result.Name2,
		Score:       result.Score,
		CountryCode: countryCode,
		CreatedAt:   time.Now().UTC(),
	}

	sb := sqlbuilder.PostgreSQL.NewInsertBuilder()
	sb.InsertInto("match_audit")
	sb.Cols("id", "fingerprint", "name_1", "name_2", "score", "country_code", "created_at")
	sb.Values(row.ID, row.Fingerprint, row.Name1, row.Name2, row.Score, row.CountryCode, row.CreatedAt)

	query, args := sb.Build()
	query += " ON CONFLICT (fingerprint) DO NOTHING"

	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		r.logger.WithContext(ctx).WithError(err).WithFields(map[string]any{
			"name_1": row.Name1,
			"name_2": row.Name2,
		}).Error("Failed to record match audit row")
		return httperror.NewHTTPError(http.StatusInternalServerError, "failed to record match audit row")
	}

	return nil
}

// RecordMatches inserts a batch of MatchResults in one statement.
func (r *Repository) RecordMatches(ctx context.Context, results []dedup.MatchResult, countryCode string) error {
	ctx, span := tracing.StartSpan(ctx, "store.Repository.RecordMatches")
	defer span.End()

	if len(results) == 0 {
		return nil
	}

	sb := sqlbuilder.PostgreSQL.NewInsertBuilder()
	sb.InsertInto("match_audit")
	sb.Cols("id", "fingerprint", "name_1", "name_2", "score", "country_code", "created_at")

	now := time.Now().UTC()
	for _, result := range results {
		sb.Values(
			uuid.New().String(),
			fingerprint.FromNamePair(result.Name1, result.Name2, countryCode),
			result.Name1,
			result.Name2,
			result.Score,
			countryCode,
			now,
		)
	}

	query, args := sb.Build()
	query += " ON CONFLICT (fingerprint) DO NOTHING"

	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		r.logger.WithContext(ctx).WithError(err).WithFields(map[string]any{
			"count": len(results),
		}).Error("Failed to record match audit batch")
		return httperror.NewHTTPError(http.StatusInternalServerError, "failed to record match audit batch")
	}

	return nil
}

// ListRecent retrieves the most recently recorded audit rows, newest first.
func (r *Repository) ListRecent(ctx context.Context, limit int) ([]AuditRow, error) {
	ctx, span := tracing.StartSpan(ctx, "store.Repository.ListRecent")
	defer span.End()

	if limit < 1 || limit > 500 {
		limit = 100
	}

	sb := sqlbuilder.PostgreSQL.NewSelectBuilder()
	sb.Select("id", "fingerprint", "name_1", "name_2", "score", "country_code", "created_at")
	sb.From("match_audit")
	sb.OrderBy("created_at DESC")
	sb.Limit(limit)

	query, args := sb.Build()
	var rows []AuditRow
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		r.logger.WithContext(ctx).WithError(err).Error("Failed to list audit rows")
		return nil, httperror.NewHTTPError(http.StatusInternalServerError, "failed to list audit rows")
	}

	return rows, nil
}
