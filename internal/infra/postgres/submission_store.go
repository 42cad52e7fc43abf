package postgres

import (
	"context"
	"encoding/json"
	"fmt"

	"assessment-service/internal/domain"
	"github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/pgxpool"
)

// SubmissionStore persists assessment records in Postgres. Only inserts and
// reads exist; the tables are append-only by contract. Both records of a
// submission are written in one transaction, so a failure leaves neither.
type SubmissionStore struct {
	pool *pgxpool.Pool
}

func NewSubmissionStore(pool *pgxpool.Pool) *SubmissionStore {
	return &SubmissionStore{pool: pool}
}

func (s *SubmissionStore) CreateRecords(ctx context.Context, sub domain.Submission, res domain.SubmissionResult) (domain.Submission, domain.SubmissionResult, error) {
	answers, err := json.Marshal(sub.Answers)
	if err != nil {
		return domain.Submission{}, domain.SubmissionResult{}, fmt.Errorf("marshal answers: %w", err)
	}
	scores, err := json.Marshal(sub.Scores)
	if err != nil {
		return domain.Submission{}, domain.SubmissionResult{}, fmt.Errorf("marshal scores: %w", err)
	}
	resAnswers, err := json.Marshal(res.Answers)
	if err != nil {
		return domain.Submission{}, domain.SubmissionResult{}, fmt.Errorf("marshal result answers: %w", err)
	}
	resScores, err := json.Marshal(res.Scores)
	if err != nil {
		return domain.Submission{}, domain.SubmissionResult{}, fmt.Errorf("marshal result scores: %w", err)
	}

	tx, err := s.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return domain.Submission{}, domain.SubmissionResult{}, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback(ctx)

	err = tx.QueryRow(ctx,
		`INSERT INTO assessments (owner_id, answers, scores)
		 VALUES ($1, $2, $3)
		 RETURNING id::text, created_at`,
		sub.OwnerID, answers, scores,
	).Scan(&sub.ID, &sub.CreatedAt)
	if err != nil {
		return domain.Submission{}, domain.SubmissionResult{}, fmt.Errorf("insert assessment: %w", err)
	}

	err = tx.QueryRow(ctx,
		`INSERT INTO assessment_results (first_name, last_name, gender, user_email, answers, scores, submitted_by)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)
		 RETURNING id::text, created_at`,
		res.Profile.FirstName, res.Profile.LastName, res.Profile.Gender, res.Profile.Email,
		resAnswers, resScores, res.SubmittedBy,
	).Scan(&res.ID, &res.CreatedAt)
	if err != nil {
		return domain.Submission{}, domain.SubmissionResult{}, fmt.Errorf("insert assessment result: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return domain.Submission{}, domain.SubmissionResult{}, fmt.Errorf("commit submission: %w", err)
	}
	return sub, res, nil
}

func (s *SubmissionStore) List(ctx context.Context) ([]domain.Submission, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT id::text, owner_id, answers, scores, created_at
		 FROM assessments
		 ORDER BY created_at DESC, id DESC`)
	if err != nil {
		return nil, fmt.Errorf("list assessments: %w", err)
	}
	defer rows.Close()

	var subs []domain.Submission
	for rows.Next() {
		var sub domain.Submission
		var answers, scores []byte
		if err := rows.Scan(&sub.ID, &sub.OwnerID, &answers, &scores, &sub.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan assessment: %w", err)
		}
		if err := json.Unmarshal(answers, &sub.Answers); err != nil {
			return nil, fmt.Errorf("unmarshal answers: %w", err)
		}
		if err := json.Unmarshal(scores, &sub.Scores); err != nil {
			return nil, fmt.Errorf("unmarshal scores: %w", err)
		}
		subs = append(subs, sub)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate assessments: %w", err)
	}
	return subs, nil
}

func (s *SubmissionStore) Count(ctx context.Context) (int, error) {
	var n int
	if err := s.pool.QueryRow(ctx, `SELECT COUNT(*) FROM assessments`).Scan(&n); err != nil {
		return 0, fmt.Errorf("count assessments: %w", err)
	}
	return n, nil
}
