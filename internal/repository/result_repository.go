package repository

import (
	"context"

	"github.com/finlitportal/finlit-backend/internal/model"
	"github.com/jackc/pgx/v5/pgxpool"
)

// ResultRepository handles persisted test results.
type ResultRepository struct {
	pool *pgxpool.Pool
}

// NewResultRepository creates a new ResultRepository.
func NewResultRepository(pool *pgxpool.Pool) *ResultRepository {
	return &ResultRepository{pool: pool}
}

// Upsert saves a result, replacing any previous result for the same
// user and test.
func (r *ResultRepository) Upsert(ctx context.Context, res *model.TestResult) error {
	return r.pool.QueryRow(ctx,
		`INSERT INTO test_results
			(user_id, test_id, test_title, test_category, percentage,
			 correct_answers, total_questions, is_completed, answers, completed_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, NOW())
		 ON CONFLICT (user_id, test_id) DO UPDATE SET
			test_title      = EXCLUDED.test_title,
			test_category   = EXCLUDED.test_category,
			percentage      = EXCLUDED.percentage,
			correct_answers = EXCLUDED.correct_answers,
			total_questions = EXCLUDED.total_questions,
			is_completed    = EXCLUDED.is_completed,
			answers         = EXCLUDED.answers,
			completed_at    = NOW()
		 RETURNING result_id, completed_at`,
		res.UserID, res.TestID, res.TestTitle, res.TestCategory, res.Percentage,
		res.CorrectAnswers, res.TotalQuestions, res.IsCompleted, res.Answers,
	).Scan(&res.ResultID, &res.CompletedAt)
}

// ListByUser retrieves a user's results, most recent first.
func (r *ResultRepository) ListByUser(ctx context.Context, userID int) ([]model.TestResult, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT result_id, user_id, test_id, test_title, test_category, percentage,
			correct_answers, total_questions, is_completed, answers, completed_at
		 FROM test_results WHERE user_id = $1
		 ORDER BY completed_at DESC`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	results := []model.TestResult{}
	for rows.Next() {
		var res model.TestResult
		if err := rows.Scan(
			&res.ResultID, &res.UserID, &res.TestID, &res.TestTitle, &res.TestCategory,
			&res.Percentage, &res.CorrectAnswers, &res.TotalQuestions, &res.IsCompleted,
			&res.Answers, &res.CompletedAt,
		); err != nil {
			return nil, err
		}
		results = append(results, res)
	}
	return results, rows.Err()
}

// StatsByUser aggregates a user's completed results.
func (r *ResultRepository) StatsByUser(ctx context.Context, userID int) (*model.UserStats, error) {
	stats := &model.UserStats{}
	err := r.pool.QueryRow(ctx,
		`SELECT COUNT(*), COALESCE(AVG(percentage), 0)
		 FROM test_results WHERE user_id = $1 AND is_completed`, userID,
	).Scan(&stats.TotalTests, &stats.AvgScore)
	if err != nil {
		return nil, err
	}
	return stats, nil
}
