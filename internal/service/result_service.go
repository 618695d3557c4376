package service

import (
	"context"

	"github.com/finlitportal/finlit-backend/internal/model"
	"github.com/finlitportal/finlit-backend/internal/repository"
)

// ResultService persists and lists completed test attempts.
type ResultService struct {
	results *repository.ResultRepository
}

// NewResultService creates a new ResultService.
func NewResultService(results *repository.ResultRepository) *ResultService {
	return &ResultService{results: results}
}

// Save upserts the caller's result for one test.
func (s *ResultService) Save(ctx context.Context, userID int, req *model.SaveResultRequest) (*model.TestResult, error) {
	res := &model.TestResult{
		UserID:         userID,
		TestID:         req.TestID,
		Percentage:     *req.Percentage,
		CorrectAnswers: *req.CorrectAnswers,
		TotalQuestions: *req.TotalQuestions,
		IsCompleted:    true,
		Answers:        req.Answers,
	}
	if req.TestTitle != "" {
		title := req.TestTitle
		res.TestTitle = &title
	}
	if req.TestCategory != "" {
		category := req.TestCategory
		res.TestCategory = &category
	}
	if req.IsCompleted != nil {
		res.IsCompleted = *req.IsCompleted
	}

	if err := s.results.Upsert(ctx, res); err != nil {
		return nil, err
	}
	return res, nil
}

// ListByUser retrieves the caller's results, most recent first.
func (s *ResultService) ListByUser(ctx context.Context, userID int) ([]model.TestResult, error) {
	return s.results.ListByUser(ctx, userID)
}
