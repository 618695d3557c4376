package model

import (
	"encoding/json"
	"time"
)

// TestResult is a persisted record of a completed (or abandoned) attempt,
// one row per user+test. A new attempt for the same test overwrites the
// previous result.
type TestResult struct {
	ResultID       int             `json:"result_id"`
	UserID         int             `json:"-"`
	TestID         string          `json:"test_id"`
	TestTitle      *string         `json:"test_title"`
	TestCategory   *string         `json:"test_category"`
	Percentage     int             `json:"percentage"`
	CorrectAnswers int             `json:"correct_answers"`
	TotalQuestions int             `json:"total_questions"`
	IsCompleted    bool            `json:"is_completed"`
	Answers        json.RawMessage `json:"answers,omitempty"`
	CompletedAt    time.Time       `json:"completed_at"`
}

// SaveResultRequest is the payload for persisting a test result.
type SaveResultRequest struct {
	TestID         string          `json:"test_id" binding:"required"`
	TestTitle      string          `json:"test_title" binding:"omitempty,max=255"`
	TestCategory   string          `json:"test_category" binding:"omitempty,max=100"`
	Percentage     *int            `json:"percentage" binding:"required,gte=0,lte=100"`
	CorrectAnswers *int            `json:"correct_answers" binding:"required,gte=0"`
	TotalQuestions *int            `json:"total_questions" binding:"required,gte=0"`
	Answers        json.RawMessage `json:"answers" binding:"omitempty"`
	IsCompleted    *bool           `json:"is_completed" binding:"omitempty"`
}

// UserStats aggregates a user's test history for the cabinet view.
type UserStats struct {
	TotalTests int     `json:"total_tests"`
	AvgScore   float64 `json:"avg_score"`
}
