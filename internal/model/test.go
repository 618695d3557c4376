package model

// Question is a single multiple-choice question as authored in a test
// definition file. Option order here is the original (authored) order;
// CorrectIndex points into it.
type Question struct {
	ID                 string   `json:"id"`
	Text               string   `json:"text"`
	Options            []string `json:"options"`
	CorrectIndex       int      `json:"correctIndex"`
	CorrectExplanation string   `json:"correctExplanation,omitempty"`
}

// Test is a test definition loaded from the content tree. ID, Category and
// Variant are always normalized by the resolver to the folder and file name
// actually read, regardless of what the JSON document claims.
type Test struct {
	ID        string     `json:"id"`
	Title     string     `json:"title"`
	Category  string     `json:"category"`
	Variant   string     `json:"variant"`
	Questions []Question `json:"questions"`
}

// TestInfo is the catalog listing entry for a discoverable test.
type TestInfo struct {
	ID       string `json:"id"`
	Title    string `json:"title"`
	Category string `json:"category"`
	Variant  string `json:"variant"`
}

// SkippedTest records a file found during catalog discovery that could not
// be resolved into a valid test.
type SkippedTest struct {
	ID     string `json:"id"`
	Reason string `json:"reason"`
}

// Category is a top-level content folder mapped to its UI-facing key.
type Category struct {
	Key   string `json:"key"`
	Title string `json:"title"`
}

// QuestionView is a question as presented to the client: options are in
// displayed (shuffled) order and the correct answer is stripped.
type QuestionView struct {
	ID      string   `json:"id"`
	Text    string   `json:"text"`
	Options []string `json:"options"`
}

// TestView is the sanitized test payload returned by Start.
type TestView struct {
	ID        string         `json:"id"`
	Title     string         `json:"title"`
	Category  string         `json:"category"`
	Variant   string         `json:"variant"`
	Questions []QuestionView `json:"questions"`
}

// StartResponse pairs a fresh session id with the sanitized test.
type StartResponse struct {
	SessionID string   `json:"session_id"`
	Test      TestView `json:"test"`
}

// AnswerRequest is the payload for answering a single question.
// SelectedIndex is a displayed option position, not an original one.
type AnswerRequest struct {
	SessionID     string `json:"session_id" binding:"required,uuid"`
	QuestionID    string `json:"question_id" binding:"required"`
	SelectedIndex *int   `json:"selected_index" binding:"required,gte=0"`
}

// AnswerResult reports whether the selection was correct.
// CorrectOptionIndex is the displayed position of the correct option, so the
// client can reveal it without ever seeing the original answer key.
// ExplanationForSelected is always the correct-answer explanation, whatever
// the user picked.
type AnswerResult struct {
	Correct                bool    `json:"correct"`
	CorrectOptionIndex     int     `json:"correct_option_index"`
	ExplanationForSelected *string `json:"explanation_for_selected"`
}

// SubmitRequest is the payload for scoring a session.
type SubmitRequest struct {
	SessionID string `json:"session_id" binding:"required,uuid"`
}

// SubmitResult is the final score of an attempt. Score is a percentage
// rounded half-up.
type SubmitResult struct {
	Total   int `json:"total"`
	Correct int `json:"correct"`
	Score   int `json:"score"`
}
