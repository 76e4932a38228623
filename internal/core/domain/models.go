package domain

import "time"

// RegisterRequest is the signup form payload.
type RegisterRequest struct {
	Email       string `json:"email" binding:"required,email"`
	DisplayName string `json:"display_name" binding:"required"`
	Password    string `json:"password" binding:"required"`
}

// LoginRequest is the login form payload.
type LoginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// User is the public view of a registered identity.
type User struct {
	Email       string `json:"email"`
	DisplayName string `json:"display_name"`
}

// AuthResponse is returned after a successful login or registration.
// Redirect is the navigable address carrying the session token.
type AuthResponse struct {
	Token    string `json:"token"`
	Redirect string `json:"redirect"`
	User     User   `json:"user"`
}

// ScoreEntry is one leaderboard row.
type ScoreEntry struct {
	Email   string `json:"email"`
	Subject string `json:"subject"`
	Score   int    `json:"score"`
}

// HistoryEntry is one row of a user's result history.
type HistoryEntry struct {
	Subject string    `json:"subject"`
	Score   int       `json:"score"`
	Date    time.Time `json:"date"`
}

// Action enumerates the verbs recorded in the activity log.
type Action string

const (
	ActionSignup       Action = "Signup"
	ActionLogin        Action = "Login"
	ActionLogout       Action = "Logout"
	ActionVisit        Action = "Visit"
	ActionAnswerCheck  Action = "AnswerCheck"
	ActionQuizGenerate Action = "QuizGenerate"
	ActionDoubtAsk     Action = "DoubtAsk"
	ActionChat         Action = "Chat"
)

// ActivityEvent is one append-only audit record.
type ActivityEvent struct {
	Email     string
	Action    Action
	Details   string
	Timestamp time.Time
}
