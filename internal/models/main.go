// Package models defines the core data structures for users and flashcards.
package models

// User represents a registered account.
type User struct {
	// Name is the display name chosen at registration.
	Name string `json:"name"`
	// Email is the unique account identifier, compared case-insensitively.
	Email string `json:"email"`
	// Password is the stored credential. It is never serialized.
	Password string `json:"-"`
	// CreatedAt is the registration timestamp string ("2006-01-02 15:04:05").
	CreatedAt string `json:"created_at"`
}

// Flashcard represents a single question/answer card owned by a user.
type Flashcard struct {
	// ID is a positive integer unique across the whole table.
	ID int `json:"id"`
	// UserEmail is the owner's email, compared case-insensitively.
	UserEmail string `json:"user_email"`
	// Name is an optional display title.
	Name string `json:"name"`
	// Question is the prompt text. Required.
	Question string `json:"question"`
	// Answer is the answer text. Required.
	Answer string `json:"answer"`
	// ImageQuestion is an optional base64-encoded image shown with the question.
	ImageQuestion string `json:"image_question"`
	// ImageAnswer is an optional base64-encoded image shown with the answer.
	ImageAnswer string `json:"image_answer"`
	// Collection is an optional free-text grouping label. Empty means uncategorized.
	Collection string `json:"collection"`
	// CreatedAt is the creation timestamp string.
	CreatedAt string `json:"created_at"`
}

// SessionUser is the identity a session presents to authenticated operations.
// It deliberately carries no credential.
type SessionUser struct {
	Name      string `json:"name"`
	Email     string `json:"email"`
	CreatedAt string `json:"created_at"`
}
