// Package talent implements the talent network: public sign-up with an
// optional PDF resume, and the admin listing of submitted profiles.
//
// Routes:
//
//	POST /api/talent/join                  → multipart sign-up form
//	GET  /admin/talent                     → profiles, newest first (Bearer token)
//	GET  /admin/talent/resumes/{path}      → stored resume PDF (Bearer token)
package talent

import (
	"errors"
	"time"
)

// ─── Domain types ─────────────────────────────────────────────────────────────

// Profile is a talent network member as stored and as returned to admins.
type Profile struct {
	ID          string    `json:"id"`
	FullName    string    `json:"fullName"`
	Email       string    `json:"email"`
	LinkedInURL *string   `json:"linkedinUrl"`
	Location    *string   `json:"location"`
	Departments []string  `json:"departments"`
	ResumePath  *string   `json:"resumePath"`
	CreatedAt   time.Time `json:"createdAt"`
}

// Resume is an uploaded resume file.
type Resume struct {
	Path        string
	ContentType string
	Content     []byte
}

// ─── Errors ───────────────────────────────────────────────────────────────────

// ErrNotFound is returned when a profile or resume does not exist.
var ErrNotFound = errors.New("not found")

// ValidationError carries the user-facing message for a rejected submission.
type ValidationError struct {
	Msg string
}

func (e *ValidationError) Error() string { return e.Msg }

// User-facing validation messages.
const (
	MsgFullNameRequired   = "Full name is required."
	MsgEmailInvalid       = "A valid email is required."
	MsgDepartmentsFormat  = "Invalid departments format."
	MsgDepartmentsInvalid = "At least one valid department is required."
	MsgLinkedInInvalid    = "LinkedIn URL must be a valid URL."
	MsgFieldTooLong       = "One of the fields is too long."
	MsgResumeNotPDF       = "Resume must be a PDF file."
	MsgResumeTooLarge     = "Resume must be under 5 MB."
)
