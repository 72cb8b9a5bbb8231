package constants

// SessionState is the canonical state of the reconciliation workflow.
type SessionState string

// Stable values (surfaced in logs and CLI output).
const (
	SessionIdle      SessionState = "IDLE"      // no upload or review active
	SessionUploading SessionState = "UPLOADING" // recognition in flight
	SessionReviewing SessionState = "REVIEWING" // candidate awaiting confirm/reject
)

// ReviewMode says whether confirming a session creates a fresh record or
// revises an existing one.
type ReviewMode string

const (
	ModeNew    ReviewMode = "NEW"
	ModeUpdate ReviewMode = "UPDATE"
)
