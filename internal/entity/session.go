package entity

import (
	"time"

	"github.com/google/uuid"

	"github.com/Korixo/demolition-tracker/constants"
)

// ReconciliationSession is the transient state of one human review. It is
// never persisted; the workflow holds at most one at a time and destroys it
// on confirm or reject.
type ReconciliationSession struct {
	Mode      constants.ReviewMode
	TargetID  *uuid.UUID // set iff Mode == ModeUpdate
	Candidate CandidateRecord
	Notes     *string
	ImageURL  *string
	StartedAt time.Time
}

// Clone returns a copy safe to hand to callers while the workflow retains
// the live session.
func (s *ReconciliationSession) Clone() *ReconciliationSession {
	if s == nil {
		return nil
	}
	c := *s
	if s.TargetID != nil {
		id := *s.TargetID
		c.TargetID = &id
	}
	c.Candidate.OwnerName = clonePtr(s.Candidate.OwnerName)
	c.Candidate.Location = clonePtr(s.Candidate.Location)
	c.Notes = clonePtr(s.Notes)
	c.ImageURL = clonePtr(s.ImageURL)
	return &c
}
