package domain

import "strings"

// StorageKey is the well-known local storage key holding the session token.
const StorageKey = "research_session_id"

// Session correlates polling requests with one backend-side research job.
// The token is opaque; no format is assumed.
type Session struct {
	ID string `json:"session_id"`
}

func (s Session) Valid() bool {
	return strings.TrimSpace(s.ID) != ""
}
