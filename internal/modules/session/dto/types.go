package dto

type SessionOutput struct {
	SessionID string
	Resumed   bool
}
