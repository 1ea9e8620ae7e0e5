package dto

import "time"

type SubmitInput struct {
	CompanyName string
	Industry    string
	Topics      []string
	Prompts     []string
}

type SubmitOutput struct {
	SessionID   string
	CompanyName string
	Industry    string
	Prompts     []string
	SubmittedAt time.Time
}
