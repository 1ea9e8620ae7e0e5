package domain

import (
	"slices"
	"strings"
)

var catalog = []string{
	"Operations and Management",
	"Market Risks",
	"Competitor Analysis",
	"Potential Concerns",
	"Industry Benchmarks",
	"Legal Standing",
}

// Catalog lists the analysis topics offered on the intake form.
func Catalog() []string {
	return slices.Clone(catalog)
}

func CatalogEntry(name string) (string, bool) {
	for _, entry := range catalog {
		if strings.EqualFold(entry, strings.TrimSpace(name)) {
			return entry, true
		}
	}
	return "", false
}

// Request is one analysis job as sent to the backend.
type Request struct {
	CompanyName string   `json:"company_name" validate:"required"`
	Industry    string   `json:"industry" validate:"required"`
	Prompts     []string `json:"prompts" validate:"min=1,dive,required"`
}

// NewRequest trims every field and merges catalog topics ahead of free-form
// prompts, dropping exact duplicates.
func NewRequest(company, industry string, topics, prompts []string) Request {
	req := Request{
		CompanyName: strings.TrimSpace(company),
		Industry:    strings.TrimSpace(industry),
	}
	seen := map[string]struct{}{}
	for _, p := range append(slices.Clone(topics), prompts...) {
		p = strings.TrimSpace(p)
		if _, dup := seen[p]; dup && p != "" {
			continue
		}
		seen[p] = struct{}{}
		req.Prompts = append(req.Prompts, p)
	}
	return req
}
