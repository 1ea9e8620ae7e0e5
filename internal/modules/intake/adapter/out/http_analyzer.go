package out

import (
	"context"
	"net/http"

	"solve/internal/modules/intake/domain"
	intakeout "solve/internal/modules/intake/port/out"
	"solve/internal/platform/httpapi"
)

const (
	analyzePath     = "analyze"
	SessionIDHeader = "X-Session-ID"
)

type analyzeRequest struct {
	domain.Request
	UUID string `json:"uuid"`
}

type HTTPAnalyzer struct {
	client *httpapi.Client
}

// NewHTTPAnalyzer expects a client without a per-request timeout; the analyze
// call stays open until the backend finishes the job.
func NewHTTPAnalyzer(client *httpapi.Client) intakeout.Analyzer {
	return &HTTPAnalyzer{client: client}
}

func (a *HTTPAnalyzer) Analyze(ctx context.Context, sessionID string, req domain.Request) error {
	header := http.Header{}
	header.Set(SessionIDHeader, sessionID)
	return a.client.PostJSON(ctx, analyzePath, header, analyzeRequest{Request: req, UUID: sessionID}, nil)
}
