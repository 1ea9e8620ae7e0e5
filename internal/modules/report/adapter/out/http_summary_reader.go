package out

import (
	"context"
	"net/url"

	reportout "solve/internal/modules/report/port/out"
	"solve/internal/platform/httpapi"
)

const getSummaryPath = "get_summary"

type summaryResponse struct {
	Content string `json:"content"`
}

type HTTPSummaryReader struct {
	client *httpapi.Client
}

func NewHTTPSummaryReader(client *httpapi.Client) reportout.SummaryReader {
	return &HTTPSummaryReader{client: client}
}

func (r *HTTPSummaryReader) Summary(ctx context.Context, sessionID string) (string, error) {
	var resp summaryResponse
	if err := r.client.GetJSON(ctx, getSummaryPath, url.Values{"session_id": {sessionID}}, &resp); err != nil {
		return "", err
	}
	return resp.Content, nil
}
