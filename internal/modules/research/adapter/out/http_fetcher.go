package out

import (
	"context"
	"net/url"

	"solve/internal/modules/research/domain"
	researchout "solve/internal/modules/research/port/out"
	"solve/internal/platform/httpapi"
)

const readJSONPath = "read_json"

type HTTPFetcher struct {
	client *httpapi.Client
}

func NewHTTPFetcher(client *httpapi.Client) researchout.SnapshotFetcher {
	return &HTTPFetcher{client: client}
}

func (f *HTTPFetcher) Fetch(ctx context.Context, sessionID string) (domain.ResearchTree, error) {
	body, err := f.client.GetRaw(ctx, readJSONPath, url.Values{"session_id": {sessionID}})
	if err != nil {
		return domain.ResearchTree{}, err
	}
	return domain.DecodeSnapshot(body)
}
