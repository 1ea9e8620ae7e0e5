package out

import (
	"context"
	"strings"

	"solve/internal/modules/session/domain"
	sessionout "solve/internal/modules/session/port/out"
	"solve/internal/platform/httpapi"
)

const createSessionPath = "create_session"

type HTTPIssuer struct {
	client *httpapi.Client
}

func NewHTTPIssuer(client *httpapi.Client) sessionout.Issuer {
	return &HTTPIssuer{client: client}
}

func (i *HTTPIssuer) Create(ctx context.Context) (domain.Session, error) {
	var resp domain.Session
	if err := i.client.PostJSON(ctx, createSessionPath, nil, struct{}{}, &resp); err != nil {
		return domain.Session{}, err
	}
	resp.ID = strings.TrimSpace(resp.ID)
	return resp, nil
}
