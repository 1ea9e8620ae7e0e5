package out_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	reportout "solve/internal/modules/report/adapter/out"
	"solve/internal/platform/httpapi"
)

func TestHTTPSummaryReader(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/get_summary", r.URL.Path)
		assert.Equal(t, "abc123", r.URL.Query().Get("session_id"))
		_, _ = w.Write([]byte(`{"content":"Stored\nbody"}`))
	}))
	defer srv.Close()

	client, err := httpapi.New(srv.URL, time.Second, nil, nil)
	require.NoError(t, err)

	text, err := reportout.NewHTTPSummaryReader(client).Summary(context.Background(), "abc123")
	require.NoError(t, err)
	require.Equal(t, "Stored\nbody", text)
}
