package supabase

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) (*Client, *httptest.Server) {
	t.Helper()

	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	client, err := New(Config{URL: server.URL, APIKey: "test-key", HTTPClient: server.Client()})
	require.NoError(t, err)
	return client, server
}

func TestNewRequiresConfig(t *testing.T) {
	_, err := New(Config{APIKey: "k"})
	assert.Error(t, err)

	_, err = New(Config{URL: "http://localhost"})
	assert.Error(t, err)
}

func TestExecuteBuildsQuery(t *testing.T) {
	var gotPath, gotQuery string
	var gotHeaders http.Header
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotQuery = r.URL.RawQuery
		gotHeaders = r.Header.Clone()
		w.Write([]byte(`[]`))
	})

	resp, err := client.From("transactions").
		Select("*").
		Eq("kind", "withdrawal").
		Eq("status", "pending").
		Order("created_at", false).
		Limit(10).
		Offset(20).
		Execute(context.Background())
	require.NoError(t, err)
	require.NoError(t, resp.Error())

	assert.Equal(t, "/rest/v1/transactions", gotPath)
	assert.Contains(t, gotQuery, "kind=eq.withdrawal")
	assert.Contains(t, gotQuery, "status=eq.pending")
	assert.Contains(t, gotQuery, "order=created_at.desc")
	assert.Contains(t, gotQuery, "limit=10")
	assert.Contains(t, gotQuery, "offset=20")
	assert.Equal(t, "test-key", gotHeaders.Get("apikey"))
	assert.Equal(t, "Bearer test-key", gotHeaders.Get("Authorization"))
}

func TestExecuteIsAndGtFilters(t *testing.T) {
	var query string
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		query = r.URL.RawQuery
		w.Write([]byte(`[]`))
	})

	_, err := client.From("posts").
		Select("*").
		Is("sponsored", true).
		Gt("pending_views", 0).
		Execute(context.Background())
	require.NoError(t, err)
	assert.Contains(t, query, "sponsored=is.true")
	assert.Contains(t, query, "pending_views=gt.0")
}

func TestExecuteSingleSetsAcceptHeader(t *testing.T) {
	var accept string
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		accept = r.Header.Get("Accept")
		w.Write([]byte(`{}`))
	})

	_, err := client.From("profiles").Select("*").Eq("id", "x").Single().Execute(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "application/vnd.pgrst.object+json", accept)
}

func TestExecuteInsertUpsert(t *testing.T) {
	var method, prefer, onConflict string
	var body map[string]any
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		method = r.Method
		prefer = r.Header.Get("Prefer")
		onConflict = r.Header.Get("On-Conflict")
		json.NewDecoder(r.Body).Decode(&body)
		w.Write([]byte(`[{"id":1}]`))
	})

	_, err := client.From("settings").ExecuteInsert(context.Background(), map[string]any{"id": 1}, "id")
	require.NoError(t, err)
	assert.Equal(t, http.MethodPost, method)
	assert.Equal(t, "resolution=merge-duplicates,return=representation", prefer)
	assert.Equal(t, "id", onConflict)
	assert.Equal(t, float64(1), body["id"])
}

func TestExecuteUpdateAppliesFilters(t *testing.T) {
	var method, query string
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		method = r.Method
		query = r.URL.RawQuery
		w.Write([]byte(`[]`))
	})

	_, err := client.From("transactions").
		Eq("id", "tx-1").
		ExecuteUpdate(context.Background(), map[string]any{"status": "completed"})
	require.NoError(t, err)
	assert.Equal(t, http.MethodPatch, method)
	assert.Contains(t, query, "id=eq.tx-1")
}

func TestRPC(t *testing.T) {
	var path string
	var params map[string]any
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		path = r.URL.Path
		json.NewDecoder(r.Body).Decode(&params)
		w.Write([]byte(`4200`))
	})

	resp, err := client.RPC(context.Background(), "credit_balance", map[string]any{
		"p_account_id": "alice",
		"p_amount":     100,
	})
	require.NoError(t, err)
	require.NoError(t, resp.Error())
	assert.Equal(t, "/rest/v1/rpc/credit_balance", path)
	assert.Equal(t, "alice", params["p_account_id"])

	var balance int64
	require.NoError(t, resp.JSON(&balance))
	assert.Equal(t, int64(4200), balance)
}

func TestResponseIsNotFound(t *testing.T) {
	assert.True(t, (&Response{StatusCode: http.StatusNotFound}).IsNotFound())
	assert.True(t, (&Response{StatusCode: http.StatusNotAcceptable}).IsNotFound())
	assert.False(t, (&Response{StatusCode: http.StatusOK}).IsNotFound())
}

func TestResponseError(t *testing.T) {
	resp := &Response{StatusCode: 400, Body: []byte(`{"message":"bad filter"}`)}
	require.Error(t, resp.Error())
	assert.Contains(t, resp.Error().Error(), "bad filter")

	assert.NoError(t, (&Response{StatusCode: 200}).Error())
}
