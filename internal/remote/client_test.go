package remote

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/leadtrack-cli/internal/model"
	"github.com/sells-group/leadtrack-cli/internal/resilience"
)

func fastClient(baseURL string) Client {
	return NewClient(baseURL, "test-key",
		WithRetryConfig(resilience.RetryConfig{
			MaxAttempts:    3,
			InitialBackoff: time.Millisecond,
			MaxBackoff:     5 * time.Millisecond,
			Multiplier:     2.0,
		}))
}

func TestPullLeads(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/rest/v1/leads", r.URL.Path)
		assert.Equal(t, "test-key", r.Header.Get("apikey"))
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))
		assert.Equal(t, "updated_at.asc", r.URL.Query().Get("order"))
		assert.Equal(t, "gt.1500", r.URL.Query().Get("updated_at"))

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`[{
			"id": "lead-1",
			"profile_url": "https://x.com/in/jdoe",
			"name": "Jane Doe",
			"search_title": "Head of Data",
			"contacted": true,
			"contacted_date": "2026-08-20",
			"tags": ["prioritaire"],
			"created_at": 1000,
			"updated_at": 2000
		}]`))
	}))
	defer srv.Close()

	leads, err := fastClient(srv.URL).PullLeads(context.Background(), 1500)
	require.NoError(t, err)
	require.Len(t, leads, 1)
	assert.Equal(t, "lead-1", leads[0].ID)
	assert.Equal(t, "Jane Doe", leads[0].Name)
	assert.Equal(t, "Head of Data", leads[0].SearchTitle)
	assert.True(t, leads[0].Contacted)
	assert.Equal(t, model.StringList{"prioritaire"}, leads[0].Tags)
	assert.Equal(t, int64(2000), leads[0].UpdatedAt)
}

func TestPullLeadsNoSinceOmitsFilter(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Empty(t, r.URL.Query().Get("updated_at"))
		w.Write([]byte(`[]`))
	}))
	defer srv.Close()

	leads, err := fastClient(srv.URL).PullLeads(context.Background(), 0)
	require.NoError(t, err)
	assert.Empty(t, leads)
}

func TestPushLeadsUpserts(t *testing.T) {
	t.Parallel()

	var got []leadRecord
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/rest/v1/leads", r.URL.Path)
		assert.Equal(t, "resolution=merge-duplicates", r.Header.Get("Prefer"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.WriteHeader(http.StatusCreated)
	}))
	defer srv.Close()

	err := fastClient(srv.URL).PushLeads(context.Background(), []model.Lead{{
		ID:          "lead-1",
		ProfileURL:  "https://x.com/in/jdoe",
		Name:        "Jane Doe",
		SearchTitle: "Head of Data",
		UpdatedAt:   2000,
	}})
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "lead-1", got[0].ID)
	assert.Equal(t, "Head of Data", got[0].SearchTitle)
}

func TestPushLeadsEmptyIsNoop(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("no request expected")
	}))
	defer srv.Close()

	require.NoError(t, fastClient(srv.URL).PushLeads(context.Background(), nil))
}

func TestPullRetriesTransientStatus(t *testing.T) {
	t.Parallel()

	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) < 3 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		w.Write([]byte(`[]`))
	}))
	defer srv.Close()

	_, err := fastClient(srv.URL).PullLeads(context.Background(), 0)
	require.NoError(t, err)
	assert.Equal(t, int32(3), calls.Load())
}

func TestPushDoesNotRetryClientError(t *testing.T) {
	t.Parallel()

	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusUnprocessableEntity)
	}))
	defer srv.Close()

	err := fastClient(srv.URL).PushLeads(context.Background(), []model.Lead{{ID: "a"}})
	require.Error(t, err)
	assert.Equal(t, int32(1), calls.Load())
}

func TestPullSearchTitles(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/rest/v1/search_titles", r.URL.Path)
		w.Write([]byte(`[{"id":"t1","label":"Head of Data","created_at":1,"updated_at":2}]`))
	}))
	defer srv.Close()

	titles, err := fastClient(srv.URL).PullSearchTitles(context.Background(), 0)
	require.NoError(t, err)
	require.Len(t, titles, 1)
	assert.Equal(t, "Head of Data", titles[0].Label)
}
