package client_test

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"job-tracker-backend/internal/client"
	"job-tracker-backend/internal/domain"
	"job-tracker-backend/internal/tracker"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var session = domain.Session{UserID: "user1", Email: "me@example.com", AccessToken: "tok"}

func writeEnvelope(w http.ResponseWriter, code int, success bool, message string, data, errDetails any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(map[string]any{
		"success": success,
		"message": message,
		"data":    data,
		"error":   errDetails,
	})
}

func TestAPIClientImplementsStore(t *testing.T) {
	var _ tracker.Store = client.NewAPIClient("http://localhost", time.Second)
}

func TestFetchAllSendsBearerToken(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/applications", r.URL.Path)
		assert.Equal(t, "Bearer tok", r.Header.Get("Authorization"))
		writeEnvelope(w, http.StatusOK, true, "ok", map[string]any{
			"applications": []map[string]any{
				{"id": "a2", "company": "Acme", "title": "Engineer", "status": "saved"},
				{"id": "a1", "company": "Globex", "title": "SRE", "status": "applied"},
			},
		}, nil)
	}))
	defer srv.Close()

	c := client.NewAPIClient(srv.URL+"/v1/", time.Second)
	apps, err := c.FetchAll(context.Background(), session)
	require.NoError(t, err)
	require.Len(t, apps, 2)
	assert.Equal(t, "a2", apps[0].ID)
	assert.Equal(t, domain.StatusApplied, apps[1].Status)
}

func TestErrorsAreRemoteErrors(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/v1/applications":
			writeEnvelope(w, http.StatusBadRequest, false, "Validation failed", nil, []string{"Company: is required"})
		case "/v1/auth/me":
			writeEnvelope(w, http.StatusUnauthorized, false, "Invalid token", nil, nil)
		default:
			w.WriteHeader(http.StatusBadGateway)
			_, _ = io.WriteString(w, "<html>bad gateway</html>")
		}
	}))
	defer srv.Close()

	c := client.NewAPIClient(srv.URL+"/v1", time.Second)
	ctx := context.Background()

	_, err := c.Insert(ctx, session, domain.Draft{Title: "Engineer"})
	re, ok := domain.IsRemoteError(err)
	require.True(t, ok)
	assert.Equal(t, "insert", re.Op)
	assert.Equal(t, http.StatusBadRequest, re.Status)
	assert.Equal(t, "insert failed (400): Validation failed: Company: is required", err.Error())

	_, err = c.Me(ctx, session)
	re, ok = domain.IsRemoteError(err)
	require.True(t, ok)
	assert.True(t, re.Unauthorized())

	err = c.Delete(ctx, session, "a1")
	re, ok = domain.IsRemoteError(err)
	require.True(t, ok)
	assert.Equal(t, http.StatusBadGateway, re.Status)
	assert.Equal(t, "Bad Gateway", re.Message)
}

func TestTransportFailureIsRemoteError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	url := srv.URL
	srv.Close()

	_, err := client.NewAPIClient(url, time.Second).FetchAll(context.Background(), session)
	re, ok := domain.IsRemoteError(err)
	require.True(t, ok)
	assert.Equal(t, 0, re.Status)
	assert.Equal(t, "fetch-all", re.Op)
}

func TestUpdateSendsOnlyPatchedFields(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPatch, r.Method)
		assert.Equal(t, "/applications/a1", r.URL.Path)
		var body map[string]any
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, map[string]any{"status": "offer", "notes": ""}, body)
		writeEnvelope(w, http.StatusOK, true, "updated", map[string]any{"id": "a1", "status": "offer"}, nil)
	}))
	defer srv.Close()

	status := domain.StatusOffer
	empty := ""
	app, err := client.NewAPIClient(srv.URL, time.Second).
		Update(context.Background(), session, "a1", domain.ApplicationPatch{Status: &status, Notes: &empty})
	require.NoError(t, err)
	assert.Equal(t, domain.StatusOffer, app.Status)
}

// The dashboard drives the API client exactly like the REPL does.
func TestDashboardOverAPIClient(t *testing.T) {
	records := []map[string]any{
		{"id": "a1", "company": "Initech", "title": "Dev", "status": "applied"},
	}
	fetches := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodGet:
			fetches++
			writeEnvelope(w, http.StatusOK, true, "ok", map[string]any{"applications": records}, nil)
		case http.MethodPost:
			var d domain.Draft
			assert.NoError(t, json.NewDecoder(r.Body).Decode(&d))
			rec := map[string]any{"id": "a2", "company": d.Company, "title": d.Title, "status": string(d.Status)}
			records = append([]map[string]any{rec}, records...)
			writeEnvelope(w, http.StatusCreated, true, "created", rec, nil)
		}
	}))
	defer srv.Close()

	ctx := context.Background()
	d := tracker.NewDashboard(client.NewAPIClient(srv.URL, time.Second), session)
	require.NoError(t, d.Refresh(ctx))

	require.NoError(t, d.Form().Set(domain.FieldCompany, "Acme"))
	require.NoError(t, d.Form().Set(domain.FieldTitle, "Engineer"))
	_, err := d.Submit(ctx)
	require.NoError(t, err)

	assert.Equal(t, 2, fetches)
	view := d.View()
	require.Len(t, view, 2)
	assert.Equal(t, "Acme", view[0].Company)

	d.SetFilter(domain.Filter(domain.StatusApplied))
	require.Len(t, d.View(), 1)
	assert.Equal(t, "Initech", d.View()[0].Company)
}
