package salesforce

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	gosf "github.com/k-capehart/go-salesforce/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newRESTClient wires a restClient to an httptest server standing in for the
// Salesforce REST API.
func newRESTClient(t *testing.T, handler http.HandlerFunc, opts ...Option) Client {
	t.Helper()

	ts := httptest.NewServer(handler)
	t.Cleanup(ts.Close)

	api, err := gosf.Init(gosf.Creds{
		AccessToken: "test-token",
		Domain:      ts.URL,
	},
		gosf.WithValidateAuthentication(false),
		gosf.WithRoundTripper(http.DefaultTransport),
	)
	require.NoError(t, err)
	require.NotNil(t, api)

	return NewClient(api, opts...)
}

func writeJSON(t *testing.T, w http.ResponseWriter, status int, body any) {
	t.Helper()
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	require.NoError(t, json.NewEncoder(w).Encode(body))
}

func TestRESTClient_Query(t *testing.T) {
	client := newRESTClient(t, func(w http.ResponseWriter, r *http.Request) {
		if !strings.Contains(r.URL.Path, "/query") {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		writeJSON(t, w, http.StatusOK, map[string]any{
			"totalSize": 2,
			"done":      true,
			"records": []map[string]any{
				{
					"attributes": map[string]any{"type": "Contact"},
					"Id":         "0031",
					"FirstName":  "Dana",
					"LastName":   "Reyes",
					"Email":      "dana.reyes@meridianfreight.com",
				},
				{
					"attributes": map[string]any{"type": "Contact"},
					"Id":         "0032",
					"FirstName":  "Victor",
					"LastName":   "Osei",
					"Email":      "v.osei@meridianfreight.com",
				},
			},
		})
	})

	var contacts []Contact
	err := client.Query(context.Background(), "SELECT Id, Email FROM Contact", &contacts)
	require.NoError(t, err)
	require.Len(t, contacts, 2)
	assert.Equal(t, "0031", contacts[0].ID)
	assert.Equal(t, "dana.reyes@meridianfreight.com", contacts[0].Email)
	assert.Equal(t, "Osei", contacts[1].LastName)
}

func TestRESTClient_Query_MalformedSOQL(t *testing.T) {
	client := newRESTClient(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(t, w, http.StatusBadRequest, []map[string]any{
			{"message": "unexpected token", "errorCode": "MALFORMED_QUERY"},
		})
	})

	var contacts []Contact
	err := client.Query(context.Background(), "SELEKT Id FROM Contact", &contacts)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "salesforce: query")
}

func TestRESTClient_InsertOne(t *testing.T) {
	client := newRESTClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || !strings.Contains(r.URL.Path, "/sobjects/Task") {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		writeJSON(t, w, http.StatusCreated, map[string]any{
			"id":      "00T900",
			"success": true,
			"errors":  []any{},
		})
	})

	id, err := client.InsertOne(context.Background(), "Task", map[string]any{
		"Subject":  "Call Dana Reyes about hiring surge",
		"Priority": "High",
	})
	require.NoError(t, err)
	assert.Equal(t, "00T900", id)
}

func TestRESTClient_InsertOne_Rejected(t *testing.T) {
	client := newRESTClient(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(t, w, http.StatusOK, map[string]any{
			"id":      "",
			"success": false,
			"errors":  []map[string]any{{"message": "Required fields are missing: [Subject]"}},
		})
	})

	_, err := client.InsertOne(context.Background(), "Task", map[string]any{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "insert Task failed")
}

func TestRESTClient_InsertCollection(t *testing.T) {
	client := newRESTClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || !strings.Contains(r.URL.Path, "composite/sobjects") {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		writeJSON(t, w, http.StatusOK, []map[string]any{
			{"id": "00T901", "success": true, "errors": []any{}},
			{"id": "", "success": false, "errors": []map[string]any{
				{"message": "Required fields are missing: [Subject]", "statusCode": "REQUIRED_FIELD_MISSING"},
			}},
		})
	})

	results, err := client.InsertCollection(context.Background(), "Task", []map[string]any{
		{"Subject": "Call Dana Reyes"},
		{"Priority": "High"},
	})
	require.NoError(t, err)
	require.Len(t, results, 2)

	assert.True(t, results[0].Success)
	assert.Equal(t, "00T901", results[0].ID)

	assert.False(t, results[1].Success)
	require.Len(t, results[1].Errors, 1)
	assert.Contains(t, results[1].Errors[0], "Required fields are missing")
}

func TestRESTClient_RateLimitedQuery(t *testing.T) {
	client := newRESTClient(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(t, w, http.StatusOK, map[string]any{
			"totalSize": 0,
			"done":      true,
			"records":   []map[string]any{},
		})
	}, WithRateLimit(100))

	var contacts []Contact
	err := client.Query(context.Background(), "SELECT Id FROM Contact", &contacts)
	require.NoError(t, err)
	assert.Empty(t, contacts)
}
