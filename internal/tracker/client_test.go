package tracker

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tweaklab/compatdex/pkg/errors"
)

func TestListIssuesFollowsPaginationAndFiltersBypass(t *testing.T) {
	var requests []*http.Request

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests = append(requests, r.Clone(context.Background()))

		page := r.URL.Query().Get("page")
		w.Header().Set("Content-Type", "application/json")
		switch page {
		case "", "1":
			w.Header().Set("Link", fmt.Sprintf(`<http://%s%s?page=2>; rel="next"`, r.Host, r.URL.Path))
			fmt.Fprint(w, `[
				{"id": 1, "number": 1, "title": "first", "labels": []},
				{"id": 2, "number": 2, "title": "skipped", "labels": [{"name": "bypass"}]}
			]`)
		default:
			fmt.Fprint(w, `[{"id": 3, "number": 3, "title": "second page", "labels": [{"name": "user-submission"}]}]`)
		}
	}))
	defer server.Close()

	client := New("jlippold", "tweakCompatible", WithBaseURL(server.URL), WithToken("secret"))
	issues, err := client.ListIssues(context.Background(), StateOpen, DirectionDesc)
	require.NoError(t, err)

	require.Len(t, issues, 2)
	assert.Equal(t, 1, issues[0].Number)
	assert.Equal(t, 3, issues[1].Number)

	require.Len(t, requests, 2)
	first := requests[0]
	assert.Equal(t, "/repos/jlippold/tweakCompatible/issues", first.URL.Path)
	assert.Equal(t, StateOpen, first.URL.Query().Get("state"))
	assert.Equal(t, "created", first.URL.Query().Get("sort"))
	assert.Equal(t, DirectionDesc, first.URL.Query().Get("direction"))
	assert.Equal(t, "100", first.URL.Query().Get("per_page"))
	assert.Equal(t, "token secret", first.Header.Get("Authorization"))
	assert.Equal(t, "application/vnd.github.v3+json", first.Header.Get("Accept"))
}

func TestAddLabelsRequestShape(t *testing.T) {
	var gotPath, gotMethod string
	var gotBody []string

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotMethod = r.Method
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))
		w.WriteHeader(http.StatusOK)
		fmt.Fprint(w, `[]`)
	}))
	defer server.Close()

	client := New("jlippold", "tweakCompatible", WithBaseURL(server.URL))
	err := client.AddLabels(context.Background(), 17, "user-submission", "new-review")
	require.NoError(t, err)

	assert.Equal(t, "POST", gotMethod)
	assert.Equal(t, "/repos/jlippold/tweakCompatible/issues/17/labels", gotPath)
	assert.Equal(t, []string{"user-submission", "new-review"}, gotBody)
}

func TestEditIssueClosesWithLabels(t *testing.T) {
	var gotMethod string
	var gotBody map[string]any

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotMethod = r.Method
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))
		fmt.Fprint(w, `{}`)
	}))
	defer server.Close()

	client := New("jlippold", "tweakCompatible", WithBaseURL(server.URL))
	err := client.EditIssue(context.Background(), 17, StateClosed, BypassLabel, "invalid")
	require.NoError(t, err)

	assert.Equal(t, "PATCH", gotMethod)
	assert.Equal(t, "closed", gotBody["state"])
	assert.Equal(t, []any{"bypass", "invalid"}, gotBody["labels"])
}

func TestAPIErrorsArePropagated(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, `{"message": "API rate limit exceeded"}`, http.StatusForbidden)
	}))
	defer server.Close()

	client := New("jlippold", "tweakCompatible", WithBaseURL(server.URL))
	_, err := client.ListIssues(context.Background(), StateOpen, DirectionDesc)
	require.Error(t, err)

	var apiErr *errors.APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusForbidden, apiErr.StatusCode)
	assert.True(t, errors.IsRateLimited(err))
}

func TestListIssuesStopsWithoutLinkHeader(t *testing.T) {
	calls := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		calls++
		fmt.Fprint(w, `[]`)
	}))
	defer server.Close()

	client := New("jlippold", "tweakCompatible", WithBaseURL(server.URL))
	issues, err := client.ListIssues(context.Background(), StateClosed, DirectionAsc)
	require.NoError(t, err)

	assert.Empty(t, issues)
	assert.Equal(t, 1, calls)
}
