package tracker

import (
	"context"
	"fmt"
	"net/url"
	"regexp"
	"time"
)

// Issue states understood by the tracker.
const (
	StateOpen   = "open"
	StateClosed = "closed"
)

// Sort directions for issue listing, by creation time.
const (
	DirectionAsc  = "asc"
	DirectionDesc = "desc"
)

// BypassLabel marks issues the pipeline must never touch.
const BypassLabel = "bypass"

const perPage = 100

// Issue is the subset of the tracker's issue representation the pipeline
// consumes.
type Issue struct {
	ID        int64     `json:"id"`
	Number    int       `json:"number"`
	Title     string    `json:"title"`
	Body      string    `json:"body"`
	State     string    `json:"state"`
	CreatedAt time.Time `json:"created_at"`
	User      IssueUser `json:"user"`
	Labels    []Label   `json:"labels"`
}

// IssueUser is the issue author.
type IssueUser struct {
	Login string `json:"login"`
}

// Label is an issue label.
type Label struct {
	Name string `json:"name"`
}

// HasLabel reports whether the issue carries the named label.
func (i *Issue) HasLabel(name string) bool {
	for _, label := range i.Labels {
		if label.Name == name {
			return true
		}
	}
	return false
}

// linkNextPattern extracts the rel="next" URL from a Link header.
var linkNextPattern = regexp.MustCompile(`<([^>]+)>;\s*rel="next"`)

// ListIssues returns every issue of the repository in the given state,
// sorted by creation time in the given direction, following pagination
// until exhausted. Issues labeled bypass are filtered out.
func (c *Client) ListIssues(ctx context.Context, state, direction string) ([]Issue, error) {
	query := url.Values{
		"state":     {state},
		"sort":      {"created"},
		"direction": {direction},
		"per_page":  {fmt.Sprintf("%d", perPage)},
	}
	next := fmt.Sprintf("%s/repos/%s/%s/issues?%s", c.baseURL, c.owner, c.repo, query.Encode())

	var all []Issue
	for next != "" {
		var page []Issue
		headers, err := c.do(ctx, "GET", next, nil, &page)
		if err != nil {
			return nil, err
		}

		for _, issue := range page {
			if issue.HasLabel(BypassLabel) {
				continue
			}
			all = append(all, issue)
		}

		next = ""
		if m := linkNextPattern.FindStringSubmatch(headers.Get("Link")); m != nil {
			next = m[1]
		}
	}

	return all, nil
}

// AddLabels adds the given labels to an issue.
func (c *Client) AddLabels(ctx context.Context, number int, labels ...string) error {
	_, err := c.do(ctx, "POST", c.issueURL(number, "/labels"), labels, nil)
	return err
}

// editRequest is the body of an issue edit.
type editRequest struct {
	State  string   `json:"state,omitempty"`
	Labels []string `json:"labels,omitempty"`
}

// EditIssue updates an issue's state and optionally replaces its labels.
func (c *Client) EditIssue(ctx context.Context, number int, state string, labels ...string) error {
	_, err := c.do(ctx, "PATCH", c.issueURL(number, ""), editRequest{State: state, Labels: labels}, nil)
	return err
}
