// Package compatdex reconciles crowd-sourced tweak compatibility reports
// into a normalized package/version/review catalog and publishes the
// result as JSON documents partitioned by package and by iOS version.
//
// Reports arrive as structured issue bodies on an issue tracker. Each run
// fetches a batch of issues, decodes and validates the embedded change
// records, merges them one at a time into the persisted catalog, recomputes
// aggregate compatibility outcomes after every accepted change, and finally
// shards the catalog into its output documents.
//
// Example usage:
//
//	cdx, err := compatdex.New(
//	    compatdex.WithTracker(tracker.New("jlippold", "tweakCompatible", tracker.WithToken(token))),
//	    compatdex.WithStore(store.New("./data")),
//	)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	result, err := cdx.Process(ctx, compatdex.ModeProcess)
package compatdex

import (
	"context"

	"github.com/tweaklab/compatdex/internal/tracker"
	"github.com/tweaklab/compatdex/pkg/catalog"
	"github.com/tweaklab/compatdex/pkg/errors"
	"github.com/tweaklab/compatdex/pkg/shard"
)

// Tracker is the issue-tracker collaborator consumed by the pipeline.
type Tracker interface {
	// ListIssues returns issues in the given state ordered by creation
	// time in the given direction, bypass-labeled issues excluded.
	ListIssues(ctx context.Context, state, direction string) ([]tracker.Issue, error)

	// AddLabels adds labels to an issue.
	AddLabels(ctx context.Context, number int, labels ...string) error

	// EditIssue updates an issue's state, optionally replacing labels.
	EditIssue(ctx context.Context, number int, state string, labels ...string) error
}

// Storage is the persistence collaborator consumed by the pipeline.
type Storage interface {
	// TweakList reads the persisted catalog document.
	TweakList() (*catalog.TweakList, error)

	// WriteTweakList persists the catalog document.
	WriteTweakList(list *catalog.TweakList) error

	// WipePackages clears all persisted package data (full-rebuild only).
	WipePackages() error

	// WipeOutput removes emitted output documents.
	WipeOutput() error

	// WritePackage emits one per-package output document.
	WritePackage(pkg *catalog.Package) error

	// WriteByIOSVersion emits one per-iOS-version output document.
	WriteByIOSVersion(iosVersion string, doc *shard.IOSVersionDoc) error
}

// Client sequences the reconciliation pipeline over its two collaborators.
// The in-memory catalog is owned exclusively by the running batch; no two
// merges or aggregation passes ever overlap.
type Client struct {
	tracker Tracker
	store   Storage
}

// New creates a compatdex client. Both collaborators are required.
func New(opts ...Option) (*Client, error) {
	c := &Client{}
	for _, opt := range opts {
		if err := opt(c); err != nil {
			return nil, err
		}
	}

	if c.tracker == nil {
		return nil, &errors.ConfigError{Component: "compatdex", Message: "a tracker collaborator is required"}
	}
	if c.store == nil {
		return nil, &errors.ConfigError{Component: "compatdex", Message: "a storage collaborator is required"}
	}

	return c, nil
}
