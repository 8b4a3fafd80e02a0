package compatdex

import (
	"context"
	"time"

	"github.com/tweaklab/compatdex/internal/tracker"
	"github.com/tweaklab/compatdex/pkg/catalog"
	"github.com/tweaklab/compatdex/pkg/logging"
	"github.com/tweaklab/compatdex/pkg/submission"
)

// Mode selects which issues a run consumes and whether tracker side
// effects happen. The mode is threaded explicitly through the run so that
// side-effecting paths stay statically distinguishable from pure ones.
type Mode string

const (
	// ModeProcess handles newly opened issues, newest first, and
	// performs tracker side effects (labeling, closing).
	ModeProcess Mode = "process"

	// ModeRebuild wipes the catalog, reprocesses all closed issues in
	// ascending creation order, and suppresses all tracker side effects.
	ModeRebuild Mode = "rebuild"
)

// state returns the issue state this mode consumes.
func (m Mode) state() string {
	if m == ModeRebuild {
		return tracker.StateClosed
	}
	return tracker.StateOpen
}

// direction returns the creation-time sort direction for this mode.
func (m Mode) direction() string {
	if m == ModeRebuild {
		return tracker.DirectionAsc
	}
	return tracker.DirectionDesc
}

// sideEffects reports whether tracker side effects are performed.
func (m Mode) sideEffects() bool {
	return m != ModeRebuild
}

// The submission label applied alongside every merge-effect label.
const submissionLabel = "user-submission"

// invalidLabel tags submissions that failed validation.
const invalidLabel = "invalid"

// Result summarizes one pipeline run.
type Result struct {
	Mode      Mode
	Eligible  int // issues whose body parsed into a change
	Skipped   int // issues with ineligible or undecodable bodies
	Invalid   int // changes rejected by validation
	Processed int // changes merged into the catalog
	Effects   map[catalog.Effect]int
	Duration  time.Duration
}

// Process runs the pipeline once: fetch the batch of issues for the mode,
// then for each change in batch order validate, merge, re-aggregate and
// persist before the next change is considered. A fatal merge error
// aborts the remaining batch; catalog state persisted by earlier changes
// remains. After a batch containing at least one eligible issue, the
// output documents are wiped and re-sharded.
//
// Changes are processed strictly one at a time. Cancellation is not
// honored mid-batch; ctx only bounds the collaborators' I/O.
func (c *Client) Process(ctx context.Context, mode Mode) (*Result, error) {
	start := time.Now()
	log := logging.Ctx(logging.WithMode(ctx, string(mode)))

	issues, err := c.tracker.ListIssues(ctx, mode.state(), mode.direction())
	if err != nil {
		return nil, err
	}
	log.Info().Int("issues", len(issues)).Msg("fetched issue batch")

	if mode == ModeRebuild {
		if err := c.store.WipePackages(); err != nil {
			return nil, err
		}
	}

	result := &Result{Mode: mode, Effects: make(map[catalog.Effect]int)}

	for _, issue := range issues {
		change, ok := submission.Parse(issue.Body, submission.IssueMeta{
			ID:        issue.ID,
			Number:    issue.Number,
			Title:     issue.Title,
			CreatedAt: issue.CreatedAt,
			Author:    issue.User.Login,
		})
		if !ok {
			result.Skipped++
			continue
		}
		result.Eligible++

		log.Info().Int("issue", issue.Number).Str("title", issue.Title).Msg("working on issue")

		if err := c.processChange(ctx, mode, change, result); err != nil {
			result.Duration = time.Since(start)
			return result, err
		}
	}

	if result.Eligible > 0 {
		if err := c.Publish(); err != nil {
			result.Duration = time.Since(start)
			return result, err
		}
	}

	result.Duration = time.Since(start)
	log.Info().
		Int("processed", result.Processed).
		Int("invalid", result.Invalid).
		Int("skipped", result.Skipped).
		Dur("duration", result.Duration).
		Msg("run complete")
	return result, nil
}

// processChange applies one change: validate, merge, re-aggregate,
// persist, then the mode's tracker side effects. Returns an error only
// for failures that abort the batch.
func (c *Client) processChange(ctx context.Context, mode Mode, change *submission.Change, result *Result) error {
	if violations := submission.Validate(change); len(violations) > 0 {
		result.Invalid++
		logging.Warn().
			Int("issue", change.IssueNumber).
			Interface("violations", violations).
			Msg("rejecting invalid submission")

		if mode.sideEffects() {
			return c.tracker.EditIssue(ctx, change.IssueNumber, tracker.StateClosed, tracker.BypassLabel, invalidLabel)
		}
		return nil
	}

	list, err := c.store.TweakList()
	if err != nil {
		return err
	}

	packages, effect, err := catalog.Merge(list.Packages, change)
	if err != nil {
		logging.Error().
			Int("issue", change.IssueNumber).
			Str("package_id", change.PackageID).
			Err(err).
			Msg("fatal merge failure, aborting batch")
		return err
	}

	// Each accepted change is durably reflected before the next one.
	list.Packages = packages
	list.IOSVersions = catalog.Recalculate(list.Packages, list.Devices)
	if err := c.store.WriteTweakList(list); err != nil {
		return err
	}

	result.Processed++
	result.Effects[effect]++
	logging.Info().
		Int("issue", change.IssueNumber).
		Str("package_id", change.PackageID).
		Str("effect", effect.String()).
		Msg("merged change")

	if !mode.sideEffects() {
		return nil
	}

	if err := c.tracker.AddLabels(ctx, change.IssueNumber, submissionLabel, effect.String()); err != nil {
		return err
	}
	if effect == catalog.EffectDuplicate {
		return c.tracker.EditIssue(ctx, change.IssueNumber, tracker.StateClosed)
	}
	return nil
}
