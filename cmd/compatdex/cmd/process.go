package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/tweaklab/compatdex"
	"github.com/tweaklab/compatdex/internal/config"
	"github.com/tweaklab/compatdex/internal/store"
	"github.com/tweaklab/compatdex/internal/tracker"
	"github.com/tweaklab/compatdex/pkg/catalog"
)

// processCmd handles newly opened submissions with tracker side effects.
var processCmd = &cobra.Command{
	Use:   "process",
	Short: "Process newly opened submissions",
	Long: `Process fetches all open submission issues, newest first, merges each
valid change into the catalog, and labels or closes the originating
issue to reflect the result. Output documents are re-sharded after the
batch.`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		return run(cmd, compatdex.ModeProcess)
	},
}

// rebuildCmd reimports every closed submission from scratch.
var rebuildCmd = &cobra.Command{
	Use:   "rebuild",
	Short: "Wipe the catalog and reimport all closed submissions",
	Long: `Rebuild wipes all persisted package data, fetches every closed
submission issue in ascending creation order, and replays each valid
change into a fresh catalog. All tracker side effects (labeling,
closing) are suppressed.`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		return run(cmd, compatdex.ModeRebuild)
	},
}

func init() {
	rootCmd.AddCommand(processCmd)
	rootCmd.AddCommand(rebuildCmd)
}

// run wires the collaborators from configuration and executes one
// pipeline pass in the given mode.
func run(cmd *cobra.Command, mode compatdex.Mode) error {
	settings := config.Load()

	opts := []tracker.Option{}
	if mode == compatdex.ModeProcess {
		// Side-effecting mode cannot run unauthenticated.
		token, err := settings.RequireToken()
		if err != nil {
			return err
		}
		opts = append(opts, tracker.WithToken(token))
	} else if settings.Token != "" {
		opts = append(opts, tracker.WithToken(settings.Token))
	}

	cdx, err := compatdex.New(
		compatdex.WithTracker(tracker.New(settings.Owner, settings.Repo, opts...)),
		compatdex.WithStore(store.New(settings.DataDir)),
	)
	if err != nil {
		return err
	}

	result, err := cdx.Process(cmd.Context(), mode)
	if err != nil {
		return err
	}

	printSummary(result)
	return nil
}

// printSummary writes a human-readable run summary to stdout.
func printSummary(result *compatdex.Result) {
	fmt.Printf("Mode:      %s\n", result.Mode)
	fmt.Printf("Eligible:  %d\n", result.Eligible)
	fmt.Printf("Processed: %d\n", result.Processed)
	fmt.Printf("Invalid:   %d\n", result.Invalid)
	fmt.Printf("Skipped:   %d\n", result.Skipped)
	for _, effect := range []catalog.Effect{
		catalog.EffectNewPackage,
		catalog.EffectNewVersion,
		catalog.EffectNewReview,
		catalog.EffectDuplicate,
	} {
		if n := result.Effects[effect]; n > 0 {
			fmt.Printf("  %-12s %d\n", effect.String()+":", n)
		}
	}
	fmt.Printf("Duration:  %s\n", result.Duration.Round(time.Millisecond))
}
