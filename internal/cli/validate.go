package cli

import (
	"fmt"
	"os"

	"github.com/ppiankov/credence/internal/engine"
	"github.com/ppiankov/credence/internal/model"
	"github.com/ppiankov/credence/internal/store"
	"github.com/spf13/cobra"
)

var (
	statePath string
)

// validateCmd represents the validate command
var validateCmd = &cobra.Command{
	Use:   "validate <facts.yaml>",
	Short: "Ingest extracted facts, score them, and raise review flags",
	Long: `Validate loads an extraction handoff file and:
- Scores each claimed value against its quoted evidence
- Computes a 0-100 confidence per fact
- Runs the full flagging rule set (evidence, completeness, consistency, cross-domain)
- Routes facts with blocking flags to the review queue
- Writes the engine state for the review commands to operate on

Example:
  credence validate facts.yaml
  credence validate facts.yaml --state assessment.json`,
	Args: cobra.ExactArgs(1),
	RunE: runValidate,
}

func init() {
	rootCmd.AddCommand(validateCmd)

	validateCmd.Flags().StringVar(&statePath, "state", "credence-state.json", "output engine state path")
}

func runValidate(cmd *cobra.Command, args []string) error {
	file, err := store.ReadIngestFile(args[0])
	if err != nil {
		return err
	}
	facts := file.ToFacts()

	if verbose {
		fmt.Fprintf(os.Stderr, "Loaded %d facts from %s\n", len(facts), args[0])
	}

	st := store.NewMemStore()
	eng := engine.New(loadConfig(), engine.WithStore(st))
	if err := eng.Ingest(facts); err != nil {
		return fmt.Errorf("ingest failed: %w", err)
	}

	if err := st.SaveFile(statePath); err != nil {
		return err
	}

	flagged := 0
	for _, f := range st.Facts() {
		open := st.OpenFlags(f.ID)
		if len(open) > 0 {
			flagged++
		}
		if verbose {
			fmt.Fprintf(os.Stderr, "  %-28s %3d/100 (%s) %d open flags\n",
				f.ID, f.Confidence, model.BandFor(f.Confidence), len(open))
		}
	}

	fmt.Printf("Validated %d facts: %d need review\n", len(facts), flagged)
	for _, ds := range eng.Aggregates() {
		fmt.Printf("  %-16s %s  confidence %d/100, %d critical, %d error, %d warning\n",
			ds.Domain, ds.Icon, ds.WeightedConfidence, ds.OpenCritical, ds.OpenError, ds.OpenWarning)
	}
	fmt.Printf("State written to %s\n", statePath)
	return nil
}
