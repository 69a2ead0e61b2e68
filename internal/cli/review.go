package cli

import (
	"context"
	"fmt"
	"strconv"

	"github.com/ppiankov/credence/internal/engine"
	"github.com/ppiankov/credence/internal/model"
	"github.com/spf13/cobra"
)

var (
	reviewFact      string
	reviewReason    string
	reviewReviewer  string
	reviewVersion   int
	reviewValue     string
	reviewValueKind string
	reviewQuote     string
	reviewSource    string
	reviewPreview   bool
	skipNote        string
)

// correctCmd represents the correct command
var correctCmd = &cobra.Command{
	Use:   "correct <state.json>",
	Short: "Apply a corrected value and ripple it through derived facts",
	Long: `Correct replaces a fact's value with the reviewer's correction,
recomputes every derived fact that depends on it, and appends one audit
record per changed fact. The whole change set commits atomically or not
at all.

Example:
  credence correct assessment.json --fact team-a-headcount \
    --value 15 --reason "corrected from updated org chart" \
    --reviewer jdoe --expected-version 1
  credence correct assessment.json --fact team-a-headcount \
    --value 15 --reason "..." --reviewer jdoe --expected-version 1 --preview`,
	Args: cobra.ExactArgs(1),
	RunE: runCorrect,
}

// confirmCmd represents the confirm command
var confirmCmd = &cobra.Command{
	Use:   "confirm <state.json>",
	Short: "Confirm a fact's value as extracted",
	Long: `Confirm accepts the extracted value. A fact with open critical or
error flags cannot be confirmed until those flags are resolved.`,
	Args: cobra.ExactArgs(1),
	RunE: makeDecisionRunner(model.ActionConfirm),
}

// rejectCmd represents the reject command
var rejectCmd = &cobra.Command{
	Use:   "reject <state.json>",
	Short: "Reject a fact as incorrectly extracted",
	Long:  `Reject discards the claim. A non-empty reason is required.`,
	Args:  cobra.ExactArgs(1),
	RunE:  makeDecisionRunner(model.ActionReject),
}

// skipCmd represents the skip command
var skipCmd = &cobra.Command{
	Use:   "skip <state.json>",
	Short: "Release a checked-out item back to the queue",
	Long:  `Skip releases the reviewer's lease without changing the fact; the item stays queued for later.`,
	Args:  cobra.ExactArgs(1),
	RunE:  runSkip,
}

func init() {
	rootCmd.AddCommand(correctCmd)
	rootCmd.AddCommand(confirmCmd)
	rootCmd.AddCommand(rejectCmd)
	rootCmd.AddCommand(skipCmd)

	for _, c := range []*cobra.Command{correctCmd, confirmCmd, rejectCmd} {
		c.Flags().StringVar(&reviewFact, "fact", "", "fact id (required)")
		c.Flags().StringVar(&reviewReason, "reason", "", "reviewer rationale (required)")
		c.Flags().StringVar(&reviewReviewer, "reviewer", "", "reviewer identity (required)")
		c.Flags().IntVar(&reviewVersion, "expected-version", 0, "fact version the decision was made against (required)")
		_ = c.MarkFlagRequired("fact")
		_ = c.MarkFlagRequired("reviewer")
		_ = c.MarkFlagRequired("expected-version")
	}

	correctCmd.Flags().StringVar(&reviewValue, "value", "", "corrected value (required)")
	correctCmd.Flags().StringVar(&reviewValueKind, "value-kind", "auto", "value kind (auto, number, text)")
	correctCmd.Flags().StringVar(&reviewQuote, "evidence-quote", "", "quoted span supporting the correction")
	correctCmd.Flags().StringVar(&reviewSource, "evidence-source", "", "source document of the new evidence")
	correctCmd.Flags().BoolVar(&reviewPreview, "preview", false, "show the would-be changes without committing")
	_ = correctCmd.MarkFlagRequired("value")

	skipCmd.Flags().StringVar(&reviewFact, "fact", "", "fact id (required)")
	skipCmd.Flags().StringVar(&reviewReviewer, "reviewer", "", "reviewer identity (required)")
	skipCmd.Flags().StringVar(&skipNote, "note", "skipped", "optional note for the audit trail")
	_ = skipCmd.MarkFlagRequired("fact")
	_ = skipCmd.MarkFlagRequired("reviewer")
}

// parseValue interprets the --value flag per --value-kind
func parseValue(raw, kind string) (model.Value, error) {
	switch kind {
	case "number":
		n, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return model.Value{}, fmt.Errorf("invalid numeric value %q: %w", raw, err)
		}
		return model.NumberValue(n), nil
	case "text":
		return model.TextValue(raw), nil
	case "auto":
		if n, err := strconv.ParseFloat(raw, 64); err == nil {
			return model.NumberValue(n), nil
		}
		return model.TextValue(raw), nil
	}
	return model.Value{}, fmt.Errorf("unknown value kind %q", kind)
}

func runCorrect(cmd *cobra.Command, args []string) error {
	eng, st, err := loadEngine(args[0])
	if err != nil {
		return err
	}

	value, err := parseValue(reviewValue, reviewValueKind)
	if err != nil {
		return err
	}

	d := engine.Decision{
		FactID:          reviewFact,
		Action:          model.ActionCorrect,
		NewValue:        &value,
		Reason:          reviewReason,
		Reviewer:        reviewReviewer,
		ExpectedVersion: reviewVersion,
	}
	if reviewQuote != "" {
		d.NewEvidence = append(d.NewEvidence, model.Evidence{Quote: reviewQuote, Source: reviewSource})
	}

	if reviewPreview {
		summary, err := eng.Preview(d)
		if err != nil {
			return err
		}
		fmt.Println("Preview (nothing committed):")
		printSummary(summary)
		return nil
	}

	summary, err := eng.Apply(context.Background(), d)
	if err != nil {
		return err
	}
	printSummary(summary)
	return st.SaveFile(args[0])
}

// makeDecisionRunner builds the shared confirm/reject handler
func makeDecisionRunner(action model.ActionKind) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		eng, st, err := loadEngine(args[0])
		if err != nil {
			return err
		}

		summary, err := eng.Apply(context.Background(), engine.Decision{
			FactID:          reviewFact,
			Action:          action,
			Reason:          reviewReason,
			Reviewer:        reviewReviewer,
			ExpectedVersion: reviewVersion,
		})
		if err != nil {
			return err
		}
		printSummary(summary)
		return st.SaveFile(args[0])
	}
}

func runSkip(cmd *cobra.Command, args []string) error {
	eng, st, err := loadEngine(args[0])
	if err != nil {
		return err
	}
	if err := eng.Skip(reviewFact, reviewReviewer, skipNote); err != nil {
		return err
	}
	fmt.Printf("Skipped %s; it stays in the queue\n", reviewFact)
	return st.SaveFile(args[0])
}

// printSummary renders the changes of a committed or previewed correction
func printSummary(s *engine.Summary) {
	for _, ch := range s.Changes {
		fmt.Printf("  %-13s %-28s %s -> %s (v%d -> v%d)\n",
			ch.Action, ch.FactID, ch.Before.String(), ch.After.String(), ch.FromVersion, ch.ToVersion)
	}
	if s.Truncated {
		fmt.Println("  ripple stopped at the configured depth bound")
	}
}
