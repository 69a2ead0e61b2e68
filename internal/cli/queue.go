package cli

import (
	"errors"
	"fmt"

	"github.com/ppiankov/credence/internal/engine"
	"github.com/ppiankov/credence/internal/model"
	"github.com/ppiankov/credence/internal/queue"
	"github.com/ppiankov/credence/internal/store"
	"github.com/spf13/cobra"
)

var (
	queueDomain   string
	queueSeverity string
	queueCategory string
	queuePage     int
	queueReviewer string
)

// queueCmd represents the queue command
var queueCmd = &cobra.Command{
	Use:   "queue <state.json>",
	Short: "List facts awaiting human review",
	Long: `Queue lists flagged facts ordered by severity, domain, and flag age.
Filters combine with AND semantics; pages come from a point-in-time
snapshot, so ordering stays stable while corrections land.

Example:
  credence queue assessment.json
  credence queue assessment.json --severity critical --domain infrastructure
  credence queue assessment.json --page 2`,
	Args: cobra.ExactArgs(1),
	RunE: runQueue,
}

// nextCmd represents the next command
var nextCmd = &cobra.Command{
	Use:   "next <state.json>",
	Short: "Check out the highest-priority unleased item",
	Long: `Next leases the highest-priority review item to the reviewer. Another
reviewer asking for work is served a different item until the lease
expires or is released with skip.`,
	Args: cobra.ExactArgs(1),
	RunE: runNext,
}

func init() {
	rootCmd.AddCommand(queueCmd)
	rootCmd.AddCommand(nextCmd)

	queueCmd.Flags().StringVar(&queueDomain, "domain", "", "filter by domain")
	queueCmd.Flags().StringVar(&queueSeverity, "severity", "", "filter by severity (critical, error, warning, info)")
	queueCmd.Flags().StringVar(&queueCategory, "category", "", "filter by category")
	queueCmd.Flags().IntVar(&queuePage, "page", 0, "zero-based page number")

	nextCmd.Flags().StringVar(&queueReviewer, "reviewer", "", "reviewer identity (required)")
	_ = nextCmd.MarkFlagRequired("reviewer")
}

// loadEngine restores a state file into a fresh engine
func loadEngine(path string) (*engine.Engine, *store.MemStore, error) {
	st, err := store.LoadFile(path)
	if err != nil {
		return nil, nil, err
	}
	return engine.New(loadConfig(), engine.WithStore(st)), st, nil
}

func runQueue(cmd *cobra.Command, args []string) error {
	eng, _, err := loadEngine(args[0])
	if err != nil {
		return err
	}

	filter := queue.Filter{
		Domain:   model.Domain(queueDomain),
		Category: queueCategory,
	}
	if queueSeverity != "" {
		sev, err := model.ParseSeverity(queueSeverity)
		if err != nil {
			return err
		}
		filter.Severity = &sev
	}

	entries, _, total, err := eng.Queue().Page(filter, queuePage)
	if err != nil {
		return err
	}

	fmt.Printf("%d facts awaiting review (page %d)\n", total, queuePage)
	for _, e := range entries {
		fmt.Printf("  [%s] %-28s v%d  %s/%s  %q  confidence %d/100\n",
			e.Severity, e.FactID, e.Version, e.Domain, e.Category, e.Item, e.Confidence)
		for _, fl := range e.OpenFlags {
			fmt.Printf("        %-8s %s: %s\n", fl.Severity, fl.RuleID, fl.Message)
		}
	}
	return nil
}

func runNext(cmd *cobra.Command, args []string) error {
	eng, _, err := loadEngine(args[0])
	if err != nil {
		return err
	}

	entry, err := eng.Checkout(queueReviewer)
	if errors.Is(err, queue.ErrNoWork) {
		fmt.Println("Nothing to review")
		return nil
	}
	if err != nil {
		return err
	}

	fmt.Printf("Checked out %s (v%d) for %s\n", entry.FactID, entry.Version, queueReviewer)
	fmt.Printf("  %s/%s  %q = %s  confidence %d/100\n",
		entry.Domain, entry.Category, entry.Item, entry.Value.String(), entry.Confidence)
	for _, fl := range entry.OpenFlags {
		fmt.Printf("  [%s] %s: %s\n", fl.Severity, fl.RuleID, fl.Message)
	}
	return nil
}
