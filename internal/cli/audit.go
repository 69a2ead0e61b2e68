package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

var auditFact string

// auditCmd represents the audit command
var auditCmd = &cobra.Command{
	Use:   "audit <state.json>",
	Short: "Show the correction history",
	Long: `Audit prints the append-only correction trail, oldest first. With
--fact it shows the history of a single fact, including ripple updates
the engine applied on its behalf.

Example:
  credence audit assessment.json
  credence audit assessment.json --fact total-it-headcount`,
	Args: cobra.ExactArgs(1),
	RunE: runAudit,
}

func init() {
	rootCmd.AddCommand(auditCmd)

	auditCmd.Flags().StringVar(&auditFact, "fact", "", "limit to a single fact id")
}

func runAudit(cmd *cobra.Command, args []string) error {
	eng, _, err := loadEngine(args[0])
	if err != nil {
		return err
	}

	records := eng.FullHistory()
	if auditFact != "" {
		records = eng.History(auditFact)
	}
	if len(records) == 0 {
		fmt.Println("No correction records")
		return nil
	}

	for _, r := range records {
		fmt.Printf("%s  %-13s %-28s v%d  by %s\n",
			r.Timestamp.Format("2006-01-02 15:04:05"), r.Action, r.FactID, r.Version, r.Reviewer)
		if !r.Before.Empty() || !r.After.Empty() {
			fmt.Printf("    %s -> %s\n", r.Before.String(), r.After.String())
		}
		if r.Reason != "" {
			fmt.Printf("    reason: %s\n", r.Reason)
		}
	}
	return nil
}
