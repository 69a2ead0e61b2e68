package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

// statusCmd represents the status command
var statusCmd = &cobra.Command{
	Use:   "status <state.json>",
	Short: "Show per-domain confidence and open flag counts",
	Long: `Status rolls the fact base up by domain: evidence-weighted confidence,
open flag counts by severity, and a traffic-light icon. A domain with
any open critical or error flag can never show green.

Example:
  credence status assessment.json`,
	Args: cobra.ExactArgs(1),
	RunE: runStatus,
}

func init() {
	rootCmd.AddCommand(statusCmd)
}

func runStatus(cmd *cobra.Command, args []string) error {
	eng, _, err := loadEngine(args[0])
	if err != nil {
		return err
	}

	for _, ds := range eng.Aggregates() {
		fmt.Printf("%s %-16s %3d facts  confidence %d/100 (mean %d)\n",
			ds.Icon, ds.Domain, ds.FactCount, ds.WeightedConfidence, ds.MeanConfidence)
		if ds.OpenCritical+ds.OpenError+ds.OpenWarning+ds.OpenInfo > 0 {
			fmt.Printf("    open flags: %d critical, %d error, %d warning, %d info\n",
				ds.OpenCritical, ds.OpenError, ds.OpenWarning, ds.OpenInfo)
		}
	}
	return nil
}
