package cli

import (
	"time"

	"github.com/spf13/cobra"

	"github.com/Dan9191/cashflow-service/internal/models"
)

func init() {
	rootCmd.AddCommand(billsCmd)
	billsCmd.Flags().Int("months", 12, "Months of history to analyse")
}

var billsCmd = &cobra.Command{
	Use:   "bills",
	Short: "List recurring bills detected in the user's history",
	Args:  cobra.NoArgs,
	RunE:  runBills,
}

func runBills(cmd *cobra.Command, args []string) error {
	months, _ := cmd.Flags().GetInt("months")
	if months <= 0 {
		return models.InputErrorf("--months must be positive, got %d", months)
	}

	s, err := newSession(cmd)
	if err != nil {
		return err
	}
	defer s.close()

	r := s.svc.Engine().BillRangeMonths(time.Now(), months)
	resp, err := s.svc.ListRecurringBills(cmd.Context(), s.userID, &r)
	if err != nil {
		return err
	}
	return printJSON(cmd, resp)
}
