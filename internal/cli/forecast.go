package cli

import (
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(forecastCmd)
	forecastCmd.Flags().Int("months", 0, "Forecast horizon in months (0 for the configured default)")
}

var forecastCmd = &cobra.Command{
	Use:   "forecast",
	Short: "Print the day-by-day cash-flow forecast and the first risk day",
	Args:  cobra.NoArgs,
	RunE:  runForecast,
}

func runForecast(cmd *cobra.Command, args []string) error {
	months, _ := cmd.Flags().GetInt("months")

	s, err := newSession(cmd)
	if err != nil {
		return err
	}
	defer s.close()

	resp, err := s.svc.ForecastCashFlow(cmd.Context(), s.userID, months)
	if err != nil {
		return err
	}
	return printJSON(cmd, resp)
}
