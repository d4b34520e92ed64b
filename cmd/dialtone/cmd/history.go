package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/dialforge/dialtone/client"
	"github.com/dialforge/dialtone/internal/util"
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Show call history",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}
		defer a.Close()

		calls, err := a.client.CallHistory(cmd.Context())
		if err != nil {
			return fmt.Errorf("%s", client.UserMessage(err, "failed to fetch call history"))
		}
		if len(calls) == 0 {
			fmt.Println("No calls yet")
			return nil
		}
		for _, c := range calls {
			fmt.Printf("%-18s %-11s %s  %s\n",
				c.PhoneNumber,
				c.Status,
				c.StartTime.Format("Jan 2 15:04"),
				util.FormatDuration(c.Duration),
			)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(historyCmd)
}
