package cmd

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/dialforge/dialtone/internal/util"
	"github.com/dialforge/dialtone/phone"
)

var callCmd = &cobra.Command{
	Use:   "call <number>",
	Short: "Place an outbound call",
	Long: `Places a call through the backend and keeps it open until you hang up.
While the call is active, press Enter to hang up or type "m" to toggle mute.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}
		defer a.Close()

		ctrl := phone.New(a.client,
			phone.WithNotifier(notifier{}),
			phone.WithOnCallStarted(func(cs phone.CallSession) {
				fmt.Printf("Calling %s (call %s)\n", cs.TargetNumber, cs.CallID)
			}),
			phone.WithOnCallEnded(func(cs phone.CallSession) {
				fmt.Printf("Call to %s lasted %s\n", cs.TargetNumber, util.FormatDuration(cs.ElapsedSeconds))
			}),
		)
		defer ctrl.Close()

		if err := ctrl.Dial(cmd.Context(), args[0]); err != nil {
			return err
		}

		fmt.Println("Press Enter to hang up, 'm' to toggle mute.")
		reader := bufio.NewReader(os.Stdin)
		for ctrl.Status() == phone.StatusActive {
			line, err := reader.ReadString('\n')
			if err != nil {
				break
			}
			switch strings.TrimSpace(line) {
			case "m":
				if ctrl.ToggleMute() {
					fmt.Println("Microphone muted")
				} else {
					fmt.Println("Microphone unmuted")
				}
				fmt.Printf("%s elapsed\n", util.FormatDuration(ctrl.Elapsed()))
			default:
				return ctrl.EndCall(cmd.Context())
			}
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(callCmd)
}
