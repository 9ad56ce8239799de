package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"
)

var (
	ackReason string
	ackBy     string
	ackDays   int
)

var ackCmd = &cobra.Command{
	Use:   "ack <case-number>",
	Short: "Hide a case from the report",
	Long: `Acknowledge a case so it no longer appears in the report. With --days the
acknowledgment expires on its own; without it the case stays hidden until
"tracker unack".`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if ackDays < 0 {
			return fmt.Errorf("--days must not be negative")
		}
		a, err := current.svc.Acknowledge(cmd.Context(), args[0], ackReason, ackBy, time.Duration(ackDays)*24*time.Hour)
		if err != nil {
			return err
		}
		if jsonOutput {
			return printJSON(a)
		}
		msg := fmt.Sprintf("Acknowledged %s", a.CaseNumber)
		if a.ReviewAfter != nil {
			msg += " until " + a.ReviewAfter.Local().Format("2006-01-02")
		}
		fmt.Fprintln(cmd.OutOrStdout(), passStyle.Render(msg))
		return nil
	},
}

var unackCmd = &cobra.Command{
	Use:   "unack <case-number>",
	Short: "Return an acknowledged case to the report",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := current.svc.Unacknowledge(cmd.Context(), args[0]); err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), passStyle.Render("Removed acknowledgment of "+args[0]))
		return nil
	},
}

func init() {
	ackCmd.Flags().StringVarP(&ackReason, "reason", "r", "", "Why the case needs no follow-up")
	ackCmd.Flags().StringVar(&ackBy, "by", "", "Who acknowledged it")
	ackCmd.Flags().IntVarP(&ackDays, "days", "d", 0, "Snooze for this many days (0 = until unack)")
}
