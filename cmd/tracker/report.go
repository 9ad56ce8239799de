package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/JustJay7/collections-tracker/internal/model"
	"github.com/JustJay7/collections-tracker/internal/staleness"
)

var (
	reportAll      bool
	reportCategory string
)

var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Show the staleness report of the last analysis",
	Long: `Show cases grouped by staleness category, most stale first.

Examples:
  tracker report                       # All categories, acknowledged cases hidden
  tracker report --category critical   # One category
  tracker report --all --json          # Everything, as JSON`,
	RunE: runReport,
}

var historyCmd = &cobra.Command{
	Use:   "history <case-number>",
	Short: "Show one case's matched activity, newest first",
	Args:  cobra.ExactArgs(1),
	RunE:  runHistory,
}

var firmsCmd = &cobra.Command{
	Use:   "firms",
	Short: "Show response statistics per law firm",
	RunE:  runFirms,
}

func init() {
	reportCmd.Flags().BoolVar(&reportAll, "all", false, "Include acknowledged cases")
	reportCmd.Flags().StringVarP(&reportCategory, "category", "c", "", "Only show this category")
}

var categoryStyles = map[staleness.Category]lipgloss.Style{
	staleness.Critical:       urgentStyle,
	staleness.HighPriority:   warnStyle,
	staleness.NeedsFollowUp:  warnStyle,
	staleness.NoResponse:     warnStyle,
	staleness.NeverContacted: mutedStyle,
	staleness.HasResponses:   passStyle,
}

func runReport(cmd *cobra.Command, args []string) error {
	report, err := current.svc.Report(cmd.Context(), reportAll)
	if err != nil {
		return err
	}

	categories := staleness.Categories
	if reportCategory != "" {
		c := staleness.Category(reportCategory)
		if _, ok := report.Categories[c]; !ok {
			return fmt.Errorf("unknown category %q", reportCategory)
		}
		categories = []staleness.Category{c}
	}

	if jsonOutput {
		if reportCategory != "" {
			return printJSON(report.Categories[categories[0]])
		}
		return printJSON(report)
	}

	out := cmd.OutOrStdout()
	for _, c := range categories {
		numbers := report.Categories[c]
		title := fmt.Sprintf("%s (%d)", strings.ReplaceAll(string(c), "_", " "), len(numbers))
		fmt.Fprintln(out, categoryStyles[c].Inherit(headerStyle).Render(title))
		printNumbers(out, numbers, report.DaysSinceContact)
	}
	for _, f := range staleness.Flags {
		if len(report.Flags[f]) == 0 {
			continue
		}
		fmt.Fprintln(out, mutedStyle.Render(fmt.Sprintf("%s: %d", f, len(report.Flags[f]))))
	}
	return nil
}

func printNumbers(out io.Writer, numbers []string, days map[string]int) {
	if len(numbers) == 0 {
		fmt.Fprintln(out, mutedStyle.Render("  none"))
		return
	}
	w := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	for _, n := range numbers {
		if d, ok := days[n]; ok {
			fmt.Fprintf(w, "  %s\t%d days\n", n, d)
		} else {
			fmt.Fprintf(w, "  %s\t-\n", n)
		}
	}
	w.Flush()
}

func runHistory(cmd *cobra.Command, args []string) error {
	view, err := current.svc.Case(cmd.Context(), args[0])
	if err != nil {
		return err
	}
	if jsonOutput {
		return printJSON(view)
	}

	out := cmd.OutOrStdout()
	info := view.CaseInfo
	fmt.Fprintln(out, headerStyle.Render(fmt.Sprintf("%s  %s", info.CaseNumber, info.PatientName)))
	if info.LawFirm != "" {
		fmt.Fprintf(out, "  firm: %s\n", info.LawFirm)
	}
	fmt.Fprintf(out, "  sent: %d  received: %d\n", view.SentCount, view.ReceivedCount)
	if view.LastContact != nil {
		fmt.Fprintf(out, "  last contact: %s (%d days)\n", view.LastContact.Local().Format("2006-01-02"), view.Classification.DaysSinceContact)
	}
	var cats []string
	for _, c := range view.Classification.Categories {
		cats = append(cats, string(c))
	}
	fmt.Fprintf(out, "  categories: %s\n", strings.Join(cats, ", "))
	if a := view.Acknowledgment; a != nil {
		fmt.Fprintln(out, mutedStyle.Render("  acknowledged: "+a.Reason))
	}

	w := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	for _, a := range view.Activities {
		arrow := "<<"
		if a.Direction == model.DirectionSent {
			arrow = ">>"
		}
		fmt.Fprintf(w, "  %s\t%s\t%s\t%s\n", a.Date, arrow, a.Subject, mutedStyle.Render(string(a.MatchedBy)))
	}
	return w.Flush()
}

func runFirms(cmd *cobra.Command, args []string) error {
	firms, err := current.svc.Firms(cmd.Context())
	if err != nil {
		return err
	}
	if jsonOutput {
		return printJSON(firms)
	}

	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "FIRM\tCASES\tCONTACTED\tRESPONSIVE\tRATE")
	for _, f := range firms {
		fmt.Fprintf(w, "%s\t%d\t%d\t%d\t%.1f%%\n", f.LawFirm, f.Cases, f.Contacted, f.Responsive, f.ResponseRate)
	}
	return w.Flush()
}

func printJSON(v interface{}) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
