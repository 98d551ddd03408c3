package main

import (
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/username/worksite-calendar/internal/session"
	"github.com/username/worksite-calendar/internal/workcal"
	"github.com/username/worksite-calendar/pkg/dateutil"
)

func checkCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "check DATE...",
		Short: "Report whether dates are work days",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dates := make([]time.Time, 0, len(args))
			for _, arg := range args {
				d, err := parseDateArg(arg)
				if err != nil {
					return err
				}
				dates = append(dates, d)
			}

			eng, err := loadEngine(cmd.Context(), dates...)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			for _, d := range dates {
				printDayStatus(out, workcal.Classify(d, eng.constraints))
			}
			return nil
		},
	}
}

func rangeCmd() *cobra.Command {
	var quiet bool

	cmd := &cobra.Command{
		Use:   "range FROM TO",
		Short: "List work days in an inclusive range",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			from, err := parseDateArg(args[0])
			if err != nil {
				return err
			}
			to, err := parseDateArg(args[1])
			if err != nil {
				return err
			}

			eng, err := loadEngine(cmd.Context(), from, to)
			if err != nil {
				return err
			}

			report, err := workcal.WorkDaysInRange(from, to, eng.constraints)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if !quiet {
				for _, d := range report.Dates {
					fmt.Fprintf(out, "%s %s\n", dateutil.Key(d), d.Weekday().String()[:3])
				}
			}
			fmt.Fprintf(out, "Work days: %d\n", report.Count)
			return nil
		},
	}

	cmd.Flags().BoolVarP(&quiet, "quiet", "q", false, "Print only the count")

	return cmd
}

func nextCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "next [DATE]",
		Short: "First work day after DATE (default today)",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runStep(cmd, args, workcal.NextWorkDay)
		},
	}
}

func prevCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "prev [DATE]",
		Short: "Last work day before DATE (default today)",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runStep(cmd, args, workcal.PreviousWorkDay)
		},
	}
}

func runStep(cmd *cobra.Command, args []string, step func(time.Time, workcal.ConstraintSet) (time.Time, error)) error {
	date := dateutil.Today()
	if len(args) == 1 {
		var err error
		if date, err = parseDateArg(args[0]); err != nil {
			return err
		}
	}

	eng, err := loadEngine(cmd.Context(), date)
	if err != nil {
		return err
	}

	d, err := step(date, eng.constraints)
	if err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), dateutil.Key(d))
	return nil
}

func addCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "add DATE N",
		Short: "Move N work days from DATE (negative N goes back)",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			date, err := parseDateArg(args[0])
			if err != nil {
				return err
			}
			n, err := strconv.Atoi(args[1])
			if err != nil {
				return fmt.Errorf("invalid work day count %q: %w", args[1], err)
			}

			eng, err := loadEngine(cmd.Context(), date, date.AddDate(0, 0, 2*n))
			if err != nil {
				return err
			}

			d, err := workcal.AddWorkDays(date, n, eng.constraints)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), dateutil.Key(d))
			return nil
		},
	}
}

func monthCmd() *cobra.Command {
	var brief bool

	cmd := &cobra.Command{
		Use:   "month [YYYY-MM]",
		Short: "Summarize a month",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			today := dateutil.Today()
			year, month := today.Year(), today.Month()
			if len(args) == 1 {
				var err error
				if year, month, err = dateutil.ParseMonth(args[0]); err != nil {
					return err
				}
			}

			eng, err := loadEngine(cmd.Context(), dateutil.StartOfMonth(year, month))
			if err != nil {
				return err
			}

			summary := workcal.SummarizeMonth(year, month, eng.constraints)

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "%s %d (%s, %s)\n", month, year, eng.constraints.Preset(), eng.constraints.Jurisdiction())
			fmt.Fprintln(out, "═══════════════════════════════════════")
			fmt.Fprintf(out, "  Work days:      %d\n", summary.WorkDays)
			fmt.Fprintf(out, "  Weekends:       %d\n", summary.Weekends)
			fmt.Fprintf(out, "  Holidays:       %d\n", summary.Holidays)
			fmt.Fprintf(out, "  Blocked:        %d\n", summary.Blocked)
			fmt.Fprintf(out, "  Out of bounds:  %d\n", summary.OutOfBounds)
			fmt.Fprintf(out, "  Weather risk:   %d\n", summary.WeatherAdvisory)

			if !brief {
				fmt.Fprintln(out)
				for _, status := range summary.Days {
					printDayStatus(out, status)
				}
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&brief, "brief", false, "Print only the totals")

	return cmd
}

func selectCmd() *cobra.Command {
	var modeFlag string

	cmd := &cobra.Command{
		Use:   "select DATE",
		Short: "Apply a date to the saved selection",
		Long:  "Single mode replaces the selection; range mode picks the start, then the end. Non-work days are rejected and leave the selection unchanged.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			date, err := parseDateArg(args[0])
			if err != nil {
				return err
			}

			if modeFlag == "" {
				modeFlag = cfg.Calendar.Mode
			}
			mode, err := workcal.ParseMode(modeFlag)
			if err != nil {
				return err
			}

			store := session.NewStore(cfg.State.SelectionFile, mode, logger)
			if err := store.Load(); err != nil {
				return fmt.Errorf("failed to load selection: %w", err)
			}

			dates := []time.Time{date}
			if prev := store.State(); !prev.From.IsZero() {
				dates = append(dates, prev.From)
			}
			eng, err := loadEngine(cmd.Context(), dates...)
			if err != nil {
				return err
			}

			selector := workcal.NewSelector(mode, eng.constraints)
			outcome := selector.Select(store.State(), date)

			out := cmd.OutOrStdout()
			if !outcome.Accepted {
				status := workcal.Classify(date, eng.constraints)
				logger.Info("Selection rejected",
					zap.String("date", dateutil.Key(date)),
					zap.String("reasons", status.Reasons.String()))
				fmt.Fprintf(out, "Rejected %s (%s)\n", dateutil.Key(date), status.Reasons)
				fmt.Fprintf(out, "Selection: %s\n", outcome.State)
				return nil
			}

			store.Set(outcome.State)
			if err := store.Save(); err != nil {
				return err
			}

			fmt.Fprintf(out, "Selection: %s\n", outcome.State)
			printStats(out, outcome.State, outcome.Stats)
			return nil
		},
	}

	cmd.Flags().StringVarP(&modeFlag, "mode", "m", "", "Selection mode: single or range (default from config)")

	return cmd
}

func resetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "reset",
		Short: "Clear the saved selection",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			mode, err := workcal.ParseMode(cfg.Calendar.Mode)
			if err != nil {
				return err
			}
			store := session.NewStore(cfg.State.SelectionFile, mode, logger)
			if err := store.Reset(); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Selection: %s\n", store.State())
			return nil
		},
	}
}

func holidaysCmd() *cobra.Command {
	var year int

	cmd := &cobra.Command{
		Use:   "holidays",
		Short: "List public holidays of the active jurisdiction",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if year == 0 {
				year = dateutil.Today().Year()
			}

			eng, err := loadEngine(cmd.Context(), dateutil.Date(year, time.July, 1))
			if err != nil {
				return err
			}

			j := eng.constraints.Jurisdiction()
			holidays, err := eng.holidays.list(j, year)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			for _, h := range holidays {
				fmt.Fprintf(out, "%s %s  %s\n", dateutil.Key(h.Date), h.Date.Weekday().String()[:3], h.Name)
			}
			fmt.Fprintf(out, "%s %d: %d holiday(s)\n", j, year, len(holidays))
			return nil
		},
	}

	cmd.Flags().IntVarP(&year, "year", "y", 0, "Year (default current)")

	return cmd
}

func printDayStatus(out io.Writer, status workcal.DayStatus) {
	verdict := "work"
	if !status.WorkDay() {
		verdict = "off (" + status.Reasons.String() + ")"
	}
	line := fmt.Sprintf("%s %s  %s", dateutil.Key(status.Date), status.Date.Weekday().String()[:3], verdict)
	if status.WeatherAdvisory {
		line += "  [weather advisory]"
	}
	fmt.Fprintln(out, line)
}

func printStats(out io.Writer, state workcal.SelectionState, stats *workcal.Stats) {
	if stats == nil {
		return
	}
	if stats.Report != nil {
		span := dateutil.DaysBetween(state.From, state.To) + 1
		fmt.Fprintf(out, "Work days in range: %d of %d calendar day(s)\n", stats.Report.Count, span)
	}
	if stats.CriticalPath {
		fmt.Fprintln(out, "Critical path")
	}
}
