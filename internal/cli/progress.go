package cli

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"alcyxob/fitness-calendar/internal/calendar"
	"alcyxob/fitness-calendar/internal/domain"
	"alcyxob/fitness-calendar/internal/service"
	"alcyxob/fitness-calendar/internal/stats"

	"github.com/spf13/cobra"
)

// ActiveWeekView is the output of the active command.
type ActiveWeekView struct {
	ProgramID  string             `json:"programId"`
	Date       string             `json:"date"`
	WeekNumber int                `json:"weekNumber"`
	PhaseID    string             `json:"phaseId"`
	PhaseName  string             `json:"phaseName,omitempty"`
	Week       *domain.Week       `json:"week"`
	Progress   stats.WeekProgress `json:"progress"`
	Completed  []string           `json:"completedDays"`
}

// NewActiveCommand creates the active command.
func NewActiveCommand(rootOpts *RootOptions) *cobra.Command {
	var date, programID string

	cmd := &cobra.Command{
		Use:   "active",
		Short: "Show the week the program is in",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			on, err := parseDateFlag("date", date)
			if err != nil {
				return err
			}
			return withApp(cmd, rootOpts, func(ctx context.Context, a *app, out *OutputFormatter) error {
				program, err := a.loadProgram(ctx, programID)
				if err != nil {
					return err
				}
				active := a.progress.ResolveActive(program, on)
				if active == nil {
					return service.ErrNoActiveWeek
				}
				progress, err := a.completions.WeekProgress(ctx, active.Week)
				if err != nil {
					return err
				}
				done, err := a.completedSet(ctx)
				if err != nil {
					return err
				}

				view := ActiveWeekView{
					ProgramID:  program.ID,
					Date:       domain.FormatISODate(on),
					WeekNumber: active.WeekNumber,
					PhaseID:    active.Phase.ID,
					PhaseName:  active.Phase.Name,
					Week:       active.Week,
					Progress:   progress,
					Completed:  []string{},
				}
				for _, d := range active.Week.Days {
					if done[domain.WorkoutKey(active.Week.PhaseID, active.Week.ID, d.ID)] {
						view.Completed = append(view.Completed, d.ID)
					}
				}

				return out.Success(view, func(w io.Writer) {
					fmt.Fprintf(w, "%s: week %d of %d, phase %d", program.Name, view.WeekNumber, program.TotalWeeks(), active.Phase.Number)
					if view.PhaseName != "" {
						fmt.Fprintf(w, " (%s)", view.PhaseName)
					}
					fmt.Fprintln(w)
					fmt.Fprintf(w, "progress: %d/%d (%.0f%%)\n", progress.Completed, progress.Total, progress.Percentage)
					for _, d := range active.Week.Days {
						mark := " "
						if done[domain.WorkoutKey(active.Week.PhaseID, active.Week.ID, d.ID)] {
							mark = "x"
						}
						fmt.Fprintf(w, "  [%s] %-6s %-7s %s\n", mark, d.Code, d.Type, d.Name)
					}
				})
			})
		},
	}

	cmd.Flags().StringVar(&date, "date", "", "date to resolve (YYYY-MM-DD, default today)")
	cmd.Flags().StringVar(&programID, "program", "", "program id (default current)")
	return cmd
}

// NewCalendarCommand creates the calendar command.
func NewCalendarCommand(rootOpts *RootOptions) *cobra.Command {
	var (
		year, month    int
		today, phaseID string
		programID      string
	)

	cmd := &cobra.Command{
		Use:   "calendar",
		Short: "Show a month of the program",
		Long: `Show a Monday-first month grid. Each day shows the workout code,
"-" for rest and nothing outside the program. A "+" marks a completed
workout and "#" a week that is still locked.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			now, err := parseDateFlag("today", today)
			if err != nil {
				return err
			}
			if year == 0 {
				year = now.Year()
			}
			if month == 0 {
				month = int(now.Month())
			}
			if month < 1 || month > 12 {
				return fmt.Errorf("--month %d: expected 1-12", month)
			}

			return withApp(cmd, rootOpts, func(ctx context.Context, a *app, out *OutputFormatter) error {
				program, err := a.loadProgram(ctx, programID)
				if err != nil {
					return err
				}
				selected := selectedPhase(a, program, phaseID, now)
				view := a.progress.ProjectMonth(year, time.Month(month), program, selected, now)
				done, err := a.completedSet(ctx)
				if err != nil {
					return err
				}
				return out.Success(view, func(w io.Writer) {
					renderMonth(w, view, done)
				})
			})
		},
	}

	cmd.Flags().IntVar(&year, "year", 0, "year (default this year)")
	cmd.Flags().IntVar(&month, "month", 0, "month 1-12 (default this month)")
	cmd.Flags().StringVar(&today, "today", "", "reference date for gating (YYYY-MM-DD)")
	cmd.Flags().StringVar(&phaseID, "phase", "", "phase to highlight (default the active phase)")
	cmd.Flags().StringVar(&programID, "program", "", "program id (default current)")
	return cmd
}

// DayView is the output of the day command.
type DayView struct {
	Projection domain.DayProjection `json:"projection"`
	Available  bool                 `json:"available"`
	Completed  bool                 `json:"completed"`
}

// NewDayCommand creates the day command.
func NewDayCommand(rootOpts *RootOptions) *cobra.Command {
	var today, phaseID, programID string

	cmd := &cobra.Command{
		Use:   "day <date>",
		Short: "Show what is scheduled on a date",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			date, err := domain.ParseISODate(args[0], time.Local)
			if err != nil {
				return fmt.Errorf("date %q: %w", args[0], err)
			}
			now, err := parseDateFlag("today", today)
			if err != nil {
				return err
			}

			return withApp(cmd, rootOpts, func(ctx context.Context, a *app, out *OutputFormatter) error {
				program, err := a.loadProgram(ctx, programID)
				if err != nil {
					return err
				}
				projection := a.progress.Project(date, program, selectedPhase(a, program, phaseID, now))
				view := DayView{Projection: projection}

				if projection.Kind != domain.ProjectionOutside {
					if _, week, ok := program.FindWeek(projection.WeekNumber); ok {
						view.Available = a.progress.IsAvailable(program, week, a.progress.ActiveWeekNumber(program, now))
					}
				}
				if key, ok := projection.WorkoutKey(); ok {
					done, err := a.completedSet(ctx)
					if err != nil {
						return err
					}
					view.Completed = done[key]
				}

				return out.Success(view, func(w io.Writer) {
					renderDay(w, view)
				})
			})
		},
	}

	cmd.Flags().StringVar(&today, "today", "", "reference date for gating (YYYY-MM-DD)")
	cmd.Flags().StringVar(&phaseID, "phase", "", "phase being browsed")
	cmd.Flags().StringVar(&programID, "program", "", "program id (default current)")
	return cmd
}

func selectedPhase(a *app, program *domain.Program, phaseID string, now time.Time) *domain.Phase {
	if phaseID != "" {
		if phase, ok := program.PhaseByID(phaseID); ok {
			return phase
		}
	}
	if active := a.progress.ResolveActive(program, now); active != nil {
		return active.Phase
	}
	return nil
}

func renderMonth(w io.Writer, view calendar.MonthView, done map[string]bool) {
	fmt.Fprintf(w, "%s %d (active week %d)\n", view.Month, view.Year, view.ActiveWeek)
	fmt.Fprintln(w, "Mo       Tu       We       Th       Fr       Sa       Su")
	for _, row := range view.Weeks {
		cells := make([]string, 0, len(row))
		for _, cell := range row {
			cells = append(cells, fmt.Sprintf("%-8s", cellLabel(cell, done)))
		}
		fmt.Fprintln(w, strings.TrimRight(strings.Join(cells, " "), " "))
	}
}

func cellLabel(cell calendar.Cell, done map[string]bool) string {
	if !cell.InMonth || cell.Projection == nil {
		return ""
	}
	p := cell.Projection
	label := fmt.Sprintf("%2d", p.DayOfMonth)
	switch p.Kind {
	case domain.ProjectionOutside:
		return label
	case domain.ProjectionRest:
		label += " -"
	default:
		label += " " + p.Code()
		if key, ok := p.WorkoutKey(); ok && done[key] {
			label += "+"
		}
	}
	if !cell.Available {
		label += "#"
	}
	return label
}

func renderDay(w io.Writer, view DayView) {
	p := view.Projection
	if p.Kind == domain.ProjectionOutside {
		fmt.Fprintf(w, "%s: outside the program\n", p.DateISO)
		return
	}

	fmt.Fprintf(w, "%s: %s", p.DateISO, p.Kind)
	if code := p.Code(); code != "" {
		fmt.Fprintf(w, " %s", code)
	}
	fmt.Fprintf(w, " (week %d)", p.WeekNumber)
	if !view.Available {
		fmt.Fprint(w, ", locked")
	}
	if view.Completed {
		fmt.Fprint(w, ", completed")
	}
	fmt.Fprintln(w)

	if p.Day == nil {
		return
	}
	for _, ex := range p.Day.Exercises {
		line := "  - " + ex.Name
		if ex.Sets > 0 && ex.Reps != "" {
			line += fmt.Sprintf(" %dx%s", ex.Sets, ex.Reps)
		}
		if ex.Weight != "" {
			line += " @ " + ex.Weight
		}
		fmt.Fprintf(w, "%s  [%s]\n", line, domain.ExerciseKey(p.Day.ID, ex.ID))
	}
}
