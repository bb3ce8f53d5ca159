package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"text/tabwriter"

	"alcyxob/fitness-calendar/internal/domain"

	"github.com/spf13/cobra"
)

// ToggleResult is the output of the toggle commands.
type ToggleResult struct {
	ID        string `json:"id"`
	Completed bool   `json:"completed"`
}

// NewToggleWorkoutCommand creates the toggle-workout command.
func NewToggleWorkoutCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "toggle-workout <phaseId-weekId-dayId>",
		Short: "Flip the completed state of a workout day",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, rootOpts, func(ctx context.Context, a *app, out *OutputFormatter) error {
				done, err := a.completions.ToggleWorkout(ctx, args[0])
				if err != nil {
					return err
				}
				return printToggle(out, ToggleResult{ID: args[0], Completed: done})
			})
		},
	}
}

// NewToggleExerciseCommand creates the toggle-exercise command.
func NewToggleExerciseCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "toggle-exercise <dayId-exerciseId>",
		Short: "Flip the completed state of an exercise",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, rootOpts, func(ctx context.Context, a *app, out *OutputFormatter) error {
				done, err := a.completions.ToggleExercise(ctx, args[0])
				if err != nil {
					return err
				}
				return printToggle(out, ToggleResult{ID: args[0], Completed: done})
			})
		},
	}
}

func printToggle(out *OutputFormatter, res ToggleResult) error {
	return out.Success(res, func(w io.Writer) {
		state := "not completed"
		if res.Completed {
			state = "completed"
		}
		fmt.Fprintf(w, "%s: %s\n", res.ID, state)
	})
}

// sessionFile is the on-disk shape accepted by the log command.
type sessionFile struct {
	Date      string               `json:"date"`
	ProgramID string               `json:"programId"`
	DayID     string               `json:"dayId"`
	Completed *bool                `json:"completed"` // defaults to true
	Exercises []domain.ExerciseLog `json:"exercises"`
}

// NewLogCommand creates the log command.
func NewLogCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "log <session.json|->",
		Short: "Record a completed session",
		Long: `Record a session read from a JSON file, or stdin with "-". Exercises
without any actual value are dropped; a session left with none is rejected.
Logging the same date, program and day again replaces the earlier record.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			record, err := readSessionFile(cmd, args[0])
			if err != nil {
				return err
			}
			return withApp(cmd, rootOpts, func(ctx context.Context, a *app, out *OutputFormatter) error {
				saved, err := a.completions.SaveSession(ctx, record)
				if err != nil {
					return err
				}
				return out.Success(saved, func(w io.Writer) {
					fmt.Fprintf(w, "logged %s day %s on %s with %d exercise(s)\n",
						saved.ProgramID, saved.DayID, saved.Date, len(saved.Exercises))
				})
			})
		},
	}
}

func readSessionFile(cmd *cobra.Command, path string) (domain.CompletionRecord, error) {
	var (
		data []byte
		err  error
	)
	if path == "-" {
		data, err = io.ReadAll(cmd.InOrStdin())
	} else {
		data, err = os.ReadFile(path)
	}
	if err != nil {
		return domain.CompletionRecord{}, fmt.Errorf("read session: %w", err)
	}

	var f sessionFile
	if err := json.Unmarshal(data, &f); err != nil {
		return domain.CompletionRecord{}, fmt.Errorf("parse session: %w", err)
	}
	completed := true
	if f.Completed != nil {
		completed = *f.Completed
	}
	return domain.CompletionRecord{
		Date:      f.Date,
		ProgramID: f.ProgramID,
		DayID:     f.DayID,
		Completed: completed,
		Exercises: f.Exercises,
	}, nil
}

// NewSessionsCommand creates the sessions command.
func NewSessionsCommand(rootOpts *RootOptions) *cobra.Command {
	var programID string

	cmd := &cobra.Command{
		Use:   "sessions",
		Short: "List logged sessions",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, rootOpts, func(ctx context.Context, a *app, out *OutputFormatter) error {
				var (
					sessions []domain.CompletionRecord
					err      error
				)
				if programID != "" {
					sessions, err = a.completions.ListSessionsByProgram(ctx, programID)
				} else {
					sessions, err = a.completions.ListSessions(ctx)
				}
				if err != nil {
					return err
				}
				if sessions == nil {
					sessions = []domain.CompletionRecord{}
				}
				return out.Success(sessions, func(w io.Writer) {
					if len(sessions) == 0 {
						fmt.Fprintln(w, "no sessions logged")
						return
					}
					tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
					fmt.Fprintln(tw, "DATE\tPROGRAM\tDAY\tEXERCISES\tCOMPLETED")
					for _, s := range sessions {
						fmt.Fprintf(tw, "%s\t%s\t%s\t%d\t%t\n", s.Date, s.ProgramID, s.DayID, len(s.Exercises), s.Completed)
					}
					tw.Flush()
				})
			})
		},
	}

	cmd.Flags().StringVar(&programID, "program", "", "only sessions of this program")
	return cmd
}

// NewStatsCommand creates the stats command.
func NewStatsCommand(rootOpts *RootOptions) *cobra.Command {
	var today string

	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Show total completed sessions and the current streak",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			now, err := parseDateFlag("today", today)
			if err != nil {
				return err
			}
			return withApp(cmd, rootOpts, func(ctx context.Context, a *app, out *OutputFormatter) error {
				st, err := a.completions.GetStats(ctx, now)
				if err != nil {
					return err
				}
				return out.Success(st, func(w io.Writer) {
					fmt.Fprintf(w, "total completed: %d\n", st.Total)
					fmt.Fprintf(w, "current streak:  %d day(s)\n", st.Streak)
				})
			})
		},
	}

	cmd.Flags().StringVar(&today, "today", "", "reference date (YYYY-MM-DD, default today)")
	return cmd
}
