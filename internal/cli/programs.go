package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"text/tabwriter"
	"time"

	"alcyxob/fitness-calendar/internal/catalog"
	"alcyxob/fitness-calendar/internal/domain"
	"alcyxob/fitness-calendar/internal/service"

	"github.com/spf13/cobra"
)

// ProgramSummary is the list/select view of a program.
type ProgramSummary struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	StartDate  string `json:"startDate,omitempty"`
	TotalWeeks int    `json:"totalWeeks"`
	Current    bool   `json:"current"`
}

func summarize(p *domain.Program, currentID string) ProgramSummary {
	s := ProgramSummary{
		ID:         p.ID,
		Name:       p.Name,
		TotalWeeks: p.TotalWeeks(),
		Current:    p.ID == currentID,
	}
	if p.StartDate != nil {
		s.StartDate = domain.FormatISODate(*p.StartDate)
	}
	return s
}

// NewImportCommand creates the import command.
func NewImportCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "import <file>",
		Short: "Import programs from a YAML or JSON file",
		Long: `Import one program or a list of programs. Programs with an id that
already exists are replaced.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			programs, err := catalog.LoadFile(args[0])
			if err != nil {
				return err
			}
			return withApp(cmd, rootOpts, func(ctx context.Context, a *app, out *OutputFormatter) error {
				imported, err := a.programs.Import(ctx, programs)
				if err != nil {
					return err
				}
				summaries := make([]ProgramSummary, 0, len(imported))
				for i := range imported {
					summaries = append(summaries, summarize(&imported[i], ""))
				}
				return out.Success(summaries, func(w io.Writer) {
					for _, s := range summaries {
						fmt.Fprintf(w, "imported %s (%s), %d weeks\n", s.ID, s.Name, s.TotalWeeks)
					}
				})
			})
		},
	}
}

// NewProgramsCommand creates the programs command.
func NewProgramsCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "programs",
		Short: "List imported programs",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, rootOpts, func(ctx context.Context, a *app, out *OutputFormatter) error {
				programs, err := a.programs.List(ctx)
				if err != nil {
					return err
				}
				currentID := ""
				if current, err := a.programs.Current(ctx); err == nil {
					currentID = current.ID
				} else if !errors.Is(err, service.ErrProgramNotFound) {
					return err
				}

				summaries := make([]ProgramSummary, 0, len(programs))
				for i := range programs {
					summaries = append(summaries, summarize(&programs[i], currentID))
				}
				return out.Success(summaries, func(w io.Writer) {
					if len(summaries) == 0 {
						fmt.Fprintln(w, "no programs imported")
						return
					}
					tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
					fmt.Fprintln(tw, "\tID\tNAME\tSTART\tWEEKS")
					for _, s := range summaries {
						marker := ""
						if s.Current {
							marker = "*"
						}
						start := s.StartDate
						if start == "" {
							start = "-"
						}
						fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%d\n", marker, s.ID, s.Name, start, s.TotalWeeks)
					}
					tw.Flush()
				})
			})
		},
	}
}

// NewSelectCommand creates the select command.
func NewSelectCommand(rootOpts *RootOptions) *cobra.Command {
	var start string

	cmd := &cobra.Command{
		Use:   "select <programId>",
		Short: "Make a program current",
		Long: `Make a program current. With --start the program's start date is set,
which is what week gating counts from.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var startDate *time.Time
			if start != "" {
				t, err := parseDateFlag("start", start)
				if err != nil {
					return err
				}
				startDate = &t
			}
			return withApp(cmd, rootOpts, func(ctx context.Context, a *app, out *OutputFormatter) error {
				program, err := a.programs.Select(ctx, args[0], startDate)
				if err != nil {
					return err
				}
				summary := summarize(program, program.ID)
				return out.Success(summary, func(w io.Writer) {
					fmt.Fprintf(w, "current program: %s (%s)\n", summary.ID, summary.Name)
					if summary.StartDate != "" {
						fmt.Fprintf(w, "starts %s, %d weeks\n", summary.StartDate, summary.TotalWeeks)
					}
				})
			})
		},
	}

	cmd.Flags().StringVar(&start, "start", "", "start date (YYYY-MM-DD)")
	return cmd
}
