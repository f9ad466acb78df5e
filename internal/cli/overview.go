package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/2beens/gymtrainer/internal"
	"github.com/2beens/gymtrainer/internal/gymstats/catalog"
	"github.com/2beens/gymtrainer/internal/gymstats/prescription"

	"github.com/spf13/cobra"
)

func newOverviewCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "overview [day]",
		Short: "Print the prescription of a training day and exit",
		Long: `Prints every exercise of the training day with its set groups and sets.
Without a day argument, the configured day_id (or the plan's first day) is used.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(opts)
			if err != nil {
				return err
			}
			override := ""
			if len(args) == 1 {
				override = args[0]
			}

			app, err := internal.NewApp(cmd.Context(), internal.NewAppParams{Config: cfg})
			if err != nil {
				return fmt.Errorf("new app: %w", err)
			}
			defer app.Close(cmd.Context())

			day, err := app.LoadDay(cmd.Context(), dayID(cfg, override))
			if err != nil {
				return err
			}
			printDay(cmd.OutOrStdout(), day)
			return nil
		},
	}
}

func printDay(out io.Writer, day catalog.TrainingDay) {
	fmt.Fprintf(out, "[%s] %s\n", day.ID, day.Name)
	for i, ex := range day.Exercises {
		fmt.Fprintf(out, "%d. %s (%s)", i+1, ex.Name, ex.ID)
		if details := joinNonEmpty(ex.BodyPart, ex.Equipment); details != "" {
			fmt.Fprintf(out, " %s", details)
		}
		fmt.Fprintln(out)

		if ex.Prescription.IsEmpty() {
			fmt.Fprintln(out, "   nothing prescribed")
			continue
		}

		remaining := ex.Prescription.TotalSets()
		for _, group := range ex.Prescription.Groups {
			if len(group.Sets) == 0 {
				continue
			}
			sets := make([]string, 0, len(group.Sets))
			for _, set := range group.Sets {
				remaining--
				sets = append(sets, formatSet(set, remaining > 0))
			}
			fmt.Fprintf(out, "   %s: %s", group.Type.Label(), strings.Join(sets, ", "))
			if group.Notes != "" {
				fmt.Fprintf(out, " (%s)", group.Notes)
			}
			fmt.Fprintln(out)
		}
	}
}

func formatSet(set prescription.SetSpec, withRest bool) string {
	s := fmt.Sprintf("%d", set.Reps)
	if set.Weight > 0 {
		s += fmt.Sprintf("x%.1fkg", set.Weight)
	}
	if set.RPE != nil {
		s += fmt.Sprintf(" @%.1f", *set.RPE)
	}
	if withRest && set.RestSeconds() > 0 {
		s += fmt.Sprintf(" rest %ds", set.RestSeconds())
	}
	return s
}

func joinNonEmpty(values ...string) string {
	kept := make([]string, 0, len(values))
	for _, v := range values {
		if v != "" {
			kept = append(kept, v)
		}
	}
	return strings.Join(kept, ", ")
}
