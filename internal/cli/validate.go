package cli

import (
	"fmt"

	"github.com/2beens/gymtrainer/internal"

	"github.com/spf13/cobra"
)

func newValidateCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "validate",
		Short: "Load the configured plan from the catalog and check every day",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(opts)
			if err != nil {
				return err
			}

			ctx := cmd.Context()
			app, err := internal.NewApp(ctx, internal.NewAppParams{Config: cfg})
			if err != nil {
				return fmt.Errorf("new app: %w", err)
			}
			defer app.Close(ctx)

			plan, err := app.Provider().GetPlan(ctx, cfg.PlanID)
			if err != nil {
				return fmt.Errorf("load plan [%s]: %w", cfg.PlanID, err)
			}

			exercises, sets := 0, 0
			for _, day := range plan.Days {
				for _, ex := range day.Exercises {
					if err := ex.Prescription.Validate(); err != nil {
						return fmt.Errorf("day [%s] exercise [%s]: %w", day.ID, ex.ID, err)
					}
					exercises++
					sets += ex.Prescription.TotalSets()
				}
			}
			if cfg.DayID != "" {
				if _, ok := plan.Day(cfg.DayID); !ok {
					return fmt.Errorf("configured day [%s] not in plan [%s]", cfg.DayID, plan.ID)
				}
			}

			fmt.Fprintf(cmd.OutOrStdout(), "plan [%s] %s: %d days, %d exercises, %d sets ok\n",
				plan.ID, plan.Name, len(plan.Days), exercises, sets)
			return nil
		},
	}
}
