// Command fitplan drives the planner from the terminal: generate, inspect and
// manage plans, and store the Gemini API key.
package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"text/tabwriter"
	"time"

	"alcyxob/fitness-planner/internal/app"
	"alcyxob/fitness-planner/internal/config"
	"alcyxob/fitness-planner/internal/domain"
	"alcyxob/fitness-planner/internal/errs"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func main() {
	s := &session{}
	err := rootCmd(s).Execute()
	s.close()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %s\n", describe(err))
		os.Exit(1)
	}
}

// describe prefers the user-facing message for classified errors. Validation
// errors keep their per-field detail.
func describe(err error) string {
	var e *errs.Error
	if !errors.As(err, &e) || e.Kind == errs.KindValidation {
		return err.Error()
	}
	return errs.UserMessage(err)
}

// session is built once per invocation in PersistentPreRunE.
type session struct {
	configDir string
	verbose   bool
	app       *app.App
}

func (s *session) open(ctx context.Context) error {
	cfg, err := config.LoadConfig(s.configDir)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	logger := zap.NewNop()
	if s.verbose {
		if logger, err = app.NewLogger(config.LogConfig{Level: "debug", Development: true}); err != nil {
			return err
		}
	}
	a, err := app.New(ctx, cfg, logger)
	if err != nil {
		return err
	}
	s.app = a
	return nil
}

func (s *session) close() {
	if s.app != nil {
		s.app.Close()
		_ = s.app.Logger.Sync()
		s.app = nil
	}
}

func rootCmd(s *session) *cobra.Command {
	cmd := &cobra.Command{
		Use:           "fitplan",
		Short:         "AI fitness plan generator",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return s.open(cmd.Context())
		},
	}
	cmd.PersistentFlags().StringVar(&s.configDir, "config", ".", "Directory holding config.yaml and .env")
	cmd.PersistentFlags().BoolVarP(&s.verbose, "verbose", "v", false, "Log to stderr")

	cmd.AddCommand(plansCmd(s), demoCmd(s), generateCmd(s), apiKeyCmd(s))
	return cmd
}

func plansCmd(s *session) *cobra.Command {
	cmd := &cobra.Command{Use: "plans", Short: "Manage saved plans"}

	cmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List saved plans, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			plans, err := s.app.Plans.ListSaved(cmd.Context())
			if err != nil {
				return err
			}
			return printPlanTable(cmd.OutOrStdout(), plans)
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "show <id>",
		Short: "Print a plan as JSON",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			plan, _, err := s.app.Plans.GetPlan(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), plan)
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a saved plan",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := s.app.Plans.DeletePlan(cmd.Context(), args[0]); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "deleted %s\n", args[0])
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "save <id>",
		Short: "Save a plan",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			plan, err := s.app.Plans.SavePlan(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "saved %s\n", plan.ID)
			return nil
		},
	})

	return cmd
}

// finish prints plan and, with save set, promotes it out of the draft slot,
// which does not outlive the process.
func finish(cmd *cobra.Command, s *session, plan *domain.FitnessPlan, save bool) error {
	if save {
		if err := s.app.Plans.PromoteDraftToSaved(cmd.Context(), plan); err != nil {
			return err
		}
	}
	return printJSON(cmd.OutOrStdout(), plan)
}

func demoCmd(s *session) *cobra.Command {
	var (
		name string
		save bool
	)
	cmd := &cobra.Command{
		Use:   "demo",
		Short: "Create the demonstration plan without calling the AI",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			plan, err := s.app.Plans.DemoPlan(cmd.Context(), name)
			if err != nil {
				return err
			}
			return finish(cmd, s, plan, save)
		},
	}
	cmd.Flags().StringVar(&name, "name", "", "User name shown on the plan")
	cmd.Flags().BoolVar(&save, "save", false, "Save the plan")
	return cmd
}

func generateCmd(s *session) *cobra.Command {
	var (
		prefs domain.UserPreferences
		save  bool
	)
	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Generate a weekly plan with the AI",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			plan, err := s.app.Plans.GeneratePlan(cmd.Context(), prefs)
			if err != nil {
				return err
			}
			return finish(cmd, s, plan, save)
		},
	}
	f := cmd.Flags()
	f.StringVar(&prefs.Name, "name", "", "Your name")
	f.IntVar(&prefs.Age, "age", 0, "Age in years (12-100)")
	f.StringVar(&prefs.Gender, "gender", "", "Gender")
	f.Float64Var(&prefs.Weight, "weight", 0, "Weight in kg (30-300)")
	f.Float64Var(&prefs.Height, "height", 0, "Height in cm (100-250)")
	f.StringVar(&prefs.Goal, "goal", "General Fitness", "Fitness goal")
	f.StringVar(&prefs.Level, "level", "Beginner", "Experience level")
	f.StringVar(&prefs.Equipment, "equipment", "Gym", "Available equipment")
	f.StringVar(&prefs.Diet, "diet", "None", "Dietary preference")
	f.StringSliceVar(&prefs.WorkoutDays, "days", nil, "Workout days, e.g. Mon,Wed,Fri")
	f.StringVar(&prefs.Injuries, "injuries", "", "Injuries to work around")
	f.StringVar(&prefs.Allergies, "allergies", "", "Food allergies")
	f.StringVar(&prefs.Medications, "medications", "", "Current medications")
	f.StringVar(&prefs.Remarks, "remarks", "", "Anything else the plan should consider")
	f.IntVar(&prefs.MealsPerDay, "meals", 0, "Meals per day (0 lets the AI decide)")
	f.StringVar(&prefs.CheatDay, "cheat-day", "", "Weekly cheat day")
	f.BoolVar(&save, "save", false, "Save the plan")
	return cmd
}

func apiKeyCmd(s *session) *cobra.Command {
	cmd := &cobra.Command{Use: "apikey", Short: "Manage the stored Gemini API key"}

	cmd.AddCommand(&cobra.Command{
		Use:   "set <key>",
		Short: "Store the API key",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := s.app.Settings.SetAPIKey(cmd.Context(), args[0]); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "API key stored")
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "clear",
		Short: "Remove the stored API key",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := s.app.Settings.ClearAPIKey(cmd.Context()); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "API key cleared")
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "status",
		Short: "Show where the effective API key comes from",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			source, err := s.app.Settings.APIKeyStatus(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "API key source: %s\n", source)
			return nil
		},
	})

	return cmd
}

func printPlanTable(w io.Writer, plans []domain.FitnessPlan) error {
	if len(plans) == 0 {
		_, err := fmt.Fprintln(w, "no saved plans")
		return err
	}
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tCREATED\tGOAL\tDURATION\tUSER")
	for _, p := range plans {
		created := time.UnixMilli(p.CreatedAt).Format("2006-01-02 15:04")
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n", p.ID, created, p.Goal, p.Duration, p.UserName)
	}
	return tw.Flush()
}

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
