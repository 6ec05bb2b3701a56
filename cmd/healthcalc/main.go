// healthcalc runs the health metrics engine from the command line, without a
// database. Series and meal inputs are JSON files ("-" reads stdin).
//
//	healthcalc targets --age 30 --sex male --weight 80 --height 180
//	healthcalc trend --field weightKg --window 7 samples.json
//	healthcalc weekly samples.json
//	healthcalc macros meals.json
//	healthcalc dashboard --meals meals.json samples.json
package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/Suhaas-Suran/HealthAI/healthmetrics"
	"github.com/spf13/cobra"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:          "healthcalc",
		Short:        "healthcalc - calorie targets and progress analytics",
		SilenceUsage: true,
	}
	root.AddCommand(
		newTargetsCmd(),
		newTrendCmd(),
		newWeeklyCmd(),
		newMacrosCmd(),
		newDashboardCmd(),
	)
	return root
}

func newTargetsCmd() *cobra.Command {
	var p healthmetrics.BiometricProfile
	var sex, activity, goal, equation string
	cmd := &cobra.Command{
		Use:   "targets",
		Short: "Compute BMR, TDEE and goal calorie targets",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			var ok bool
			if p.Sex, ok = healthmetrics.ParseSex(sex); !ok {
				return fmt.Errorf("invalid --sex %q", sex)
			}
			if activity != "" {
				if p.ActivityLevel, ok = healthmetrics.ParseActivityLevel(activity); !ok {
					return fmt.Errorf("invalid --activity %q", activity)
				}
			}
			if goal != "" {
				if p.Goal, ok = healthmetrics.ParseGoal(goal); !ok {
					return fmt.Errorf("invalid --goal %q", goal)
				}
			}
			if p.Equation, ok = healthmetrics.ParseEquation(equation); !ok {
				return fmt.Errorf("invalid --equation %q", equation)
			}
			t, err := healthmetrics.ComputeTargets(p)
			if err != nil {
				return err
			}
			return writeJSON(cmd.OutOrStdout(), t)
		},
	}
	f := cmd.Flags()
	f.IntVar(&p.Age, "age", 0, "age in years")
	f.StringVar(&sex, "sex", "", "male, female or other")
	f.Float64Var(&p.WeightKg, "weight", 0, "weight in kg")
	f.Float64Var(&p.HeightCm, "height", 0, "height in cm")
	f.StringVar(&activity, "activity", "moderate", "sedentary, light, moderate, active or veryActive")
	f.StringVar(&goal, "goal", "", "extremeLoss, loss, maintenance or gain")
	f.StringVar(&equation, "equation", "", "harrisBenedict (default) or mifflinStJeor")
	for _, name := range []string{"age", "sex", "weight", "height"} {
		_ = cmd.MarkFlagRequired(name)
	}
	return cmd
}

func newTrendCmd() *cobra.Command {
	var (
		field  string
		window int
	)
	cmd := &cobra.Command{
		Use:   "trend <samples.json>",
		Short: "Trailing moving average of one series field",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var series []healthmetrics.DailySample
			if err := readJSON(cmd.InOrStdin(), args[0], &series); err != nil {
				return err
			}
			out, err := healthmetrics.Smooth(series, healthmetrics.Field(field), window)
			if err != nil {
				return err
			}
			return writeJSON(cmd.OutOrStdout(), out)
		},
	}
	cmd.Flags().StringVar(&field, "field", string(healthmetrics.FieldWeightKg), "series field to smooth")
	cmd.Flags().IntVar(&window, "window", healthmetrics.DefaultWindow, "trailing window in samples")
	return cmd
}

func newWeeklyCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "weekly <samples.json>",
		Short: "Sunday-start weekly averages of calories, steps and workout minutes",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var series []healthmetrics.DailySample
			if err := readJSON(cmd.InOrStdin(), args[0], &series); err != nil {
				return err
			}
			out, err := healthmetrics.WeeklyBuckets(series)
			if err != nil {
				return err
			}
			return writeJSON(cmd.OutOrStdout(), out)
		},
	}
}

func newMacrosCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "macros <meals.json>",
		Short: "Protein, carbs and fats totals across meals",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var meals []healthmetrics.MealRecord
			if err := readJSON(cmd.InOrStdin(), args[0], &meals); err != nil {
				return err
			}
			return writeJSON(cmd.OutOrStdout(), healthmetrics.AggregateMacros(meals))
		},
	}
}

func newDashboardCmd() *cobra.Command {
	var (
		mealsPath string
		window    int
	)
	cmd := &cobra.Command{
		Use:   "dashboard <samples.json>",
		Short: "Weight trend, weekly buckets, macros and summary stats in one report",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var series []healthmetrics.DailySample
			if err := readJSON(cmd.InOrStdin(), args[0], &series); err != nil {
				return err
			}
			var meals []healthmetrics.MealRecord
			if mealsPath != "" {
				if err := readJSON(cmd.InOrStdin(), mealsPath, &meals); err != nil {
					return err
				}
			}
			d, err := healthmetrics.BuildDashboard(series, meals, window)
			if err != nil {
				return err
			}
			return writeJSON(cmd.OutOrStdout(), d)
		},
	}
	cmd.Flags().StringVar(&mealsPath, "meals", "", "meals JSON file")
	cmd.Flags().IntVar(&window, "window", healthmetrics.DefaultWindow, "trailing window for the weight trend")
	return cmd
}

// readJSON decodes path into v; "-" reads from stdin.
func readJSON(stdin io.Reader, path string, v any) error {
	r := stdin
	if path != "-" {
		f, err := os.Open(path)
		if err != nil {
			return err
		}
		defer f.Close()
		r = f
	}
	if err := json.NewDecoder(r).Decode(v); err != nil {
		return fmt.Errorf("decode %s: %w", path, err)
	}
	return nil
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
