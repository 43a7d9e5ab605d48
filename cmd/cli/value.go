package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"bond-pricer/internal/analysis"
	"bond-pricer/internal/api/models"
	"bond-pricer/internal/curve"
	"bond-pricer/internal/data"
	"bond-pricer/internal/model"
	"bond-pricer/internal/pricer"
)

var valueCmd = &cobra.Command{
	Use:   "value",
	Short: "Calibrate on liquid bonds and value every bond",
	Long: `Reads a bond file (CSV or Excel with a header row, or JSON), fits the curve to the
liquid bonds and writes the valuation table as CSV.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		run, err := loadRun(cmd)
		if err != nil {
			return err
		}
		res, err := pricer.New(logger).Run(run.inputs, run.cfg)
		if err != nil {
			return err
		}

		outPath, _ := cmd.Flags().GetString("out")
		if err := writeTo(outPath, func(w io.Writer) error { return pricer.EncodeValuationCSV(w, res) }); err != nil {
			return err
		}
		if curvePath, _ := cmd.Flags().GetString("curve-out"); curvePath != "" {
			if err := writeTo(curvePath, func(w io.Writer) error { return pricer.EncodeCurveCSV(w, res) }); err != nil {
				return err
			}
		}
		if jsonPath, _ := cmd.Flags().GetString("json-out"); jsonPath != "" {
			if err := data.SaveJSON(jsonPath, models.NewValuationResponse(res)); err != nil {
				return err
			}
		}
		printSummary(os.Stderr, res)
		if top, _ := cmd.Flags().GetInt("top"); top > 0 {
			printMispricings(os.Stderr, analysis.RankByMispricing(res.Rows, top))
		}
		return nil
	},
}

var compareCmd = &cobra.Command{
	Use:   "compare",
	Short: "Value a portfolio under several liquidity spreads",
	RunE: func(cmd *cobra.Command, args []string) error {
		run, err := loadRun(cmd)
		if err != nil {
			return err
		}
		raw, _ := cmd.Flags().GetString("spreads")
		spreads, err := curve.ParseFloats(raw)
		if err != nil || len(spreads) == 0 {
			return fmt.Errorf("--spreads: want a comma-separated list of spreads")
		}
		scenarios := make([]pricer.Scenario, 0, len(spreads))
		for _, s := range spreads {
			s := s
			scenarios = append(scenarios, pricer.Scenario{Name: fmt.Sprintf("spread=%g", s), LiquiditySpread: &s})
		}

		results, err := pricer.New(logger).Compare(context.Background(), run.inputs, run.cfg, scenarios, cfg.Server.CompareLimit)
		if err != nil {
			return err
		}
		return printComparison(os.Stdout, results)
	},
}

func init() {
	for _, c := range []*cobra.Command{valueCmd, compareCmd} {
		c.Flags().String("bonds", "", "bond file (.csv, .json or .xlsx)")
		c.Flags().String("date", "", "valuation date YYYY-MM-DD (default: config, then today)")
		c.Flags().Int("liquidity-days", 0, "liquidity threshold in days (default: config)")
		c.Flags().Float64("spread", 0, "liquidity spread for illiquid bonds (default: config)")
		_ = c.MarkFlagRequired("bonds")
	}
	valueCmd.Flags().String("out", "", "valuation CSV path (default: stdout)")
	valueCmd.Flags().String("curve-out", "", "optional curve CSV path")
	valueCmd.Flags().Int("top", 0, "print the N most mispriced bonds")
	valueCmd.Flags().String("json-out", "", "optional path for the full results bundle as JSON")
	compareCmd.Flags().String("spreads", "0,0.01,0.02,0.05", "comma-separated spreads to compare")
}

type runInputs struct {
	inputs []model.BondInput
	cfg    pricer.Config
}

// loadRun reads the bond file and overlays command-line flags on the config.
func loadRun(cmd *cobra.Command) (runInputs, error) {
	path, _ := cmd.Flags().GetString("bonds")
	inputs, err := data.LoadBonds(path)
	if err != nil {
		return runInputs{}, err
	}

	pc := cfg.ToPricerConfig()
	if date, _ := cmd.Flags().GetString("date"); date != "" {
		t, err := data.ParseDate(date)
		if err != nil {
			return runInputs{}, fmt.Errorf("--date %q %w", date, err)
		}
		pc.ValuationDate = t
	}
	if cmd.Flags().Changed("liquidity-days") {
		pc.LiquidityDays, _ = cmd.Flags().GetInt("liquidity-days")
	}
	if cmd.Flags().Changed("spread") {
		pc.LiquiditySpread, _ = cmd.Flags().GetFloat64("spread")
	}
	return runInputs{inputs: inputs, cfg: pc}, nil
}

// writeTo writes to path, or stdout when path is empty.
func writeTo(path string, write func(io.Writer) error) error {
	if path == "" {
		return write(os.Stdout)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := write(f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

func printSummary(w io.Writer, res *pricer.Result) {
	cal := res.Calibration
	fmt.Fprintf(w, "Valued %d bonds at %s (%d liquid, threshold %d days, spread %g)\n",
		len(res.Rows), res.ValuationDate.Format("2006-01-02"), res.LiquidCount(), res.LiquidityDays, res.LiquiditySpread)
	fmt.Fprintf(w, "Calibration: %s via %s, objective %.6g after %d evaluations\n",
		cal.Status, cal.Method, cal.Objective, cal.Evaluations)
	p := res.Params
	fmt.Fprintf(w, "Params: b0=%.6f b1=%.6f b2=%.6f b3=%.6f tau1=%.4f tau2=%.4f\n",
		p.Beta0, p.Beta1, p.Beta2, p.Beta3, p.Tau1, p.Tau2)
	parts := make([]string, 0, len(res.Curve))
	for _, pt := range res.Curve {
		parts = append(parts, fmt.Sprintf("%gy=%.4f%%", pt.Maturity, 100*pt.Rate))
	}
	fmt.Fprintf(w, "Curve: %s\n", strings.Join(parts, " "))

	fit := analysis.Summarize(res)
	fmt.Fprintf(w, "Fit: liquid RMSE %.4f (max %.4f), illiquid mean error %+.4f\n",
		fit.Liquid.RMSE, fit.Liquid.MaxAbsError, fit.Illiquid.MeanError)
}

func printMispricings(w io.Writer, ranked []analysis.Mispricing) {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "bond\tmarket\tmodel\terror\tside")
	for _, m := range ranked {
		side := "rich"
		if m.Cheap {
			side = "cheap"
		}
		fmt.Fprintf(tw, "%s\t%.4f\t%.4f\t%+.4f\t%s\n", m.Name, m.MarketPrice, m.Price, m.PricingError, side)
	}
	_ = tw.Flush()
}

func printComparison(w io.Writer, results []pricer.ScenarioResult) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "scenario\tbond\tliquid\tprice\tduration")
	for _, r := range results {
		for _, row := range r.Result.Rows {
			fmt.Fprintf(tw, "%s\t%s\t%t\t%.4f\t%.4f\n", r.Name, row.Name, row.Liquid, row.Price, row.Duration)
		}
	}
	return tw.Flush()
}
