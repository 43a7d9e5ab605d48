package pricer

import (
	"context"
	"errors"
	"fmt"

	"golang.org/x/sync/errgroup"

	"bond-pricer/internal/model"
)

// Scenario overrides the liquidity settings of a base config.
// Nil fields keep the base value.
type Scenario struct {
	Name            string
	LiquidityDays   *int
	LiquiditySpread *float64
}

// ScenarioResult pairs a scenario with its run.
type ScenarioResult struct {
	Name   string
	Result *Result
}

// Apply returns base with the scenario's overrides.
func (s Scenario) Apply(base Config) Config {
	out := base
	if s.LiquidityDays != nil {
		out.LiquidityDays = *s.LiquidityDays
	}
	if s.LiquiditySpread != nil {
		out.LiquiditySpread = *s.LiquiditySpread
	}
	return out
}

// Compare runs each scenario over the same inputs. Runs are independent and
// execute concurrently, at most limit at a time (limit <= 0 means one per
// scenario). Results come back in scenario order. The first failing scenario
// cancels those not yet started.
func (e *Engine) Compare(ctx context.Context, inputs []model.BondInput, base Config, scenarios []Scenario, limit int) ([]ScenarioResult, error) {
	if len(scenarios) == 0 {
		return nil, errors.New("at least one scenario is required")
	}

	out := make([]ScenarioResult, len(scenarios))
	g, ctx := errgroup.WithContext(ctx)
	if limit > 0 {
		g.SetLimit(limit)
	}
	for i, sc := range scenarios {
		i, sc := i, sc
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			res, err := e.Run(inputs, sc.Apply(base))
			if err != nil {
				return fmt.Errorf("scenario %q: %w", sc.Name, err)
			}
			out[i] = ScenarioResult{Name: sc.Name, Result: res}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}
