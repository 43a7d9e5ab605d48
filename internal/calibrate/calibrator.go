package calibrate

import (
	"errors"
	"fmt"
	"log/slog"
	"math"
	"time"

	"gonum.org/v1/gonum/diff/fd"
	"gonum.org/v1/gonum/optimize"

	"bond-pricer/internal/curve"
	"bond-pricer/internal/model"
)

// ErrNoCalibrationData is reported when no bond is liquid.
var ErrNoCalibrationData = errors.New("calibrate: no liquid bonds to calibrate against")

// Status is the outcome of a calibration.
type Status string

const (
	StatusConverged     Status = "converged"
	StatusNotConverged  Status = "not_converged"
	StatusNoLiquidBonds Status = "no_liquid_bonds"
)

// Method names accepted in Settings.Method.
const (
	MethodNelderMead = "nelder-mead"
	MethodBFGS       = "bfgs"
)

// Settings tunes the optimiser. Zero values fall back to DefaultSettings.
type Settings struct {
	Method string
	// Tolerance is the absolute objective change below which the run
	// counts as converged once it persists for ConvergeIterations.
	Tolerance          float64
	ConvergeIterations int
	MaxIterations      int
	MaxEvaluations     int
	// MaxRuntime bounds wall time; 0 means unbounded.
	MaxRuntime time.Duration
	// SimplexSize is the initial Nelder-Mead simplex edge.
	SimplexSize float64
	// Fallback runs a BFGS pass from the best point when the primary
	// method stops without converging.
	Fallback bool
}

func DefaultSettings() Settings {
	return Settings{
		Method:             MethodNelderMead,
		Tolerance:          1e-10,
		ConvergeIterations: 200,
		MaxIterations:      5000,
		MaxEvaluations:     50000,
		SimplexSize:        0.05,
		Fallback:           true,
	}
}

func (s Settings) withDefaults() Settings {
	d := DefaultSettings()
	if s.Method == "" {
		s.Method = d.Method
	}
	if s.Tolerance <= 0 {
		s.Tolerance = d.Tolerance
	}
	if s.ConvergeIterations <= 0 {
		s.ConvergeIterations = d.ConvergeIterations
	}
	if s.MaxIterations <= 0 {
		s.MaxIterations = d.MaxIterations
	}
	if s.MaxEvaluations <= 0 {
		s.MaxEvaluations = d.MaxEvaluations
	}
	if s.SimplexSize <= 0 {
		s.SimplexSize = d.SimplexSize
	}
	return s
}

func (s Settings) Validate() error {
	switch s.Method {
	case "", MethodNelderMead, MethodBFGS:
	default:
		return fmt.Errorf("calibration method %q is not supported", s.Method)
	}
	if s.MaxRuntime < 0 {
		return errors.New("calibration max runtime must be >= 0")
	}
	return nil
}

// Calibration is the fitted curve plus diagnostics.
type Calibration struct {
	Params    curve.Params
	Status    Status
	Converged bool
	// OptimizerStatus is gonum's final status of the last pass.
	OptimizerStatus  string
	Method           string
	Objective        float64
	InitialObjective float64
	Iterations       int
	Evaluations      int
	LiquidBonds      int
	Runtime          time.Duration
}

// Err returns ErrNoCalibrationData when the curve could not be fitted.
func (c Calibration) Err() error {
	if c.Status == StatusNoLiquidBonds {
		return ErrNoCalibrationData
	}
	return nil
}

// Calibrator fits NSS parameters to liquid bond prices.
type Calibrator struct {
	Settings Settings
	Bounds   Bounds
	Initial  curve.Params

	logger *slog.Logger
}

func New(settings Settings, logger *slog.Logger) *Calibrator {
	if logger == nil {
		logger = slog.Default()
	}
	return &Calibrator{
		Settings: settings.withDefaults(),
		Bounds:   DefaultBounds,
		Initial:  InitialGuess,
		logger:   logger,
	}
}

var convergedStatuses = map[optimize.Status]bool{
	optimize.Success:             true,
	optimize.FunctionConvergence: true,
	optimize.GradientThreshold:   true,
	optimize.MethodConverge:      true,
	optimize.FunctionThreshold:   true,
	optimize.StepConvergence:     true,
}

// Calibrate minimises the objective over the bounds starting at Initial.
// It never fails: on non-convergence the best point seen is returned.
func (c *Calibrator) Calibrate(bonds []model.Bond, valuationDate time.Time) Calibration {
	start := time.Now()
	liquid := model.LiquidBonds(bonds)
	objective := Objective(liquid, valuationDate)
	initial := c.Bounds.Project(c.Initial.Vector())

	out := Calibration{
		Params:      initial,
		Method:      c.Settings.Method,
		LiquidBonds: len(liquid),
	}
	if len(liquid) == 0 {
		out.Params = c.Initial
		out.Status = StatusNoLiquidBonds
		c.logger.Warn("calibration skipped", slog.String("reason", string(StatusNoLiquidBonds)))
		return out
	}

	out.InitialObjective = objective(initial)
	if math.IsNaN(out.InitialObjective) {
		out.InitialObjective = math.Inf(1)
	}
	best := tracker{x: initial, f: out.InitialObjective}
	f := func(x []float64) float64 {
		p := c.Bounds.Project(x)
		v := objective(p)
		if math.IsNaN(v) {
			return math.Inf(1)
		}
		best.observe(p, v)
		return v
	}

	method := c.Settings.Method
	status, stats, err := c.minimize(f, initial.Vector(), method)
	out.Iterations += stats.MajorIterations
	out.Evaluations += stats.FuncEvaluations
	if err != nil {
		c.logger.Warn("optimizer error", slog.String("method", method), slog.Any("err", err))
	}

	if !convergedStatuses[status] && c.Settings.Fallback && method != MethodBFGS {
		method = MethodBFGS
		status, stats, err = c.minimize(f, best.x.Vector(), method)
		out.Iterations += stats.MajorIterations
		out.Evaluations += stats.FuncEvaluations
		if err != nil {
			c.logger.Warn("optimizer error", slog.String("method", method), slog.Any("err", err))
		}
		out.Method = c.Settings.Method + "+" + MethodBFGS
	}

	out.Params = best.x
	out.Objective = best.f
	out.OptimizerStatus = status.String()
	out.Converged = convergedStatuses[status]
	out.Status = StatusNotConverged
	if out.Converged {
		out.Status = StatusConverged
	}
	out.Runtime = time.Since(start)

	c.logger.Debug("calibration finished",
		slog.String("status", string(out.Status)),
		slog.String("optimizer_status", out.OptimizerStatus),
		slog.Int("liquid_bonds", out.LiquidBonds),
		slog.Float64("objective", out.Objective),
		slog.Float64("initial_objective", out.InitialObjective),
		slog.Int("evaluations", out.Evaluations),
		slog.Duration("runtime", out.Runtime),
	)
	return out
}

func (c *Calibrator) minimize(f func([]float64) float64, x0 []float64, method string) (optimize.Status, optimize.Stats, error) {
	problem := optimize.Problem{Func: f}
	settings := &optimize.Settings{
		Converger: &optimize.FunctionConverge{
			Absolute:   c.Settings.Tolerance,
			Iterations: c.Settings.ConvergeIterations,
		},
		MajorIterations: c.Settings.MaxIterations,
		FuncEvaluations: c.Settings.MaxEvaluations,
		Runtime:         c.Settings.MaxRuntime,
	}

	var m optimize.Method
	switch method {
	case MethodBFGS:
		problem.Grad = func(grad, x []float64) {
			fd.Gradient(grad, f, x, &fd.Settings{Formula: fd.Central, Step: 1e-7})
		}
		m = &optimize.BFGS{}
	default:
		m = &optimize.NelderMead{SimplexSize: c.Settings.SimplexSize}
	}

	res, err := optimize.Minimize(problem, x0, settings, m)
	if res == nil {
		return optimize.Failure, optimize.Stats{}, err
	}
	return res.Status, res.Stats, err
}

// tracker keeps the lowest objective evaluated so far. Ties keep the
// earlier point.
type tracker struct {
	x curve.Params
	f float64
}

func (t *tracker) observe(p curve.Params, v float64) {
	if v < t.f {
		t.x = p
		t.f = v
	}
}
