// Package sim integrates the equations of motion of a dynamics model
// with a fixed-step RK4 scheme. Accelerations come from solving
// M(q)*qddot = L^T*f + W_e - C(q,qdot) - G(q) with a dense gonum
// factorization at every derivative evaluation.
package sim

import (
	"context"
	"math"

	"gonum.org/v1/gonum/mat"

	"github.com/cdpr-lab/cablekit/pkg/dynamics"
	"github.com/cdpr-lab/cablekit/pkg/errors"
	"github.com/cdpr-lab/cablekit/pkg/logging"
)

// TensionFunc computes cable tensions for the current state. It writes
// one force per cable into f and is called once per derivative
// evaluation. A nil TensionFunc means slack cables.
type TensionFunc func(t float64, q, qdot, lengths []float64, f []float64)

// Options configures an integration run.
type Options struct {
	// Step is the fixed integration step in seconds
	Step float64

	// Duration is the simulated time span in seconds
	Duration float64

	// Wrench is a constant external wrench applied throughout the run;
	// nil means none
	Wrench []float64

	// Tensions computes cable tensions each derivative evaluation;
	// nil means slack cables
	Tensions TensionFunc
}

// Frame is the state handed to the step callback.
type Frame struct {
	T       float64
	Q       []float64
	QDot    []float64
	Lengths []float64
}

// StepFunc receives one frame per completed step. The slices are reused
// between calls; copy them to retain.
type StepFunc func(frame Frame)

// Stepper integrates one model. It owns scratch buffers, so a Stepper
// must not be shared between goroutines.
type Stepper struct {
	model dynamics.Model
	dof   int

	wrench   []float64
	tensions TensionFunc

	// scratch for derivative evaluations
	mass     []float64
	coriolis []float64
	gravity  []float64
	jacobian []float64
	lengths  []float64
	forces   []float64
	rhs      []float64
	zero     []float64

	// RK4 stages
	k1, k2, k3, k4, tmp []float64
}

// NewStepper creates a Stepper for m.
func NewStepper(m dynamics.Model, opts Options) *Stepper {
	dof := m.DOF()
	nc := m.CableCount()

	wrench := make([]float64, dof)
	copy(wrench, opts.Wrench)

	n := 2 * dof
	return &Stepper{
		model:    m,
		dof:      dof,
		wrench:   wrench,
		tensions: opts.Tensions,
		mass:     make([]float64, dof*dof),
		coriolis: make([]float64, dof),
		gravity:  make([]float64, dof),
		jacobian: make([]float64, nc*dof),
		lengths:  make([]float64, nc),
		forces:   make([]float64, nc),
		rhs:      make([]float64, dof),
		zero:     make([]float64, dof),
		k1:       make([]float64, n),
		k2:       make([]float64, n),
		k3:       make([]float64, n),
		k4:       make([]float64, n),
		tmp:      make([]float64, n),
	}
}

// deriv writes dy/dt into dst for y = [q, qdot].
func (s *Stepper) deriv(t float64, y, dst []float64) error {
	q := y[:s.dof]
	qdot := y[s.dof:]

	m := s.model
	m.CableLengths(s.lengths, q, qdot, s.zero, s.wrench)
	m.MassMatrix(s.mass, q, qdot, s.zero, s.wrench)
	m.CoriolisVector(s.coriolis, q, qdot, s.zero, s.wrench)
	m.GravityVector(s.gravity, q, qdot, s.zero, s.wrench)
	m.Jacobian(s.jacobian, q, qdot, s.zero, s.wrench)

	for i := range s.forces {
		s.forces[i] = 0
	}
	if s.tensions != nil {
		s.tensions(t, q, qdot, s.lengths, s.forces)
	}

	// rhs = L^T*f + W_e - C - G
	for j := 0; j < s.dof; j++ {
		v := s.wrench[j] - s.coriolis[j] - s.gravity[j]
		for i := range s.forces {
			v += s.jacobian[i*s.dof+j] * s.forces[i]
		}
		s.rhs[j] = v
	}

	massMat := mat.NewDense(s.dof, s.dof, s.mass)
	var qddot mat.VecDense
	if err := qddot.SolveVec(massMat, mat.NewVecDense(s.dof, s.rhs)); err != nil {
		return errors.Wrap(err, errors.ErrSimSingular, "mass matrix is singular")
	}

	copy(dst[:s.dof], qdot)
	for j := 0; j < s.dof; j++ {
		dst[s.dof+j] = qddot.AtVec(j)
	}
	return nil
}

// Step advances y = [q, qdot] in place by dt.
func (s *Stepper) Step(t float64, y []float64, dt float64) error {
	n := 2 * s.dof

	if err := s.deriv(t, y, s.k1); err != nil {
		return err
	}

	for i := 0; i < n; i++ {
		s.tmp[i] = y[i] + 0.5*dt*s.k1[i]
	}
	if err := s.deriv(t+0.5*dt, s.tmp, s.k2); err != nil {
		return err
	}

	for i := 0; i < n; i++ {
		s.tmp[i] = y[i] + 0.5*dt*s.k2[i]
	}
	if err := s.deriv(t+0.5*dt, s.tmp, s.k3); err != nil {
		return err
	}

	for i := 0; i < n; i++ {
		s.tmp[i] = y[i] + dt*s.k3[i]
	}
	if err := s.deriv(t+dt, s.tmp, s.k4); err != nil {
		return err
	}

	f := dt / 6.0
	for i := 0; i < n; i++ {
		y[i] += f * (s.k1[i] + 2*s.k2[i] + 2*s.k3[i] + s.k4[i])
	}
	return nil
}

// Run integrates from the initial state over opts.Duration, invoking
// step once per completed step. It stops early when ctx is canceled or
// the state diverges.
func Run(ctx context.Context, m dynamics.Model, initial dynamics.State, opts Options, step StepFunc) error {
	logger := logging.GetLogger("sim")

	if opts.Step <= 0 {
		return errors.Newf(errors.ErrInvalidInput, "step must be positive, got %g", opts.Step)
	}
	if opts.Duration < 0 {
		return errors.Newf(errors.ErrInvalidInput, "duration must not be negative, got %g", opts.Duration)
	}

	dof := m.DOF()
	stepper := NewStepper(m, opts)

	y := make([]float64, 2*dof)
	copy(y[:dof], initial.Q)
	copy(y[dof:], initial.QDot)

	steps := int(math.Round(opts.Duration / opts.Step))
	logger.Debug().
		Str("model", m.Name()).
		Int("steps", steps).
		Float64("dt", opts.Step).
		Msg("starting integration")

	frame := Frame{
		Q:       y[:dof],
		QDot:    y[dof:],
		Lengths: make([]float64, m.CableCount()),
	}

	for i := 0; i < steps; i++ {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		t := float64(i) * opts.Step
		if err := stepper.Step(t, y, opts.Step); err != nil {
			return err
		}

		for _, v := range y {
			if math.IsNaN(v) || math.IsInf(v, 0) {
				return errors.Newf(errors.ErrSimDiverged, "state diverged at t=%g", t+opts.Step)
			}
		}

		if step != nil {
			frame.T = t + opts.Step
			m.CableLengths(frame.Lengths, frame.Q, frame.QDot, stepper.zero, stepper.wrench)
			step(frame)
		}
	}

	return nil
}
