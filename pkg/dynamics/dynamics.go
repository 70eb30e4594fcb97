// Package dynamics defines the contract between cablekit and CDPR
// dynamics models. A model fills caller-owned float64 buffers with the
// five dynamics terms: cable lengths, mass-inertia matrix,
// Coriolis/centrifugal vector, gravity vector, and the joint-cable
// Jacobian. Models perform no bounds checking; callers size buffers
// with NewBuffers so sizing is correct by construction.
package dynamics

// State holds the joint state and external wrench a model is evaluated
// at. All slices are owned by the caller; models only read them.
type State struct {
	// Q is the joint position vector, one entry per degree of freedom.
	Q []float64

	// QDot is the joint velocity vector.
	QDot []float64

	// QDDot is the joint acceleration vector.
	QDDot []float64

	// Wrench is the generalized external force/torque vector applied
	// to the end effector.
	Wrench []float64
}

// NewState allocates a zero state for a robot with dof degrees of
// freedom and a wrench of the same length.
func NewState(dof int) State {
	return State{
		Q:      make([]float64, dof),
		QDot:   make([]float64, dof),
		QDDot:  make([]float64, dof),
		Wrench: make([]float64, dof),
	}
}

// Model is a CDPR dynamics model. Implementations must be stateless:
// concurrent calls over distinct output buffers are safe, and the five
// entry points never return errors. A model may leave parts of an
// output buffer untouched; the host never zeroes outputs on its behalf.
type Model interface {
	// Name returns the unique name of this model
	Name() string

	// Description returns a human-readable description of the robot
	Description() string

	// DOF returns the number of degrees of freedom
	DOF() int

	// CableCount returns the number of cables
	CableCount() int

	// CableLengths writes the cable length vector into l
	CableLengths(l, q, qdot, qddot, wrench []float64)

	// MassMatrix writes the flattened row-major DOF×DOF mass-inertia
	// matrix into m
	MassMatrix(m, q, qdot, qddot, wrench []float64)

	// CoriolisVector writes the centrifugal and Coriolis vector into c
	CoriolisVector(c, q, qdot, qddot, wrench []float64)

	// GravityVector writes the gravitational vector into g
	GravityVector(g, q, qdot, qddot, wrench []float64)

	// Jacobian writes the flattened row-major CableCount×DOF
	// joint-cable Jacobian matrix into jac
	Jacobian(jac, q, qdot, qddot, wrench []float64)
}

// Factory creates a model instance from the given options. Options come
// from profile config; a factory must reject options it does not
// understand rather than ignore them.
type Factory func(options map[string]interface{}) (Model, error)

// Buffers holds correctly-sized output buffers for one model.
type Buffers struct {
	Lengths  []float64 // CableCount
	Mass     []float64 // DOF*DOF, row-major
	Coriolis []float64 // DOF
	Gravity  []float64 // DOF
	Jacobian []float64 // CableCount*DOF, row-major
}

// NewBuffers allocates zeroed output buffers sized for m.
func NewBuffers(m Model) *Buffers {
	dof := m.DOF()
	nc := m.CableCount()
	return &Buffers{
		Lengths:  make([]float64, nc),
		Mass:     make([]float64, dof*dof),
		Coriolis: make([]float64, dof),
		Gravity:  make([]float64, dof),
		Jacobian: make([]float64, nc*dof),
	}
}

// Eval evaluates all five dynamics terms of m at s into freshly
// allocated buffers.
func Eval(m Model, s State) *Buffers {
	b := NewBuffers(m)
	EvalInto(m, s, b)
	return b
}

// EvalInto evaluates all five dynamics terms of m at s into b. The
// caller guarantees b is sized for m.
func EvalInto(m Model, s State, b *Buffers) {
	m.CableLengths(b.Lengths, s.Q, s.QDot, s.QDDot, s.Wrench)
	m.MassMatrix(b.Mass, s.Q, s.QDot, s.QDDot, s.Wrench)
	m.CoriolisVector(b.Coriolis, s.Q, s.QDot, s.QDDot, s.Wrench)
	m.GravityVector(b.Gravity, s.Q, s.QDot, s.QDDot, s.Wrench)
	m.Jacobian(b.Jacobian, s.Q, s.QDot, s.QDDot, s.Wrench)
}
