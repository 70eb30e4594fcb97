// Package template provides the starter dynamics model. Its five entry
// points contain the sample arithmetic new users are expected to
// replace with their robot's equations of motion; the values it
// produces are the documented contract for host and tooling tests.
package template

import (
	"github.com/cdpr-lab/cablekit/pkg/dynamics"
	"github.com/cdpr-lab/cablekit/pkg/errors"
	"github.com/cdpr-lab/cablekit/pkg/registry"
)

// ModelName is the name of the template model
const ModelName = "template"

const dof = 3

// Model is the fill-in-the-blanks starter model: 3 DOF, one cable,
// sample arithmetic in every entry point. Entries it does not assign
// stay untouched, like any model.
type Model struct{}

// New creates a template model. The template takes no options.
func New() *Model {
	return &Model{}
}

func init() {
	registry.MustRegisterModelFactory(ModelName, func(options map[string]interface{}) (dynamics.Model, error) {
		if len(options) > 0 {
			return nil, errors.Newf(errors.ErrInvalidInput, "template model takes no options, got %d", len(options))
		}
		return New(), nil
	})
}

// Name returns the unique name of this model
func (m *Model) Name() string {
	return ModelName
}

// Description returns a human-readable description of the robot
func (m *Model) Description() string {
	return "Starter model with sample arithmetic, meant to be replaced with real equations of motion"
}

// DOF returns the number of degrees of freedom
func (m *Model) DOF() int {
	return dof
}

// CableCount returns the number of cables
func (m *Model) CableCount() int {
	return 1
}

// CableLengths writes the sample cable length: the first joint velocity.
func (m *Model) CableLengths(l, q, qdot, qddot, wrench []float64) {
	l[0] = qdot[0]
}

// MassMatrix writes the sample mass-inertia values. Only the first row
// is assigned; the rest of the buffer stays untouched.
func (m *Model) MassMatrix(out, q, qdot, qddot, wrench []float64) {
	out[0] = q[0]
	out[1] = q[1]
	out[2] = q[2]
}

// CoriolisVector writes the sample Coriolis values 2*q[i] + qdot[i].
func (m *Model) CoriolisVector(c, q, qdot, qddot, wrench []float64) {
	c[0] = q[0]*2 + qdot[0]
	c[1] = q[1]*2 + qdot[1]
	c[2] = q[2]*2 + qdot[2]
}

// GravityVector writes the sample gravity values 3*q[i] - qdot[i].
func (m *Model) GravityVector(g, q, qdot, qddot, wrench []float64) {
	g[0] = q[0]*3 - qdot[0]
	g[1] = q[1]*3 - qdot[1]
	g[2] = q[2]*3 - qdot[2]
}

// Jacobian writes the sample Jacobian values q[i] * qdot[i].
func (m *Model) Jacobian(jac, q, qdot, qddot, wrench []float64) {
	jac[0] = q[0] * qdot[0]
	jac[1] = q[1] * qdot[1]
	jac[2] = q[2] * qdot[2]
}
