// Package planarxy implements the dynamics of a planar point-mass CDPR
// translating in the XY plane. Cables run from fixed frame anchors to a
// single attachment point on the end effector, so cable lengths are the
// anchor distances and the Jacobian rows are the unit cable vectors.
package planarxy

import (
	"fmt"
	"math"

	"github.com/go-viper/mapstructure/v2"

	"github.com/cdpr-lab/cablekit/pkg/dynamics"
	"github.com/cdpr-lab/cablekit/pkg/errors"
	"github.com/cdpr-lab/cablekit/pkg/registry"
)

// ModelName is the name of the planar XY model
const ModelName = "planar-xy"

const dof = 2

// Params holds the physical parameters of the robot. Zero values fall
// back to the defaults of the reference planar XY example rig.
type Params struct {
	// Mass of the end effector in kg (default 1.0)
	Mass float64 `mapstructure:"mass"`

	// Damping is a linear viscous coefficient applied per joint
	Damping float64 `mapstructure:"damping"`

	// Gravity is the gravity vector in the XY frame (default {0, -9.81})
	Gravity []float64 `mapstructure:"gravity"`

	// Anchors are the fixed cable exit points, one XY pair per cable
	// (default: corners of a 2x2 m square)
	Anchors [][]float64 `mapstructure:"anchors"`
}

// DefaultParams returns the parameters of the reference rig: a unit
// point mass suspended from the corners of a 2x2 m square.
func DefaultParams() Params {
	return Params{
		Mass:    1.0,
		Gravity: []float64{0, -9.81},
		Anchors: [][]float64{
			{-1, -1},
			{1, -1},
			{1, 1},
			{-1, 1},
		},
	}
}

// Model is a planar XY point-mass CDPR dynamics model.
type Model struct {
	params Params
}

// New creates a planar XY model with the given parameters.
func New(params Params) (*Model, error) {
	if params.Mass == 0 {
		params.Mass = 1.0
	}
	if params.Mass < 0 {
		return nil, errors.Newf(errors.ErrModelInvalid, "mass must be positive, got %g", params.Mass)
	}
	if params.Gravity == nil {
		params.Gravity = []float64{0, -9.81}
	}
	if len(params.Gravity) != dof {
		return nil, errors.Newf(errors.ErrDimension, "gravity vector must have %d components, got %d", dof, len(params.Gravity))
	}
	if params.Anchors == nil {
		params.Anchors = DefaultParams().Anchors
	}
	if len(params.Anchors) < dof {
		return nil, errors.Newf(errors.ErrModelInvalid, "need at least %d cables, got %d anchors", dof, len(params.Anchors))
	}
	for i, a := range params.Anchors {
		if len(a) != 2 {
			return nil, errors.Newf(errors.ErrDimension, "anchor %d must be an XY pair, got %d components", i, len(a))
		}
	}
	return &Model{params: params}, nil
}

func init() {
	registry.MustRegisterModelFactory(ModelName, func(options map[string]interface{}) (dynamics.Model, error) {
		params := Params{}
		decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
			Result:      &params,
			ErrorUnused: true,
		})
		if err != nil {
			return nil, errors.Wrap(err, errors.ErrInternal, "building options decoder")
		}
		if err := decoder.Decode(options); err != nil {
			return nil, errors.Wrap(err, errors.ErrInvalidInput, "invalid planar-xy options")
		}
		return New(params)
	})
}

// Name returns the unique name of this model
func (m *Model) Name() string {
	return ModelName
}

// Description returns a human-readable description of the robot
func (m *Model) Description() string {
	return fmt.Sprintf("Planar XY point-mass CDPR with %d cables", len(m.params.Anchors))
}

// DOF returns the number of degrees of freedom
func (m *Model) DOF() int {
	return dof
}

// CableCount returns the number of cables
func (m *Model) CableCount() int {
	return len(m.params.Anchors)
}

// Params returns a copy of the model parameters.
func (m *Model) Params() Params {
	return m.params
}

// CableLengths writes the distance from each anchor to the effector.
func (m *Model) CableLengths(l, q, qdot, qddot, wrench []float64) {
	for i, a := range m.params.Anchors {
		dx := q[0] - a[0]
		dy := q[1] - a[1]
		l[i] = math.Hypot(dx, dy)
	}
}

// MassMatrix writes the row-major mass matrix: a point mass has
// mass*I with no configuration dependence.
func (m *Model) MassMatrix(out, q, qdot, qddot, wrench []float64) {
	out[0] = m.params.Mass
	out[1] = 0
	out[2] = 0
	out[3] = m.params.Mass
}

// CoriolisVector writes the velocity-dependent terms. A translating
// point mass has no centrifugal or Coriolis coupling, so only the
// viscous damping term remains.
func (m *Model) CoriolisVector(c, q, qdot, qddot, wrench []float64) {
	c[0] = m.params.Damping * qdot[0]
	c[1] = m.params.Damping * qdot[1]
}

// GravityVector writes the generalized gravity term of
// M*qddot + C + G = L^T*f + W_e, i.e. G = -mass * gravity.
func (m *Model) GravityVector(g, q, qdot, qddot, wrench []float64) {
	g[0] = -m.params.Mass * m.params.Gravity[0]
	g[1] = -m.params.Mass * m.params.Gravity[1]
}

// Jacobian writes one row per cable: the unit vector from the anchor
// toward the effector, so l_dot = J * qdot. A row degenerates to zero
// when the effector sits exactly on the anchor.
func (m *Model) Jacobian(jac, q, qdot, qddot, wrench []float64) {
	for i, a := range m.params.Anchors {
		dx := q[0] - a[0]
		dy := q[1] - a[1]
		l := math.Hypot(dx, dy)
		if l == 0 {
			jac[i*dof] = 0
			jac[i*dof+1] = 0
			continue
		}
		jac[i*dof] = dx / l
		jac[i*dof+1] = dy / l
	}
}
