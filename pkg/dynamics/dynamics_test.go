package dynamics

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

// fillCounter records which entry points ran and fills each buffer
// with its index to make buffer routing visible.
type fillCounter struct {
	calls []string
}

func (m *fillCounter) Name() string        { return "counter" }
func (m *fillCounter) Description() string { return "test model" }
func (m *fillCounter) DOF() int            { return 2 }
func (m *fillCounter) CableCount() int     { return 3 }

func (m *fillCounter) fill(name string, dst []float64, v float64) {
	m.calls = append(m.calls, name)
	for i := range dst {
		dst[i] = v
	}
}

func (m *fillCounter) CableLengths(l, q, qdot, qddot, wrench []float64) {
	m.fill("lengths", l, 1)
}
func (m *fillCounter) MassMatrix(out, q, qdot, qddot, wrench []float64) {
	m.fill("mass", out, 2)
}
func (m *fillCounter) CoriolisVector(c, q, qdot, qddot, wrench []float64) {
	m.fill("coriolis", c, 3)
}
func (m *fillCounter) GravityVector(g, q, qdot, qddot, wrench []float64) {
	m.fill("gravity", g, 4)
}
func (m *fillCounter) Jacobian(jac, q, qdot, qddot, wrench []float64) {
	m.fill("jacobian", jac, 5)
}

func TestNewState(t *testing.T) {
	s := NewState(4)

	assert.Len(t, s.Q, 4)
	assert.Len(t, s.QDot, 4)
	assert.Len(t, s.QDDot, 4)
	assert.Len(t, s.Wrench, 4)
}

func TestNewBuffers_Sizes(t *testing.T) {
	m := &fillCounter{}
	b := NewBuffers(m)

	assert.Len(t, b.Lengths, 3)
	assert.Len(t, b.Mass, 4)
	assert.Len(t, b.Coriolis, 2)
	assert.Len(t, b.Gravity, 2)
	assert.Len(t, b.Jacobian, 6)
}

func TestEval_FillsAllFive(t *testing.T) {
	m := &fillCounter{}
	out := Eval(m, NewState(m.DOF()))

	assert.Equal(t, []string{"lengths", "mass", "coriolis", "gravity", "jacobian"}, m.calls)
	assert.Equal(t, []float64{1, 1, 1}, out.Lengths)
	assert.Equal(t, []float64{2, 2, 2, 2}, out.Mass)
	assert.Equal(t, []float64{3, 3}, out.Coriolis)
	assert.Equal(t, []float64{4, 4}, out.Gravity)
	assert.Equal(t, []float64{5, 5, 5, 5, 5, 5}, out.Jacobian)
}

func TestEvalInto_ReusesBuffers(t *testing.T) {
	m := &fillCounter{}
	b := NewBuffers(m)

	EvalInto(m, NewState(m.DOF()), b)
	EvalInto(m, NewState(m.DOF()), b)

	assert.Len(t, m.calls, 10)
	assert.Equal(t, []float64{1, 1, 1}, b.Lengths)
}
