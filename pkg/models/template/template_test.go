package template

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cdpr-lab/cablekit/pkg/dynamics"
	"github.com/cdpr-lab/cablekit/pkg/errors"
	"github.com/cdpr-lab/cablekit/pkg/registry"
)

func sampleState() dynamics.State {
	return dynamics.State{
		Q:      []float64{1, 2, 3},
		QDot:   []float64{4, 5, 6},
		QDDot:  []float64{0, 0, 0},
		Wrench: []float64{0, 0, 0},
	}
}

func TestSampleArithmetic(t *testing.T) {
	m := New()
	s := sampleState()
	out := dynamics.Eval(m, s)

	assert.Equal(t, []float64{4}, out.Lengths)
	assert.Equal(t, []float64{6, 9, 12}, out.Coriolis)
	assert.Equal(t, []float64{-1, 1, 3}, out.Gravity)
	assert.Equal(t, []float64{4, 10, 18}, out.Jacobian)

	// Only the first three mass entries are assigned.
	assert.Equal(t, []float64{1, 2, 3}, out.Mass[:3])
}

func TestMassMatrix_LeavesRestUntouched(t *testing.T) {
	m := New()
	s := sampleState()

	// Pre-poison the buffer past the assigned prefix; the model must
	// not write there.
	buf := make([]float64, m.DOF()*m.DOF())
	for i := 3; i < len(buf); i++ {
		buf[i] = -99
	}

	m.MassMatrix(buf, s.Q, s.QDot, s.QDDot, s.Wrench)

	assert.Equal(t, []float64{1, 2, 3}, buf[:3])
	for i := 3; i < len(buf); i++ {
		assert.Equal(t, -99.0, buf[i], "index %d was overwritten", i)
	}
}

func TestSizes(t *testing.T) {
	m := New()

	assert.Equal(t, 3, m.DOF())
	assert.Equal(t, 1, m.CableCount())

	b := dynamics.NewBuffers(m)
	assert.Len(t, b.Lengths, 1)
	assert.Len(t, b.Mass, 9)
	assert.Len(t, b.Jacobian, 3)
}

func TestFactoryRegistration(t *testing.T) {
	require.True(t, registry.HasModel(ModelName))

	m, err := registry.NewModel(ModelName, nil)
	require.NoError(t, err)
	assert.Equal(t, ModelName, m.Name())
}

func TestFactoryRejectsOptions(t *testing.T) {
	_, err := registry.NewModel(ModelName, map[string]interface{}{"mass": 2.0})
	require.Error(t, err)
	assert.True(t, errors.IsErrorCode(err, errors.ErrModelInvalid))
}
