package style

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cdpr-lab/cablekit/pkg/dynamics"
	"github.com/cdpr-lab/cablekit/pkg/models/template"
)

func TestFormatVector(t *testing.T) {
	assert.Equal(t, "[]", FormatVector(nil))
	assert.Equal(t, "[1  2.5  -3]", FormatVector([]float64{1, 2.5, -3}))
	assert.Equal(t, "[0.333333]", FormatVector([]float64{1.0 / 3.0}))
}

func TestRenderModelList(t *testing.T) {
	out := RenderModelList([]ModelInfo{
		{Name: "planar-xy", Description: "Planar rig", DOF: 2, Cables: 4},
		{Name: "template", Description: "Starter", DOF: 3, Cables: 1},
	})

	assert.Contains(t, out, "planar-xy")
	assert.Contains(t, out, "template")
	assert.Contains(t, out, "NAME")
}

func TestRenderModelList_Empty(t *testing.T) {
	out := RenderModelList(nil)
	assert.Contains(t, out, "No models registered")
}

func TestRenderEval(t *testing.T) {
	m := template.New()
	s := dynamics.State{
		Q:      []float64{1, 2, 3},
		QDot:   []float64{4, 5, 6},
		QDDot:  []float64{0, 0, 0},
		Wrench: []float64{0, 0, 0},
	}
	b := dynamics.Eval(m, s)

	out := RenderEval(m, b)

	require.Contains(t, out, "template")
	assert.Contains(t, out, "Cable lengths")
	assert.Contains(t, out, "Mass matrix")
	assert.Contains(t, out, "Coriolis vector")
	assert.Contains(t, out, "Gravity vector")
	assert.Contains(t, out, "Jacobian")
	assert.Contains(t, out, "[6  9  12]")
}
