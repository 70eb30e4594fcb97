package modelfile

import (
	"context"
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cdpr-lab/cablekit/pkg/dynamics"
	"github.com/cdpr-lab/cablekit/pkg/errors"
	"github.com/cdpr-lab/cablekit/pkg/registry"
)

const starterSource = `package model

func DOF() int        { return 3 }
func CableCount() int { return 1 }

func CableLengths(l, q, qdot, qddot, wrench []float64) {
	l[0] = qdot[0]
}

func MassMatrix(m, q, qdot, qddot, wrench []float64) {
	m[0] = q[0]
	m[1] = q[1]
	m[2] = q[2]
}

func CoriolisVector(c, q, qdot, qddot, wrench []float64) {
	c[0] = q[0]*2 + qdot[0]
	c[1] = q[1]*2 + qdot[1]
	c[2] = q[2]*2 + qdot[2]
}

func GravityVector(g, q, qdot, qddot, wrench []float64) {
	g[0] = q[0]*3 - qdot[0]
	g[1] = q[1]*3 - qdot[1]
	g[2] = q[2]*3 - qdot[2]
}

func Jacobian(jac, q, qdot, qddot, wrench []float64) {
	jac[0] = q[0] * qdot[0]
	jac[1] = q[1] * qdot[1]
	jac[2] = q[2] * qdot[2]
}
`

func writeModelFile(t *testing.T, name, source string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(source), 0644))
	return path
}

func TestLoad_StarterModel(t *testing.T) {
	path := writeModelFile(t, "myrobot.go", starterSource)

	m, err := Load(context.Background(), path)
	require.NoError(t, err)

	assert.Equal(t, "myrobot", m.Name())
	assert.Equal(t, 3, m.DOF())
	assert.Equal(t, 1, m.CableCount())

	s := dynamics.State{
		Q:      []float64{1, 2, 3},
		QDot:   []float64{4, 5, 6},
		QDDot:  []float64{0, 0, 0},
		Wrench: []float64{0, 0, 0},
	}
	out := dynamics.Eval(m, s)

	assert.Equal(t, []float64{4}, out.Lengths)
	assert.Equal(t, []float64{1, 2, 3}, out.Mass[:3])
	assert.Equal(t, []float64{6, 9, 12}, out.Coriolis)
	assert.Equal(t, []float64{-1, 1, 3}, out.Gravity)
	assert.Equal(t, []float64{4, 10, 18}, out.Jacobian)
}

func TestLoad_MathImportAndNames(t *testing.T) {
	path := writeModelFile(t, "pendulum.go", `package model

import "math"

func Name() string        { return "my-pendulum" }
func Description() string { return "swings" }
func DOF() int            { return 1 }
func CableCount() int     { return 1 }

func CableLengths(l, q, qdot, qddot, wrench []float64) {
	l[0] = math.Abs(q[0])
}
func MassMatrix(m, q, qdot, qddot, wrench []float64) { m[0] = 1 }
func CoriolisVector(c, q, qdot, qddot, wrench []float64) {}
func GravityVector(g, q, qdot, qddot, wrench []float64) { g[0] = 9.81 * math.Sin(q[0]) }
func Jacobian(jac, q, qdot, qddot, wrench []float64) { jac[0] = 1 }
`)

	m, err := Load(context.Background(), path)
	require.NoError(t, err)

	assert.Equal(t, "my-pendulum", m.Name())
	assert.Equal(t, "swings", m.Description())

	l := make([]float64, 1)
	m.CableLengths(l, []float64{-2}, nil, nil, nil)
	assert.Equal(t, 2.0, l[0])

	g := make([]float64, 1)
	m.GravityVector(g, []float64{math.Pi / 2}, nil, nil, nil)
	assert.InDelta(t, 9.81, g[0], 1e-12)
}

func TestLoad_EmptyBodiesAreLegal(t *testing.T) {
	path := writeModelFile(t, "noop.go", `package model

func DOF() int        { return 2 }
func CableCount() int { return 2 }

func CableLengths(l, q, qdot, qddot, wrench []float64) {}
func MassMatrix(m, q, qdot, qddot, wrench []float64) {}
func CoriolisVector(c, q, qdot, qddot, wrench []float64) {}
func GravityVector(g, q, qdot, qddot, wrench []float64) {}
func Jacobian(jac, q, qdot, qddot, wrench []float64) {}
`)

	m, err := Load(context.Background(), path)
	require.NoError(t, err)

	out := dynamics.Eval(m, dynamics.NewState(m.DOF()))
	assert.Equal(t, []float64{0, 0}, out.Lengths)
}

func TestLoad_Errors(t *testing.T) {
	t.Run("missing file", func(t *testing.T) {
		_, err := Load(context.Background(), filepath.Join(t.TempDir(), "absent.go"))
		assert.True(t, errors.IsErrorCode(err, errors.ErrModelFileLoad))
	})

	t.Run("forbidden import", func(t *testing.T) {
		path := writeModelFile(t, "evil.go", `package model

import "os"

func DOF() int { return 1 }
`)
		_, err := Load(context.Background(), path)
		assert.True(t, errors.IsErrorCode(err, errors.ErrModelFileImport))
	})

	t.Run("syntax error", func(t *testing.T) {
		path := writeModelFile(t, "broken.go", "package model\nfunc DOF( {")
		_, err := Load(context.Background(), path)
		assert.True(t, errors.IsErrorCode(err, errors.ErrModelFileEval))
	})

	t.Run("missing entry point", func(t *testing.T) {
		path := writeModelFile(t, "partial.go", `package model

func DOF() int        { return 1 }
func CableCount() int { return 1 }
`)
		_, err := Load(context.Background(), path)
		assert.True(t, errors.IsErrorCode(err, errors.ErrModelFileSymbol))
	})

	t.Run("wrong signature", func(t *testing.T) {
		path := writeModelFile(t, "wrongsig.go", `package model

func DOF() int        { return 1 }
func CableCount() int { return 1 }

func CableLengths(l []float64) {}
`)
		_, err := Load(context.Background(), path)
		assert.True(t, errors.IsErrorCode(err, errors.ErrModelFileSymbol))
	})

	t.Run("non-positive dof", func(t *testing.T) {
		path := writeModelFile(t, "zerodof.go", `package model

func DOF() int        { return 0 }
func CableCount() int { return 1 }
`)
		_, err := Load(context.Background(), path)
		assert.True(t, errors.IsErrorCode(err, errors.ErrModelInvalid))
	})
}

func TestLoadAndRegister(t *testing.T) {
	path := writeModelFile(t, "labrig.go", starterSource)

	m, err := LoadAndRegister(context.Background(), path)
	require.NoError(t, err)
	t.Cleanup(func() { _ = registry.RemoveModelFactory(m.Name()) })

	require.True(t, registry.HasModel("labrig"))

	got, err := registry.NewModel("labrig", nil)
	require.NoError(t, err)
	assert.Equal(t, 3, got.DOF())

	// Reloading the same file replaces the earlier registration.
	_, err = LoadAndRegister(context.Background(), path)
	require.NoError(t, err)
}

func TestValidateImports_Aliased(t *testing.T) {
	err := validateImports(`package model

import (
	m "math"
	"sort"
)
`)
	assert.NoError(t, err)

	err = validateImports(`package model

import (
	o "os"
)
`)
	assert.True(t, errors.IsErrorCode(err, errors.ErrModelFileImport))
}
