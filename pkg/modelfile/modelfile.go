// Package modelfile loads user-written dynamics models from Go source
// files at runtime. The source is interpreted with yaegi rather than
// compiled, so a robot lab can drop in their equations of motion
// without a Go toolchain. Only math-flavored stdlib imports are
// allowed; the interpreted code gets no filesystem, network, or exec
// access.
package modelfile

import (
	"context"
	"os"
	"path/filepath"
	"strings"

	"github.com/traefik/yaegi/interp"
	"github.com/traefik/yaegi/stdlib"

	"github.com/cdpr-lab/cablekit/pkg/dynamics"
	"github.com/cdpr-lab/cablekit/pkg/errors"
	"github.com/cdpr-lab/cablekit/pkg/logging"
	"github.com/cdpr-lab/cablekit/pkg/registry"
)

// fillFunc is the required signature of the five dynamics entry points:
// (output, q, qdot, qddot, wrench).
type fillFunc = func(dst, q, qdot, qddot, wrench []float64)

// allowedImports is the stdlib whitelist for model files.
var allowedImports = map[string]bool{
	"math":      true,
	"math/bits": true,
	"sort":      true,
}

// Model is a dynamics model backed by interpreted Go source.
type Model struct {
	name        string
	description string
	dof         int
	cableCount  int

	cableLengths fillFunc
	massMatrix   fillFunc
	coriolis     fillFunc
	gravity      fillFunc
	jacobian     fillFunc
}

// Load interprets the model file at path and returns it as a dynamics
// model. The file must declare package model and define:
//
//	func DOF() int
//	func CableCount() int
//	func CableLengths(l, q, qdot, qddot, wrench []float64)
//	func MassMatrix(m, q, qdot, qddot, wrench []float64)
//	func CoriolisVector(c, q, qdot, qddot, wrench []float64)
//	func GravityVector(g, q, qdot, qddot, wrench []float64)
//	func Jacobian(jac, q, qdot, qddot, wrench []float64)
//
// and may define Name() string and Description() string. Function
// bodies may be empty; a model that writes nothing is legal.
// Interpretation is bounded by ctx.
func Load(ctx context.Context, path string) (*Model, error) {
	logger := logging.GetLogger("modelfile")

	source, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, errors.ErrModelFileLoad, "failed to read model file %s", path)
	}

	if err := validateImports(string(source)); err != nil {
		return nil, err
	}

	type loaded struct {
		model *Model
		err   error
	}
	done := make(chan loaded, 1)

	go func() {
		m, err := interpret(path, string(source))
		done <- loaded{model: m, err: err}
	}()

	select {
	case res := <-done:
		if res.err != nil {
			return nil, res.err
		}
		logger.Debug().Str("path", path).Str("model", res.model.name).Msg("model file loaded")
		return res.model, nil
	case <-ctx.Done():
		return nil, errors.Wrapf(ctx.Err(), errors.ErrModelFileEval, "interpreting %s timed out", path)
	}
}

// LoadAndRegister loads a model file and registers a factory for it
// under the model's name, replacing any factory already registered
// under that name.
func LoadAndRegister(ctx context.Context, path string) (*Model, error) {
	m, err := Load(ctx, path)
	if err != nil {
		return nil, err
	}

	if registry.HasModel(m.name) {
		if err := registry.RemoveModelFactory(m.name); err != nil {
			return nil, err
		}
	}
	err = registry.RegisterModelFactory(m.name, func(options map[string]interface{}) (dynamics.Model, error) {
		if len(options) > 0 {
			return nil, errors.Newf(errors.ErrInvalidInput, "model file %s takes no options", m.name)
		}
		return m, nil
	})
	if err != nil {
		return nil, err
	}
	return m, nil
}

func interpret(path, source string) (*Model, error) {
	i := interp.New(interp.Options{})
	if err := i.Use(stdlib.Symbols); err != nil {
		return nil, errors.Wrap(err, errors.ErrInternal, "failed to load interpreter stdlib")
	}

	if _, err := i.Eval(source); err != nil {
		return nil, errors.Wrapf(err, errors.ErrModelFileEval, "failed to interpret %s", path)
	}

	m := &Model{
		name:        strings.TrimSuffix(filepath.Base(path), filepath.Ext(path)),
		description: "User model loaded from " + filepath.Base(path),
	}

	dof, err := intSymbol(i, path, "model.DOF")
	if err != nil {
		return nil, err
	}
	m.dof = dof
	if m.dof <= 0 {
		return nil, errors.Newf(errors.ErrModelInvalid, "%s: DOF() must be positive, got %d", path, m.dof)
	}

	cables, err := intSymbol(i, path, "model.CableCount")
	if err != nil {
		return nil, err
	}
	m.cableCount = cables
	if m.cableCount <= 0 {
		return nil, errors.Newf(errors.ErrModelInvalid, "%s: CableCount() must be positive, got %d", path, m.cableCount)
	}

	if m.cableLengths, err = fillSymbol(i, path, "model.CableLengths"); err != nil {
		return nil, err
	}
	if m.massMatrix, err = fillSymbol(i, path, "model.MassMatrix"); err != nil {
		return nil, err
	}
	if m.coriolis, err = fillSymbol(i, path, "model.CoriolisVector"); err != nil {
		return nil, err
	}
	if m.gravity, err = fillSymbol(i, path, "model.GravityVector"); err != nil {
		return nil, err
	}
	if m.jacobian, err = fillSymbol(i, path, "model.Jacobian"); err != nil {
		return nil, err
	}

	if name, ok := stringSymbol(i, "model.Name"); ok && name != "" {
		m.name = name
	}
	if desc, ok := stringSymbol(i, "model.Description"); ok && desc != "" {
		m.description = desc
	}

	return m, nil
}

func intSymbol(i *interp.Interpreter, path, symbol string) (int, error) {
	v, err := i.Eval(symbol)
	if err != nil {
		return 0, errors.Wrapf(err, errors.ErrModelFileSymbol, "%s: %s not found", path, symbol)
	}
	fn, ok := v.Interface().(func() int)
	if !ok {
		return 0, errors.Newf(errors.ErrModelFileSymbol, "%s: %s must be func() int", path, symbol)
	}
	return fn(), nil
}

func fillSymbol(i *interp.Interpreter, path, symbol string) (fillFunc, error) {
	v, err := i.Eval(symbol)
	if err != nil {
		return nil, errors.Wrapf(err, errors.ErrModelFileSymbol, "%s: %s not found", path, symbol)
	}
	fn, ok := v.Interface().(fillFunc)
	if !ok {
		return nil, errors.Newf(errors.ErrModelFileSymbol,
			"%s: %s must be func(dst, q, qdot, qddot, wrench []float64)", path, symbol)
	}
	return fn, nil
}

func stringSymbol(i *interp.Interpreter, symbol string) (string, bool) {
	v, err := i.Eval(symbol)
	if err != nil {
		return "", false
	}
	fn, ok := v.Interface().(func() string)
	if !ok {
		return "", false
	}
	return fn(), true
}

// validateImports checks that the source only imports whitelisted
// stdlib packages.
func validateImports(source string) error {
	var imports []string

	inImportBlock := false
	for _, line := range strings.Split(source, "\n") {
		trimmed := strings.TrimSpace(line)

		if strings.HasPrefix(trimmed, "import (") {
			inImportBlock = true
			continue
		}
		if inImportBlock && strings.HasPrefix(trimmed, ")") {
			inImportBlock = false
			continue
		}

		if inImportBlock {
			if trimmed == "" || strings.HasPrefix(trimmed, "//") {
				continue
			}
			imports = append(imports, strings.Trim(trimmed, `"`))
		} else if strings.HasPrefix(trimmed, "import ") {
			imports = append(imports, strings.Trim(strings.TrimPrefix(trimmed, "import "), `"`))
		}
	}

	var forbidden []string
	for _, pkg := range imports {
		// Aliased imports keep the quoted path as the last field.
		fields := strings.Fields(pkg)
		if len(fields) == 0 {
			continue
		}
		clean := strings.Trim(fields[len(fields)-1], `"`)
		if !allowedImports[clean] {
			forbidden = append(forbidden, clean)
		}
	}

	if len(forbidden) > 0 {
		return errors.Newf(errors.ErrModelFileImport,
			"forbidden imports in model file: %s (allowed: math, math/bits, sort)",
			strings.Join(forbidden, ", "))
	}

	return nil
}

// Name returns the unique name of this model
func (m *Model) Name() string {
	return m.name
}

// Description returns a human-readable description of the robot
func (m *Model) Description() string {
	return m.description
}

// DOF returns the number of degrees of freedom
func (m *Model) DOF() int {
	return m.dof
}

// CableCount returns the number of cables
func (m *Model) CableCount() int {
	return m.cableCount
}

// CableLengths writes the cable length vector into l
func (m *Model) CableLengths(l, q, qdot, qddot, wrench []float64) {
	m.cableLengths(l, q, qdot, qddot, wrench)
}

// MassMatrix writes the flattened mass-inertia matrix into out
func (m *Model) MassMatrix(out, q, qdot, qddot, wrench []float64) {
	m.massMatrix(out, q, qdot, qddot, wrench)
}

// CoriolisVector writes the centrifugal and Coriolis vector into c
func (m *Model) CoriolisVector(c, q, qdot, qddot, wrench []float64) {
	m.coriolis(c, q, qdot, qddot, wrench)
}

// GravityVector writes the gravitational vector into g
func (m *Model) GravityVector(g, q, qdot, qddot, wrench []float64) {
	m.gravity(g, q, qdot, qddot, wrench)
}

// Jacobian writes the flattened joint-cable Jacobian matrix into jac
func (m *Model) Jacobian(jac, q, qdot, qddot, wrench []float64) {
	m.jacobian(jac, q, qdot, qddot, wrench)
}
