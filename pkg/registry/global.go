package registry

import (
	"github.com/cdpr-lab/cablekit/pkg/dynamics"
	"github.com/cdpr-lab/cablekit/pkg/errors"
)

// Global registry of model factories. Built-in model packages add
// themselves here from init(); model files loaded at runtime register
// through the same path, so the host treats both uniformly.
var modelFactories = New[dynamics.Factory]()

// RegisterModelFactory registers a factory for creating models by name.
func RegisterModelFactory(name string, factory dynamics.Factory) error {
	return modelFactories.Register(name, factory)
}

// MustRegisterModelFactory registers a factory and panics on failure.
// For use from init() functions of built-in model packages.
func MustRegisterModelFactory(name string, factory dynamics.Factory) {
	MustRegister(modelFactories, name, factory)
}

// NewModel creates a model instance by factory name with the given
// options.
func NewModel(name string, options map[string]interface{}) (dynamics.Model, error) {
	factory, err := modelFactories.Get(name)
	if err != nil {
		return nil, errors.Newf(errors.ErrModelNotFound, "model factory not found: %s", name)
	}

	model, err := factory(options)
	if err != nil {
		return nil, errors.Wrapf(err, errors.ErrModelInvalid, "failed to create model %s", name)
	}

	return model, nil
}

// ModelNames returns the names of all registered model factories in
// sorted order.
func ModelNames() []string {
	return modelFactories.Names()
}

// HasModel reports whether a factory is registered under name.
func HasModel(name string) bool {
	return modelFactories.Has(name)
}

// RemoveModelFactory removes a factory, as when a runtime-loaded model
// file is replaced.
func RemoveModelFactory(name string) error {
	return modelFactories.Remove(name)
}
