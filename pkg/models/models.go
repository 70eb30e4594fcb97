// Package models pulls in the built-in dynamics models so that
// importing it populates the model registry.
package models

import (
	"github.com/cdpr-lab/cablekit/pkg/dynamics"
	"github.com/cdpr-lab/cablekit/pkg/models/planarxy"
	"github.com/cdpr-lab/cablekit/pkg/models/template"
	"github.com/cdpr-lab/cablekit/pkg/registry"
)

// Get returns a built-in model instance by name with default options,
// or nil when no such model exists.
func Get(name string) dynamics.Model {
	switch name {
	case template.ModelName:
		return template.New()
	case planarxy.ModelName:
		m, err := planarxy.New(planarxy.DefaultParams())
		if err != nil {
			return nil
		}
		return m
	default:
		return nil
	}
}

// Names returns the names of all registered models, built-in or loaded
// at runtime.
func Names() []string {
	return registry.ModelNames()
}
