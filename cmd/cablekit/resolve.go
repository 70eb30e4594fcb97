package main

import (
	"context"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/cdpr-lab/cablekit/pkg/config"
	"github.com/cdpr-lab/cablekit/pkg/dynamics"
	"github.com/cdpr-lab/cablekit/pkg/errors"
	"github.com/cdpr-lab/cablekit/pkg/modelfile"
	"github.com/cdpr-lab/cablekit/pkg/paths"
	"github.com/cdpr-lab/cablekit/pkg/registry"
)

// modelFlags are the model-selection flags shared by eval and simulate.
type modelFlags struct {
	model     string
	modelFile string
	robotXML  string
}

const modelFileTimeout = 10 * time.Second

// resolveProfile loads the profile honoring flag precedence: an XML
// robot description wins over --profile, which wins over the default
// profile path when that file exists, which wins over built-in
// defaults.
func resolveProfile(robotXML string) (*config.Profile, error) {
	if robotXML != "" {
		return config.LoadRobotXML(robotXML)
	}
	if profilePath != "" {
		return config.Load(profilePath)
	}
	if def := paths.DefaultProfilePath(); fileExists(def) {
		return config.Load(def)
	}
	return config.Default()
}

// resolveModel instantiates the model chosen by flags and profile. A
// --model-file is loaded and used directly; otherwise --model overrides
// the profile's robot.model.
func resolveModel(profile *config.Profile, flags modelFlags) (dynamics.Model, error) {
	if flags.modelFile != "" {
		ctx, cancel := context.WithTimeout(context.Background(), modelFileTimeout)
		defer cancel()
		return modelfile.LoadAndRegister(ctx, flags.modelFile)
	}

	name := profile.Robot.Model
	options := profile.Robot.Options
	if flags.model != "" {
		name = flags.model
		options = nil
	}
	return registry.NewModel(name, options)
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// parseVector parses a comma-separated float list, returning a zero
// vector of length n when raw is empty.
func parseVector(flag, raw string, n int) ([]float64, error) {
	if raw == "" {
		return make([]float64, n), nil
	}

	parts := strings.Split(raw, ",")
	if len(parts) != n {
		return nil, errors.Newf(errors.ErrDimension, "--%s wants %d values, got %d", flag, n, len(parts))
	}

	out := make([]float64, n)
	for i, p := range parts {
		v, err := strconv.ParseFloat(strings.TrimSpace(p), 64)
		if err != nil {
			return nil, errors.Wrapf(err, errors.ErrInvalidInput, "--%s value %q is not a number", flag, p)
		}
		out[i] = v
	}
	return out, nil
}

// parseState builds a full state from the four vector flags.
func parseState(m dynamics.Model, q, qdot, qddot, wrench string) (dynamics.State, error) {
	dof := m.DOF()
	s := dynamics.State{}

	var err error
	if s.Q, err = parseVector("q", q, dof); err != nil {
		return s, err
	}
	if s.QDot, err = parseVector("qdot", qdot, dof); err != nil {
		return s, err
	}
	if s.QDDot, err = parseVector("qddot", qddot, dof); err != nil {
		return s, err
	}
	if s.Wrench, err = parseVector("wrench", wrench, dof); err != nil {
		return s, err
	}
	return s, nil
}
