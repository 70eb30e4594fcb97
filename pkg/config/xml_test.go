package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cdpr-lab/cablekit/pkg/errors"
)

const planarRobotXML = `<?xml version="1.0"?>
<robot name="planar_xy" model="planar-xy">
  <effector mass="1.5" damping="0.25"/>
  <gravity x="0" y="-9.81"/>
  <anchors>
    <anchor x="-1" y="-1"/>
    <anchor x="1" y="-1"/>
    <anchor x="1" y="1"/>
    <anchor x="-1" y="1"/>
  </anchors>
</robot>
`

func writeXML(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "robot.xml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestLoadRobotXML(t *testing.T) {
	p, err := LoadRobotXML(writeXML(t, planarRobotXML))
	require.NoError(t, err)

	assert.Equal(t, "planar_xy", p.Robot.Name)
	assert.Equal(t, "planar-xy", p.Robot.Model)
	assert.Equal(t, 1.5, p.Robot.Options["mass"])
	assert.Equal(t, 0.25, p.Robot.Options["damping"])
	assert.Equal(t, []float64{0, -9.81}, p.Robot.Options["gravity"])

	anchors, ok := p.Robot.Options["anchors"].([][]float64)
	require.True(t, ok)
	require.Len(t, anchors, 4)
	assert.Equal(t, []float64{-1, -1}, anchors[0])

	// Sim settings come from the defaults layer.
	assert.Equal(t, 0.01, p.Sim.Step)
}

func TestLoadRobotXML_MinimalRobot(t *testing.T) {
	p, err := LoadRobotXML(writeXML(t, `<robot model="template"/>`))
	require.NoError(t, err)

	assert.Equal(t, "template", p.Robot.Model)
	assert.Nil(t, p.Robot.Options)
}

func TestLoadRobotXML_Errors(t *testing.T) {
	t.Run("missing file", func(t *testing.T) {
		_, err := LoadRobotXML(filepath.Join(t.TempDir(), "absent.xml"))
		assert.True(t, errors.IsErrorCode(err, errors.ErrConfigLoad))
	})

	t.Run("no robot element", func(t *testing.T) {
		_, err := LoadRobotXML(writeXML(t, `<models/>`))
		assert.True(t, errors.IsErrorCode(err, errors.ErrConfigParse))
	})

	t.Run("missing model attribute", func(t *testing.T) {
		_, err := LoadRobotXML(writeXML(t, `<robot name="x"/>`))
		assert.True(t, errors.IsErrorCode(err, errors.ErrConfigValid))
	})

	t.Run("non-numeric attribute", func(t *testing.T) {
		_, err := LoadRobotXML(writeXML(t, `<robot model="planar-xy"><effector mass="heavy"/></robot>`))
		assert.True(t, errors.IsErrorCode(err, errors.ErrConfigParse))
	})
}
