package player

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const g1YAML = `
name: g1-lite
joints:
  - {name: left_hip_pitch, default: -0.1}
  - {name: left_knee, default: 0.3}
  - {name: right_hip_pitch, default: -0.1}
  - {name: right_knee, default: 0.3}
bodies:
  - {name: pelvis, parent: -1}
  - {name: left_thigh, parent: 0}
  - {name: left_shin, parent: 1}
source_joints: [right_knee, left_knee, left_hip_pitch]
`

func TestParseModel(t *testing.T) {
	m, err := ParseModel([]byte(g1YAML))
	require.NoError(t, err)

	assert.Equal(t, "g1-lite", m.Name)
	require.Len(t, m.Joints, 4)
	assert.Equal(t, Joint{Name: "left_knee", Default: 0.3}, m.Joints[1])
	assert.Equal(t, []float64{-0.1, 0.3, -0.1, 0.3}, m.Defaults())
	assert.Equal(t, Body{Name: "left_shin", Parent: 1}, m.Bodies[2])
	assert.Equal(t, []string{"right_knee", "left_knee", "left_hip_pitch"}, m.SourceJoints)
}

func TestParseModel_Invalid(t *testing.T) {
	tests := map[string]string{
		"no joints":        "name: x\n",
		"unnamed joint":    "joints: [{default: 1}]\n",
		"duplicate joint":  "joints: [{name: a}, {name: a}]\n",
		"forward parent":   "joints: [{name: a}]\nbodies: [{name: p, parent: 0}]\n",
		"bad parent":       "joints: [{name: a}]\nbodies: [{name: p, parent: -1}, {name: q, parent: -2}]\n",
		"duplicate body":   "joints: [{name: a}]\nbodies: [{name: p, parent: -1}, {name: p, parent: 0}]\n",
		"duplicate source": "joints: [{name: a}]\nsource_joints: [a, a]\n",
		"unknown field":    "joints: [{name: a}]\ncolour: red\n",
		"not yaml":         "joints: [\n",
	}
	for name, doc := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := ParseModel([]byte(doc))
			assert.Error(t, err)
		})
	}
}

func TestLoadModel(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "g1.yaml")
	require.NoError(t, os.WriteFile(path, []byte(g1YAML), 0644))

	m, err := LoadModel(path)
	require.NoError(t, err)
	assert.Len(t, m.Joints, 4)

	_, err = LoadModel(filepath.Join(dir, "missing.yaml"))
	assert.ErrorIs(t, err, ErrModelNotFound)
}

func TestGenericModel(t *testing.T) {
	m := GenericModel(3, 4)
	require.NoError(t, m.Validate())
	assert.Equal(t, "joint_2", m.Joints[2].Name)
	assert.Equal(t, -1, m.Bodies[0].Parent)
	assert.Equal(t, 0, m.Bodies[3].Parent)
}
