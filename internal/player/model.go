// Package player replays motion records frame by frame through a Renderer
// and optionally captures the frames to a video file.
package player

import (
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"os"

	"gopkg.in/yaml.v3"
)

// ErrModelNotFound is returned when the model file does not exist.
var ErrModelNotFound = errors.New("model not found")

// Joint is one actuated degree of freedom of the model.
type Joint struct {
	Name    string  `yaml:"name"`
	Default float64 `yaml:"default"`
}

// Body is one rigid link. Parent indexes Bodies; -1 marks the root.
type Body struct {
	Name   string `yaml:"name"`
	Parent int    `yaml:"parent"`
}

// Model describes the skeleton a renderer draws: joint order and default
// pose, plus the body tree used to connect positions into bones.
type Model struct {
	Name   string  `yaml:"name"`
	Joints []Joint `yaml:"joints"`
	Bodies []Body  `yaml:"bodies"`
	// SourceJoints optionally names the DOF order of the recorded data so
	// joints can be matched by name.
	SourceJoints []string `yaml:"source_joints"`
}

// LoadModel reads and validates a YAML model file.
func LoadModel(path string) (*Model, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("%w: %s", ErrModelNotFound, path)
	}
	if err != nil {
		return nil, fmt.Errorf("read model: %w", err)
	}
	m, err := ParseModel(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return m, nil
}

// ParseModel decodes and validates a YAML model. Unknown fields are rejected.
func ParseModel(data []byte) (*Model, error) {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	var m Model
	if err := dec.Decode(&m); err != nil {
		return nil, fmt.Errorf("parse model: %w", err)
	}
	if err := m.Validate(); err != nil {
		return nil, err
	}
	return &m, nil
}

// Validate checks joint and body names are unique and that every body's
// parent precedes it.
func (m *Model) Validate() error {
	if len(m.Joints) == 0 {
		return errors.New("model has no joints")
	}
	seen := make(map[string]bool, len(m.Joints))
	for i, j := range m.Joints {
		if j.Name == "" {
			return fmt.Errorf("joint %d has no name", i)
		}
		if seen[j.Name] {
			return fmt.Errorf("duplicate joint %q", j.Name)
		}
		seen[j.Name] = true
	}

	names := make(map[string]bool, len(m.Bodies))
	for i, b := range m.Bodies {
		if names[b.Name] {
			return fmt.Errorf("duplicate body %q", b.Name)
		}
		names[b.Name] = true
		if b.Parent < -1 || b.Parent >= i {
			return fmt.Errorf("body %q: parent %d must be -1 or below %d", b.Name, b.Parent, i)
		}
	}

	src := make(map[string]bool, len(m.SourceJoints))
	for _, n := range m.SourceJoints {
		if src[n] {
			return fmt.Errorf("duplicate source joint %q", n)
		}
		src[n] = true
	}
	return nil
}

// Defaults returns the default pose in joint order.
func (m *Model) Defaults() []float64 {
	out := make([]float64, len(m.Joints))
	for i, j := range m.Joints {
		out[i] = j.Default
	}
	return out
}

// GenericModel is used when no model file is given: dofs joints named
// joint_<i> with zero defaults and bodies hanging off body 0.
func GenericModel(dofs, bodies int) *Model {
	m := &Model{Name: "generic"}
	for i := 0; i < dofs; i++ {
		m.Joints = append(m.Joints, Joint{Name: fmt.Sprintf("joint_%d", i)})
	}
	for i := 0; i < bodies; i++ {
		parent := 0
		if i == 0 {
			parent = -1
		}
		m.Bodies = append(m.Bodies, Body{Name: fmt.Sprintf("body_%d", i), Parent: parent})
	}
	return m
}
