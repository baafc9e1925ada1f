package player

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func jointModel(defaults ...float64) *Model {
	m := &Model{}
	for i, d := range defaults {
		m.Joints = append(m.Joints, Joint{Name: string(rune('a' + i)), Default: d})
	}
	return m
}

func TestAdapter_Identity(t *testing.T) {
	a := NewAdapter(3, jointModel(0, 0, 0))
	assert.True(t, a.Identity())
	assert.False(t, a.ByName())

	dst := make([]float64, 3)
	require.NoError(t, a.Adapt(dst, []float64{1, 2, 3}))
	assert.Equal(t, []float64{1, 2, 3}, dst)
}

func TestAdapter_PadsWithDefaults(t *testing.T) {
	a := NewAdapter(2, jointModel(9, 9, 0.5, -0.5))
	assert.False(t, a.Identity())
	assert.Equal(t, []string{"c", "d"}, a.Missing())
	assert.Zero(t, a.Dropped())

	dst := make([]float64, 4)
	require.NoError(t, a.Adapt(dst, []float64{1, 2}))
	assert.Equal(t, []float64{1, 2, 0.5, -0.5}, dst)
}

func TestAdapter_DropsExtra(t *testing.T) {
	a := NewAdapter(5, jointModel(0, 0))
	assert.Equal(t, 3, a.Dropped())
	assert.Empty(t, a.Missing())

	dst := make([]float64, 2)
	require.NoError(t, a.Adapt(dst, []float64{1, 2, 3, 4, 5}))
	assert.Equal(t, []float64{1, 2}, dst)
}

func TestAdapter_ByName(t *testing.T) {
	m, err := ParseModel([]byte(g1YAML))
	require.NoError(t, err)

	a := NewAdapter(3, m)
	require.True(t, a.ByName())
	assert.Equal(t, []string{"right_hip_pitch"}, a.Missing())
	assert.Zero(t, a.Dropped())

	// source order: right_knee, left_knee, left_hip_pitch
	dst := make([]float64, 4)
	require.NoError(t, a.Adapt(dst, []float64{0.7, 0.2, -0.4}))
	assert.Equal(t, []float64{-0.4, 0.2, -0.1, 0.7}, dst)
}

func TestAdapter_ByNameDropsUnknownSource(t *testing.T) {
	m := &Model{
		Joints:       []Joint{{Name: "x"}, {Name: "y"}},
		SourceJoints: []string{"y", "extra", "x"},
	}
	a := NewAdapter(3, m)
	require.True(t, a.ByName())
	assert.Equal(t, 1, a.Dropped())

	dst := make([]float64, 2)
	require.NoError(t, a.Adapt(dst, []float64{2, 99, 1}))
	assert.Equal(t, []float64{1, 2}, dst)
}

func TestAdapter_SourceNamesIgnoredOnCountMismatch(t *testing.T) {
	m, err := ParseModel([]byte(g1YAML))
	require.NoError(t, err)

	a := NewAdapter(4, m)
	assert.False(t, a.ByName())
	assert.True(t, a.Identity())
}

func TestAdapter_Mismatch(t *testing.T) {
	a := NewAdapter(3, jointModel(0, 0))
	assert.ErrorIs(t, a.Adapt(make([]float64, 2), []float64{1, 2}), ErrJointMismatch)
	assert.ErrorIs(t, a.Adapt(make([]float64, 3), []float64{1, 2, 3}), ErrJointMismatch)
}

func TestAdapter_NoAllocation(t *testing.T) {
	a := NewAdapter(4, jointModel(0, 0, 0, 0, 0, 0))
	dst := make([]float64, 6)
	src := []float64{1, 2, 3, 4}
	allocs := testing.AllocsPerRun(100, func() {
		_ = a.Adapt(dst, src)
	})
	assert.Zero(t, allocs)
}

func TestAdaptBodies(t *testing.T) {
	src := []float64{1, 2, 3, 4, 5, 6}

	pad := make([]float64, 9)
	require.NoError(t, AdaptBodies(pad, src))
	assert.Equal(t, []float64{1, 2, 3, 4, 5, 6, 1, 2, 3}, pad)

	trunc := make([]float64, 3)
	require.NoError(t, AdaptBodies(trunc, src))
	assert.Equal(t, []float64{1, 2, 3}, trunc)

	assert.ErrorIs(t, AdaptBodies(make([]float64, 3), []float64{1, 2}), ErrJointMismatch)
	assert.ErrorIs(t, AdaptBodies(make([]float64, 4), src), ErrJointMismatch)
}
