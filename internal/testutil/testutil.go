// Package testutil provides shared test utilities and fixtures.
//
// Besides the assertion helpers it writes real .npz archives (numpy npy v1.0
// members inside a zip) so motion, dataset and tool tests exercise the same
// decoding path as production.
package testutil

import (
	"archive/zip"
	"bytes"
	"encoding/binary"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// AssertNoError fails the test if err is not nil.
func AssertNoError(t testing.TB, err error) {
	t.Helper()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

// AssertError fails the test if err is nil.
func AssertError(t testing.TB, err error) {
	t.Helper()
	if err == nil {
		t.Fatal("expected error, got nil")
	}
}

// Array is one npy member of an npz archive. Data must be a []float64,
// []float32, []int64, []int32 or a float64/int64 scalar.
type Array struct {
	Name  string
	Shape []int
	Data  any
}

// EncodeNPY returns the npy v1.0 encoding of a.
func EncodeNPY(a Array) ([]byte, error) {
	descr, payload, err := encodeData(a.Data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", a.Name, err)
	}

	dims := make([]string, len(a.Shape))
	for i, d := range a.Shape {
		dims[i] = fmt.Sprint(d)
	}
	shape := "(" + strings.Join(dims, ", ")
	if len(a.Shape) == 1 {
		shape += ","
	}
	shape += ")"

	header := fmt.Sprintf("{'descr': '%s', 'fortran_order': False, 'shape': %s, }", descr, shape)
	// magic(6) + version(2) + header_len(2) + header + '\n' is padded to 64 bytes.
	total := 10 + len(header) + 1
	if rem := total % 64; rem != 0 {
		header += strings.Repeat(" ", 64-rem)
	}
	header += "\n"

	var buf bytes.Buffer
	buf.WriteString("\x93NUMPY")
	buf.Write([]byte{1, 0})
	_ = binary.Write(&buf, binary.LittleEndian, uint16(len(header)))
	buf.WriteString(header)
	buf.Write(payload)
	return buf.Bytes(), nil
}

func encodeData(data any) (string, []byte, error) {
	var buf bytes.Buffer
	var descr string
	switch v := data.(type) {
	case []float64:
		descr = "<f8"
		_ = binary.Write(&buf, binary.LittleEndian, v)
	case []float32:
		descr = "<f4"
		_ = binary.Write(&buf, binary.LittleEndian, v)
	case []int64:
		descr = "<i8"
		_ = binary.Write(&buf, binary.LittleEndian, v)
	case []int32:
		descr = "<i4"
		_ = binary.Write(&buf, binary.LittleEndian, v)
	case float64:
		descr = "<f8"
		_ = binary.Write(&buf, binary.LittleEndian, v)
	case int64:
		descr = "<i8"
		_ = binary.Write(&buf, binary.LittleEndian, v)
	default:
		return "", nil, fmt.Errorf("unsupported npy data type %T", data)
	}
	return descr, buf.Bytes(), nil
}

// WriteNPZ writes the arrays as an npz archive at path, creating parent
// directories as needed.
func WriteNPZ(t testing.TB, path string, arrays ...Array) {
	t.Helper()
	AssertNoError(t, os.MkdirAll(filepath.Dir(path), 0755))

	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	for _, a := range arrays {
		member, err := EncodeNPY(a)
		AssertNoError(t, err)
		w, err := zw.Create(a.Name + ".npy")
		AssertNoError(t, err)
		_, err = w.Write(member)
		AssertNoError(t, err)
	}
	AssertNoError(t, zw.Close())
	AssertNoError(t, os.WriteFile(path, buf.Bytes(), 0644))
}

// Motion describes a synthetic retargeted motion archive.
type Motion struct {
	FPS    float64
	Frames int
	Bodies int
	DOFs   int
}

// Arrays builds deterministic fps/body_positions/body_rotations/dof_positions
// members. Body b of frame f sits at (f*0.01 + b, b*0.1, 1 + b*0.05); the root
// drifts along x. DOF j of frame f is (j - DOFs/2)*0.1 + f*0.001.
func (m Motion) Arrays() []Array {
	pos := make([]float64, 0, m.Frames*m.Bodies*3)
	rot := make([]float64, 0, m.Frames*m.Bodies*4)
	dof := make([]float64, 0, m.Frames*m.DOFs)
	for f := 0; f < m.Frames; f++ {
		for b := 0; b < m.Bodies; b++ {
			pos = append(pos, float64(f)*0.01+float64(b), float64(b)*0.1, 1+float64(b)*0.05)
			rot = append(rot, 1, 0, 0, 0)
		}
		for j := 0; j < m.DOFs; j++ {
			dof = append(dof, float64(j-m.DOFs/2)*0.1+float64(f)*0.001)
		}
	}
	return []Array{
		{Name: "fps", Shape: []int{}, Data: m.FPS},
		{Name: "body_positions", Shape: []int{m.Frames, m.Bodies, 3}, Data: pos},
		{Name: "body_rotations", Shape: []int{m.Frames, m.Bodies, 4}, Data: rot},
		{Name: "dof_positions", Shape: []int{m.Frames, m.DOFs}, Data: dof},
	}
}

// WriteMotion writes m to path and returns path.
func WriteMotion(t testing.TB, path string, m Motion) string {
	t.Helper()
	WriteNPZ(t, path, m.Arrays()...)
	return path
}

// WriteDuration writes a 2-body, 3-DOF archive lasting seconds at fps.
func WriteDuration(t testing.TB, path string, fps float64, seconds float64) string {
	t.Helper()
	return WriteMotion(t, path, Motion{FPS: fps, Frames: int(seconds * fps), Bodies: 2, DOFs: 3})
}
