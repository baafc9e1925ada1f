// Package motion reads retargeted motion records stored as numpy .npz
// archives.
//
// A record carries a scalar fps, body_positions [F, B, 3],
// body_rotations [F, B, 4] (optional) and dof_positions [F, D]. Arrays are
// flattened row-major into float64 slices; the frame count F is shared by
// every per-frame member. Records are read-only.
package motion
