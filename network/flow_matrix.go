// SPDX-License-Identifier: MIT
package network

import (
	"errors"
	"fmt"
	"strings"
)

// ErrBadShape indicates that requested row sizes are empty or non-positive.
var ErrBadShape = errors.New("network: flow matrix rows must be > 0")

// ErrOutOfRange indicates that a row or column index is outside the matrix.
var ErrOutOfRange = errors.New("network: flow matrix index out of range")

// flowErrorf wraps an underlying error with FlowMatrix method context.
func flowErrorf(method string, row, col int, err error) error {
	return fmt.Errorf("FlowMatrix.%s(%d,%d): %w", method, row, col, err)
}

// FlowMatrix is a ragged row-major matrix: row i is OD pair i (OD order),
// column k is route k of that pair. Rows may have different widths.
type FlowMatrix struct {
	offsets []int     // offsets[i] is the flat index of row i; len == rows+1
	data    []float64 // flat backing storage
}

// NewFlowMatrix creates a zeroed matrix whose row i has sizes[i] columns.
// Stage 1 (Validate): at least one row, every row width > 0.
// Stage 2 (Prepare): compute row offsets and allocate storage.
// Complexity: O(Σ sizes).
func NewFlowMatrix(sizes []int) (*FlowMatrix, error) {
	if len(sizes) == 0 {
		return nil, ErrBadShape
	}
	offsets := make([]int, len(sizes)+1)
	for i, n := range sizes {
		if n <= 0 {
			return nil, fmt.Errorf("row %d width %d: %w", i, n, ErrBadShape)
		}
		offsets[i+1] = offsets[i] + n
	}

	return &FlowMatrix{offsets: offsets, data: make([]float64, offsets[len(sizes)])}, nil
}

// Rows returns the number of rows.
func (m *FlowMatrix) Rows() int { return len(m.offsets) - 1 }

// Cols returns the width of row i, or 0 when i is out of range.
func (m *FlowMatrix) Cols(i int) int {
	if i < 0 || i >= m.Rows() {
		return 0
	}
	return m.offsets[i+1] - m.offsets[i]
}

// Shape returns the width of every row.
func (m *FlowMatrix) Shape() []int {
	s := make([]int, m.Rows())
	for i := range s {
		s[i] = m.Cols(i)
	}
	return s
}

// indexOf computes the flat index for (row, col).
func (m *FlowMatrix) indexOf(method string, row, col int) (int, error) {
	if row < 0 || row >= m.Rows() {
		return 0, flowErrorf(method, row, col, ErrOutOfRange)
	}
	if col < 0 || col >= m.Cols(row) {
		return 0, flowErrorf(method, row, col, ErrOutOfRange)
	}

	return m.offsets[row] + col, nil
}

// At retrieves the element at (row, col).
func (m *FlowMatrix) At(row, col int) (float64, error) {
	idx, err := m.indexOf("At", row, col)
	if err != nil {
		return 0, err
	}
	return m.data[idx], nil
}

// Set assigns v at (row, col).
func (m *FlowMatrix) Set(row, col int, v float64) error {
	idx, err := m.indexOf("Set", row, col)
	if err != nil {
		return err
	}
	m.data[idx] = v

	return nil
}

// Add accumulates v into (row, col).
func (m *FlowMatrix) Add(row, col int, v float64) error {
	idx, err := m.indexOf("Add", row, col)
	if err != nil {
		return err
	}
	m.data[idx] += v

	return nil
}

// Row returns a copy of row i, or nil when i is out of range.
func (m *FlowMatrix) Row(i int) []float64 {
	if i < 0 || i >= m.Rows() {
		return nil
	}
	out := make([]float64, m.Cols(i))
	copy(out, m.data[m.offsets[i]:m.offsets[i+1]])

	return out
}

// RowSum returns the total flow of row i.
func (m *FlowMatrix) RowSum(i int) float64 {
	if i < 0 || i >= m.Rows() {
		return 0
	}
	var s float64
	for _, v := range m.data[m.offsets[i]:m.offsets[i+1]] {
		s += v
	}
	return s
}

// Zero resets every element to 0 without reallocating.
func (m *FlowMatrix) Zero() {
	for i := range m.data {
		m.data[i] = 0
	}
}

// Clone returns a deep copy.
func (m *FlowMatrix) Clone() *FlowMatrix {
	offsets := make([]int, len(m.offsets))
	copy(offsets, m.offsets)
	data := make([]float64, len(m.data))
	copy(data, m.data)

	return &FlowMatrix{offsets: offsets, data: data}
}

// sameShape reports whether m has exactly the given row widths.
func (m *FlowMatrix) sameShape(sizes []int) bool {
	if m == nil || m.Rows() != len(sizes) {
		return false
	}
	for i, n := range sizes {
		if m.Cols(i) != n {
			return false
		}
	}
	return true
}

// String implements fmt.Stringer.
func (m *FlowMatrix) String() string {
	var sb strings.Builder
	for i := 0; i < m.Rows(); i++ {
		sb.WriteString("[")
		for k, v := range m.data[m.offsets[i]:m.offsets[i+1]] {
			if k > 0 {
				sb.WriteString(", ")
			}
			fmt.Fprintf(&sb, "%g", v)
		}
		sb.WriteString("]\n")
	}
	return sb.String()
}
