package ocgen

import (
	"github.com/gonum/floats"
	"github.com/gonum/matrix/mat64"
)

// JacobianMatrix is the read-only view of a derivative matrix handed to the
// emission backend, either dense (*mat64.Dense) or compressed-row.
type JacobianMatrix interface {
	Dims() (r, c int)
	At(i, j int) float64
}

// CRSMatrix stores a derivative matrix in compressed-row form: only nonzero
// entries are kept, with per-row extents in RowPtr and column positions in
// ColInd. Used when the Jacobian is structurally sparse.
type CRSMatrix struct {
	RowPtr []int
	ColInd []int
	Values []float64
	rows   int
	cols   int
}

// NewCRSMatrix compresses the given dense matrix, dropping entries within
// tol of zero.
func NewCRSMatrix(dense *mat64.Dense, tol float64) *CRSMatrix {
	r, c := dense.Dims()
	m := &CRSMatrix{rows: r, cols: c, RowPtr: make([]int, r+1)}
	for i := 0; i < r; i++ {
		for j := 0; j < c; j++ {
			v := dense.At(i, j)
			if floats.EqualWithinAbs(v, 0, tol) {
				continue
			}
			m.ColInd = append(m.ColInd, j)
			m.Values = append(m.Values, v)
		}
		m.RowPtr[i+1] = len(m.Values)
	}
	return m
}

// Dims returns the logical dimensions of the matrix.
func (m *CRSMatrix) Dims() (r, c int) {
	return m.rows, m.cols
}

// NNZ returns the number of stored nonzero entries.
func (m *CRSMatrix) NNZ() int {
	return len(m.Values)
}

// At returns the value at (i, j), zero for entries that were compressed out.
func (m *CRSMatrix) At(i, j int) float64 {
	for k := m.RowPtr[i]; k < m.RowPtr[i+1]; k++ {
		if m.ColInd[k] == j {
			return m.Values[k]
		}
	}
	return 0
}

// Dense expands the compressed matrix back to a dense mat64 matrix.
func (m *CRSMatrix) Dense() *mat64.Dense {
	d := mat64.NewDense(m.rows, m.cols, nil)
	for i := 0; i < m.rows; i++ {
		for k := m.RowPtr[i]; k < m.RowPtr[i+1]; k++ {
			d.Set(i, m.ColInd[k], m.Values[k])
		}
	}
	return d
}

// JacobianLayout returns the derivative-matrix layout the emission backend
// should generate against: the dense matrix itself, or its compressed-row
// form when the session is configured for sparse derivatives.
func (s *ExportSession) JacobianLayout(dense *mat64.Dense) JacobianMatrix {
	if s.opts.SparseJacobian {
		return NewCRSMatrix(dense, 10*machEps)
	}
	return dense
}
