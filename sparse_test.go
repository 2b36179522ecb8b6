package ocgen

import (
	"testing"

	"github.com/gonum/matrix/mat64"
)

func TestCRSMatrix(t *testing.T) {
	dense := mat64.NewDense(3, 4, []float64{
		1, 0, 0, 2,
		0, 0, 0, 0,
		0, 3, 4, 0,
	})
	crs := NewCRSMatrix(dense, 1e-14)
	if crs.NNZ() != 4 {
		t.Fatalf("expected 4 nonzeros, got %d", crs.NNZ())
	}
	r, c := crs.Dims()
	if r != 3 || c != 4 {
		t.Fatalf("dims %dx%d, expected 3x4", r, c)
	}
	expRowPtr := []int{0, 2, 2, 4}
	for i, p := range crs.RowPtr {
		if p != expRowPtr[i] {
			t.Fatalf("RowPtr[%d] = %d, expected %d", i, p, expRowPtr[i])
		}
	}
	expColInd := []int{0, 3, 1, 2}
	for i, j := range crs.ColInd {
		if j != expColInd[i] {
			t.Fatalf("ColInd[%d] = %d, expected %d", i, j, expColInd[i])
		}
	}
	for i := 0; i < 3; i++ {
		for j := 0; j < 4; j++ {
			if crs.At(i, j) != dense.At(i, j) {
				t.Fatalf("At(%d,%d) = %f, expected %f", i, j, crs.At(i, j), dense.At(i, j))
			}
		}
	}
	if !mat64.Equal(crs.Dense(), dense) {
		t.Fatal("dense round-trip lost entries")
	}
}

func TestJacobianLayout(t *testing.T) {
	dense := mat64.NewDense(2, 2, []float64{1, 0, 0, 1})
	sess := NewExportSession("jac")

	opts := sess.Options()
	opts.SparseJacobian = false
	sess.SetOptions(opts)
	if _, ok := sess.JacobianLayout(dense).(*mat64.Dense); !ok {
		t.Fatal("dense layout expected when sparse derivatives are off")
	}

	opts.SparseJacobian = true
	sess.SetOptions(opts)
	layout, ok := sess.JacobianLayout(dense).(*CRSMatrix)
	if !ok {
		t.Fatal("compressed-row layout expected when sparse derivatives are on")
	}
	if layout.NNZ() != 2 {
		t.Fatalf("identity has 2 nonzeros, got %d", layout.NNZ())
	}
}
