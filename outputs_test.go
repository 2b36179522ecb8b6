package ocgen

import (
	"errors"
	"testing"
)

func TestOutputRegistry(t *testing.T) {
	sess := NewExportSession("out")
	fine, _ := NewEquidistantGrid(0, 1, 21) // finer than any integration grid
	coarse, _ := NewEquidistantGrid(0, 1, 5)

	if err := sess.RegisterOutput(SymbolicFunction{"h0", 3}, SymbolicFunction{"dh0", 9}, fine); err != nil {
		t.Fatalf("generated output rejected: %s", err)
	}
	if err := sess.RegisterExternalOutput("h1_ext", "dh1_ext", 2, coarse); err != nil {
		t.Fatalf("external output rejected: %s", err)
	}
	if sess.NumOutputs() != 2 {
		t.Fatalf("expected 2 outputs, got %d", sess.NumOutputs())
	}

	// Accessors dispatch uniformly on the binding origin.
	if sess.OutputName(0) != "h0" || sess.OutputDim(0) != 3 || sess.OutputDiffsName(0) != "dh0" {
		t.Fatal("generated output accessors incorrect")
	}
	if sess.OutputName(1) != "h1_ext" || sess.OutputDim(1) != 2 || sess.OutputDiffsName(1) != "dh1_ext" {
		t.Fatal("external output accessors incorrect")
	}

	exprs := sess.OutputExpressions()
	if len(exprs) != 2 {
		t.Fatalf("expected 2 expressions, got %d", len(exprs))
	}
	if exprs[0].Name() != "h0" || exprs[0].Dim() != 3 {
		t.Fatal("generated expression snapshot incorrect")
	}
	if exprs[1].Name() != "h1_ext" || exprs[1].Dim() != 2 {
		t.Fatal("external expression snapshot incorrect")
	}

	grids := sess.OutputGrids()
	if len(grids) != 2 {
		t.Fatalf("expected 2 grids, got %d", len(grids))
	}
	if grids[0].NumIntervals() != 20 || grids[1].NumIntervals() != 4 {
		t.Fatal("output grids not returned in registration order")
	}
}

func TestOutputRegistrationErrors(t *testing.T) {
	sess := NewExportSession("outerr")
	g, _ := NewEquidistantGrid(0, 1, 5)
	if err := sess.RegisterOutput(nil, nil, g); !errors.Is(err, ErrInvalidOption) {
		t.Fatalf("nil expression accepted: %v", err)
	}
	if err := sess.RegisterOutput(SymbolicFunction{"h", 1}, SymbolicFunction{"dh", 1}, Grid{}); !errors.Is(err, ErrInvalidOption) {
		t.Fatalf("unset grid accepted: %v", err)
	}
	if err := sess.RegisterExternalOutput("h", "dh", 0, g); !errors.Is(err, ErrInvalidOption) {
		t.Fatalf("zero-dimension external output accepted: %v", err)
	}
	if sess.NumOutputs() != 0 {
		t.Fatal("failed registrations mutated the registry")
	}
}

func TestOutputSpecAccessors(t *testing.T) {
	g, _ := NewEquidistantGrid(0, 2, 3)
	spec := OutputSpec{binding: externalBinding("f", "df", 5), grid: g}
	if spec.Name() != "f" || spec.DiffsName() != "df" || spec.Dim() != 5 {
		t.Fatal("spec accessors incorrect")
	}
	if spec.Grid().NumIntervals() != 2 {
		t.Fatal("spec grid incorrect")
	}
}
