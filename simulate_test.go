package ocgen

import (
	"errors"
	"os"
	"strings"
	"testing"

	"github.com/gonum/floats"
)

// constant derivative: RK4 reproduces the trajectory exactly, so the final
// state only depends on the step plan covering the full horizon.
func constRate(t float64, x []float64) []float64 {
	return []float64{1, -1}
}

func TestValidationNonEquidistant(t *testing.T) {
	sess := NewExportSession("vneq")
	outer, _ := NewGrid(0, 1, 3, 4)
	if err := sess.DeriveGrid(outer, 8); err != nil {
		t.Fatalf("derivation failed: %s", err)
	}
	v := NewValidation(sess, constRate)
	final, err := v.Run(outer, []float64{0, 4}, TrajectoryExportConfig{})
	if err != nil {
		t.Fatalf("validation failed: %s", err)
	}
	if !floats.EqualWithinAbs(final[0], 4, 1e-9) || !floats.EqualWithinAbs(final[1], 0, 1e-9) {
		t.Fatalf("final state %v, expected [4 0]", final)
	}
}

func TestValidationUnconfigured(t *testing.T) {
	sess := NewExportSession("vun")
	outer, _ := NewGrid(0, 1)
	_, err := NewValidation(sess, constRate).Run(outer, []float64{0, 0}, TrajectoryExportConfig{})
	if !errors.Is(err, ErrInvalidOption) {
		t.Fatalf("expected ErrInvalidOption on unconfigured session, got %v", err)
	}
}

func TestValidationStreams(t *testing.T) {
	sess := NewExportSession("vstream")
	outer, _ := NewEquidistantGrid(0, 5, 6)
	if err := sess.DeriveGrid(outer, 23); err != nil {
		t.Fatalf("derivation failed: %s", err)
	}
	conf := TrajectoryExportConfig{Basename: "validate", SeriesIndex: 3, Weights: []float64{1}}
	final, err := NewValidation(sess, constRate).Run(outer, []float64{0, 0}, conf)
	if err != nil {
		t.Fatalf("validation failed: %s", err)
	}
	if !floats.EqualWithinAbs(final[0], 5, 1e-9) || !floats.EqualWithinAbs(final[1], -5, 1e-9) {
		t.Fatalf("final state %v, expected [5 -5]", final)
	}

	b, err := os.ReadFile(testOutputDir + "/MO3-validate.dat")
	if err != nil {
		t.Fatalf("trajectory file not written: %s", err)
	}
	dataLines := 0
	for _, line := range strings.Split(string(b), "\n") {
		if line != "" && !strings.HasPrefix(line, "#") {
			dataLines++
		}
	}
	// Initial point plus 5 intervals of 5 applied steps each.
	if dataLines != 26 {
		t.Fatalf("expected 26 sampled points, got %d", dataLines)
	}
}
