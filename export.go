package ocgen

import (
	"fmt"
	"os"
	"time"
)

// TrajState is one sampled point of a validated trajectory.
type TrajState struct {
	Time    float64
	State   []float64
	Control []float64
}

// ToText converts to text for written output.
func (s TrajState) ToText() string {
	line := fmt.Sprintf("%f", s.Time)
	for _, v := range s.State {
		line += fmt.Sprintf(" %f", v)
	}
	for _, v := range s.Control {
		line += fmt.Sprintf(" %f", v)
	}
	return line
}

// TrajectoryExportConfig configures the text export of one scenario of a
// parametric solution sequence. The k-th scenario of the sequence is written
// to `MO<k>-<basename>.dat` under the configured output directory.
type TrajectoryExportConfig struct {
	Basename    string
	SeriesIndex int       // the k in the MO<k> file prefix
	Weights     []float64 // scalarization weights, recorded in the header
	Timestamp   bool
}

// IsUseless returns whether this config doesn't actually do anything.
func (c TrajectoryExportConfig) IsUseless() bool {
	return c.Basename == ""
}

// createTrajectoryFile returns a file which requires a defer close statement!
func createTrajectoryFile(conf TrajectoryExportConfig) *os.File {
	config := ocgenConfig()
	var filename string
	if conf.Timestamp {
		t := time.Now()
		filename = fmt.Sprintf("%s/MO%d-%s-%d-%02d-%02dT%02d.%02d.%02d.dat", config.outputDir, conf.SeriesIndex, conf.Basename, t.Year(), t.Month(), t.Day(), t.Hour(), t.Minute(), t.Second())
	} else {
		filename = fmt.Sprintf("%s/MO%d-%s.dat", config.outputDir, conf.SeriesIndex, conf.Basename)
	}
	f, err := os.Create(filename)
	if err != nil {
		panic(err)
	}
	// Header
	f.WriteString(fmt.Sprintf(`# Creation date (UTC): %s
# Records are <t> <state...> <control...>
# Scalarization weights: %v`, time.Now().UTC(), conf.Weights))
	return f
}

// StreamTrajectory streams the output of the channel to the scenario file.
func StreamTrajectory(conf TrajectoryExportConfig, stateChan <-chan TrajState) {
	f := createTrajectoryFile(conf)
	defer f.Close()
	numPts := 0
	for state := range stateChan {
		if _, err := f.WriteString("\n" + state.ToText()); err != nil {
			panic(err)
		}
		numPts++
	}
	f.WriteString(fmt.Sprintf("\n# End of trajectory (%d points)\n", numPts))
}
