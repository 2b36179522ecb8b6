package main

import (
	"flag"
	"fmt"
	"log"
	"strings"

	"github.com/jsho000/ocgen"
	"github.com/spf13/cast"
	"github.com/spf13/viper"
)

// This code only reads a scenario file, derives the step plan and prints it.

const defaultScenario = "~~unset~~"

var (
	scenario string
	verbose  bool
)

func init() {
	// Read flags
	flag.StringVar(&scenario, "scenario", defaultScenario, "step-plan scenario TOML file")
	flag.BoolVar(&verbose, "verbose", false, "really verbose (esp. for configuration)")
}

func main() {
	flag.Parse()
	// Load scenario
	if scenario == defaultScenario {
		log.Fatal("no scenario provided")
	}
	scenario = strings.Replace(scenario, ".toml", "", 1)
	viper.AddConfigPath(".")
	viper.SetConfigName(scenario)
	err := viper.ReadInConfig()
	if err != nil {
		log.Fatalf("./%s.toml: Error %s", scenario, err)
	}

	// Read the outer discretization grid
	rawTimes, ok := viper.Get("grid.times").([]interface{})
	if !ok || len(rawTimes) < 2 {
		log.Fatal("grid.times must list at least two time points")
	}
	times := make([]float64, len(rawTimes))
	for i, raw := range rawTimes {
		times[i] = cast.ToFloat64(raw)
	}
	numSteps := viper.GetInt("grid.steps")
	header := viper.GetString("codegen.header")
	if header == "" {
		header = "integrator"
	}
	if verbose {
		log.Printf("[conf] grid times: %v, desired steps: %d\n", times, numSteps)
	}

	ocpGrid, err := ocgen.NewGrid(times...)
	if err != nil {
		log.Fatalf("invalid grid: %s", err)
	}
	sess := ocgen.NewExportSession(header)
	if err := sess.DeriveGrid(ocpGrid, uint(numSteps)); err != nil {
		log.Fatalf("derivation failed: %s", err)
	}

	fmt.Printf("integration grid: %s\n", sess.Grid())
	if sess.EquidistantControlGrid() {
		fmt.Printf("equidistant control grid, %d steps per interval\n", sess.StepsForInterval(0))
	} else {
		fmt.Printf("step-count vector: %v\n", sess.NumSteps())
	}
	fmt.Printf("reset symbol: %s\n", sess.ResetVariable().Name)
}
