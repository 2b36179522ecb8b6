package ocgen

import (
	"fmt"
	"os"

	"github.com/spf13/viper"
)

var (
	cfgLoaded = false
	config    = _ocgenconfig{}
)

// _ocgenconfig is a "hidden" struct, just use `ocgenConfig`
type _ocgenconfig struct {
	outputDir      string
	sparseJacobian bool
	inlineRHS      bool
}

// ocgenConfig returns the toolkit configuration.
func ocgenConfig() _ocgenconfig {
	if cfgLoaded {
		return config
	}
	// Load the configuration file
	confPath := os.Getenv("OCGEN_CONFIG")
	if confPath == "" {
		panic("environment variable `OCGEN_CONFIG` is missing or empty")
	}
	viper.SetConfigName("conf")
	viper.AddConfigPath(confPath)
	viper.SetDefault("codegen.inline_rhs", true)
	err := viper.ReadInConfig()
	if err != nil {
		panic(fmt.Errorf("%s/conf.toml not found", confPath))
	}

	outputDir := viper.GetString("general.output_path")
	sparse := viper.GetBool("codegen.sparse_jacobian")
	inline := viper.GetBool("codegen.inline_rhs")

	cfgLoaded = true
	config = _ocgenconfig{outputDir: outputDir, sparseJacobian: sparse, inlineRHS: inline}
	return config
}

// OptionsFromConfig returns the generation flags seeded from the toolkit
// configuration file. The equidistance flag always starts true; it only
// drops when a non-uniform grid is configured.
func OptionsFromConfig() Options {
	conf := ocgenConfig()
	return Options{InlineRHS: conf.inlineRHS, Equidistant: true, SparseJacobian: conf.sparseJacobian}
}
