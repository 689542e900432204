package cmd

import (
	"errors"
	"flag"
	"fmt"
	"io/fs"
	"os"

	"gopkg.in/yaml.v3"
)

// Profile holds the settings of a tax computation, saved in a YAML file.
type Profile struct {
	Year            int      `yaml:"year"`
	MarginalTaxRate *float64 `yaml:"marginal_tax_rate"` // nil when absent, 0 is a valid rate
	Policy          string   `yaml:"policy"`
	ExchangeRates   string   `yaml:"exchange_rates"`
	Schwab          string   `yaml:"schwab"`
	OutputDir       string   `yaml:"output_dir"`
}

// LoadProfile reads a profile from path.
//
// An empty path falls back to $RSUTAX_CONFIG, and no profile at all is not an error.
func LoadProfile(path string) (Profile, error) {
	var p Profile
	explicit := path != ""
	if !explicit {
		path = os.Getenv(EnvConfig)
	}
	if path == "" {
		return p, nil
	}
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) && !explicit {
		return p, nil
	}
	if err != nil {
		return p, fmt.Errorf("failed to read profile: %w", err)
	}
	if err := yaml.Unmarshal(data, &p); err != nil {
		return p, fmt.Errorf("failed to parse profile %q: %w", path, err)
	}
	return p, nil
}

// setFlags returns the names of the flags explicitly set on the command line.
func setFlags(f *flag.FlagSet) map[string]bool {
	set := make(map[string]bool)
	f.Visit(func(fl *flag.Flag) { set[fl.Name] = true })
	return set
}
