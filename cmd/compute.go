package cmd

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"

	"github.com/etnz/rsutax"
	"github.com/etnz/rsutax/bdf"
	"github.com/etnz/rsutax/date"
	"github.com/etnz/rsutax/renderer"
	"github.com/etnz/rsutax/schwab"
	"github.com/google/subcommands"
	"github.com/shopspring/decimal"
)

// computeCmd holds the flags for the 'compute' subcommand.
type computeCmd struct {
	config string
	year   int
	mtr    float64
	policy string
	rates  string
	schwab string
	outDir string
}

func (*computeCmd) Name() string     { return "compute" }
func (*computeCmd) Synopsis() string { return "estimate the tax due on the RSU sales of a year" }
func (*computeCmd) Usage() string {
	return `rsutax compute [-config <profile>] [-year <year>] [-mtr <rate>] [-policy <policy>] -rates <csv> -schwab <json> [-o <dir>]

  Reads the Banque de France exchange rates and the Schwab export, then prints the
  tax report and the declaration instructions of the year.
  Flags take precedence over the profile.
`
}

func (c *computeCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.config, "config", "", "YAML profile holding default settings. Defaults to $"+EnvConfig+".")
	f.IntVar(&c.year, "year", date.Today().Year()-1, "Year of the sales.")
	f.Float64Var(&c.mtr, "mtr", 0.30, "Marginal tax rate, between 0 and 1.")
	f.StringVar(&c.policy, "policy", rsutax.FlatRegime.String(), "Tax policy (flat, threshold-300k).")
	f.StringVar(&c.rates, "rates", "", "Banque de France exchange rates export (CSV).")
	f.StringVar(&c.schwab, "schwab", "", "Schwab equity awards export (JSON).")
	f.StringVar(&c.outDir, "o", "", "Directory to save the transactions, summary, report and instructions.")
}

// apply fills the settings not given on the command line from the profile.
func (c *computeCmd) apply(p Profile, set map[string]bool) {
	if !set["year"] && p.Year != 0 {
		c.year = p.Year
	}
	if !set["mtr"] && p.MarginalTaxRate != nil {
		c.mtr = *p.MarginalTaxRate
	}
	if !set["policy"] && p.Policy != "" {
		c.policy = p.Policy
	}
	if !set["rates"] && p.ExchangeRates != "" {
		c.rates = p.ExchangeRates
	}
	if !set["schwab"] && p.Schwab != "" {
		c.schwab = p.Schwab
	}
	if !set["o"] && p.OutputDir != "" {
		c.outDir = p.OutputDir
	}
}

func (c *computeCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	profile, err := LoadProfile(c.config)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading profile: %v\n", err)
		return subcommands.ExitUsageError
	}
	c.apply(profile, setFlags(f))

	if c.year <= 0 {
		fmt.Fprintf(os.Stderr, "Error: invalid year %d\n", c.year)
		return subcommands.ExitUsageError
	}
	if c.rates == "" || c.schwab == "" {
		fmt.Fprintln(os.Stderr, "Error: -rates and -schwab are required")
		return subcommands.ExitUsageError
	}
	policy, err := rsutax.ParseTaxPolicy(c.policy)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error parsing policy: %v\n", err)
		return subcommands.ExitUsageError
	}

	txs, summary, err := c.compute(policy)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	if summary.Warning != nil {
		log.Printf("warning: %v", summary.Warning)
	}

	report := renderer.Report(c.year, txs, summary)
	instructions := renderer.Instructions(c.year, summary)
	if c.outDir != "" {
		if err := writeOutputs(c.outDir, txs, summary, report, instructions); err != nil {
			fmt.Fprintf(os.Stderr, "Error saving results: %v\n", err)
			return subcommands.ExitFailure
		}
		log.Printf("Results saved in %s", c.outDir)
	}
	printMarkdown(report + "\n" + instructions)
	return subcommands.ExitSuccess
}

// compute runs the whole pipeline on the command inputs.
func (c *computeCmd) compute(policy rsutax.TaxPolicy) ([]rsutax.ProcessedTransaction, rsutax.TaxSummary, error) {
	rates, err := bdf.Load(c.rates)
	if err != nil {
		return nil, rsutax.TaxSummary{}, err
	}

	f, err := os.Open(c.schwab)
	if err != nil {
		return nil, rsutax.TaxSummary{}, err
	}
	defer f.Close()
	lots, err := schwab.Decode(f, c.year)
	if err != nil {
		return nil, rsutax.TaxSummary{}, fmt.Errorf("invalid schwab export %q: %w", c.schwab, err)
	}

	txs, err := rsutax.Normalize(lots)
	if err != nil {
		return nil, rsutax.TaxSummary{}, err
	}
	processed, err := rsutax.ProcessAll(txs, rates)
	if err != nil {
		return nil, rsutax.TaxSummary{}, err
	}
	summary, err := rsutax.Aggregate(processed, decimal.NewFromFloat(c.mtr), policy)
	if err != nil {
		return nil, rsutax.TaxSummary{}, err
	}
	return processed, summary, nil
}

// writeOutputs saves the results of a computation in dir.
func writeOutputs(dir string, txs []rsutax.ProcessedTransaction, summary rsutax.TaxSummary, report, instructions string) error {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}

	csvFile, err := os.Create(filepath.Join(dir, "transactions.csv"))
	if err != nil {
		return err
	}
	defer csvFile.Close()
	if err := rsutax.EncodeCSV(csvFile, txs); err != nil {
		return err
	}

	data, err := json.MarshalIndent(summary, "", "  ")
	if err != nil {
		return err
	}
	if err := os.WriteFile(filepath.Join(dir, "summary.json"), append(data, '\n'), 0644); err != nil {
		return err
	}
	if err := os.WriteFile(filepath.Join(dir, "report.md"), []byte(report), 0644); err != nil {
		return err
	}
	return os.WriteFile(filepath.Join(dir, "instructions.md"), []byte(instructions), 0644)
}
