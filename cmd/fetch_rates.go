package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"
	"path/filepath"

	"github.com/etnz/rsutax/bdf"
	"github.com/google/subcommands"
)

// fetchRatesCmd implements the "fetch-rates" command.
type fetchRatesCmd struct {
	url    string
	output string
}

func (*fetchRatesCmd) Name() string     { return "fetch-rates" }
func (*fetchRatesCmd) Synopsis() string { return "downloads the EUR/USD rates from the Banque de France" }
func (*fetchRatesCmd) Usage() string {
	return `rsutax fetch-rates [-url <url>] [-o <file>]

  Downloads the Webstat export of the EUR/USD rates and saves it.
  Requires the ` + EnvRatesURL + ` environment variable to be set or passed as a flag.
`
}

func (c *fetchRatesCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.url, "url", "", "Webstat export URL. This flag takes precedence over the "+EnvRatesURL+" environment variable.")
	f.StringVar(&c.output, "o", "rates.csv", "File to save the rates to.")
}

// ratesURL returns the download URL from the flag or the environment variable.
func (c *fetchRatesCmd) ratesURL() string {
	if c.url == "" {
		c.url = os.Getenv(EnvRatesURL)
	}
	return c.url
}

func (c *fetchRatesCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	url := c.ratesURL()
	if url == "" {
		fmt.Fprintf(os.Stderr, "Error: download URL is not set. Use -url flag or %s environment variable\n", EnvRatesURL)
		return subcommands.ExitUsageError
	}

	cache, err := os.UserCacheDir()
	if err != nil {
		cache = os.TempDir()
	}
	cache = filepath.Join(cache, "rsutax")
	if err := os.MkdirAll(cache, 0755); err != nil {
		fmt.Fprintf(os.Stderr, "Error creating cache directory: %v\n", err)
		return subcommands.ExitFailure
	}

	if err := bdf.Download(bdf.Daily(cache), url, c.output); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	fmt.Fprintf(os.Stderr, "✅ Successfully saved the exchange rates to %s.\n", c.output)
	return subcommands.ExitSuccess
}
