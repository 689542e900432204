package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/etnz/rsutax/bdf"
	"github.com/etnz/rsutax/date"
	"github.com/google/subcommands"
)

type rateCmd struct {
	rates string
	day   string
}

func (*rateCmd) Name() string     { return "rate" }
func (*rateCmd) Synopsis() string { return "show the EUR/USD rate used for a day" }
func (*rateCmd) Usage() string {
	return `rsutax rate -rates <csv> [-d <date>]

  Prints the EUR/USD rate applied to a day. Days without a published rate use
  the next published one.
`
}

func (c *rateCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.rates, "rates", "", "Banque de France exchange rates export (CSV).")
	f.StringVar(&c.day, "d", date.Today().String(), "Day of the rate (YYYY-MM-DD).")
}

func (c *rateCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if c.rates == "" {
		profile, err := LoadProfile("")
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error loading profile: %v\n", err)
			return subcommands.ExitUsageError
		}
		c.rates = profile.ExchangeRates
	}
	if c.rates == "" {
		fmt.Fprintln(os.Stderr, "Error: -rates is required")
		return subcommands.ExitUsageError
	}
	day, err := date.Parse(c.day)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error parsing date: %v\n", err)
		return subcommands.ExitUsageError
	}

	rates, err := bdf.Load(c.rates)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	rate, err := rates.RateFor(day)
	if err != nil {
		span := rates.Span()
		fmt.Fprintf(os.Stderr, "Error: %v, rates cover %s to %s\n", err, span.From, span.To)
		return subcommands.ExitFailure
	}
	fmt.Printf("1 EUR = %s USD on %s\n", rate, day)
	return subcommands.ExitSuccess
}
