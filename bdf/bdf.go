// Package bdf reads the EUR exchange rates published by the Banque de France.
//
// The Webstat export is a ';' separated file: a header row naming the columns, five
// metadata rows (series code, unit, magnitude, method, source), then one row per
// day with a "dd/mm/yyyy" date and rates written with a decimal comma. Days without
// a published rate show "-".
package bdf

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/etnz/rsutax"
	"github.com/etnz/rsutax/date"
	"github.com/shopspring/decimal"
)

const (
	// DateColumn is the header of the date column.
	DateColumn = "Titre :"
	// USDColumn is the header of the EUR/USD column.
	USDColumn = "Dollar des Etats-Unis (USD)"

	metadataRows = 5
	dateLayout   = "02/01/2006"
	notPublished = "-"
)

// Parse reads the series of a column from a Webstat export.
func Parse(r io.Reader, column string) ([]rsutax.Observation, error) {
	reader := csv.NewReader(r)
	reader.Comma = ';'
	reader.FieldsPerRecord = -1 // Allow variable number of fields
	reader.LazyQuotes = true

	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to read csv: %w", err)
	}
	if len(records) <= metadataRows {
		return nil, fmt.Errorf("not enough records in csv to parse series")
	}

	header := records[0]
	dateIndex, valueIndex := -1, -1
	for i, name := range header {
		name = strings.TrimSpace(strings.TrimPrefix(name, "\ufeff"))
		switch name {
		case DateColumn:
			dateIndex = i
		case column:
			valueIndex = i
		}
	}
	if dateIndex < 0 {
		return nil, fmt.Errorf("date column %q not found in header", DateColumn)
	}
	if valueIndex < 0 {
		return nil, fmt.Errorf("column %q not found in header", column)
	}

	var series []rsutax.Observation
	var errs error
	for i := metadataRows + 1; i < len(records); i++ {
		row := records[i]
		if len(row) <= max(dateIndex, valueIndex) || strings.TrimSpace(row[dateIndex]) == "" {
			continue
		}
		obs, err := parseRow(row[dateIndex], row[valueIndex])
		if err != nil {
			errs = errors.Join(errs, fmt.Errorf("line %d: %w", i+1, err))
			continue
		}
		series = append(series, obs)
	}
	if errs != nil {
		return nil, errs
	}
	return series, nil
}

func parseRow(day, value string) (rsutax.Observation, error) {
	on, err := date.ParseLayout(dateLayout, strings.TrimSpace(day))
	if err != nil {
		return rsutax.Observation{}, err
	}
	value = strings.TrimSpace(value)
	if value == notPublished || value == "" {
		return rsutax.Closed(on), nil
	}
	rate, err := decimal.NewFromString(strings.ReplaceAll(value, ",", "."))
	if err != nil {
		return rsutax.Observation{}, fmt.Errorf("failed to parse value %q for date %q: %w", value, day, err)
	}
	return rsutax.Published(on, rate), nil
}

// Decode parses a Webstat export and builds the EUR/USD table.
func Decode(r io.Reader) (*rsutax.ExchangeRates, error) {
	series, err := Parse(r, USDColumn)
	if err != nil {
		return nil, err
	}
	return rsutax.NewExchangeRates(series)
}

// Load reads the EUR/USD table from a Webstat export file.
func Load(path string) (*rsutax.ExchangeRates, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	rates, err := Decode(f)
	if err != nil {
		return nil, fmt.Errorf("invalid exchange rate file %q: %w", path, err)
	}
	return rates, nil
}
