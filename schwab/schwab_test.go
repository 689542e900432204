package schwab

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/etnz/rsutax"
	"github.com/etnz/rsutax/date"
	"github.com/google/go-cmp/cmp"
	"github.com/shopspring/decimal"
)

const export = `{
  "FromDate": "01/01/2023",
  "ToDate": "12/31/2024",
  "Transactions": [
    {
      "Date": "03/15/2024",
      "Action": "Sale",
      "Symbol": "GOOG",
      "Quantity": "8",
      "Description": "Share Sale",
      "FeesAndCommissions": "$0.10",
      "Amount": "$1,199.90",
      "TransactionDetails": [
        {"Details": {"Type": "RS", "Shares": "3", "SalePrice": "$150.00", "VestDate": "02/25/2021", "VestFairMarketValue": "$100.00"}},
        {"Details": {"Type": "RS", "Shares": "5", "SalePrice": "$150.00", "VestDate": "02/25/2021", "VestFairMarketValue": "$100.00"}}
      ]
    },
    {
      "Date": "02/25/2024",
      "Action": "Deposit",
      "Symbol": "GOOG",
      "Quantity": "10",
      "TransactionDetails": [
        {"Details": {"AwardDate": "01/01/2022", "VestDate": "02/25/2024", "VestFairMarketValue": "$140.00"}}
      ]
    },
    {
      "Date": "11/02/2023",
      "Action": "Sale",
      "Symbol": "GOOG",
      "Quantity": 2,
      "FeesAndCommissions": null,
      "Amount": "$250.00",
      "TransactionDetails": [
        {"Details": {"Type": "RS", "Shares": "2", "SalePrice": "$125.00", "VestDate": "08/25/2023", "VestFairMarketValue": "$130.00"}}
      ]
    }
  ]
}`

func TestDecode(t *testing.T) {
	lots, err := Decode(strings.NewReader(export), 2024)
	if err != nil {
		t.Fatalf("Decode() failed: %v", err)
	}
	lot := func(shares int) rsutax.RawLot {
		return rsutax.RawLot{
			Shares:    rsutax.Q(shares),
			VestDate:  date.New(2021, time.February, 25),
			VestPrice: rsutax.USD(100),
			SaleDate:  date.New(2024, time.March, 15),
			SalePrice: rsutax.USD(150),
		}
	}
	want := []rsutax.RawLot{lot(3), lot(5)}
	if diff := cmp.Diff(want, lots); diff != "" {
		t.Errorf("Decode() mismatch (-want +got):\n%s", diff)
	}

	lots, err = Decode(strings.NewReader(export), 2023)
	if err != nil {
		t.Fatalf("Decode(2023) failed: %v", err)
	}
	if len(lots) != 1 || !lots[0].SalePrice.Equal(rsutax.USD(125)) {
		t.Errorf("Decode(2023) = %v, want one lot sold at $125", lots)
	}

	lots, err = Decode(strings.NewReader(export), 2022)
	if err != nil || len(lots) != 0 {
		t.Errorf("Decode(2022) = %v, %v, want no lot", lots, err)
	}

	lots, err = Decode(strings.NewReader(`{"Transactions": []}`), 2024)
	if err != nil || len(lots) != 0 {
		t.Errorf("Decode(no sales) = %v, %v, want no lot", lots, err)
	}
}

func TestDecode_Reconciliation(t *testing.T) {
	testCases := []struct {
		name     string
		quantity string
		amount   string
		wantErr  string
	}{
		{"shares mismatch", "9", "$1,199.90", "lots sum to 8 shares"},
		{"amount mismatch", "8", "$1,190.00", "lots sum to $1199.90 net of fees"},
		{"within tolerance", "8", "$1,199.91", ""},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			data := strings.Replace(export, `"Quantity": "8"`, `"Quantity": "`+tc.quantity+`"`, 1)
			data = strings.Replace(data, `"$1,199.90"`, `"`+tc.amount+`"`, 1)
			_, err := Decode(strings.NewReader(data), 2024)
			if tc.wantErr == "" {
				if err != nil {
					t.Fatalf("Decode() failed: %v", err)
				}
				return
			}
			var rerr *rsutax.ReconciliationError
			if !errors.As(err, &rerr) {
				t.Fatalf("got error %v, want a ReconciliationError", err)
			}
			if !rerr.SaleDate.Equal(date.New(2024, time.March, 15)) {
				t.Errorf("got sale date %v, want 2024-03-15", rerr.SaleDate)
			}
			if !strings.Contains(err.Error(), tc.wantErr) {
				t.Errorf("got error %q, want error containing %q", err.Error(), tc.wantErr)
			}
		})
	}
}

func TestDecode_Errors(t *testing.T) {
	testCases := []struct {
		name    string
		data    string
		wantErr string
	}{
		{"not json", `{`, "invalid schwab export"},
		{"no transactions", `{"FromDate": "01/01/2024"}`, "no transactions list"},
		{"transactions not a list", `{"Transactions": {"Date": "03/15/2024"}}`, "no transactions list"},
		{"not an object", `[]`, "no transactions list"},
		{"bad sale date", `{"Transactions": [{"Date": "2024-03-15", "Action": "Sale"}]}`, "invalid date"},
		{"bad vest price", `{"Transactions": [{"Date": "03/15/2024", "Action": "Sale", "Quantity": "1", "Amount": "$1",
			"TransactionDetails": [{"Details": {"Shares": "1", "SalePrice": "$1", "VestDate": "01/02/2023", "VestFairMarketValue": ""}}]}]}`,
			"invalid vest fair market value"},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Decode(strings.NewReader(tc.data), 2024)
			if err == nil {
				t.Fatal("expected an error, but got nil")
			}
			if !strings.Contains(err.Error(), tc.wantErr) {
				t.Errorf("got error %q, want error containing %q", err.Error(), tc.wantErr)
			}
		})
	}
}

func TestParseUSD(t *testing.T) {
	testCases := []struct {
		in      string
		want    string
		wantErr bool
	}{
		{"$1,234.5678", "1234.5678", false},
		{"$0.10", "0.1", false},
		{" 12 ", "12", false},
		{"-$12.00", "-12", false},
		{"", "", true},
		{"$", "", true},
		{"USD 12", "", true},
	}
	for _, tc := range testCases {
		t.Run(tc.in, func(t *testing.T) {
			got, err := ParseUSD(tc.in)
			if tc.wantErr {
				if err == nil {
					t.Errorf("ParseUSD(%q) = %v, want an error", tc.in, got)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseUSD(%q) failed: %v", tc.in, err)
			}
			if !got.Equal(decimal.RequireFromString(tc.want)) {
				t.Errorf("ParseUSD(%q) = %v, want %s", tc.in, got, tc.want)
			}
		})
	}
}
