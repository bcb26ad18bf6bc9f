package region

import (
	"errors"
	"strings"
	"time"
	_ "time/tzdata"
)

type Region string

const (
	IN Region = "IN"
	US Region = "US"

	Default = IN
)

var ErrUnknownRegion = errors.New("unknown region")

// Settings is the read-only view of a region handed to prompt building and presentation.
type Settings struct {
	Region          Region `json:"region"`
	Currency        string `json:"currency"`
	CurrencySymbol  string `json:"currency_symbol"`
	Marketplace     string `json:"marketplace"`
	Country         string `json:"country"`
	MarketAdjective string `json:"market_adjective"`
	Locale          string `json:"locale"`
	TimeZone        string `json:"time_zone"`
}

var table = map[Region]Settings{
	IN: {
		Region:          IN,
		Currency:        "INR",
		CurrencySymbol:  "₹",
		Marketplace:     "amazon.in",
		Country:         "India",
		MarketAdjective: "Indian",
		Locale:          "en-IN",
		TimeZone:        "Asia/Kolkata",
	},
	US: {
		Region:          US,
		Currency:        "USD",
		CurrencySymbol:  "$",
		Marketplace:     "amazon.com",
		Country:         "United States",
		MarketAdjective: "US",
		Locale:          "en-US",
		TimeZone:        "America/New_York",
	},
}

func Parse(value string) (Region, error) {
	r := Region(strings.ToUpper(strings.TrimSpace(value)))
	if _, ok := table[r]; !ok {
		return "", ErrUnknownRegion
	}
	return r, nil
}

func (r Region) Valid() bool {
	_, ok := table[r]
	return ok
}

func (r Region) String() string { return string(r) }

// For returns the settings of r, falling back to Default for unknown values.
func For(r Region) Settings {
	if s, ok := table[r]; ok {
		return s
	}
	return table[Default]
}

func All() []Settings {
	return []Settings{table[IN], table[US]}
}

// FormatBudget prefixes the amount with the region's currency symbol: "50" -> "$50".
func (s Settings) FormatBudget(amount string) string {
	return s.CurrencySymbol + strings.TrimSpace(amount)
}

func (s Settings) Location() *time.Location {
	if loc, err := time.LoadLocation(s.TimeZone); err == nil {
		return loc
	}
	return time.UTC
}
