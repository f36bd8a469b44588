package catalog

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

// ErrUnknownCategory marks a category name with no node mapping.
var ErrUnknownCategory = errors.New("unknown category")

// Category is one entry of the static category table.
type Category struct {
	Name       string // canonical lower-case name used in config and logs
	NodeID     string // provider market-navigation node
	DefaultCap int    // per-run instrument cap, 0 means unlimited
}

// The provider node mapping lives here and nowhere else.
var categories = map[string]Category{
	"forex":            {Name: "forex", NodeID: "hierarchy_v1.currencies", DefaultCap: 20},
	"commodities":      {Name: "commodities", NodeID: "hierarchy_v1.commodities", DefaultCap: 0},
	"shares":           {Name: "shares", NodeID: "hierarchy_v1.shares", DefaultCap: 50},
	"indices":          {Name: "indices", NodeID: "hierarchy_v1.indices", DefaultCap: 20},
	"etf":              {Name: "etf", NodeID: "hierarchy_v1.etfs", DefaultCap: 20},
	"cryptocurrencies": {Name: "cryptocurrencies", NodeID: "hierarchy_v1.crypto_currencies", DefaultCap: 20},
}

// Lookup resolves a category name to its table entry. Names match
// case-insensitively and ignore surrounding whitespace.
func Lookup(name string) (Category, error) {
	c, ok := categories[strings.ToLower(strings.TrimSpace(name))]
	if !ok {
		return Category{}, fmt.Errorf("%w: %q", ErrUnknownCategory, name)
	}
	return c, nil
}

// Names returns every known category name in sorted order.
func Names() []string {
	names := make([]string, 0, len(categories))
	for name := range categories {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Title renders a category name for display: "forex" becomes "Forex".
func Title(name string) string {
	name = strings.ToLower(strings.TrimSpace(name))
	if name == "" {
		return name
	}
	return strings.ToUpper(name[:1]) + name[1:]
}
