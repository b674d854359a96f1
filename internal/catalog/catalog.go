// Package catalog holds the instrument registries for the three asset
// classes and the currency -> FX pair table used for USD conversion.
package catalog

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/Rhymond/go-money"

	"MarketSnap/internal/domain/models"
)

// BaseCurrency is the conversion target.
const BaseCurrency = money.USD

var ErrInvalidCatalog = errors.New("invalid catalog")

// PairRef names the FX series used to convert one currency into USD.
// Invert is set when the pair is quoted as local units per USD.
type PairRef struct {
	Pair   string `yaml:"pair" json:"pair"`
	Invert bool   `yaml:"invert" json:"invert"`
}

// Catalog is immutable once validated; it is loaded at startup and passed
// explicitly to the pipeline.
type Catalog struct {
	Commodities []models.Instrument           `yaml:"commodities" json:"commodities"`
	FX          []models.Instrument           `yaml:"fx" json:"fx"`
	Compliance  []models.ComplianceInstrument `yaml:"compliance" json:"compliance"`
	Pairs       map[string]PairRef            `yaml:"currency_pairs" json:"currency_pairs"`
}

// IsEmpty reports whether no instruments are configured at all.
func (c *Catalog) IsEmpty() bool {
	return c == nil || len(c.Commodities)+len(c.FX)+len(c.Compliance) == 0
}

// Normalize fills in derived fields: upper-case currency codes and the
// default feed kind for compliance markets.
func (c *Catalog) Normalize() {
	for i := range c.Compliance {
		ci := &c.Compliance[i]
		ci.Currency = strings.ToUpper(strings.TrimSpace(ci.Currency))
		if ci.Feed.Kind == "" {
			if ci.HasFetchID() {
				ci.Feed.Kind = models.FeedTicker
			} else {
				ci.Feed.Kind = models.FeedNone
			}
		}
	}
	if len(c.Pairs) > 0 {
		pairs := make(map[string]PairRef, len(c.Pairs))
		for code, ref := range c.Pairs {
			pairs[strings.ToUpper(strings.TrimSpace(code))] = ref
		}
		c.Pairs = pairs
	}
}

// Validate rejects misconfiguration. It is meant to be fatal at startup.
func (c *Catalog) Validate() error {
	if c.IsEmpty() {
		return fmt.Errorf("%w: no instruments configured", ErrInvalidCatalog)
	}
	if err := validateInstruments("commodities", c.Commodities); err != nil {
		return err
	}
	if err := validateInstruments("fx", c.FX); err != nil {
		return err
	}
	plain := make([]models.Instrument, len(c.Compliance))
	for i, ci := range c.Compliance {
		plain[i] = ci.Instrument
	}
	if err := validateInstruments("compliance", plain); err != nil {
		return err
	}

	for _, ci := range c.Compliance {
		if ci.Currency == "" {
			return fmt.Errorf("%w: compliance %q: currency is required", ErrInvalidCatalog, ci.Name)
		}
		if money.GetCurrency(ci.Currency) == nil {
			return fmt.Errorf("%w: compliance %q: unknown currency %q", ErrInvalidCatalog, ci.Name, ci.Currency)
		}
		switch ci.Feed.Kind {
		case models.FeedNone:
		case models.FeedTicker:
			if !ci.HasFetchID() {
				return fmt.Errorf("%w: compliance %q: ticker feed requires fetch_id", ErrInvalidCatalog, ci.Name)
			}
		case models.FeedScrape:
			if ci.Feed.URL == "" || ci.Feed.Selector == "" {
				return fmt.Errorf("%w: compliance %q: scrape feed requires url and selector", ErrInvalidCatalog, ci.Name)
			}
		default:
			return fmt.Errorf("%w: compliance %q: unknown feed kind %q", ErrInvalidCatalog, ci.Name, ci.Feed.Kind)
		}
	}

	for code, ref := range c.Pairs {
		if money.GetCurrency(code) == nil {
			return fmt.Errorf("%w: currency_pairs: unknown currency %q", ErrInvalidCatalog, code)
		}
		if _, ok := c.Lookup(models.ClassFX, ref.Pair); !ok {
			return fmt.Errorf("%w: currency_pairs.%s: fx pair %q is not in the fx catalog", ErrInvalidCatalog, code, ref.Pair)
		}
	}
	return nil
}

func validateInstruments(class string, insts []models.Instrument) error {
	names := make(map[string]struct{}, len(insts))
	ids := make(map[string]string, len(insts))
	for _, in := range insts {
		if strings.TrimSpace(in.Name) == "" {
			return fmt.Errorf("%w: %s: instrument name is required", ErrInvalidCatalog, class)
		}
		if _, dup := names[in.Name]; dup {
			return fmt.Errorf("%w: %s: duplicate name %q", ErrInvalidCatalog, class, in.Name)
		}
		names[in.Name] = struct{}{}
		if in.FetchID == "" {
			continue
		}
		if other, dup := ids[in.FetchID]; dup {
			return fmt.Errorf("%w: %s: fetch_id %q used by %q and %q", ErrInvalidCatalog, class, in.FetchID, other, in.Name)
		}
		ids[in.FetchID] = in.Name
	}
	return nil
}

// Instruments returns the plain instruments of a class, in declaration order.
func (c *Catalog) Instruments(class models.AssetClass) []models.Instrument {
	switch class {
	case models.ClassCommodities:
		return c.Commodities
	case models.ClassFX:
		return c.FX
	case models.ClassCompliance:
		out := make([]models.Instrument, len(c.Compliance))
		for i, ci := range c.Compliance {
			out[i] = ci.Instrument
		}
		return out
	default:
		return nil
	}
}

// Lookup finds an instrument by class and name.
func (c *Catalog) Lookup(class models.AssetClass, name string) (models.Instrument, bool) {
	for _, in := range c.Instruments(class) {
		if in.Name == name {
			return in, true
		}
	}
	return models.Instrument{}, false
}

// Unresolved lists non-USD compliance currencies with no FX pair wired,
// sorted and deduplicated.
func (c *Catalog) Unresolved() []string {
	seen := map[string]struct{}{}
	for _, ci := range c.Compliance {
		if ci.Currency == BaseCurrency {
			continue
		}
		if _, ok := c.Pairs[ci.Currency]; ok {
			continue
		}
		seen[ci.Currency] = struct{}{}
	}
	out := make([]string, 0, len(seen))
	for code := range seen {
		out = append(out, code)
	}
	sort.Strings(out)
	return out
}
