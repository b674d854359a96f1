package usecase

import (
	"fmt"

	"github.com/shopspring/decimal"

	"MarketSnap/internal/catalog"
	"MarketSnap/internal/domain/models"
	domrepo "MarketSnap/internal/domain/repository"
)

const convertedPlaces = 4

// Converter adds USD prices to compliance records from fetched FX series.
// It never estimates: a missing pair is reported as missing.
type Converter struct {
	pairs   map[string]catalog.PairRef
	metrics domrepo.Metrics
}

func NewConverter(cat *catalog.Catalog, m domrepo.Metrics) *Converter {
	return &Converter{pairs: cat.Pairs, metrics: m}
}

// Convert returns copies of records with conversion fields set. The input is
// not modified.
func (c *Converter) Convert(records []models.ComplianceRecord, fx models.SeriesSet, toUSD bool) []models.ComplianceRecord {
	out := make([]models.ComplianceRecord, len(records))
	for i, rec := range records {
		out[i] = c.convertOne(rec, fx, toUSD)
		c.metrics.RecordConversion(string(out[i].Conversion))
	}
	return out
}

func (c *Converter) convertOne(rec models.ComplianceRecord, fx models.SeriesSet, toUSD bool) models.ComplianceRecord {
	rec.ConvertedPrice = nil
	rec.ConversionNote = ""

	switch {
	case !toUSD:
		rec.Conversion = models.ConversionNotRequested
		return rec
	case rec.Price == nil:
		rec.Conversion = models.ConversionNoPrice
		return rec
	case rec.Currency == catalog.BaseCurrency:
		rec.Conversion = models.ConversionIdentity
		rec.ConvertedPrice = models.Float(*rec.Price)
		rec.ConversionNote = "already USD"
		return rec
	}

	ref, ok := c.pairs[rec.Currency]
	if !ok {
		rec.Conversion = models.ConversionUnwired
		rec.ConversionNote = fmt.Sprintf("conversion not available - add USD/%s pair", rec.Currency)
		return rec
	}

	last, ok := fx.Series(ref.Pair).Last()
	if !ok || last.Close == 0 {
		rec.Conversion = models.ConversionMissingPair
		rec.ConversionNote = fmt.Sprintf("conversion not available - %s FX series missing", ref.Pair)
		return rec
	}

	price := decimal.NewFromFloat(*rec.Price)
	rate := decimal.NewFromFloat(last.Close)
	var usd decimal.Decimal
	if ref.Invert {
		usd = price.Div(rate)
	} else {
		usd = price.Mul(rate)
	}
	rec.ConvertedPrice = models.Float(usd.Round(convertedPlaces).InexactFloat64())
	rec.Conversion = models.ConversionConverted
	rec.ConversionNote = "converted using " + ref.Pair
	return rec
}
