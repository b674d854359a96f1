package catalog

import "MarketSnap/internal/domain/models"

// Default returns the built-in registries used when the configuration does
// not declare its own.
func Default() *Catalog {
	c := &Catalog{
		Commodities: []models.Instrument{
			// Energy
			{Name: "Crude Oil (WTI)", FetchID: "CL=F", Unit: "US$/bbl"},
			{Name: "Brent Oil", FetchID: "BZ=F", Unit: "US$/bbl"},
			{Name: "Natural Gas (Henry Hub, US)", FetchID: "NG=F", Unit: "US$/MMBtu"},
			{Name: "EU Gas (TTF)", FetchID: "TTF=F", Unit: "€/MWh"},
			{Name: "LNG (JKM, Asia proxy)", FetchID: "JKM=F", Unit: "US$/MMBtu"},
			// Metals
			{Name: "Gold", FetchID: "GC=F", Unit: "US$/oz"},
			{Name: "Silver", FetchID: "SI=F", Unit: "US$/oz"},
			{Name: "Copper", FetchID: "HG=F", Unit: "US$/lb"},
			{Name: "Aluminum", FetchID: "ALI=F", Unit: "US$/t"},
			// Agriculture / softs
			{Name: "Corn", FetchID: "ZC=F", Unit: "USc/bu"},
			{Name: "Wheat", FetchID: "ZW=F", Unit: "USc/bu"},
			{Name: "Soybeans", FetchID: "ZS=F", Unit: "USc/bu"},
			{Name: "Coffee", FetchID: "KC=F", Unit: "USc/lb"},
			{Name: "Cocoa", FetchID: "CC=F", Unit: "US$/t"},
			{Name: "Live Cattle (Beef)", FetchID: "LE=F", Unit: "USc/lb"},
			// Plastics proxy
			{Name: "Ethylene (proxy)", FetchID: "ETHUSD=X", Unit: "US$"},
		},
		FX: []models.Instrument{
			{Name: "GBP/USD", FetchID: "GBPUSD=X", Unit: "USD per GBP"},
			{Name: "EUR/USD", FetchID: "EURUSD=X", Unit: "USD per EUR"},
			{Name: "USD/BRL", FetchID: "USDBRL=X", Unit: "BRL per USD"},
			{Name: "USD/CNY", FetchID: "USDCNY=X", Unit: "CNY per USD"},
			{Name: "USD/JPY", FetchID: "USDJPY=X", Unit: "JPY per USD"},
			{Name: "USD/NOK", FetchID: "USDNOK=X", Unit: "NOK per USD"},
			{Name: "USD/CAD", FetchID: "USDCAD=X", Unit: "CAD per USD"},
			{Name: "AUD/USD", FetchID: "AUDUSD=X", Unit: "USD per AUD"},
			{Name: "CHF/USD", FetchID: "CHFUSD=X", Unit: "USD per CHF"},
		},
		Compliance: []models.ComplianceInstrument{
			{Instrument: models.Instrument{Name: "EU ETS (EUA)", FetchID: "C02.F", Unit: "€/t"}, Currency: "EUR"},
			{Instrument: models.Instrument{Name: "UK ETS", Unit: "£/t"}, Currency: "GBP"},
			{Instrument: models.Instrument{Name: "California (CARB)", Unit: "US$/t"}, Currency: "USD"},
			{Instrument: models.Instrument{Name: "RGGI", Unit: "US$/t"}, Currency: "USD"},
			{Instrument: models.Instrument{Name: "New Zealand (NZ ETS)", Unit: "NZ$/t"}, Currency: "NZD"},
			{Instrument: models.Instrument{Name: "South Korea (K-ETS)", Unit: "KRW/t"}, Currency: "KRW"},
			{Instrument: models.Instrument{Name: "China National ETS", Unit: "RMB/t"}, Currency: "CNY"},
			{Instrument: models.Instrument{Name: "Core Carbon Principles (CCP)", Unit: "US$/t"}, Currency: "USD"},
			{Instrument: models.Instrument{Name: "CORSIA (Phase 1)", Unit: "US$/t"}, Currency: "USD"},
			{Instrument: models.Instrument{Name: "CBL Global (GEO)", FetchID: "GEO=F", Unit: "US$/t"}, Currency: "USD"},
			{Instrument: models.Instrument{Name: "CBL Nature-Based (NGO)", FetchID: "NGO=F", Unit: "US$/t"}, Currency: "USD"},
			{Instrument: models.Instrument{Name: "ICE Nature-Based", Unit: "US$/t"}, Currency: "USD"},
			{Instrument: models.Instrument{Name: "California Air Resources Board (ARB) - Allowance", Unit: "US$/t"}, Currency: "USD"},
			{Instrument: models.Instrument{Name: "Australia ACCU", Unit: "A$/t"}, Currency: "AUD"},
		},
		// NZD, AUD and KRW are left unwired on purpose.
		Pairs: map[string]PairRef{
			"GBP": {Pair: "GBP/USD"},
			"EUR": {Pair: "EUR/USD"},
			"CNY": {Pair: "USD/CNY", Invert: true},
		},
	}
	c.Normalize()
	return c
}
