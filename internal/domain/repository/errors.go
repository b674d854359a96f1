package repository

import "errors"

// Errors a MarketSource wraps so callers can classify failures.
var (
	ErrNoData        = errors.New("no data")
	ErrUnknownSymbol = errors.New("unknown symbol")
)
