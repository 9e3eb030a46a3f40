package clientdata

import "time"

// TTL constants for each cache table.
// These are added to time.Now() when storing to calculate expires_at.
const (
	TTLDividends    = 7 * 24 * time.Hour // Dividend history changes a few times a year
	TTLPriceHistory = 12 * time.Hour     // Daily closes settle once per session
	TTLExpirations  = 24 * time.Hour     // Listed expirations change rarely
	TTLCallChain    = 15 * time.Minute   // Quotes move during the session
)

// TTLFor returns the TTL of a cache table.
func TTLFor(table string) time.Duration {
	switch table {
	case TableDividendHistory:
		return TTLDividends
	case TablePriceHistory:
		return TTLPriceHistory
	case TableExpirations:
		return TTLExpirations
	default:
		return TTLCallChain
	}
}
