package calculator

import "strconv"

// Regional magnitude tiers: crore (10^7), lakh (10^5), thousand.
const (
	Crore    = 10_000_000
	Lakh     = 100_000
	Thousand = 1_000
)

type magnitudeTier struct {
	threshold float64
	suffix    string
}

// Ordered from largest to smallest; first strict match wins.
var magnitudeTiers = []magnitudeTier{
	{Crore, "Cr"},
	{Lakh, "L"},
	{Thousand, "K"},
}

// FormatMagnitude abbreviates a quantity with the Cr/L/K suffix of the first
// tier it strictly exceeds, using two decimals. Values at or below one
// thousand, negatives included, are rendered raw.
func FormatMagnitude(value float64) string {
	for _, tier := range magnitudeTiers {
		if value > tier.threshold {
			return strconv.FormatFloat(value/tier.threshold, 'f', 2, 64) + tier.suffix
		}
	}
	return FormatRaw(value)
}

// FormatRaw renders a number with the fewest digits that represent it exactly,
// without forcing decimal places (1000 -> "1000", 12.5 -> "12.5").
func FormatRaw(value float64) string {
	return strconv.FormatFloat(value, 'f', -1, 64)
}
