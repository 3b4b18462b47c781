package model

// TrendPoint is one labelled value of the price trend series.
type TrendPoint struct {
	Label string  `json:"label"`
	Value float64 `json:"value"`
}
