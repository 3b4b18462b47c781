package calculator

import "StockPulse/internal/model"

// Trend labels, oldest horizon first.
const (
	LabelAvg200  = "200-Day Avg"
	LabelAvg50   = "50-Day Avg"
	LabelCurrent = "Current"
)

// BuildTrend assembles the three-point series long-term average, short-term
// average, latest price. The order is fixed and does not depend on the values:
// a current price below both averages is a valid downtrend.
func BuildTrend(snap *model.StockSnapshot) []model.TrendPoint {
	return []model.TrendPoint{
		{Label: LabelAvg200, Value: snap.Avg200},
		{Label: LabelAvg50, Value: snap.Avg50},
		{Label: LabelCurrent, Value: snap.LTP},
	}
}
