package collector

import (
	"errors"
	"reflect"
	"strings"

	"StockPulse/internal/model"

	"github.com/go-playground/validator/v10"
)

var validate = newValidator()

// newValidator reports fields by their JSON names.
func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// snapshotPayload is the wire shape of /api/stocks/{symbol}. Numeric fields
// are pointers so a missing field can be told apart from a zero.
type snapshotPayload struct {
	Symbol        string           `json:"symbol" validate:"required"`
	LTP           *float64         `json:"ltp" validate:"required"`
	Avg50         *float64         `json:"avg50" validate:"required"`
	Avg200        *float64         `json:"avg200" validate:"required"`
	PseudoRSI     *float64         `json:"pseudoRSI" validate:"required"`
	ChangePercent *float64         `json:"changePercent" validate:"required"`
	Volume        *float64         `json:"volume" validate:"required"`
	Entry         *float64         `json:"entry" validate:"required"`
	Target        *float64         `json:"target" validate:"required"`
	StopLoss      *float64         `json:"stopLoss" validate:"required"`
	Suggestion    string           `json:"suggestion"`
	Reason        string           `json:"reason"`
	News          []model.NewsItem `json:"news"`
}

// toModel rejects the payload as a whole if any required field is missing.
func (p *snapshotPayload) toModel() (*model.StockSnapshot, error) {
	if err := validate.Struct(p); err != nil {
		var verrs validator.ValidationErrors
		if !errors.As(err, &verrs) {
			return nil, err
		}
		ve := &model.ValidationError{Symbol: p.Symbol}
		for _, fe := range verrs {
			ve.Fields = append(ve.Fields, fe.Field())
		}
		return nil, ve
	}
	return &model.StockSnapshot{
		Symbol:        p.Symbol,
		LTP:           *p.LTP,
		Avg50:         *p.Avg50,
		Avg200:        *p.Avg200,
		PseudoRSI:     *p.PseudoRSI,
		ChangePercent: *p.ChangePercent,
		Volume:        *p.Volume,
		Entry:         *p.Entry,
		Target:        *p.Target,
		StopLoss:      *p.StopLoss,
		Suggestion:    p.Suggestion,
		Reason:        p.Reason,
		News:          p.News,
	}, nil
}
