package server

import (
	"bytes"
	"encoding/json"

	"github.com/drakos74/polyfit/internal/math"
	"github.com/drakos74/polyfit/internal/series"
)

const (
	Gauss = "gauss"
	QR    = "qr"
)

// FitRequest asks for a polynomial fit.
// Values are tagged with synthetic x coordinates and appended after the samples.
// Min and Max restrict the fit to samples whose y lies within them.
type FitRequest struct {
	Samples []math.Sample `json:"samples"`
	Values  []float64     `json:"values"`
	Degree  *Degree       `json:"degree"`
	Method  string        `json:"method"`
	Min     *float64      `json:"min"`
	Max     *float64      `json:"max"`
}

// Degree is the requested polynomial degree.
// A json string is treated as user input and goes through series.ParseDegree,
// so "2x" is 2 and text without digits falls back to the default degree.
type Degree int

func (d *Degree) UnmarshalJSON(b []byte) error {
	if bytes.HasPrefix(b, []byte(`"`)) {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*d = Degree(series.ParseDegree(s))
		return nil
	}
	var i int
	if err := json.Unmarshal(b, &i); err != nil {
		return err
	}
	*d = Degree(i)
	return nil
}

// FitResponse is the outcome of a fit.
type FitResponse struct {
	ID           string        `json:"id"`
	Method       string        `json:"method"`
	Degree       int           `json:"degree"`
	Samples      int           `json:"samples"`
	Coefficients []float64     `json:"coefficients"`
	Fitted       []float64     `json:"fitted"`
	RSquared     float64       `json:"r_squared"`
	Curve        []math.Sample `json:"curve,omitempty"`
	Cached       bool          `json:"cached"`
}

// PredictRequest asks for the evaluation of a polynomial.
type PredictRequest struct {
	Coefficients []float64 `json:"coefficients"`
	X            []float64 `json:"x"`
}

// PredictResponse holds one value per requested x.
type PredictResponse struct {
	Y []float64 `json:"y"`
}
