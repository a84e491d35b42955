package ingest

// Shape tags a raw endpoint response with a known layout.
type Shape string

const (
	ShapeTimeseries   Shape = "timeseries"
	ShapeIndicator    Shape = "indicator"
	ShapeExchangeRate Shape = "exchange_rate"
	ShapeSector       Shape = "sector"
	ShapeRaw          Shape = "raw"
)

const exchangeRateKey = "Realtime Currency Exchange Rate"

// Classify tags an arbitrary JSON object by its top-level keys. The
// heuristics are ordered and the first match wins; anything
// unrecognized falls through to ShapeRaw.
func Classify(obj Object) Shape {
	if _, ok := obj.KeyContaining("Time Series"); ok {
		return ShapeTimeseries
	}
	if _, ok := obj.KeyContaining("Technical Analysis"); ok {
		return ShapeIndicator
	}
	if _, ok := obj.Get(exchangeRateKey); ok {
		return ShapeExchangeRate
	}
	if obj.KeyWithPrefix("Rank") {
		return ShapeSector
	}
	return ShapeRaw
}

// ClassifyBytes classifies a raw response body. Non-object input is
// ShapeRaw.
func ClassifyBytes(b []byte) Shape {
	obj, ok := DecodeObject(b)
	if !ok {
		return ShapeRaw
	}
	return Classify(obj)
}
