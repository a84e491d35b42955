package ingest

import (
	"encoding/json"
	"strconv"
	"strings"

	"github.com/Dheeraj-Sharma-gif/WeFn/internal/domain/models"
)

// Parse classifies and normalizes a raw response body in one step. It
// never fails: anything unusable comes back as an empty series, which
// callers treat as "no usable data".
func Parse(b []byte) (Shape, models.Series) {
	obj, ok := DecodeObject(b)
	if !ok {
		return ShapeRaw, nil
	}

	shape := Classify(obj)
	switch shape {
	case ShapeTimeseries:
		return shape, normalizeTimeseries(obj)
	case ShapeIndicator:
		return shape, normalizeIndicator(obj)
	case ShapeExchangeRate:
		return shape, normalizeExchangeRate(obj)
	case ShapeSector:
		return shape, normalizeSector(obj)
	default:
		return ShapeRaw, normalizeRaw(b)
	}
}

func normalizeTimeseries(obj Object) models.Series {
	key, ok := obj.KeyContaining("Time Series")
	if !ok {
		return nil
	}
	raw, _ := obj.Get(key)
	series, ok := DecodeObject(raw)
	if !ok {
		return nil
	}

	out := make(models.Series, 0, len(series))
	for _, entry := range series {
		vals, ok := DecodeObject(entry.Value)
		if !ok {
			continue
		}
		rec := models.Record{
			"timestamp": entry.Key,
			"open":      floatField(vals, "1. open"),
			"high":      floatField(vals, "2. high"),
			"low":       floatField(vals, "3. low"),
			"close":     floatField(vals, "4. close"),
			"volume":    nil,
		}
		if v, ok := vals.Get("5. volume"); ok {
			rec["volume"] = parseInt(v)
		}
		out = append(out, rec)
	}
	return out
}

func normalizeIndicator(obj Object) models.Series {
	key, ok := obj.KeyContaining("Technical Analysis")
	if !ok {
		return nil
	}
	raw, _ := obj.Get(key)
	series, ok := DecodeObject(raw)
	if !ok || len(series) == 0 {
		return nil
	}

	// The value sub-key varies per indicator; discover it from the
	// first entry.
	first, ok := DecodeObject(series[0].Value)
	if !ok || len(first) == 0 {
		return nil
	}
	valueKey := first[0].Key

	out := make(models.Series, 0, len(series))
	for _, entry := range series {
		vals, ok := DecodeObject(entry.Value)
		if !ok {
			continue
		}
		out = append(out, models.Record{
			"timestamp": entry.Key,
			"value":     floatField(vals, valueKey),
		})
	}
	return out
}

func normalizeExchangeRate(obj Object) models.Series {
	raw, ok := obj.Get(exchangeRateKey)
	if !ok {
		return nil
	}
	data, ok := DecodeObject(raw)
	if !ok {
		return nil
	}

	return models.Series{models.Record{
		"from":      stringField(data, "1. From_Currency Code"),
		"to":        stringField(data, "3. To_Currency Code"),
		"rate":      floatField(data, "5. Exchange Rate"),
		"bid":       floatField(data, "8. Bid Price"),
		"ask":       floatField(data, "9. Ask Price"),
		"refreshed": stringField(data, "6. Last Refreshed"),
	}}
}

func normalizeSector(obj Object) models.Series {
	var out models.Series
	for _, m := range obj {
		if !strings.HasPrefix(m.Key, "Rank") {
			continue
		}
		sectors, ok := DecodeObject(m.Value)
		if !ok {
			continue
		}
		period := strings.Replace(m.Key, "Rank ", "", 1)
		period = strings.Replace(period, " Performance", "", 1)
		for _, s := range sectors {
			var value any
			pct := strings.TrimSuffix(strings.TrimSpace(asString(s.Value)), "%")
			if f, err := strconv.ParseFloat(pct, 64); err == nil {
				value = f
			}
			out = append(out, models.Record{
				"sector": s.Key,
				"period": period,
				"value":  value,
			})
		}
	}
	return out
}

func normalizeRaw(b []byte) models.Series {
	var rec models.Record
	if err := json.Unmarshal(b, &rec); err != nil {
		return nil
	}
	return models.Series{rec}
}

// --- scalar parsing ---

// asString unwraps a JSON string value; non-strings come back as their
// raw text.
func asString(raw json.RawMessage) string {
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}
	return string(raw)
}

func stringField(obj Object, key string) any {
	raw, ok := obj.Get(key)
	if !ok {
		return nil
	}
	return asString(raw)
}

func floatField(obj Object, key string) any {
	raw, ok := obj.Get(key)
	if !ok {
		return nil
	}
	return parseFloat(raw)
}

// parseFloat parses a JSON string or number as float64; unparsable
// input becomes nil since JSON has no NaN.
func parseFloat(raw json.RawMessage) any {
	f, err := strconv.ParseFloat(strings.TrimSpace(asString(raw)), 64)
	if err != nil {
		return nil
	}
	return f
}

// parseInt parses a JSON string or number as int64, truncating
// fractional values.
func parseInt(raw json.RawMessage) any {
	s := strings.TrimSpace(asString(raw))
	if n, err := strconv.ParseInt(s, 10, 64); err == nil {
		return n
	}
	if f, err := strconv.ParseFloat(s, 64); err == nil {
		return int64(f)
	}
	return nil
}
