package ingest

import (
	"bytes"
	"encoding/json"
	"strings"
)

// Member is one key/value pair of a JSON object.
type Member struct {
	Key   string
	Value json.RawMessage
}

// Object is a JSON object with its members in source order. Normalized
// series must preserve the provider's iteration order, which the
// standard map decoding would destroy.
type Object []Member

// DecodeObject decodes b into an Object. ok is false when b is not a
// JSON object (array, scalar, or malformed input).
func DecodeObject(b []byte) (Object, bool) {
	dec := json.NewDecoder(bytes.NewReader(b))
	dec.UseNumber()

	tok, err := dec.Token()
	if err != nil {
		return nil, false
	}
	delim, ok := tok.(json.Delim)
	if !ok || delim != '{' {
		return nil, false
	}

	var obj Object
	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return nil, false
		}
		key, ok := keyTok.(string)
		if !ok {
			return nil, false
		}

		var raw json.RawMessage
		if err := dec.Decode(&raw); err != nil {
			return nil, false
		}
		obj = append(obj, Member{Key: key, Value: raw})
	}

	return obj, true
}

// Get returns the value for an exact key.
func (o Object) Get(key string) (json.RawMessage, bool) {
	for _, m := range o {
		if m.Key == key {
			return m.Value, true
		}
	}
	return nil, false
}

// KeyContaining returns the first key containing substr.
func (o Object) KeyContaining(substr string) (string, bool) {
	for _, m := range o {
		if strings.Contains(m.Key, substr) {
			return m.Key, true
		}
	}
	return "", false
}

// KeyWithPrefix reports whether any key starts with prefix.
func (o Object) KeyWithPrefix(prefix string) bool {
	for _, m := range o {
		if strings.HasPrefix(m.Key, prefix) {
			return true
		}
	}
	return false
}
