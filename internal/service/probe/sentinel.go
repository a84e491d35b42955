package probe

import "encoding/json"

// Provider soft-error sentinels observed on otherwise-2xx responses.
var softErrorKeys = []string{"Error Message", "Note"}

// advisoryKey signals a rate-limit style advisory during polling; the
// body carries a human-readable message under it.
const advisoryKey = "Information"

// SoftErrorReason inspects a 2xx body for a provider soft-error
// sentinel or an empty object. ok is true when the body is unusable.
func SoftErrorReason(body []byte) (string, bool) {
	var top map[string]json.RawMessage
	if err := json.Unmarshal(body, &top); err != nil {
		return "response is not a JSON object", true
	}
	if len(top) == 0 {
		return "empty response object", true
	}
	for _, key := range softErrorKeys {
		if _, ok := top[key]; ok {
			return "provider returned " + key, true
		}
	}
	return "", false
}

// AdvisoryMessage extracts the provider advisory message, if present.
func AdvisoryMessage(body []byte) (string, bool) {
	var top map[string]json.RawMessage
	if err := json.Unmarshal(body, &top); err != nil {
		return "", false
	}
	raw, ok := top[advisoryKey]
	if !ok {
		return "", false
	}
	var msg string
	if err := json.Unmarshal(raw, &msg); err != nil {
		msg = string(raw)
	}
	return msg, true
}
