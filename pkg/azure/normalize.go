package azure

import (
	"encoding/json"
	"reflect"
	"strings"
)

// listEnvelope is the count/value wrapper every list endpoint returns.
type listEnvelope struct {
	Count int             `json:"count"`
	Value json.RawMessage `json:"value"`
}

// errorEnvelope is the error body shape. The message lives either at the top
// level or nested one deep under value.
type errorEnvelope struct {
	Message string `json:"message"`
	Value   *struct {
		Message string `json:"message"`
	} `json:"value,omitempty"`
}

// normalize maps a raw response to either a decoded payload or a classified
// error. The status mapping is total: every non-2xx code classifies to
// exactly one Kind. A 2xx body that does not decode into out is reported,
// never silently dropped.
func normalize(resp *RawResponse, out any) error {
	if resp.StatusCode >= 200 && resp.StatusCode <= 299 {
		if out == nil || len(resp.Body) == 0 {
			return nil
		}
		if err := json.Unmarshal(resp.Body, out); err != nil {
			return decodeError(err, "decoding %d response", resp.StatusCode)
		}
		return nil
	}

	return &Error{
		Kind:       classifyStatus(resp.StatusCode),
		StatusCode: resp.StatusCode,
		Message:    remoteMessage(resp.Body),
	}
}

// normalizeList unwraps the count/value envelope into out (a pointer to a
// slice) and checks the advertised count against the decoded length. A
// mismatch means the envelope and its payload disagree, which is a decode
// failure, not a truncated listing.
func normalizeList(resp *RawResponse, out any) (int, error) {
	var envelope listEnvelope
	if err := normalize(resp, &envelope); err != nil {
		return 0, err
	}

	decoded := 0
	if envelope.Value != nil {
		if err := json.Unmarshal(envelope.Value, out); err != nil {
			return 0, decodeError(err, "decoding list value")
		}
		v := reflect.ValueOf(out)
		if v.Kind() != reflect.Pointer || v.Elem().Kind() != reflect.Slice {
			return envelope.Count, nil
		}
		decoded = v.Elem().Len()
	}
	if decoded != envelope.Count {
		return 0, decodeError(nil, "list count mismatch: advertised %d, decoded %d", envelope.Count, decoded)
	}
	return envelope.Count, nil
}

func classifyStatus(status int) Kind {
	switch {
	case status == 401 || status == 403:
		return KindAuthorization
	case status == 404:
		return KindNotFound
	case status == 409:
		return KindConflict
	case status >= 500:
		return KindRemoteService
	default:
		// Remaining 4xx plus anything unexpected below 400, such as an
		// unconsumed redirect.
		return KindRequest
	}
}

// remoteMessage extracts the human-readable message from an error body,
// falling back to the raw text when the envelope does not parse.
func remoteMessage(body []byte) string {
	var envelope errorEnvelope
	if err := json.Unmarshal(body, &envelope); err == nil {
		if envelope.Message != "" {
			return envelope.Message
		}
		if envelope.Value != nil && envelope.Value.Message != "" {
			return envelope.Value.Message
		}
	}
	return strings.TrimSpace(string(body))
}
