package models

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"strconv"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/bsontype"
)

// WinnerCount is the number of winners in a prize tier.
//
// The collection stores it either as a plain integer or wrapped in an
// extended-JSON object such as {"$numberInt": "12"}, sometimes as a bare
// string. Both decoders normalize every form to a plain int.
type WinnerCount int

// wrapped integer keys used by extended JSON
var wrapperKeys = []string{"$numberInt", "$numberLong"}

// UnmarshalJSON accepts 12, "12", {"$numberInt":"12"} and {"$numberLong":"12"}.
func (w *WinnerCount) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*w = 0
		return nil
	}

	switch data[0] {
	case '{':
		var wrapped map[string]json.RawMessage
		if err := json.Unmarshal(data, &wrapped); err != nil {
			return fmt.Errorf("winner count: %w", err)
		}
		for _, key := range wrapperKeys {
			if raw, ok := wrapped[key]; ok {
				return w.UnmarshalJSON(raw)
			}
		}
		return fmt.Errorf("winner count: unsupported wrapper %s", data)
	case '"':
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return fmt.Errorf("winner count: %w", err)
		}
		return w.setString(s)
	default:
		var f float64
		if err := json.Unmarshal(data, &f); err != nil {
			return fmt.Errorf("winner count: %w", err)
		}
		return w.setFloat(f)
	}
}

// UnmarshalBSONValue accepts int32, int64, double, string and an embedded
// {"$numberInt": ...} document.
func (w *WinnerCount) UnmarshalBSONValue(t bsontype.Type, data []byte) error {
	rv := bson.RawValue{Type: t, Value: data}

	switch t {
	case bsontype.Null, bsontype.Undefined:
		*w = 0
		return nil
	case bsontype.Int32:
		*w = WinnerCount(rv.Int32())
		return nil
	case bsontype.Int64:
		*w = WinnerCount(rv.Int64())
		return nil
	case bsontype.Double:
		return w.setFloat(rv.Double())
	case bsontype.String:
		return w.setString(rv.StringValue())
	case bsontype.EmbeddedDocument:
		doc := rv.Document()
		for _, key := range wrapperKeys {
			inner, err := doc.LookupErr(key)
			if err != nil {
				continue
			}
			return w.UnmarshalBSONValue(inner.Type, inner.Value)
		}
		return fmt.Errorf("winner count: unsupported wrapper %s", doc.String())
	default:
		return fmt.Errorf("winner count: unsupported bson type %s", t)
	}
}

func (w *WinnerCount) setString(s string) error {
	if s == "" {
		*w = 0
		return nil
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return fmt.Errorf("winner count %q: %w", s, err)
	}
	*w = WinnerCount(n)
	return nil
}

func (w *WinnerCount) setFloat(f float64) error {
	if f != math.Trunc(f) {
		return fmt.Errorf("winner count %v is not an integer", f)
	}
	*w = WinnerCount(f)
	return nil
}
