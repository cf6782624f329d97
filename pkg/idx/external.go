package idx

import (
	"bytes"
	"encoding/json"
	"errors"
)

// ErrInvalidExternal reports a JSON value that cannot be used as an external id.
var ErrInvalidExternal = errors.New("idx: external id must be a JSON string or number")

// ExternalID is an identifier owned by another system. Directories hand out
// either numeric or string ids; the original JSON kind is kept so the value
// round-trips unchanged through tokens and responses.
type ExternalID struct {
	value   string
	numeric bool
}

// StringID wraps a string identifier.
func StringID(s string) ExternalID { return ExternalID{value: s} }

// NumericID wraps a numeric identifier given in its decimal JSON form.
func NumericID(n json.Number) ExternalID { return ExternalID{value: n.String(), numeric: true} }

func (e ExternalID) String() string { return e.value }

func (e ExternalID) IsZero() bool { return e.value == "" }

func (e ExternalID) Numeric() bool { return e.numeric }

func (e ExternalID) MarshalJSON() ([]byte, error) {
	switch {
	case e.IsZero():
		return []byte("null"), nil
	case e.numeric:
		return []byte(e.value), nil
	default:
		return json.Marshal(e.value)
	}
}

func (e *ExternalID) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*e = ExternalID{}
		return nil
	}

	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*e = StringID(s)
		return nil
	}

	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	var v any
	if err := dec.Decode(&v); err != nil {
		return err
	}
	n, ok := v.(json.Number)
	if !ok {
		return ErrInvalidExternal
	}
	*e = NumericID(n)
	return nil
}
