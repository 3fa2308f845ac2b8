package domain

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// Vars are host variables rendered as strings. Non-string values are kept
// in their text form.
type Vars map[string]string

// UnmarshalJSON decodes a JSON object of arbitrary values. Strings are kept
// as they are, null becomes "", numbers and booleans are printed and nested
// lists or objects are kept as compact JSON.
func (v *Vars) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	var raw map[string]any
	if err := dec.Decode(&raw); err != nil {
		return fmt.Errorf("decode variables: %w", err)
	}
	if raw == nil {
		*v = nil
		return nil
	}

	out := make(Vars, len(raw))
	for name, value := range raw {
		switch val := value.(type) {
		case string:
			out[name] = val
		case nil:
			out[name] = ""
		case json.Number, bool:
			out[name] = fmt.Sprint(val)
		default:
			text, err := json.Marshal(val)
			if err != nil {
				return fmt.Errorf("encode variable %s: %w", name, err)
			}
			out[name] = string(text)
		}
	}
	*v = out
	return nil
}
