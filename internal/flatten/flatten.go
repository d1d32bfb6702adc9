// Package flatten converts nested JSON into ordered "dotted-path → scalar"
// pairs for linear display.
//
// encoding/json's map decoding would lose the document's key order, which
// carries display meaning here, so Flatten walks the raw bytes with a
// json.Decoder token stream instead.
package flatten

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/derickschaefer/franq/internal/model"
)

// Flatten converts one JSON document into its flat entries, depth-first,
// preserving the document's own field and element order:
//
//   - object: recurse into each value with the path extended by "." + key
//     (no leading separator at the root)
//   - array: recurse into each element with the path extended by "[i]"
//   - scalar: emit one (path, value) entry
//
// A bare scalar document yields a single entry with an empty path.
func Flatten(raw json.RawMessage) ([]model.FlatEntry, error) {
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	var entries []model.FlatEntry
	if err := walk(dec, "", &entries); err != nil {
		return nil, fmt.Errorf("flattening payload: %w", err)
	}
	return entries, nil
}

func walk(dec *json.Decoder, path string, out *[]model.FlatEntry) error {
	tok, err := dec.Token()
	if err != nil {
		return err
	}

	delim, ok := tok.(json.Delim)
	if !ok {
		// string, json.Number, bool, or nil
		*out = append(*out, model.FlatEntry{Path: path, Value: tok})
		return nil
	}

	switch delim {
	case '{':
		for dec.More() {
			keyTok, err := dec.Token()
			if err != nil {
				return err
			}
			key, ok := keyTok.(string)
			if !ok {
				return fmt.Errorf("object key is %T, not string", keyTok)
			}
			child := key
			if path != "" {
				child = path + "." + key
			}
			if err := walk(dec, child, out); err != nil {
				return err
			}
		}
		_, err = dec.Token() // consume '}'
		return err
	case '[':
		for i := 0; dec.More(); i++ {
			if err := walk(dec, fmt.Sprintf("%s[%d]", path, i), out); err != nil {
				return err
			}
		}
		_, err = dec.Token() // consume ']'
		return err
	default:
		return fmt.Errorf("unexpected delimiter %v", delim)
	}
}

// Records splits a top-level array into its elements so day-by-day and
// multi-record reports can be flattened per record and numbered for the
// operator. Any other document is returned as a single record.
func Records(raw json.RawMessage) []json.RawMessage {
	trimmed := bytes.TrimLeft(raw, " \t\r\n")
	if len(trimmed) == 0 || trimmed[0] != '[' {
		return []json.RawMessage{raw}
	}
	var elems []json.RawMessage
	if err := json.Unmarshal(raw, &elems); err != nil {
		return []json.RawMessage{raw}
	}
	return elems
}

// FormatValue renders a flattened scalar for text output. null renders as
// "null", everything else with its natural formatting.
func FormatValue(v any) string {
	switch t := v.(type) {
	case nil:
		return "null"
	case string:
		return t
	case json.Number:
		return t.String()
	default:
		return fmt.Sprint(t)
	}
}
