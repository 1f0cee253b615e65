package pinning

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"sort"
	"strconv"

	"github.com/gowebpki/jcs"
)

// object keeps the keys in the order of their first appearance.
// The repeated key replaces the value but keeps its position.
type object struct {
	keys   []string
	values map[string]interface{}
}

func newObject() *object {
	return &object{values: make(map[string]interface{})}
}

func (o *object) set(key string, value interface{}) {
	if _, ok := o.values[key]; !ok {
		o.keys = append(o.keys, key)
	}
	o.values[key] = value
}

// isIndex returns true for the keys that are the canonical
// numbers from 0 to 2^32-2. Such keys are written first, in ascending order.
func isIndex(key string) bool {
	if key == "0" {
		return true
	}
	if len(key) == 0 || len(key) > 10 || key[0] == '0' {
		return false
	}
	for _, c := range key {
		if c < '0' || c > '9' {
			return false
		}
	}
	n, err := strconv.ParseUint(key, 10, 64)
	return err == nil && n < math.MaxUint32
}

// ordered keys: the indexes ascending, then the rest by the first appearance
func (o *object) ordered() []string {
	indexes := make([]string, 0, len(o.keys))
	names := make([]string, 0, len(o.keys))
	for _, key := range o.keys {
		if isIndex(key) {
			indexes = append(indexes, key)
		} else {
			names = append(names, key)
		}
	}
	// no leading zeros, so the shorter index is the smaller one
	sort.Slice(indexes, func(i, j int) bool {
		if len(indexes[i]) != len(indexes[j]) {
			return len(indexes[i]) < len(indexes[j])
		}
		return indexes[i] < indexes[j]
	})

	return append(indexes, names...)
}

func decodeValue(dec *json.Decoder) (interface{}, error) {
	token, err := dec.Token()
	if err != nil {
		return nil, err
	}

	delim, ok := token.(json.Delim)
	if !ok {
		// string, json.Number, bool or nil
		return token, nil
	}

	switch delim {
	case '{':
		obj := newObject()
		for dec.More() {
			keyToken, err := dec.Token()
			if err != nil {
				return nil, err
			}
			key, ok := keyToken.(string)
			if !ok {
				return nil, fmt.Errorf("object key %v is not a string", keyToken)
			}
			value, err := decodeValue(dec)
			if err != nil {
				return nil, err
			}
			obj.set(key, value)
		}
		if _, err := dec.Token(); err != nil {
			return nil, err
		}
		return obj, nil
	case '[':
		list := make([]interface{}, 0)
		for dec.More() {
			value, err := decodeValue(dec)
			if err != nil {
				return nil, err
			}
			list = append(list, value)
		}
		if _, err := dec.Token(); err != nil {
			return nil, err
		}
		return list, nil
	}

	return nil, fmt.Errorf("unexpected '%v'", delim)
}

// formatNumber writes the number the way javascript prints the double.
// The numbers out of the double range are null.
func formatNumber(n json.Number) (string, error) {
	f, err := strconv.ParseFloat(string(n), 64)
	if math.IsInf(f, 0) {
		return "null", nil
	}
	if err != nil {
		return "", fmt.Errorf("number %s: %w", n, err)
	}
	return jcs.NumberToJSON(f)
}

// quote escapes the quotes, backslashes and control characters only.
func quote(buf *bytes.Buffer, s string) {
	buf.WriteByte('"')
	for _, r := range s {
		switch r {
		case '"':
			buf.WriteString(`\"`)
		case '\\':
			buf.WriteString(`\\`)
		case '\b':
			buf.WriteString(`\b`)
		case '\f':
			buf.WriteString(`\f`)
		case '\n':
			buf.WriteString(`\n`)
		case '\r':
			buf.WriteString(`\r`)
		case '\t':
			buf.WriteString(`\t`)
		default:
			if r < 0x20 {
				fmt.Fprintf(buf, `\u%04x`, r)
			} else {
				buf.WriteRune(r)
			}
		}
	}
	buf.WriteByte('"')
}

func writeValue(buf *bytes.Buffer, value interface{}) error {
	switch v := value.(type) {
	case nil:
		buf.WriteString("null")
	case bool:
		buf.WriteString(strconv.FormatBool(v))
	case string:
		quote(buf, v)
	case json.Number:
		s, err := formatNumber(v)
		if err != nil {
			return err
		}
		buf.WriteString(s)
	case []interface{}:
		buf.WriteByte('[')
		for i, item := range v {
			if i > 0 {
				buf.WriteByte(',')
			}
			if err := writeValue(buf, item); err != nil {
				return err
			}
		}
		buf.WriteByte(']')
	case *object:
		buf.WriteByte('{')
		for i, key := range v.ordered() {
			if i > 0 {
				buf.WriteByte(',')
			}
			quote(buf, key)
			buf.WriteByte(':')
			if err := writeValue(buf, v.values[key]); err != nil {
				return err
			}
		}
		buf.WriteByte('}')
	default:
		return fmt.Errorf("unsupported %T", value)
	}
	return nil
}

// Serialize re-encodes the json body the same way as
// JSON.stringify(JSON.parse(body)) does:
//   - no spaces
//   - numbers in the shortest form of the double, 1.50 is 1.5 and 1e2 is 100
//   - escape sequences are decoded, except the quote, backslash and control characters
//   - the repeated key keeps the first position and the last value
func Serialize(body []byte) ([]byte, error) {
	dec := json.NewDecoder(bytes.NewReader(body))
	dec.UseNumber()

	value, err := decodeValue(dec)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidJSON, err)
	}
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("%w: data after the top-level value", ErrInvalidJSON)
	}

	var buf bytes.Buffer
	if err := writeValue(&buf, value); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidJSON, err)
	}
	return buf.Bytes(), nil
}
