package pinning

import (
	"context"
	"encoding/json"
	"fmt"
	"reflect"
	"strconv"
	"strings"
	"testing"
	"unicode/utf16"

	"github.com/blocklords/soulbound/log"
	"github.com/gowebpki/jcs"
	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
)

// escape writes every character of the string as \uXXXX
func escape(s string) string {
	var b strings.Builder
	b.WriteByte('"')
	for _, r := range s {
		if r > 0xffff {
			r1, r2 := utf16.EncodeRune(r)
			fmt.Fprintf(&b, `\u%04x\u%04x`, r1, r2)
			continue
		}
		fmt.Fprintf(&b, `\u%04x`, r)
	}
	b.WriteByte('"')
	return b.String()
}

// padded number with the trailing zeros
func padded(f float64) string {
	s := strconv.FormatFloat(f, 'f', -1, 64)
	if !strings.Contains(s, ".") {
		s += ".0"
	}
	return s + "00"
}

// TestPinnedContent verifies that the submitted file is the stringified body.
// Property: Pin(Indent(B)) submits a compact json equal to B, and returns ipfs://<cid>/metadata.json
func TestPinnedContent(t *testing.T) {
	logger, err := log.New("property", false)
	if err != nil {
		t.Fatal(err)
	}

	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 100
	properties := gopter.NewProperties(parameters)

	properties.Property("submitted file is the stringified body", prop.ForAll(
		func(names []string, values []string, grade int) bool {
			body := map[string]interface{}{"grade": grade}
			for i := 0; i < len(names) && i < len(values); i++ {
				body[names[i]] = values[i]
			}
			indented, err := json.MarshalIndent(body, "", "  ")
			if err != nil {
				return false
			}

			storage := &fakeStorage{}
			gateway := New(Config{Token: "secret-token", FileName: "metadata.json"}, storage.factory, logger)
			result, err := gateway.Pin(context.Background(), indented)
			if err != nil || len(storage.files) != 1 {
				return false
			}
			content := storage.files[0][0].Content

			var pinned, expected interface{}
			if json.Unmarshal(content, &pinned) != nil || json.Unmarshal(indented, &expected) != nil {
				return false
			}
			again, err := Serialize(content)
			if err != nil {
				return false
			}

			return reflect.DeepEqual(expected, pinned) &&
				string(again) == string(content) &&
				uriPattern.MatchString(result.URI)
		},
		gen.SliceOf(gen.AlphaString()),
		gen.SliceOf(gen.AnyString()),
		gen.IntRange(-1000000000, 1000000000),
	))

	properties.Property("any form of the number is the shortest double", prop.ForAll(
		func(f float64) bool {
			expected, err := jcs.NumberToJSON(f)
			if err != nil {
				return false
			}
			forms := []string{
				strconv.FormatFloat(f, 'e', -1, 64),
				strconv.FormatFloat(f, 'E', 20, 64),
				strconv.FormatFloat(f, 'f', -1, 64),
				padded(f),
			}
			for _, form := range forms {
				content, err := Serialize([]byte("[" + form + "]"))
				if err != nil || string(content) != "["+expected+"]" {
					return false
				}
			}
			return true
		},
		gen.Float64Range(-1e30, 1e30),
	))

	properties.Property("escaped and raw strings are the same", prop.ForAll(
		func(value string) bool {
			raw, err := json.Marshal(value)
			if err != nil {
				return false
			}
			fromRaw, err := Serialize(raw)
			if err != nil {
				return false
			}
			fromEscaped, err := Serialize([]byte(escape(value)))
			if err != nil {
				return false
			}
			return string(fromRaw) == string(fromEscaped)
		},
		gen.AnyString(),
	))

	properties.Property("missing token always fails", prop.ForAll(
		func(value string) bool {
			body, err := json.Marshal(map[string]string{"name": value})
			if err != nil {
				return false
			}

			storage := &fakeStorage{}
			gateway := New(Config{FileName: "metadata.json"}, storage.factory, logger)
			_, err = gateway.Pin(context.Background(), body)
			return err != nil && len(storage.files) == 0
		},
		gen.AnyString(),
	))

	properties.TestingRun(t)
}
