package parse

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"
)

var null = []byte("null")

// Code is a venue status code that may arrive as a JSON string or number.
// Absent, null and empty codes decode to "".
type Code string

func (c *Code) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if bytes.Equal(b, null) {
		*c = ""
		return nil
	}
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*c = Code(strings.TrimSpace(s))
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return fmt.Errorf("status code must be a string or number, got %s", b)
	}
	*c = Code(n.String())
	return nil
}

// OK reports whether the code signals success.
func (c Code) OK() bool {
	return c == "" || c == "0"
}

// Millis resolves a millisecond epoch timestamp given as a JSON integer or
// integer string. An absent or null value falls back to now.
func Millis(raw json.RawMessage, now func() time.Time) (time.Time, error) {
	b := bytes.TrimSpace(raw)
	if len(b) == 0 || bytes.Equal(b, null) {
		return now().UTC(), nil
	}
	s := string(b)
	if b[0] == '"' {
		if err := json.Unmarshal(b, &s); err != nil {
			return time.Time{}, fmt.Errorf("invalid timestamp %s: %w", b, err)
		}
	}
	ms, err := strconv.ParseInt(strings.TrimSpace(s), 10, 64)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid timestamp %s: %w", b, err)
	}
	return time.UnixMilli(ms).UTC(), nil
}
