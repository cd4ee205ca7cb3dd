// Package validation checks request fields against explicit per-endpoint
// schemas and reports every failure as a field -> messages map, so a client
// sees the complete error set in one response.
package validation

import (
	"context"
	"mime/multipart"
	"strconv"
	"strings"
)

// Input is a parsed request body: scalar values from JSON or form fields,
// plus uploaded file headers from multipart requests.
type Input struct {
	values map[string]any
	files  map[string]*multipart.FileHeader
}

func NewInput(values map[string]any) *Input {
	if values == nil {
		values = map[string]any{}
	}
	return &Input{values: values, files: map[string]*multipart.FileHeader{}}
}

func (in *Input) SetFile(field string, fh *multipart.FileHeader) {
	in.files[field] = fh
}

// Has reports whether the field was supplied with a non-nil value or file.
func (in *Input) Has(field string) bool {
	if _, ok := in.files[field]; ok {
		return true
	}
	v, ok := in.values[field]
	return ok && v != nil
}

func (in *Input) Raw(field string) (any, bool) {
	v, ok := in.values[field]
	return v, ok
}

func (in *Input) File(field string) (*multipart.FileHeader, bool) {
	fh, ok := in.files[field]
	return fh, ok
}

// String returns the field as a string, converting numbers and booleans the
// way form encodings deliver them. Missing fields yield "".
func (in *Input) String(field string) string {
	v, ok := in.values[field]
	if !ok || v == nil {
		return ""
	}
	s, _ := stringValue(v)
	return s
}

// Float returns the field as a number, accepting JSON numbers and numeric
// form strings.
func (in *Input) Float(field string) float64 {
	v, ok := in.values[field]
	if !ok {
		return 0
	}
	f, _ := floatValue(v)
	return f
}

// Int returns the field as an integer, accepting JSON numbers with no
// fractional part and numeric form strings.
func (in *Input) Int(field string) int {
	v, ok := in.values[field]
	if !ok {
		return 0
	}
	n, _ := intValue(v)
	return n
}

// Bool returns the field as a boolean, accepting JSON booleans and the
// usual form-encoded spellings.
func (in *Input) Bool(field string) bool {
	v, ok := in.values[field]
	if !ok {
		return false
	}
	b, _ := boolValue(v)
	return b
}

// Schema maps each field to its ordered rule list.
type Schema map[string][]Rule

// Rule checks one field of an input. It returns a human-readable message
// when the rule fails, or "" when it passes. A non-nil error signals an
// infrastructure fault (for example a store lookup failing), not a
// validation failure.
type Rule interface {
	Check(ctx context.Context, field string, in *Input) (string, error)
}

// Errors maps each offending field to its failure messages.
type Errors map[string][]string

// Validate runs every field's rules in order and collects all failures;
// fields are never short-circuited against each other. Absent fields only
// fail Required — remaining rules apply when the field is present.
func Validate(ctx context.Context, in *Input, schema Schema) (Errors, error) {
	errs := Errors{}

	for field, rules := range schema {
		present := in.Has(field)
		for _, rule := range rules {
			if !present && rule != Required {
				continue
			}
			msg, err := rule.Check(ctx, field, in)
			if err != nil {
				return nil, err
			}
			if msg != "" {
				errs[field] = append(errs[field], msg)
			}
		}
	}

	if len(errs) == 0 {
		return nil, nil
	}
	return errs, nil
}

func stringValue(v any) (string, bool) {
	switch t := v.(type) {
	case string:
		return t, true
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64), true
	case int:
		return strconv.Itoa(t), true
	case bool:
		return strconv.FormatBool(t), true
	}
	return "", false
}

func floatValue(v any) (float64, bool) {
	switch t := v.(type) {
	case float64:
		return t, true
	case int:
		return float64(t), true
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(t), 64)
		return f, err == nil
	}
	return 0, false
}

func intValue(v any) (int, bool) {
	switch t := v.(type) {
	case int:
		return t, true
	case float64:
		if t != float64(int64(t)) {
			return 0, false
		}
		return int(t), true
	case string:
		n, err := strconv.Atoi(strings.TrimSpace(t))
		return n, err == nil
	}
	return 0, false
}

func boolValue(v any) (bool, bool) {
	switch t := v.(type) {
	case bool:
		return t, true
	case string:
		switch strings.ToLower(t) {
		case "1", "true", "on", "yes":
			return true, true
		case "0", "false", "off", "no":
			return false, true
		}
	case float64:
		if t == 1 {
			return true, true
		}
		if t == 0 {
			return false, true
		}
	}
	return false, false
}
