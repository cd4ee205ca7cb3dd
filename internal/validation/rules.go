package validation

import (
	"context"
	"fmt"
	"path/filepath"
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"
)

var (
	// Required fails when the field was not supplied or is an empty string.
	Required Rule = requiredRule{}
	// String fails unless the value is a plain string.
	String Rule = stringRule{}
	// Numeric fails unless the value is a number or a numeric string.
	Numeric Rule = numericRule{}
	// Integer fails unless the value is a whole number.
	Integer Rule = integerRule{}
	// Boolean fails unless the value is a boolean or a recognised spelling.
	Boolean Rule = booleanRule{}
	// Email fails unless the value is structurally an email address.
	Email Rule = emailRule{}
	// Confirmed fails unless the sibling "<field>_confirmation" matches.
	Confirmed Rule = confirmedRule{}
	// Accepted fails unless the value is truthy (terms checkboxes).
	Accepted Rule = acceptedRule{}
	// Image fails unless the field carries an uploaded image file.
	Image Rule = imageRule{}
	// Password fails unless the value contains a lowercase letter, an
	// uppercase letter, a digit and a symbol.
	Password Rule = passwordRule{}
)

var emailPattern = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)

type requiredRule struct{}

func (requiredRule) Check(_ context.Context, field string, in *Input) (string, error) {
	if _, ok := in.File(field); ok {
		return "", nil
	}
	if v, ok := in.Raw(field); ok && v != nil {
		if s, isStr := v.(string); !isStr || strings.TrimSpace(s) != "" {
			return "", nil
		}
	}
	return fmt.Sprintf("the %s field is required", field), nil
}

type stringRule struct{}

func (stringRule) Check(_ context.Context, field string, in *Input) (string, error) {
	v, _ := in.Raw(field)
	if _, ok := v.(string); !ok {
		return fmt.Sprintf("the %s field must be a string", field), nil
	}
	return "", nil
}

type numericRule struct{}

func (numericRule) Check(_ context.Context, field string, in *Input) (string, error) {
	v, _ := in.Raw(field)
	if _, ok := floatValue(v); !ok {
		return fmt.Sprintf("the %s field must be a number", field), nil
	}
	return "", nil
}

type integerRule struct{}

func (integerRule) Check(_ context.Context, field string, in *Input) (string, error) {
	v, _ := in.Raw(field)
	if _, ok := intValue(v); !ok {
		return fmt.Sprintf("the %s field must be an integer", field), nil
	}
	return "", nil
}

type booleanRule struct{}

func (booleanRule) Check(_ context.Context, field string, in *Input) (string, error) {
	v, _ := in.Raw(field)
	if _, ok := boolValue(v); !ok {
		return fmt.Sprintf("the %s field must be true or false", field), nil
	}
	return "", nil
}

type emailRule struct{}

func (emailRule) Check(_ context.Context, field string, in *Input) (string, error) {
	if !emailPattern.MatchString(in.String(field)) {
		return fmt.Sprintf("the %s field must be a valid email address", field), nil
	}
	return "", nil
}

type confirmedRule struct{}

func (confirmedRule) Check(_ context.Context, field string, in *Input) (string, error) {
	if in.String(field) != in.String(field+"_confirmation") {
		return fmt.Sprintf("the %s field confirmation does not match", field), nil
	}
	return "", nil
}

type acceptedRule struct{}

func (acceptedRule) Check(_ context.Context, field string, in *Input) (string, error) {
	v, _ := in.Raw(field)
	if b, ok := boolValue(v); !ok || !b {
		return fmt.Sprintf("the %s field must be accepted", field), nil
	}
	return "", nil
}

type passwordRule struct{}

func (passwordRule) Check(_ context.Context, field string, in *Input) (string, error) {
	var lower, upper, digit, symbol bool
	for _, r := range in.String(field) {
		switch {
		case unicode.IsLower(r):
			lower = true
		case unicode.IsUpper(r):
			upper = true
		case unicode.IsDigit(r):
			digit = true
		default:
			symbol = true
		}
	}
	if lower && upper && digit && symbol {
		return "", nil
	}
	return fmt.Sprintf("the %s field must contain at least one lowercase letter, one uppercase letter, one digit and one symbol", field), nil
}

// Max bounds string fields by rune length and numeric fields by value.
func Max(n int) Rule { return maxRule{n} }

type maxRule struct{ n int }

func (r maxRule) Check(_ context.Context, field string, in *Input) (string, error) {
	v, _ := in.Raw(field)
	if s, ok := v.(string); ok {
		if utf8.RuneCountInString(s) > r.n {
			return fmt.Sprintf("the %s field must not be longer than %d characters", field, r.n), nil
		}
		return "", nil
	}
	if f, ok := floatValue(v); ok && f > float64(r.n) {
		return fmt.Sprintf("the %s field must not be greater than %d", field, r.n), nil
	}
	return "", nil
}

// Min bounds string fields by rune length and numeric fields by value.
func Min(n int) Rule { return minRule{n} }

type minRule struct{ n int }

func (r minRule) Check(_ context.Context, field string, in *Input) (string, error) {
	v, _ := in.Raw(field)
	if s, ok := v.(string); ok {
		if utf8.RuneCountInString(s) < r.n {
			return fmt.Sprintf("the %s field must be at least %d characters", field, r.n), nil
		}
		return "", nil
	}
	if f, ok := floatValue(v); ok && f < float64(r.n) {
		return fmt.Sprintf("the %s field must be at least %d", field, r.n), nil
	}
	return "", nil
}

// Regex matches the whole value against the pattern.
func Regex(pattern string) Rule {
	return regexRule{re: regexp.MustCompile(`^(?:` + pattern + `)$`)}
}

type regexRule struct{ re *regexp.Regexp }

func (r regexRule) Check(_ context.Context, field string, in *Input) (string, error) {
	if !r.re.MatchString(in.String(field)) {
		return fmt.Sprintf("the %s field format is invalid", field), nil
	}
	return "", nil
}

// ExistsFunc reports whether a value is already taken in the store.
type ExistsFunc func(ctx context.Context, value string) (bool, error)

// Unique fails when the store already holds the value. The check is
// read-only; the store's unique constraint remains the final arbiter
// against concurrent inserts.
func Unique(exists ExistsFunc) Rule { return uniqueRule{exists} }

type uniqueRule struct{ exists ExistsFunc }

func (r uniqueRule) Check(ctx context.Context, field string, in *Input) (string, error) {
	taken, err := r.exists(ctx, in.String(field))
	if err != nil {
		return "", err
	}
	if taken {
		return fmt.Sprintf("the %s has already been taken", field), nil
	}
	return "", nil
}

type imageRule struct{}

func (imageRule) Check(_ context.Context, field string, in *Input) (string, error) {
	fh, ok := in.File(field)
	if !ok || !strings.HasPrefix(fh.Header.Get("Content-Type"), "image/") {
		return fmt.Sprintf("the %s field must be an image", field), nil
	}
	return "", nil
}

// Mimes restricts an uploaded file to the given extensions.
func Mimes(exts ...string) Rule { return mimesRule{exts} }

type mimesRule struct{ exts []string }

func (r mimesRule) Check(_ context.Context, field string, in *Input) (string, error) {
	fh, ok := in.File(field)
	if ok {
		ext := strings.TrimPrefix(strings.ToLower(filepath.Ext(fh.Filename)), ".")
		for _, allowed := range r.exts {
			if ext == allowed {
				return "", nil
			}
		}
	}
	return fmt.Sprintf("the %s field must be a file of type: %s", field, strings.Join(r.exts, ", ")), nil
}

// MaxSize bounds an uploaded file's size in kilobytes.
func MaxSize(kb int64) Rule { return maxSizeRule{kb} }

type maxSizeRule struct{ kb int64 }

func (r maxSizeRule) Check(_ context.Context, field string, in *Input) (string, error) {
	fh, ok := in.File(field)
	if !ok || fh.Size > r.kb*1024 {
		return fmt.Sprintf("the %s field must not be larger than %d kilobytes", field, r.kb), nil
	}
	return "", nil
}
