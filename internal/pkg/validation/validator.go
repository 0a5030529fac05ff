package validation

import (
	"reflect"
	"sort"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/yigit/consultdesk/internal/pkg/helpers"
)

// FieldErrors maps a JSON field name to the first rule it violated
type FieldErrors map[string]string

// Error implements error interface
func (fe FieldErrors) Error() string {
	keys := make([]string, 0, len(fe))
	for k := range fe {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+": "+fe[k])
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// Messages maps "field.tag" to the user-facing message for that rule
type Messages map[string]string

// Schema is a payload that declares its rules in `validate` tags and its
// messages in a table.
type Schema interface {
	ValidationMessages() Messages
}

// Option configures a Validator
type Option func(*Validator)

// WithClock overrides the time source used by the futuredatetime rule
func WithClock(now func() time.Time) Option {
	return func(v *Validator) {
		v.now = now
	}
}

// WithLocation sets the zone in which datetimes without an offset are read
func WithLocation(loc *time.Location) Option {
	return func(v *Validator) {
		if loc != nil {
			v.loc = loc
		}
	}
}

// Validator checks payloads against their struct tags
type Validator struct {
	v   *validator.Validate
	now func() time.Time
	loc *time.Location
}

// New builds a Validator with the portal's custom rules registered
func New(opts ...Option) *Validator {
	val := &Validator{
		v:   validator.New(validator.WithRequiredStructEnabled()),
		now: time.Now,
		loc: time.UTC,
	}
	for _, opt := range opts {
		opt(val)
	}

	val.v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return fld.Name
		}
		return name
	})

	rules := map[string]validator.Func{
		"nodigits":  matcher(CompiledPatterns.NoDigits),
		"phone":     matcher(CompiledPatterns.Phone),
		"hasupper":  matcher(CompiledPatterns.Upper),
		"haslower":  matcher(CompiledPatterns.Lower),
		"hasdigit":  matcher(CompiledPatterns.Digit),
		"hassymbol": matcher(CompiledPatterns.Symbol),
		"futuredatetime": func(fl validator.FieldLevel) bool {
			t, err := helpers.ParseDatetimeIn(fl.Field().String(), val.loc)
			return err == nil && t.After(val.now())
		},
	}
	for tag, fn := range rules {
		// Registration only fails for empty tags or nil funcs
		_ = val.v.RegisterValidation(tag, fn)
	}

	return val
}

// Location is the zone used for datetimes without an offset
func (val *Validator) Location() *time.Location {
	return val.loc
}

func matcher(re interface{ MatchString(string) bool }) validator.Func {
	return func(fl validator.FieldLevel) bool {
		return re.MatchString(fl.Field().String())
	}
}

// Validate evaluates every field of s and returns nil when all rules pass
func (val *Validator) Validate(s Schema) FieldErrors {
	err := val.v.Struct(s)
	if err == nil {
		return nil
	}

	ves, ok := err.(validator.ValidationErrors)
	if !ok {
		return FieldErrors{"_": err.Error()}
	}

	messages := s.ValidationMessages()
	out := make(FieldErrors, len(ves))
	for _, fe := range ves {
		field := fe.Field()
		if _, seen := out[field]; seen {
			continue
		}
		if msg, ok := messages[field+"."+fe.Tag()]; ok {
			out[field] = msg
			continue
		}
		out[field] = field + " is invalid"
	}
	return out
}

// Now reports the validator's current time
func (val *Validator) Now() time.Time {
	return val.now()
}
