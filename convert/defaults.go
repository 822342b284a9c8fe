package convert

import (
	"fmt"
	"math"
	"reflect"
	"strconv"
	"strings"
	"time"

	"github.com/roc-wong/auto-assembler/utils"
)

// Default returns a registry seeded with the built-in converters of the
// selected categories. CategoryDefault covers everything except silently
// lossy numeric pairs; CategoryAll adds those with runtime range checks.
func Default(allowed CategoryEnum) *Registry {
	r := NewRegistry()

	for category := CategoryEnum(1); category&CategoryAll > 0; category <<= 1 {
		if allowed&category == 0 {
			continue
		}

		if category == CategoryEnumString {
			r.AddRule(EnumStringRule)
			continue
		}

		for pair := range conversionPairs[category] {
			src, dst := pair.From.TypeOf(), pair.To.TypeOf()
			if src == dst {
				continue // identity pairs never reach the registry
			}

			if fn := seed(category, pair); fn != nil {
				r.Register(src, dst, fn)
			}
		}
	}

	return r
}

func seed(category CategoryEnum, pair ConversionPair) Func {
	switch category {
	default:
		return nil

	case CategorySafeNumber:
		return numberCast(pair.To)

	case CategoryUnsafeNumber:
		return numberChecked(pair.To)

	case CategoryTextNumber:
		if pair.To == KindString {
			return numberToString(pair.From)
		}
		return stringToNumber(pair.To)

	case CategoryNumericBool:
		if pair.To == KindBool {
			return intToBool
		}
		return boolToInt(pair.To)

	case CategoryTextualBool:
		if pair.To == KindBool {
			return stringToBool
		}
		return boolToString

	case CategoryDatetime:
		if pair.To == KindTime {
			return stringToTime
		}
		return timeToString

	case CategoryTimestamp:
		if pair.To == KindTime {
			return unixToTime
		}
		return timeToUnix(pair.To)

	case CategoryDuration:
		if pair.To == KindDuration {
			return stringToDuration
		}
		return durationToString

	case CategoryNanoseconds:
		if pair.To == KindDuration {
			return nanosToDuration
		}
		return durationToNanos(pair.To)

	case CategorySeconds:
		if pair.To == KindDuration {
			return secondsToDuration
		}
		return durationToSeconds(pair.To)
	}
}

func numberCast(to KindEnum) Func {
	dst := to.TypeOf()

	return func(v any) (any, error) {
		return reflect.ValueOf(v).Convert(dst).Interface(), nil
	}
}

func numberChecked(to KindEnum) Func {
	dst := to.TypeOf()

	return func(v any) (any, error) {
		out, err := checkedConvert(reflect.ValueOf(v), dst)
		if err != nil {
			return nil, err
		}

		return out.Interface(), nil
	}
}

// checkedConvert narrows a numeric value, failing instead of wrapping around
// or truncating out-of-range magnitudes. Fractional loss float->int is
// tolerated; range loss is not.
func checkedConvert(v reflect.Value, dst reflect.Type) (reflect.Value, error) {
	probe := reflect.New(dst).Elem()

	overflow := func() (reflect.Value, error) {
		return reflect.Value{}, fmt.Errorf("%v does not fit into %s", v.Interface(), dst)
	}

	switch {
	case probe.CanInt():
		var i int64

		switch {
		case v.CanInt():
			i = v.Int()
		case v.CanUint():
			u := v.Uint()
			if u > math.MaxInt64 {
				return overflow()
			}
			i = int64(u)
		default:
			f := v.Float()
			if math.IsNaN(f) || f < math.MinInt64 || f >= math.MaxInt64 {
				return overflow()
			}
			i = int64(f)
		}

		if probe.OverflowInt(i) {
			return overflow()
		}
		probe.SetInt(i)

	case probe.CanUint():
		var u uint64

		switch {
		case v.CanInt():
			i := v.Int()
			if i < 0 {
				return overflow()
			}
			u = uint64(i)
		case v.CanUint():
			u = v.Uint()
		default:
			f := v.Float()
			if math.IsNaN(f) || f < 0 || f >= math.MaxUint64 {
				return overflow()
			}
			u = uint64(f)
		}

		if probe.OverflowUint(u) {
			return overflow()
		}
		probe.SetUint(u)

	default:
		var f float64

		switch {
		case v.CanInt():
			f = float64(v.Int())
		case v.CanUint():
			f = float64(v.Uint())
		default:
			f = v.Float()
		}

		if probe.OverflowFloat(f) {
			return overflow()
		}
		probe.SetFloat(f)
	}

	return probe, nil
}

func numberToString(from KindEnum) Func {
	switch {
	case from.IsSigned():
		return func(v any) (any, error) {
			return strconv.FormatInt(reflect.ValueOf(v).Int(), 10), nil
		}
	case from.IsUnsigned():
		return func(v any) (any, error) {
			return strconv.FormatUint(reflect.ValueOf(v).Uint(), 10), nil
		}
	default:
		bits := from.Bits()
		return func(v any) (any, error) {
			return strconv.FormatFloat(reflect.ValueOf(v).Float(), 'f', -1, bits), nil
		}
	}
}

func stringToNumber(to KindEnum) Func {
	dst := to.TypeOf()
	bits := to.Bits()

	switch {
	case to.IsSigned():
		return func(v any) (any, error) {
			i, err := strconv.ParseInt(v.(string), 10, bits)
			if err != nil {
				return nil, err
			}

			return reflect.ValueOf(i).Convert(dst).Interface(), nil
		}
	case to.IsUnsigned():
		return func(v any) (any, error) {
			u, err := strconv.ParseUint(v.(string), 10, bits)
			if err != nil {
				return nil, err
			}

			return reflect.ValueOf(u).Convert(dst).Interface(), nil
		}
	default:
		return func(v any) (any, error) {
			f, err := strconv.ParseFloat(v.(string), bits)
			if err != nil {
				return nil, err
			}

			return reflect.ValueOf(f).Convert(dst).Interface(), nil
		}
	}
}

func intToBool(v any) (any, error) {
	rv := reflect.ValueOf(v)

	var i int64
	if rv.CanUint() {
		u := rv.Uint()
		if u > 1 {
			return nil, fmt.Errorf("%d is not a boolean 0/1 value", u)
		}
		i = int64(u)
	} else {
		i = rv.Int()
	}

	if !utils.IsInRange(int64(0), i, 1) {
		return nil, fmt.Errorf("%d is not a boolean 0/1 value", i)
	}

	return i == 1, nil
}

func boolToInt(to KindEnum) Func {
	dst := to.TypeOf()

	return func(v any) (any, error) {
		i := int64(0)
		if v.(bool) {
			i = 1
		}

		return checkedInterface(reflect.ValueOf(i), dst)
	}
}

func stringToBool(v any) (any, error) {
	switch strings.ToLower(v.(string)) {
	case "yes", "on", "true":
		return true, nil
	case "no", "off", "false":
		return false, nil
	default:
		return nil, fmt.Errorf("%q is not a boolean text value", v)
	}
}

func boolToString(v any) (any, error) {
	return strconv.FormatBool(v.(bool)), nil
}

func stringToTime(v any) (any, error) {
	return time.Parse(time.RFC3339Nano, v.(string))
}

func timeToString(v any) (any, error) {
	return v.(time.Time).Format(time.RFC3339Nano), nil
}

func unixToTime(v any) (any, error) {
	rv := reflect.ValueOf(v)

	var i int64
	if rv.CanUint() {
		u := rv.Uint()
		if u > math.MaxInt64 {
			return nil, fmt.Errorf("%d is not a representable Unix timestamp", u)
		}
		i = int64(u)
	} else {
		i = rv.Int()
	}

	return time.Unix(i, 0).UTC(), nil
}

func timeToUnix(to KindEnum) Func {
	dst := to.TypeOf()

	return func(v any) (any, error) {
		return checkedInterface(reflect.ValueOf(v.(time.Time).Unix()), dst)
	}
}

func stringToDuration(v any) (any, error) {
	return time.ParseDuration(v.(string))
}

func durationToString(v any) (any, error) {
	return v.(time.Duration).String(), nil
}

func nanosToDuration(v any) (any, error) {
	rv := reflect.ValueOf(v)

	if rv.CanUint() {
		u := rv.Uint()
		if u > math.MaxInt64 {
			return nil, fmt.Errorf("%d nanoseconds overflow time.Duration", u)
		}

		return time.Duration(u), nil
	}

	return time.Duration(rv.Int()), nil
}

func durationToNanos(to KindEnum) Func {
	dst := to.TypeOf()

	return func(v any) (any, error) {
		return checkedInterface(reflect.ValueOf(int64(v.(time.Duration))), dst)
	}
}

func secondsToDuration(v any) (any, error) {
	f := reflect.ValueOf(v).Float()
	if !utils.IsInRange(math.MinInt64, f*float64(time.Second), math.MaxInt64) {
		return nil, fmt.Errorf("%v seconds overflow time.Duration", v)
	}

	return time.Duration(f * float64(time.Second)), nil
}

func durationToSeconds(to KindEnum) Func {
	return func(v any) (any, error) {
		s := v.(time.Duration).Seconds()
		if to == KindFloat32 {
			return float32(s), nil
		}

		return s, nil
	}
}

func checkedInterface(v reflect.Value, dst reflect.Type) (any, error) {
	out, err := checkedConvert(v, dst)
	if err != nil {
		return nil, err
	}

	return out.Interface(), nil
}

var (
	stringType  = reflect.TypeFor[string]()
	validatable = reflect.TypeFor[interface{ IsValid() bool }]()
)

// EnumStringRule bridges the plain string type with string-kinded enum types
// that expose an IsValid method, validating on the way in. It is a dynamic
// rule because the set of enum types is open.
func EnumStringRule(src, dst reflect.Type) (Func, bool) {
	switch {
	case src == stringType && isStringEnum(dst):
		return enumFromString(dst), true

	case dst == stringType && isStringEnum(src):
		return enumToString, true

	case isStringEnum(src) && isStringEnum(dst) && src != dst:
		return enumFromString(dst), true
	}

	return nil, false
}

func isStringEnum(t reflect.Type) bool {
	return t.Kind() == reflect.String && t != stringType && t.Implements(validatable)
}

func enumFromString(dst reflect.Type) Func {
	return func(v any) (any, error) {
		ev := reflect.ValueOf(v).Convert(dst)
		if !ev.Interface().(interface{ IsValid() bool }).IsValid() {
			return nil, fmt.Errorf("%v is not a valid value for %s", v, dst)
		}

		return ev.Interface(), nil
	}
}

func enumToString(v any) (any, error) {
	if s, ok := v.(interface{ String() string }); ok {
		return s.String(), nil
	}

	return reflect.ValueOf(v).Convert(stringType).Interface(), nil
}
