package value

import (
	"math"
	"strconv"
	"strings"
)

// BoxPrimitive converts a non-object value into its wrapper object
// (ToObject applied to a primitive). It is filled in by internal/object's
// init() — value cannot import object directly (object imports value for
// the Object interface and Value type), so this indirection is the seam
// that breaks the cycle while keeping ToObject callable from this package.
var BoxPrimitive func(v Value) (Object, error)

// ToPrimitive implements ed.3 §9.1. hint is "Number" (the default when
// called with no explicit hint — every caller except DefaultValue itself
// should pass Number), "String", or "" to mean "use the object's own
// default", which DefaultValue resolves per the object's class (a Date
// object defaults to String; everything else defaults to Number).
func (v Value) ToPrimitive(hint Kind) (Value, error) {
	if v.kind != Obj {
		return v, nil
	}
	return v.obj.DefaultValue(hint)
}

// ToBoolean implements ed.3 §9.2.
func (v Value) ToBoolean() bool {
	switch v.kind {
	case Undefined, Null:
		return false
	case Boolean:
		return v.b
	case Number:
		return v.n != 0 && !math.IsNaN(v.n)
	case String:
		return v.s.Len() > 0
	case Obj:
		return true
	}
	return false
}

// ToNumber implements ed.3 §9.3, including the exact string-to-number
// grammar (leading/trailing whitespace ignored, "Infinity"/"-Infinity",
// hex literals, empty string is 0).
func (v Value) ToNumber() (float64, error) {
	switch v.kind {
	case Undefined:
		return math.NaN(), nil
	case Null:
		return 0, nil
	case Boolean:
		if v.b {
			return 1, nil
		}
		return 0, nil
	case Number:
		return v.n, nil
	case String:
		return stringToNumber(v.s.Value()), nil
	case Obj:
		prim, err := v.ToPrimitive(Number)
		if err != nil {
			return 0, err
		}
		if prim.kind == Obj {
			// DefaultValue should have already returned a TypeError in this
			// case; guard anyway rather than recursing.
			return math.NaN(), nil
		}
		return prim.ToNumber()
	}
	return math.NaN(), nil
}

func stringToNumber(s string) float64 {
	t := strings.TrimSpace(s)
	if t == "" {
		return 0
	}
	switch t {
	case "Infinity", "+Infinity":
		return math.Inf(1)
	case "-Infinity":
		return math.Inf(-1)
	}
	if len(t) > 2 && t[0] == '0' && (t[1] == 'x' || t[1] == 'X') {
		n, err := strconv.ParseUint(t[2:], 16, 64)
		if err != nil {
			return math.NaN()
		}
		return float64(n)
	}
	// ParseFloat also accepts "inf"/"infinity"/"nan" in any case, hex
	// floats such as "-0x1p3" and underscores; none is a decimal literal.
	if strings.ContainsAny(t, "iInNxXpP_") {
		return math.NaN()
	}
	n, err := strconv.ParseFloat(t, 64)
	if err != nil {
		return math.NaN()
	}
	return n
}

// ToString implements ed.3 §9.8, including the exact double-to-string
// algorithm's observable boundary cases (NaN, ±Infinity, -0 prints as "0").
func (v Value) ToString() (*Str, error) {
	switch v.kind {
	case Undefined:
		return Intern("undefined"), nil
	case Null:
		return Intern("null"), nil
	case Boolean:
		if v.b {
			return Intern("true"), nil
		}
		return Intern("false"), nil
	case Number:
		return NewString(NumberToString(v.n)), nil
	case String:
		return v.s, nil
	case Obj:
		prim, err := v.ToPrimitive(String)
		if err != nil {
			return nil, err
		}
		if prim.kind == Obj {
			return nil, &TypeError{Msg: "cannot convert object to a primitive string"}
		}
		return prim.ToString()
	}
	return nil, &TypeError{Msg: "cannot convert " + v.kind.String() + " to string"}
}

// NumberToString renders n the way ed.3 §9.8.1 requires: shortest decimal
// round-tripping to n, in plain notation for magnitudes in [1e-6, 1e21)
// and exponent notation ("1e+21", "1.5e-7") otherwise, "NaN"/"Infinity"/
// "-Infinity" for the non-finite cases, and "0" for both +0 and -0. Go's
// strconv produces the shortest round-tripping digits with precision -1.
func NumberToString(n float64) string {
	switch {
	case math.IsNaN(n):
		return "NaN"
	case math.IsInf(n, 1):
		return "Infinity"
	case math.IsInf(n, -1):
		return "-Infinity"
	case n == 0:
		return "0"
	}
	if a := math.Abs(n); a >= 1e-6 && a < 1e21 {
		return strconv.FormatFloat(n, 'f', -1, 64)
	}
	// Go pads a one-digit exponent to two ("1.5e-07"); ed.3 does not.
	return strings.Replace(strconv.FormatFloat(n, 'e', -1, 64), "e-0", "e-", 1)
}

// ToObject implements ed.3 §9.9: wraps primitives in their corresponding
// wrapper object; undefined/null throw TypeError; objects pass through.
func (v Value) ToObject() (Object, error) {
	switch v.kind {
	case Undefined, Null:
		return nil, &TypeError{Msg: "cannot convert " + v.kind.String() + " to object"}
	case Obj:
		return v.obj, nil
	default:
		if BoxPrimitive == nil {
			return nil, &TypeError{Msg: "no object boxing available for " + v.kind.String()}
		}
		return BoxPrimitive(v)
	}
}

// ToInteger implements ed.3 §9.4.
func (v Value) ToInteger() (float64, error) {
	n, err := v.ToNumber()
	if err != nil {
		return 0, err
	}
	return toIntegerNumber(n), nil
}

func toIntegerNumber(n float64) float64 {
	if math.IsNaN(n) {
		return 0
	}
	if n == 0 || math.IsInf(n, 0) {
		return n
	}
	if n < 0 {
		return -math.Floor(-n)
	}
	return math.Floor(n)
}

const (
	two32 = 4294967296.0
	two31 = 2147483648.0
	two16 = 65536.0
)

// ToInt32 implements ed.3 §9.5 exactly, including NaN/±Infinity mapping to
// 0 and wraparound via modulo 2^32 with a sign correction into [-2^31,
// 2^31). This function is idempotent on int32's range and agrees with
// ToUint32 on the low 32 bits by construction (they share posInt).
func (v Value) ToInt32() (int32, error) {
	n, err := v.ToNumber()
	if err != nil {
		return 0, err
	}
	return Int32FromNumber(n), nil
}

func Int32FromNumber(n float64) int32 {
	if math.IsNaN(n) || math.IsInf(n, 0) || n == 0 {
		return 0
	}
	posInt := toIntegerNumber(n)
	m := math.Mod(posInt, two32)
	if m < 0 {
		m += two32
	}
	if m >= two31 {
		return int32(m - two32)
	}
	return int32(m)
}

// ToUint32 implements ed.3 §9.6.
func (v Value) ToUint32() (uint32, error) {
	n, err := v.ToNumber()
	if err != nil {
		return 0, err
	}
	return Uint32FromNumber(n), nil
}

func Uint32FromNumber(n float64) uint32 {
	if math.IsNaN(n) || math.IsInf(n, 0) || n == 0 {
		return 0
	}
	posInt := toIntegerNumber(n)
	m := math.Mod(posInt, two32)
	if m < 0 {
		m += two32
	}
	return uint32(m)
}

// ToUint16 implements ed.3 §9.7.
func (v Value) ToUint16() (uint16, error) {
	n, err := v.ToNumber()
	if err != nil {
		return 0, err
	}
	return Uint16FromNumber(n), nil
}

func Uint16FromNumber(n float64) uint16 {
	if math.IsNaN(n) || math.IsInf(n, 0) || n == 0 {
		return 0
	}
	posInt := toIntegerNumber(n)
	m := math.Mod(posInt, two16)
	if m < 0 {
		m += two16
	}
	return uint16(m)
}

// TypeError is the value-layer error raised for ineligible conversions,
// such as Call/Construct/DefaultValue/instanceof/in applied to a value
// that does not support the operation. The VM wraps this, or constructs
// one from internal/errors, into a thrown TypeError object when it
// reaches user code.
type TypeError struct{ Msg string }

func (e *TypeError) Error() string { return e.Msg }

// SyntaxError is the value-layer error raised when eval's argument fails to
// parse (ed.3 §15.1.2.1.1): caught by the VM the same way TypeError is, and
// thrown into script code as a SyntaxError instance rather than surfacing as
// a Go-level fault.
type SyntaxError struct{ Msg string }

func (e *SyntaxError) Error() string { return e.Msg }
