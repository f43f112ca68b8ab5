package scalar

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"

	"github.com/bytedance/sonic"

	"github.com/arloliu/qty/errs"
)

// jsonAPI decodes numbers as json.Number so 64-bit integers survive.
var jsonAPI = sonic.Config{UseNumber: true}.Froze()

// JSON returns the sonic configuration shared by qty JSON codecs.
func JSON() sonic.API {
	return jsonAPI
}

// MarshalJSON encodes real kinds as a JSON number and complex kinds as [re, im].
// Non-finite floats encode as the strings "NaN", "+Inf" and "-Inf".
func (v Value) MarshalJSON() ([]byte, error) {
	return jsonAPI.Marshal(v.JSONValue())
}

// JSONValue returns the value sonic should encode for v.
func (v Value) JSONValue() any {
	switch {
	case v.kind.IsComplex():
		return [2]any{floatJSON(real(v.c)), floatJSON(imag(v.c))}
	case v.kind.IsFloat():
		return floatJSON(v.f)
	default:
		return v.Interface()
	}
}

func floatJSON(f float64) any {
	switch {
	case math.IsNaN(f):
		return "NaN"
	case math.IsInf(f, 1):
		return "+Inf"
	case math.IsInf(f, -1):
		return "-Inf"
	default:
		return f
	}
}

// FromJSON converts a decoded JSON element into a Value of kind k. raw is a
// json.Number, a float64, a special-float string or, for complex kinds, a
// two-element array.
func FromJSON(k Kind, raw any) (Value, error) {
	if k.IsComplex() {
		parts, ok := raw.([]any)
		if !ok || len(parts) != 2 {
			return Value{}, fmt.Errorf("%w: %s needs [re, im], got %v", errs.ErrInvalidPayload, k, raw)
		}
		re, err := jsonFloat(parts[0])
		if err != nil {
			return Value{}, err
		}
		im, err := jsonFloat(parts[1])
		if err != nil {
			return Value{}, err
		}

		return FromComplex128(k, complex(re, im)), nil
	}

	if k == Bool {
		b, ok := raw.(bool)
		if !ok {
			return Value{}, fmt.Errorf("%w: bool needs true or false, got %v", errs.ErrInvalidPayload, raw)
		}

		return OfBool(b), nil
	}

	if k.IsInteger() {
		n, ok := raw.(json.Number)
		if !ok {
			return Value{}, fmt.Errorf("%w: %s needs an integer, got %v", errs.ErrInvalidPayload, k, raw)
		}
		if k.IsSigned() {
			i, err := strconv.ParseInt(string(n), 10, k.bits())
			if err != nil {
				return Value{}, fmt.Errorf("%w: %w", errs.ErrInvalidPayload, err)
			}

			return Value{kind: k, i: i}, nil
		}
		u, err := strconv.ParseUint(string(n), 10, k.bits())
		if err != nil {
			return Value{}, fmt.Errorf("%w: %w", errs.ErrInvalidPayload, err)
		}

		return Value{kind: k, u: u}, nil
	}

	if !k.IsValid() {
		return Value{}, fmt.Errorf("%w: %s", errs.ErrUnsupportedValueKind, k)
	}
	f, err := jsonFloat(raw)
	if err != nil {
		return Value{}, err
	}

	return FromFloat64(k, f), nil
}

func jsonFloat(raw any) (float64, error) {
	switch x := raw.(type) {
	case json.Number:
		f, err := strconv.ParseFloat(string(x), 64)
		if err != nil {
			return 0, fmt.Errorf("%w: %w", errs.ErrInvalidPayload, err)
		}

		return f, nil
	case float64:
		return x, nil
	case string:
		switch x {
		case "NaN":
			return math.NaN(), nil
		case "+Inf", "Inf":
			return math.Inf(1), nil
		case "-Inf":
			return math.Inf(-1), nil
		}
	}

	return 0, fmt.Errorf("%w: not a number: %v", errs.ErrInvalidPayload, raw)
}
