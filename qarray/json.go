package qarray

import (
	"fmt"

	"github.com/arloliu/qty/errs"
	"github.com/arloliu/qty/scalar"
	"github.com/arloliu/qty/units"
)

type arrayJSON struct {
	Units  string `json:"units"`
	Kind   string `json:"kind"`
	Shape  []int  `json:"shape"`
	Values []any  `json:"values"`
}

// MarshalJSON encodes a as
// {"units": "m", "kind": "float64", "shape": [2], "values": [1, 2]}
// with values flattened in row-major order.
func (a *Array) MarshalJSON() ([]byte, error) {
	vals := make([]any, a.buf.Size())
	for i := range vals {
		vals[i] = a.buf.At(i).JSONValue()
	}

	return scalar.JSON().Marshal(arrayJSON{
		Units:  a.units.String(),
		Kind:   a.Kind().String(),
		Shape:  a.Shape(),
		Values: vals,
	})
}

// UnmarshalJSON decodes the MarshalJSON form into a dense array. A missing
// kind defaults to float64 and a missing shape to one dimension.
func (a *Array) UnmarshalJSON(data []byte) error {
	var raw arrayJSON
	if err := scalar.JSON().Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("%w: %w", errs.ErrInvalidPayload, err)
	}

	kind := scalar.Float64
	if raw.Kind != "" {
		k, err := scalar.ParseKind(raw.Kind)
		if err != nil {
			return err
		}
		kind = k
	}
	shape := raw.Shape
	if shape == nil {
		shape = []int{len(raw.Values)}
	}

	vals := make([]scalar.Value, len(raw.Values))
	for i, r := range raw.Values {
		v, err := scalar.FromJSON(kind, r)
		if err != nil {
			return fmt.Errorf("value %d: %w", i, err)
		}
		vals[i] = v
	}
	u, err := units.Parse(raw.Units)
	if err != nil {
		return err
	}

	e := a.engine
	if e == nil {
		e = Dense()
	}
	buf, err := e.FromValues(kind, shape, vals)
	if err != nil {
		return err
	}
	factor, bare := u.PullFactor()
	if factor != 1 {
		if buf, err = e.Affine(buf, 0, factor); err != nil {
			return err
		}
	}
	a.buf, a.units, a.engine = buf, bare, e

	return nil
}
