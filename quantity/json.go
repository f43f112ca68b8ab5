package quantity

import (
	"fmt"

	"github.com/arloliu/qty/errs"
	num "github.com/arloliu/qty/scalar"
	"github.com/arloliu/qty/units"
)

type quantityJSON struct {
	Value any    `json:"value"`
	Kind  string `json:"kind"`
	Units string `json:"units"`
}

// MarshalJSON encodes q as {"value": 1.5, "kind": "float64", "units": "m"}.
func (q Quantity) MarshalJSON() ([]byte, error) {
	if !q.IsValid() {
		return nil, fmt.Errorf("%w: invalid quantity", errs.ErrInvalidPayload)
	}

	return num.JSON().Marshal(quantityJSON{
		Value: q.value.JSONValue(),
		Kind:  q.Kind().String(),
		Units: q.units.String(),
	})
}

// UnmarshalJSON decodes the MarshalJSON form. A missing kind defaults to float64.
func (q *Quantity) UnmarshalJSON(data []byte) error {
	var raw quantityJSON
	if err := num.JSON().Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("%w: %w", errs.ErrInvalidPayload, err)
	}

	kind := num.Float64
	if raw.Kind != "" {
		k, err := num.ParseKind(raw.Kind)
		if err != nil {
			return err
		}
		kind = k
	}
	v, err := num.FromJSON(kind, raw.Value)
	if err != nil {
		return err
	}
	u, err := units.Parse(raw.Units)
	if err != nil {
		return err
	}

	r, err := New(v, u)
	if err != nil {
		return err
	}
	*q = r

	return nil
}
