package propagation

import (
	"fmt"

	"github.com/arloliu/qty/errs"
	"github.com/arloliu/qty/scalar"
	"github.com/arloliu/qty/units"
)

// Operand describes one input of an operation as seen by the resolver.
type Operand struct {
	Units    units.Units
	HasUnits bool
	// Uniform returns the single value shared by every element, when there is
	// one. Only consulted for power exponents; may be nil.
	Uniform func() (scalar.Value, bool)
}

// Plain returns an operand without units.
func Plain() Operand {
	return Operand{}
}

// WithUnits returns a unit-bearing operand.
func WithUnits(u units.Units) Operand {
	return Operand{Units: u, HasUnits: true}
}

// Shortcut tells the caller to skip evaluation and fill the result.
type Shortcut uint8

const (
	NoShortcut Shortcut = iota
	AllFalse
	AllTrue
)

// Plan is the resolved unit handling of one call.
type Plan struct {
	Entry Entry
	// Convert holds, per operand, the units its values must be converted into
	// before evaluation, or nil when the operand passes through unchanged.
	Convert []*units.Units
	// Result holds the units of the result when HasResult is set; otherwise the
	// result is a plain value without units.
	Result    units.Units
	HasResult bool
	Shortcut  Shortcut
}

// NeedsConversion reports whether any operand has a conversion target.
func (p Plan) NeedsConversion() bool {
	for _, c := range p.Convert {
		if c != nil {
			return true
		}
	}

	return false
}

// Resolve looks up name in t and computes the plan for the given operands.
func Resolve(t *Table, name string, operands []Operand) (Plan, error) {
	entry, ok := t.Lookup(name, len(operands))
	if !ok {
		return Plan{}, fmt.Errorf("%w: %s with %d operand(s) has no unit rule", errs.ErrUnsupportedOperation, name, len(operands))
	}

	p := Plan{Entry: entry, Convert: make([]*units.Units, len(operands))}
	if !anyUnits(operands) {
		return p, nil
	}

	var err error
	switch entry.Category {
	case Strip:
	case Passthrough:
		p.setResult(first(operands))
	case PowerLaw:
		err = p.powerLaw(operands[0], entry.Power)
	case AngleIn:
		err = p.convertAll(operands, angleTarget(operands[0], units.Radians()))
	case AngleOut:
		err = p.convertAll(operands, units.Dimensionless())
		p.setResult(units.Radians())
	case RadToDeg:
		err = p.convertAll(operands, angleTarget(operands[0], units.Radians()))
		p.setResult(units.Degrees())
	case DegToRad:
		err = p.convertAll(operands, angleTarget(operands[0], units.Degrees()))
		p.setResult(units.Radians())
	case SameUnits:
		err = p.convertAll(operands, first(operands))
		p.setResult(first(operands))
	case Compare:
		err = p.compare(operands)
	case OrderingCompare:
		err = p.convertAll(operands, first(operands))
	case Combine:
		err = p.combine(operands)
	case Power:
		err = p.power(operands)
	case Remainder:
		err = p.remainder(operands)
	case Arctan2:
		err = p.convertAll(operands, first(operands))
		p.setResult(units.Radians())
	default:
		err = fmt.Errorf("%w: %s has no unit rule", errs.ErrUnsupportedOperation, name)
	}
	if err != nil {
		return Plan{}, fmt.Errorf("%s: %w", name, err)
	}

	return p, nil
}

func anyUnits(ops []Operand) bool {
	for _, o := range ops {
		if o.HasUnits {
			return true
		}
	}

	return false
}

// first returns the units of the first operand, empty when it is plain.
func first(ops []Operand) units.Units {
	if ops[0].HasUnits {
		return ops[0].Units
	}

	return units.Empty()
}

// angleTarget lets dimensionless operands through as plain angles.
func angleTarget(o Operand, target units.Units) units.Units {
	if o.HasUnits && o.Units.IsDimensionless() {
		return units.Dimensionless()
	}

	return target
}

func (p *Plan) setResult(u units.Units) {
	p.Result = u
	p.HasResult = true
}

func (p *Plan) convertAll(ops []Operand, target units.Units) error {
	for i, o := range ops {
		if err := p.convert(i, o, target); err != nil {
			return err
		}
	}

	return nil
}

func (p *Plan) convert(i int, o Operand, target units.Units) error {
	if !o.HasUnits {
		return nil
	}
	if !o.Units.IsCompatible(target) {
		return fmt.Errorf("%w: operand %d in %q cannot convert to %q", errs.ErrIncompatibleUnits, i, o.Units, target)
	}
	if units.IsIdentityConversion(o.Units, target) {
		return nil
	}
	t := target
	p.Convert[i] = &t

	return nil
}

func (p *Plan) powerLaw(o Operand, power float64) error {
	if !o.HasUnits {
		return nil
	}
	u, err := units.Pow(o.Units, power)
	if err != nil {
		return err
	}
	p.setResult(u)

	return nil
}

func (p *Plan) compare(ops []Operand) error {
	a, b := ops[0], ops[1]
	if a.HasUnits && b.HasUnits && !a.Units.IsCompatible(b.Units) {
		if p.Entry.Negated {
			p.Shortcut = AllTrue
		} else {
			p.Shortcut = AllFalse
		}

		return nil
	}
	if a.HasUnits {
		return p.convert(1, b, a.Units)
	}

	return nil
}

func (p *Plan) combine(ops []Operand) error {
	a, b := ops[0], ops[1]
	switch {
	case !b.HasUnits:
		p.setResult(a.Units)
		return nil
	case !a.HasUnits && !p.Entry.Quotient:
		p.setResult(b.Units)
		return nil
	}

	var (
		u   units.Units
		err error
	)
	if p.Entry.Quotient {
		u, err = units.Div(first(ops), b.Units)
	} else {
		u, err = units.Mul(a.Units, b.Units)
	}
	if err != nil {
		return err
	}
	p.setResult(u)

	return nil
}

func (p *Plan) power(ops []Operand) error {
	base, exp := ops[0], ops[1]
	if exp.HasUnits && !exp.Units.IsUnitless() {
		return fmt.Errorf("%w: exponent carries units %q", errs.ErrUnsupportedOperation, exp.Units)
	}
	if !base.HasUnits {
		return nil
	}
	if exp.Uniform == nil {
		return fmt.Errorf("%w: exponent must be a single value", errs.ErrUnsupportedOperation)
	}
	e, ok := exp.Uniform()
	if !ok {
		return fmt.Errorf("%w: exponent must be homogeneous", errs.ErrUnsupportedOperation)
	}
	if e.Kind().IsComplex() {
		return fmt.Errorf("%w: complex exponent", errs.ErrUnsupportedOperation)
	}

	return p.powerLaw(base, e.Float64())
}

func (p *Plan) remainder(ops []Operand) error {
	a, b := ops[0], ops[1]
	if !a.HasUnits {
		return p.convert(1, b, units.Dimensionless())
	}
	p.setResult(a.Units)

	return p.convert(1, b, a.Units)
}
