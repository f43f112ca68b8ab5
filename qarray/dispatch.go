package qarray

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/arloliu/qty/errs"
	"github.com/arloliu/qty/internal/options"
	"github.com/arloliu/qty/ndarray"
	"github.com/arloliu/qty/propagation"
	"github.com/arloliu/qty/quantity"
	"github.com/arloliu/qty/scalar"
	"github.com/arloliu/qty/units"
)

// Dispatcher evaluates named operations on unit-bearing operands.
//
// For every call it resolves the operation in its propagation table, converts
// operands into the units the plan asks for, runs the engine and labels the
// result. A Dispatcher is immutable and safe for concurrent use; the arrays it
// is handed are not.
type Dispatcher struct {
	engine Engine
	table  *propagation.Table
	logger *zap.Logger
}

// DispatcherOption configures a Dispatcher.
type DispatcherOption = options.Option[*Dispatcher]

// WithEngine sets the engine used for plain operands and results.
func WithEngine(e Engine) DispatcherOption {
	return options.Named("WithEngine", func(d *Dispatcher) error {
		if e == nil {
			return fmt.Errorf("%w: nil engine", errs.ErrInvalidOperation)
		}
		d.engine = e

		return nil
	})
}

// WithTable replaces the propagation table.
func WithTable(t *propagation.Table) DispatcherOption {
	return options.Named("WithTable", func(d *Dispatcher) error {
		if t == nil {
			return fmt.Errorf("%w: nil table", errs.ErrInvalidOperation)
		}
		d.table = t

		return nil
	})
}

// WithLogger sets the logger that traces dispatch decisions at debug level.
func WithLogger(logger *zap.Logger) DispatcherOption {
	return options.NoError(func(d *Dispatcher) {
		if logger != nil {
			d.logger = logger
		}
	})
}

// NewDispatcher creates a dispatcher using the dense engine and the default
// propagation table unless options say otherwise.
func NewDispatcher(opts ...DispatcherOption) (*Dispatcher, error) {
	d := &Dispatcher{
		engine: Dense(),
		table:  propagation.Default(),
		logger: zap.NewNop(),
	}
	if err := options.Apply(d, opts...); err != nil {
		return nil, err
	}

	return d, nil
}

var defaultDispatcher, _ = NewDispatcher()

// DefaultDispatcher returns the shared dispatcher behind Array methods.
func DefaultDispatcher() *Dispatcher {
	return defaultDispatcher
}

type callConfig struct {
	out *Array
}

// CallOption configures one Dispatch call.
type CallOption = options.Option[*callConfig]

// WithOut writes the result into out instead of allocating. out keeps its
// kind and takes the result units; it is untouched when the call fails.
func WithOut(out *Array) CallOption {
	return options.Named("WithOut", func(c *callConfig) error {
		if out == nil {
			return fmt.Errorf("%w: out must be an array", errs.ErrUnsupportedOperation)
		}
		c.out = out

		return nil
	})
}

// Dispatch evaluates op on operands. Operands may be *Array, quantity.Quantity,
// Buffers that implement UnitBearer, or plain input the engine can wrap.
// Results without units come back as arrays with empty units.
func (d *Dispatcher) Dispatch(op string, operands []any, opts ...CallOption) (*Array, error) {
	cfg := &callConfig{}
	if err := options.Apply(cfg, opts...); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	bufs := make([]Buffer, len(operands))
	props := make([]propagation.Operand, len(operands))
	for i, x := range operands {
		b, p, err := d.operand(x)
		if err != nil {
			return nil, fmt.Errorf("%s: operand %d: %w", op, i, err)
		}
		bufs[i], props[i] = b, p
	}

	plan, err := propagation.Resolve(d.table, op, props)
	if err != nil {
		d.logger.Debug("dispatch rejected", zap.String("op", op), zap.Error(err))
		return nil, err
	}

	res, err := d.evaluate(op, plan, bufs, props)
	if err != nil {
		d.logger.Debug("dispatch failed", zap.String("op", op), zap.Error(err))
		return nil, err
	}

	u := units.Empty()
	if plan.HasResult {
		var factor float64
		factor, u = plan.Result.PullFactor()
		if factor != 1 {
			if res, err = d.engine.Affine(res, 0, factor); err != nil {
				return nil, fmt.Errorf("%s: %w", op, err)
			}
		}
	}

	d.logger.Debug("dispatch",
		zap.String("op", op),
		zap.Stringer("category", plan.Entry.Category),
		zap.Int("operands", len(operands)),
		zap.Bool("converted", plan.NeedsConversion()),
		zap.Stringer("result_units", u),
	)

	if cfg.out != nil {
		if err := store(cfg.out.buf, res); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		cfg.out.units = u

		return cfg.out, nil
	}

	return &Array{buf: res, units: u, engine: d.engine}, nil
}

func (d *Dispatcher) evaluate(op string, plan propagation.Plan, bufs []Buffer, props []propagation.Operand) (Buffer, error) {
	if plan.Shortcut != propagation.NoShortcut {
		shapes := make([][]int, len(bufs))
		for i, b := range bufs {
			shapes[i] = b.Shape()
		}
		shape, err := ndarray.BroadcastShapes(shapes...)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}

		return d.engine.Full(scalar.OfBool(plan.Shortcut == propagation.AllTrue), shape...)
	}

	args := make([]Buffer, len(bufs))
	for i, b := range bufs {
		args[i] = b
		target := plan.Convert[i]
		if target == nil {
			continue
		}
		factor, offset, err := units.ConversionFactor(props[i].Units, *target)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		if args[i], err = d.engine.Affine(b, offset, factor); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
	}

	return d.engine.Apply(op, args)
}

// operand splits x into its buffer and its unit description.
func (d *Dispatcher) operand(x any) (Buffer, propagation.Operand, error) {
	var (
		b   Buffer
		u   units.Units
		err error
	)
	switch v := x.(type) {
	case *Array:
		if v == nil {
			return nil, propagation.Operand{}, fmt.Errorf("%w: nil array", errs.ErrInvalidArrayData)
		}
		b, u = v.buf, v.units
	case quantity.Quantity:
		if b, err = d.engine.Wrap(v.Value()); err != nil {
			return nil, propagation.Operand{}, err
		}
		u = v.Units()
	case *quantity.Quantity:
		return d.operand(*v)
	case UnitBearer:
		buf, ok := x.(Buffer)
		if !ok {
			return nil, propagation.Operand{}, fmt.Errorf("%w: unknown unit type %T", errs.ErrUnsupportedOperation, x)
		}
		b, u = buf, v.Units()
	default:
		if b, err = d.engine.Wrap(x); err != nil {
			return nil, propagation.Operand{}, err
		}

		return b, propagation.Operand{Uniform: func() (scalar.Value, bool) { return uniform(b) }}, nil
	}

	return b, propagation.Operand{
		Units:    u,
		HasUnits: true,
		Uniform:  func() (scalar.Value, bool) { return uniform(b) },
	}, nil
}

// Dispatch evaluates op with the default dispatcher.
func Dispatch(op string, operands []any, opts ...CallOption) (*Array, error) {
	return defaultDispatcher.Dispatch(op, operands, opts...)
}
