package qarray

// Apply evaluates op with a as the first operand, using a's engine and the
// default propagation table.
func (a *Array) Apply(op string, others ...any) (*Array, error) {
	return a.dispatcher().Dispatch(op, append([]any{a}, others...))
}

// ApplyInPlace evaluates op with a as the first operand and stores the result
// back into a. a keeps its kind and is unchanged on error.
func (a *Array) ApplyInPlace(op string, others ...any) error {
	_, err := a.dispatcher().Dispatch(op, append([]any{a}, others...), WithOut(a))
	return err
}

func (a *Array) dispatcher() *Dispatcher {
	if a.engine == nil || a.engine == defaultDispatcher.engine {
		return defaultDispatcher
	}

	return &Dispatcher{engine: a.engine, table: defaultDispatcher.table, logger: defaultDispatcher.logger}
}

// Add returns a + o in a's units.
func (a *Array) Add(o any) (*Array, error) { return a.Apply("add", o) }

// Subtract returns a - o in a's units.
func (a *Array) Subtract(o any) (*Array, error) { return a.Apply("subtract", o) }

// Mul returns a * o with multiplied units.
func (a *Array) Mul(o any) (*Array, error) { return a.Apply("multiply", o) }

// Div returns a / o with divided units.
func (a *Array) Div(o any) (*Array, error) { return a.Apply("divide", o) }

// FloorDiv returns floor(a / o) with divided units.
func (a *Array) FloorDiv(o any) (*Array, error) { return a.Apply("floor_divide", o) }

// Mod returns the floored remainder of a / o in a's units.
func (a *Array) Mod(o any) (*Array, error) { return a.Apply("remainder", o) }

// Pow returns a ** exp. The exponent must be unitless and hold one value.
func (a *Array) Pow(exp any) (*Array, error) { return a.Apply("power", exp) }

// MatMul returns the matrix product with multiplied units.
func (a *Array) MatMul(o any) (*Array, error) { return a.Apply("matmul", o) }

// Neg returns -a.
func (a *Array) Neg() (*Array, error) { return a.Apply("negative") }

// Abs returns |a|.
func (a *Array) Abs() (*Array, error) { return a.Apply("absolute") }

// Sqrt returns the square root with halved unit exponents.
func (a *Array) Sqrt() (*Array, error) { return a.Apply("sqrt") }

// AddInPlace sets a to a + o.
func (a *Array) AddInPlace(o any) error { return a.ApplyInPlace("add", o) }

// SubtractInPlace sets a to a - o.
func (a *Array) SubtractInPlace(o any) error { return a.ApplyInPlace("subtract", o) }

// MulInPlace sets a to a * o.
func (a *Array) MulInPlace(o any) error { return a.ApplyInPlace("multiply", o) }

// DivInPlace sets a to a / o. Integer arrays cannot hold the float result.
func (a *Array) DivInPlace(o any) error { return a.ApplyInPlace("divide", o) }

// PowInPlace sets a to a ** exp.
func (a *Array) PowInPlace(exp any) error { return a.ApplyInPlace("power", exp) }
