package ad

// Num is a handle to a tape node. The zero Num is invalid; obtain one from
// Tape.Leaf or Tape.Const, or as the result of an operation.
type Num struct {
	tape *Tape
	idx  int32
}

// Value returns the primal value.
func (x Num) Value() float64 {
	return x.tape.nodes[x.idx].val
}

// Tape returns the tape that owns this handle.
func (x Num) Tape() *Tape {
	return x.tape
}

// Add returns x + y.
func (x Num) Add(y Num) Num {
	return x.tape.push2(x.Value()+y.Value(), x, y, 1, 1)
}

// AddConst returns x + c.
func (x Num) AddConst(c float64) Num {
	return x.tape.push1(x.Value()+c, x, 1)
}

// Sub returns x - y.
func (x Num) Sub(y Num) Num {
	return x.tape.push2(x.Value()-y.Value(), x, y, 1, -1)
}

// SubConst returns x - c.
func (x Num) SubConst(c float64) Num {
	return x.tape.push1(x.Value()-c, x, 1)
}

// SubFrom returns c - x.
func (x Num) SubFrom(c float64) Num {
	return x.tape.push1(c-x.Value(), x, -1)
}

// Mul returns x * y.
func (x Num) Mul(y Num) Num {
	return x.tape.push2(x.Value()*y.Value(), x, y, y.Value(), x.Value())
}

// MulConst returns x * c.
func (x Num) MulConst(c float64) Num {
	return x.tape.push1(x.Value()*c, x, c)
}

// Div returns x / y.
func (x Num) Div(y Num) Num {
	yv := y.Value()
	v := x.Value() / yv
	return x.tape.push2(v, x, y, 1/yv, -v/yv)
}

// DivConst returns x / c.
func (x Num) DivConst(c float64) Num {
	return x.tape.push1(x.Value()/c, x, 1/c)
}

// DivFrom returns c / x.
func (x Num) DivFrom(c float64) Num {
	xv := x.Value()
	v := c / xv
	return x.tape.push1(v, x, -v/xv)
}

// Neg returns -x.
func (x Num) Neg() Num {
	return x.tape.push1(-x.Value(), x, -1)
}

// Less reports x < y.
func (x Num) Less(y Num) bool { return x.Value() < y.Value() }

// LessEq reports x <= y.
func (x Num) LessEq(y Num) bool { return x.Value() <= y.Value() }

// Greater reports x > y.
func (x Num) Greater(y Num) bool { return x.Value() > y.Value() }

// GreaterEq reports x >= y.
func (x Num) GreaterEq(y Num) bool { return x.Value() >= y.Value() }

// Eq reports x == y by value.
func (x Num) Eq(y Num) bool { return x.Value() == y.Value() }

// NotEq reports x != y by value.
func (x Num) NotEq(y Num) bool { return x.Value() != y.Value() }
