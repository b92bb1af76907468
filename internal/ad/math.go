package ad

import "math"

// Transcendental and piecewise operations. Each appends one node whose
// local partials implement the chain rule for the backward sweep.
// Operations with restricted domains record a DomainError on the tape
// when evaluated outside it; the primal then follows math package NaN
// semantics.

// Exp returns e**x.
func (x Num) Exp() Num {
	v := math.Exp(x.Value())
	return x.tape.push1(v, x, v)
}

// Log returns the natural logarithm of x. Domain: x > 0.
func (x Num) Log() Num {
	xv := x.Value()
	if xv <= 0 {
		x.tape.setErr("Log", xv)
	}
	return x.tape.push1(math.Log(xv), x, 1/xv)
}

// Sqrt returns the square root of x. Domain: x >= 0.
func (x Num) Sqrt() Num {
	xv := x.Value()
	if xv < 0 {
		x.tape.setErr("Sqrt", xv)
	}
	v := math.Sqrt(xv)
	return x.tape.push1(v, x, 0.5/v)
}

// Pow returns x**y. The derivative w.r.t. y needs log(x), so x must be
// positive; non-positive bases record a domain error.
func (x Num) Pow(y Num) Num {
	xv, yv := x.Value(), y.Value()
	if xv <= 0 {
		x.tape.setErr("Pow", xv)
	}
	v := math.Pow(xv, yv)
	return x.tape.push2(v, x, y, yv*math.Pow(xv, yv-1), v*math.Log(xv))
}

// PowConst returns x**c. Negative bases are valid only for integer c.
func (x Num) PowConst(c float64) Num {
	xv := x.Value()
	if xv < 0 && c != math.Trunc(c) {
		x.tape.setErr("Pow", xv)
	}
	return x.tape.push1(math.Pow(xv, c), x, c*math.Pow(xv, c-1))
}

// Sin returns the sine of x.
func (x Num) Sin() Num {
	xv := x.Value()
	return x.tape.push1(math.Sin(xv), x, math.Cos(xv))
}

// Cos returns the cosine of x.
func (x Num) Cos() Num {
	xv := x.Value()
	return x.tape.push1(math.Cos(xv), x, -math.Sin(xv))
}

// Tan returns the tangent of x.
func (x Num) Tan() Num {
	xv := x.Value()
	c := math.Cos(xv)
	return x.tape.push1(math.Tan(xv), x, 1/(c*c))
}

// Asin returns the arcsine of x. Domain: |x| <= 1.
func (x Num) Asin() Num {
	xv := x.Value()
	if xv < -1 || xv > 1 {
		x.tape.setErr("Asin", xv)
	}
	return x.tape.push1(math.Asin(xv), x, 1/math.Sqrt(1-xv*xv))
}

// Acos returns the arccosine of x. Domain: |x| <= 1.
func (x Num) Acos() Num {
	xv := x.Value()
	if xv < -1 || xv > 1 {
		x.tape.setErr("Acos", xv)
	}
	return x.tape.push1(math.Acos(xv), x, -1/math.Sqrt(1-xv*xv))
}

// Atan returns the arctangent of x.
func (x Num) Atan() Num {
	xv := x.Value()
	return x.tape.push1(math.Atan(xv), x, 1/(1+xv*xv))
}

// Atan2 returns atan2(x, y), i.e. the angle of the point (y, x).
func (x Num) Atan2(y Num) Num {
	xv, yv := x.Value(), y.Value()
	r2 := xv*xv + yv*yv
	return x.tape.push2(math.Atan2(xv, yv), x, y, yv/r2, -xv/r2)
}

// Sinh returns the hyperbolic sine of x.
func (x Num) Sinh() Num {
	xv := x.Value()
	return x.tape.push1(math.Sinh(xv), x, math.Cosh(xv))
}

// Cosh returns the hyperbolic cosine of x.
func (x Num) Cosh() Num {
	xv := x.Value()
	return x.tape.push1(math.Cosh(xv), x, math.Sinh(xv))
}

// Tanh returns the hyperbolic tangent of x.
func (x Num) Tanh() Num {
	v := math.Tanh(x.Value())
	return x.tape.push1(v, x, 1-v*v)
}

// Abs returns |x|. The partial at x = 0 is taken as 0.
func (x Num) Abs() Num {
	xv := x.Value()
	d := 0.0
	switch {
	case xv > 0:
		d = 1
	case xv < 0:
		d = -1
	}
	return x.tape.push1(math.Abs(xv), x, d)
}

// Min returns the smaller of x and y. Gradient flows to the selected
// argument only; ties select x.
func (x Num) Min(y Num) Num {
	if x.Value() <= y.Value() {
		return x.tape.push2(x.Value(), x, y, 1, 0)
	}
	return x.tape.push2(y.Value(), x, y, 0, 1)
}

// Max returns the larger of x and y. Gradient flows to the selected
// argument only; ties select x.
func (x Num) Max(y Num) Num {
	if x.Value() >= y.Value() {
		return x.tape.push2(x.Value(), x, y, 1, 0)
	}
	return x.tape.push2(y.Value(), x, y, 0, 1)
}
