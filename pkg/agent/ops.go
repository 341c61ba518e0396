package agent

import "golang.org/x/exp/constraints"

// Number is the set of types the arithmetic helpers accept.
type Number interface {
	constraints.Integer | constraints.Float
}

// Comparisons against the current value.

// Equal reports whether the current value of a equals v.
func Equal[T comparable](a *Agent[T], v T) bool { return a.Get() == v }

// NotEqual reports whether the current value of a differs from v.
func NotEqual[T comparable](a *Agent[T], v T) bool { return a.Get() != v }

// Less reports whether the current value of a is less than v.
func Less[T constraints.Ordered](a *Agent[T], v T) bool { return a.Get() < v }

// LessEqual reports whether the current value of a is at most v.
func LessEqual[T constraints.Ordered](a *Agent[T], v T) bool { return a.Get() <= v }

// Greater reports whether the current value of a is greater than v.
func Greater[T constraints.Ordered](a *Agent[T], v T) bool { return a.Get() > v }

// GreaterEqual reports whether the current value of a is at least v.
func GreaterEqual[T constraints.Ordered](a *Agent[T], v T) bool { return a.Get() >= v }

// Increment and decrement. These write through Update, so they notify only
// when the result differs from the current value.

// Inc adds one to a and returns the new value.
func Inc[T Number](a *Agent[T]) T {
	return a.Update(func(v T) T { return v + 1 }, NoExclude)
}

// PostInc adds one to a and returns the value before the increment.
func PostInc[T Number](a *Agent[T]) T {
	old, _ := a.update(func(v T) T { return v + 1 }, NoExclude)
	return old
}

// Dec subtracts one from a and returns the new value.
func Dec[T Number](a *Agent[T]) T {
	return a.Update(func(v T) T { return v - 1 }, NoExclude)
}

// PostDec subtracts one from a and returns the value before the decrement.
func PostDec[T Number](a *Agent[T]) T {
	old, _ := a.update(func(v T) T { return v - 1 }, NoExclude)
	return old
}

// Compound assignment.

// AddAssign adds x to a and returns the resulting value.
func AddAssign[T Number](a *Agent[T], x T) T {
	return a.Update(func(v T) T { return v + x }, NoExclude)
}

// SubAssign subtracts x from a and returns the resulting value.
func SubAssign[T Number](a *Agent[T], x T) T {
	return a.Update(func(v T) T { return v - x }, NoExclude)
}

// MulAssign multiplies a by x and returns the resulting value.
func MulAssign[T Number](a *Agent[T], x T) T {
	return a.Update(func(v T) T { return v * x }, NoExclude)
}

// DivAssign divides a by x and returns the resulting value. Integer
// division by zero panics.
func DivAssign[T Number](a *Agent[T], x T) T {
	return a.Update(func(v T) T { return v / x }, NoExclude)
}

// Binary operators. These read the current value and never write.

// Add returns a + x.
func Add[T Number](a *Agent[T], x T) T { return a.Get() + x }

// Sub returns a - x.
func Sub[T Number](a *Agent[T], x T) T { return a.Get() - x }

// Mul returns a * x.
func Mul[T Number](a *Agent[T], x T) T { return a.Get() * x }

// Div returns a / x.
func Div[T Number](a *Agent[T], x T) T { return a.Get() / x }

// AddTo returns x + a.
func AddTo[T Number](x T, a *Agent[T]) T { return x + a.Get() }

// SubFrom returns x - a.
func SubFrom[T Number](x T, a *Agent[T]) T { return x - a.Get() }

// MulBy returns x * a.
func MulBy[T Number](x T, a *Agent[T]) T { return x * a.Get() }

// DivInto returns x / a.
func DivInto[T Number](x T, a *Agent[T]) T { return x / a.Get() }
