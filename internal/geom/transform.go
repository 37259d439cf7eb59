package geom

import (
	"errors"
	"fmt"
	"strings"

	"github.com/tdewolff/parse/v2/strconv"
)

var ErrBadTransform = errors.New("malformed transform")

// ParseTransform parses an SVG transform list such as
// "translate(10 5) rotate(45, 0, 0) scale(2)". Functions are composed left
// to right, so the right-most one is applied to points first.
func ParseTransform(s string) (Matrix2D, error) {
	result := Identity()
	rest := strings.TrimSpace(s)

	for rest != "" {
		open := strings.IndexByte(rest, '(')
		if open < 0 {
			return Identity(), fmt.Errorf("%w: expected '(' in %q", ErrBadTransform, rest)
		}
		closing := strings.IndexByte(rest, ')')
		if closing < open {
			return Identity(), fmt.Errorf("%w: unbalanced parentheses in %q", ErrBadTransform, s)
		}

		fn := strings.TrimSpace(rest[:open])
		args, err := ParseNumbers(rest[open+1 : closing])
		if err != nil {
			return Identity(), fmt.Errorf("%w: %w", ErrBadTransform, err)
		}

		m, err := transformFunc(fn, args)
		if err != nil {
			return Identity(), err
		}
		result = result.Multiply(m)

		rest = strings.TrimLeft(rest[closing+1:], " \t\n,")
	}

	return result, nil
}

func transformFunc(fn string, a []float64) (Matrix2D, error) {
	arity := func(allowed ...int) error {
		for _, n := range allowed {
			if len(a) == n {
				return nil
			}
		}
		return fmt.Errorf("%w: %s takes %v arguments, got %d", ErrBadTransform, fn, allowed, len(a))
	}

	switch fn {
	case "matrix":
		if err := arity(6); err != nil {
			return Identity(), err
		}
		return Matrix2D{a[0], a[1], a[2], a[3], a[4], a[5]}, nil
	case "translate":
		if err := arity(1, 2); err != nil {
			return Identity(), err
		}
		if len(a) == 1 {
			return Translate(a[0], 0), nil
		}
		return Translate(a[0], a[1]), nil
	case "scale":
		if err := arity(1, 2); err != nil {
			return Identity(), err
		}
		if len(a) == 1 {
			return Scale(a[0], a[0]), nil
		}
		return Scale(a[0], a[1]), nil
	case "rotate":
		if err := arity(1, 3); err != nil {
			return Identity(), err
		}
		if len(a) == 1 {
			return RotateDegrees(a[0]), nil
		}
		return RotateAround(a[0], a[1], a[2]), nil
	case "skewX":
		if err := arity(1); err != nil {
			return Identity(), err
		}
		return SkewX(a[0]), nil
	case "skewY":
		if err := arity(1); err != nil {
			return Identity(), err
		}
		return SkewY(a[0]), nil
	default:
		return Identity(), fmt.Errorf("%w: unknown function %q", ErrBadTransform, fn)
	}
}

// ParseNumbers reads a comma and/or whitespace separated list of numbers,
// as found in transform arguments and viewBox attributes.
func ParseNumbers(s string) ([]float64, error) {
	b := []byte(s)
	var out []float64
	for {
		for len(b) > 0 && (b[0] == ' ' || b[0] == ',' || b[0] == '\t' || b[0] == '\n') {
			b = b[1:]
		}
		if len(b) == 0 {
			return out, nil
		}
		f, n := strconv.ParseFloat(b)
		if n == 0 {
			return nil, fmt.Errorf("bad number at %q", string(b))
		}
		out = append(out, f)
		b = b[n:]
	}
}

// String renders the matrix as an SVG transform function.
func (m Matrix2D) String() string {
	return fmt.Sprintf("matrix(%s %s %s %s %s %s)",
		FormatFloat(m[0]), FormatFloat(m[1]), FormatFloat(m[2]),
		FormatFloat(m[3]), FormatFloat(m[4]), FormatFloat(m[5]))
}
