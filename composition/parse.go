package composition

import (
	"fmt"
	"strconv"
)

// Parse reads a chemical formula such as "Fe2O3", "NaCl" or "Na0.5Cl0.5".
// A missing amount means 1, repeated symbols are summed and whitespace
// between terms is ignored. Groups in parentheses are not supported.
//
// Parse(c.String()) reproduces c within the String precision.
//
// Errors:
//   - ErrMalformed for unexpected characters or unreadable amounts.
//   - ErrUnknownElement, ErrEmpty as in New.
func Parse(formula string) (Composition, error) {
	var amounts []Amount
	for i := 0; i < len(formula); {
		ch := formula[i]
		if ch == ' ' || ch == '\t' {
			i++
			continue
		}
		if ch < 'A' || ch > 'Z' {
			return Composition{}, fmt.Errorf("%w: %q at offset %d", ErrMalformed, formula, i)
		}

		// Symbol: one capital followed by lowercase letters.
		j := i + 1
		for j < len(formula) && formula[j] >= 'a' && formula[j] <= 'z' {
			j++
		}
		e, err := Lookup(formula[i:j])
		if err != nil {
			return Composition{}, err
		}

		// Amount: digits with an optional fraction and exponent.
		k := scanNumber(formula, j)
		v := 1.0
		if k > j {
			if v, err = strconv.ParseFloat(formula[j:k], 64); err != nil {
				return Composition{}, fmt.Errorf("%w: %q: %w", ErrMalformed, formula, err)
			}
		}
		amounts = append(amounts, Amount{Element: e, Value: v})
		i = k
	}

	return New(amounts...)
}

// MustParse is Parse for literals known to be valid; it panics on error.
func MustParse(formula string) Composition {
	c, err := Parse(formula)
	if err != nil {
		panic(err)
	}

	return c
}

// scanNumber returns the end of the number starting at s[i], or i when
// there is none.
func scanNumber(s string, i int) int {
	j := i
	for j < len(s) && (isDigit(s[j]) || s[j] == '.') {
		j++
	}
	if j == i {
		return i
	}
	if j < len(s) && (s[j] == 'e' || s[j] == 'E') {
		k := j + 1
		if k < len(s) && (s[k] == '+' || s[k] == '-') {
			k++
		}
		if k < len(s) && isDigit(s[k]) {
			for k < len(s) && isDigit(s[k]) {
				k++
			}
			j = k
		}
	}

	return j
}

func isDigit(b byte) bool { return b >= '0' && b <= '9' }
