// internal/numbers/numbers.go
//
// Spanish written forms for the integers 0–100.
//
// Name resolves in a fixed order: the base table first, then the
// "dieci" (16–19) and "veinti" (21–29) compounds, then "<tens> y <unit>".
// The order matters: 20, 30, … are caught by the table before the generic
// rule could produce "veinte y cero".

package numbers

const (
	Min = 0
	Max = 100
)

// base holds the atomic forms: 0–15, the exact tens and 100.
var base = map[int]string{
	0: "cero", 1: "uno", 2: "dos", 3: "tres", 4: "cuatro", 5: "cinco",
	6: "seis", 7: "siete", 8: "ocho", 9: "nueve", 10: "diez",
	11: "once", 12: "doce", 13: "trece", 14: "catorce", 15: "quince",
	20: "veinte", 30: "treinta", 40: "cuarenta", 50: "cincuenta",
	60: "sesenta", 70: "setenta", 80: "ochenta", 90: "noventa",
	100: "cien",
}

// Name returns the Spanish spelling of n. Callers must keep n within
// [Min, Max]; anything else is undefined.
func Name(n int) string {
	if s, ok := base[n]; ok {
		return s
	}
	if n < 20 {
		return "dieci" + base[n-10]
	}
	if n < 30 {
		return "veinti" + base[n-20]
	}
	tens, unit := n/10*10, n%10
	if unit == 0 {
		return base[tens]
	}
	return base[tens] + " y " + base[unit]
}

// InRange reports whether n can be passed to Name.
func InRange(n int) bool { return n >= Min && n <= Max }
