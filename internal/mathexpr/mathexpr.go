// Package mathexpr turns spoken arithmetic ("square root of 16", "2 to the
// power of 10") into an expression string, validates it against a character
// allow-list, and only then evaluates it. Nothing that fails validation ever
// reaches the evaluator.
package mathexpr

import (
	"errors"
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"

	"github.com/Knetic/govaluate"
)

// ErrUnsafe is returned by Translate when the substituted expression still
// contains tokens outside the allow-list.
var ErrUnsafe = errors.New("expression contains disallowed tokens")

// substitutions maps spoken phrases to expression syntax. Order matters:
// longer, more specific phrases come first so they are consumed before their
// substrings ("natural log of" before "log of", "cosine of" before "sine
// of"). Replacements are upper-case markers so an earlier replacement can
// never be re-matched by a later lower-case phrase; the whole string is
// folded back to lower case afterwards.
var substitutions = []struct{ phrase, repl string }{
	{"square root of", "SQRT("},
	{"sqrt", "SQRT("},
	{"to the power of", "**"},
	{"power", "**"},
	{"cosine of", "COS("},
	{"cos of", "COS("},
	{"sine of", "SIN("},
	{"sin of", "SIN("},
	{"tangent of", "TAN("},
	{"tan of", "TAN("},
	{"natural log of", "LN("},
	{"ln of", "LN("},
	{"log of", "LOG("},
	{"multiplied by", "*"},
	{"divided by", "/"},
	{"times", "*"},
	{"plus", "+"},
	{"minus", "-"},
	{"degrees", "*(180/PI)"},
	{"radians", "*(PI/180)"},
}

var (
	piWord    = regexp.MustCompile(`\bpi\b`)
	eWord     = regexp.MustCompile(`\be\b`)
	noiseWord = regexp.MustCompile(`\b(the|sum of|product of|equals)\b`)
	wordToken = regexp.MustCompile(`[a-z]+`)
)

var allowedWords = map[string]bool{
	"sqrt": true, "sin": true, "cos": true, "tan": true,
	"log": true, "ln": true, "pi": true, "e": true,
}

const allowedChars = "0123456789+-*/.() "

// Translate converts a spoken calculation request into an evaluable
// expression. The trigger words are stripped, the substitution table is
// applied in its fixed order, unmatched parentheses opened by function
// markers are closed, and the result is validated. The returned expression
// is safe to hand to Evaluate.
func Translate(utterance string) (string, error) {
	s := strings.ToLower(utterance)
	for _, trigger := range []string{"calculate", "what is", "what's"} {
		s = strings.ReplaceAll(s, trigger, "")
	}

	for _, sub := range substitutions {
		s = strings.ReplaceAll(s, sub.phrase, sub.repl)
	}
	s = piWord.ReplaceAllString(s, "PI")
	s = eWord.ReplaceAllString(s, "E")
	s = noiseWord.ReplaceAllString(s, "")
	s = strings.ToLower(s)

	if open, closed := strings.Count(s, "("), strings.Count(s, ")"); open > closed {
		s += strings.Repeat(")", open-closed)
	}
	s = strings.TrimSpace(s)

	if err := validate(s); err != nil {
		return "", err
	}
	return s, nil
}

// validate runs strictly after substitution and strictly before evaluation:
// every alphabetic token must be a known function or constant, every other
// character must be on the allow-list.
func validate(expr string) error {
	for _, w := range wordToken.FindAllString(expr, -1) {
		if !allowedWords[w] {
			return fmt.Errorf("%w: %q", ErrUnsafe, w)
		}
	}
	stripped := wordToken.ReplaceAllString(expr, "")
	for _, c := range stripped {
		if !strings.ContainsRune(allowedChars, c) {
			return fmt.Errorf("%w: %q", ErrUnsafe, string(c))
		}
	}
	return nil
}

func unary(f func(float64) float64) govaluate.ExpressionFunction {
	return func(args ...interface{}) (interface{}, error) {
		if len(args) != 1 {
			return nil, fmt.Errorf("want 1 argument, got %d", len(args))
		}
		x, ok := args[0].(float64)
		if !ok {
			return nil, fmt.Errorf("non-numeric argument %v", args[0])
		}
		return f(x), nil
	}
}

var functions = map[string]govaluate.ExpressionFunction{
	"sqrt": unary(math.Sqrt),
	"sin":  unary(math.Sin),
	"cos":  unary(math.Cos),
	"tan":  unary(math.Tan),
	"log":  unary(math.Log10),
	"ln":   unary(math.Log),
}

var constants = map[string]interface{}{
	"pi": math.Pi,
	"e":  math.E,
}

// Evaluate computes a translated expression. Callers must only pass strings
// produced by Translate.
func Evaluate(expr string) (float64, error) {
	ev, err := govaluate.NewEvaluableExpressionWithFunctions(expr, functions)
	if err != nil {
		return 0, fmt.Errorf("parse %q: %w", expr, err)
	}
	res, err := ev.Evaluate(constants)
	if err != nil {
		return 0, fmt.Errorf("evaluate %q: %w", expr, err)
	}
	v, ok := res.(float64)
	if !ok {
		return 0, fmt.Errorf("non-numeric result %v", res)
	}
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, fmt.Errorf("result of %q is not finite", expr)
	}
	return v, nil
}

// Format renders a result for speech. Values within 1e-10 of a whole number
// snap to the integer, everything else rounds to four decimals, and
// magnitudes outside [1e-6, 1e6] switch to scientific notation.
func Format(v float64) string {
	if math.Abs(v-math.Round(v)) < 1e-10 && math.Abs(v) < 1e15 {
		return strconv.FormatInt(int64(math.Round(v)), 10)
	}
	r := math.Round(v*1e4) / 1e4
	if a := math.Abs(r); a > 1e6 || (a < 1e-6 && a != 0) {
		return fmt.Sprintf("%.2e", r)
	}
	return strconv.FormatFloat(r, 'f', -1, 64)
}
