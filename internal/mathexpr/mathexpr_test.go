package mathexpr

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func evaluated(t *testing.T, utterance string) string {
	t.Helper()
	expr, err := Translate(utterance)
	require.NoError(t, err, "translate %q", utterance)
	v, err := Evaluate(expr)
	require.NoError(t, err, "evaluate %q", expr)
	return Format(v)
}

func TestCalculateBasics(t *testing.T) {
	assert.Equal(t, "8", evaluated(t, "calculate 5 plus 3"))
	assert.Equal(t, "2", evaluated(t, "calculate 5 minus 3"))
	assert.Equal(t, "48", evaluated(t, "calculate 12 times 4"))
	assert.Equal(t, "2.5", evaluated(t, "calculate 10 divided by 4"))
	assert.Equal(t, "8", evaluated(t, "what's 5 plus 3"))
}

func TestCalculateSquareRootSnapsToWholeNumber(t *testing.T) {
	// 4, not 4.0 or 3.9999999999
	assert.Equal(t, "4", evaluated(t, "calculate square root of 16"))
}

func TestCalculatePower(t *testing.T) {
	assert.Equal(t, "1024", evaluated(t, "calculate 2 to the power of 10"))
}

func TestCalculateFunctionsAndConstants(t *testing.T) {
	assert.Equal(t, "0", evaluated(t, "calculate sin of 0"))
	assert.Equal(t, "1", evaluated(t, "calculate natural log of e"))
	assert.Equal(t, "2", evaluated(t, "calculate log of 100"))
	assert.Equal(t, "6.2832", evaluated(t, "calculate 2 times pi"))
}

func TestTranslateClosesFunctionParens(t *testing.T) {
	expr, err := Translate("calculate square root of 16")
	require.NoError(t, err)
	assert.Equal(t, countRune(expr, '('), countRune(expr, ')'))
}

func countRune(s string, r rune) int {
	n := 0
	for _, c := range s {
		if c == r {
			n++
		}
	}
	return n
}

func TestTranslateSubstitutionOrder(t *testing.T) {
	// "natural log of" must be consumed before "log of" gets a chance.
	expr, err := Translate("calculate natural log of 10")
	require.NoError(t, err)
	assert.Contains(t, expr, "ln(")
	assert.NotContains(t, expr, "log(")

	// "cosine of" must be consumed before "sine of".
	expr, err = Translate("calculate cosine of 0")
	require.NoError(t, err)
	assert.Contains(t, expr, "cos(")
	assert.NotContains(t, expr, "sin(")
}

func TestTranslateRejectsUnknownTokens(t *testing.T) {
	_, err := Translate("calculate launch the missiles")
	assert.ErrorIs(t, err, ErrUnsafe)

	_, err = Translate("calculate 2 ; 2")
	assert.ErrorIs(t, err, ErrUnsafe)
}

func TestEvaluateRejectsNonFinite(t *testing.T) {
	_, err := Evaluate("1/0")
	assert.Error(t, err)
}

func TestFormat(t *testing.T) {
	assert.Equal(t, "4", Format(4.0))
	assert.Equal(t, "4", Format(3.99999999999999))
	assert.Equal(t, "0.5", Format(0.5))
	assert.Equal(t, "3.1416", Format(3.14159265), "rounded to four decimals")
	assert.Equal(t, "2.50e+06", Format(2500000.5), "large magnitudes go scientific")
}
