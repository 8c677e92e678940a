package parser

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalize(t *testing.T) {
	assert.Equal(t, "T0TAL ₹325.00", Normalize("total  $325.00"))
	assert.Equal(t, "CG0T @2.5% 7.50", Normalize("cgst @2.5%   7.50"))
	assert.Equal(t, "D00AI", Normalize("Dosai"))
	assert.Equal(t, "8HAVAN", Normalize("Bhavan"))
	assert.Equal(t, "", Normalize("   \n\t  "))
}

func TestNormalizeFoldsCurrencyVariants(t *testing.T) {
	assert.Equal(t, "₹100", Normalize("₹100"))
	assert.Equal(t, "₹100", Normalize("$100"))
}

func TestNormalizeKeepsLineBreaks(t *testing.T) {
	text := Normalize("Idli   60.00\nDosai\t240.00")
	assert.Equal(t, "IDLI 60.00\nD00AI 240.00", text)
}

func TestSplitLines(t *testing.T) {
	lines := splitLines("A\n\n  B  \r\nC")
	assert.Equal(t, []string{"A", "B", "C"}, lines)
	assert.Empty(t, splitLines(""))
}
