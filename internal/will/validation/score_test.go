package validation

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestErrorDeduction(t *testing.T) {
	prev := errorDeduction(0)
	assert.Equal(t, 0, prev)
	for n := 1; n <= 7; n++ {
		next := errorDeduction(n)
		assert.Greater(t, next, prev, "error %d must cost at least one point", n)
		prev = next
	}
	assert.Equal(t, errorPenaltyCap, errorDeduction(7))
	assert.Equal(t, errorPenaltyCap, errorDeduction(50))
	assert.LessOrEqual(t, errorPenaltyCap+warningPenaltyCap, missingFieldPenalty+int(mandatoryWeight)/mandatoryFields)
}
