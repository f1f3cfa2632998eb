package random_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"moneywatch/internal/platform/random"
)

type fixed int

func (f fixed) IntN(n int) int {
	if int(f) >= n {
		return n - 1
	}
	return int(f)
}

func TestBetweenIncludesBothBounds(t *testing.T) {
	t.Parallel()
	assert.Equal(t, 5, random.Between(fixed(0), 5, 65))
	assert.Equal(t, 65, random.Between(fixed(1000), 5, 65))
	assert.Equal(t, 7, random.Between(fixed(3), 7, 7))
}

func TestBetweenGlobalStaysInRange(t *testing.T) {
	t.Parallel()
	for i := 0; i < 1000; i++ {
		v := random.Between(random.Global{}, 5, 65)
		assert.GreaterOrEqual(t, v, 5)
		assert.LessOrEqual(t, v, 65)
	}
}
