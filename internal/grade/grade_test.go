package grade

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValid(t *testing.T) {
	assert.True(t, Valid("sec_2"))
	assert.True(t, Valid("culture_ministry"))
	assert.False(t, Valid("SEC_2"))
	assert.False(t, Valid(""))
}

func TestLabel(t *testing.T) {
	assert.Equal(t, "الصف الثاني الثانوي", Label("sec_2"))
	assert.Equal(t, "unknown", Label("unknown"))
}

func TestAllIsACopy(t *testing.T) {
	all := All()
	assert.Len(t, all, 10)
	assert.Equal(t, "prep_1", all[0].Code)

	all[0].Code = "mutated"
	assert.Equal(t, "prep_1", All()[0].Code)
}
