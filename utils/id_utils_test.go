package utils

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewReferenceID(t *testing.T) {
	id := NewReferenceID("TKT")
	assert.True(t, strings.HasPrefix(id, "TKT-"))
	assert.Len(t, id, len("TKT-")+8)
	assert.Equal(t, strings.ToUpper(id), id)
}

func TestNewReferenceIDUnique(t *testing.T) {
	seen := map[string]bool{}
	for i := 0; i < 1000; i++ {
		id := NewPaymentID()
		assert.False(t, seen[id], "编号重复: %s", id)
		seen[id] = true
	}
}

func TestPrefixedGenerators(t *testing.T) {
	assert.True(t, strings.HasPrefix(NewPropertyID(), "PROP-"))
	assert.True(t, strings.HasPrefix(NewTicketID(), "TKT-"))
	assert.True(t, strings.HasPrefix(NewPaymentID(), "PAY-"))
	assert.True(t, strings.HasPrefix(NewDocumentID(), "DOC-"))
}
