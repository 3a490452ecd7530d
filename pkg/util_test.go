package pkg_test

import (
	"testing"

	"github.com/fittrackr/assistant/pkg"

	"github.com/stretchr/testify/assert"
)

func TestBytesToString(t *testing.T) {
	assert.Equal(t, "salut", pkg.BytesToString([]byte("salut")))
	assert.Equal(t, "", pkg.BytesToString(nil))
}

func TestTrimmedOutput(t *testing.T) {
	assert.Equal(t, "abc123", pkg.TrimmedOutput([]byte("abc123\n")))
	assert.Equal(t, "abc 123", pkg.TrimmedOutput([]byte("  abc 123 \n")))
}
