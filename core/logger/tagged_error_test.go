package logger

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestWithTag(t *testing.T) {
	base := errors.New("connection refused")
	err := WithTag("connector", base)

	assert.Equal(t, "connection refused", err.Error())
	assert.ErrorIs(t, err, base)
	assert.Equal(t, "connector", ErrorTag(err))
	assert.Equal(t, "connector", ErrorTag(fmt.Errorf("outer: %w", err)))
	assert.Nil(t, WithTag("connector", nil))
}

func TestErrorf(t *testing.T) {
	base := errors.New("no such file")
	err := Errorf("validate", "invalid validate path %q: %w", "x.yaml", base)

	assert.Equal(t, `invalid validate path "x.yaml": no such file`, err.Error())
	assert.ErrorIs(t, err, base)
	assert.Equal(t, "validate", ErrorTag(err))
}

func TestErrorTag_Untagged(t *testing.T) {
	assert.Empty(t, ErrorTag(errors.New("plain")))
	assert.Empty(t, ErrorTag(nil))

	var nilTagged *TaggedError
	assert.Empty(t, nilTagged.Error())
	assert.Empty(t, nilTagged.Tag())
	assert.Nil(t, nilTagged.Unwrap())
}
