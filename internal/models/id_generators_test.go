package models

import (
	"testing"

	"github.com/oklog/ulid/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestULIDGenerator(t *testing.T) {
	generator := ULIDGenerator{}

	id, err := generator.ID()

	require.NoError(t, err)
	assert.NotEmpty(t, id)
	_, err = ulid.ParseStrict(id)
	assert.NoError(t, err)

	other, err := generator.ID()
	require.NoError(t, err)
	assert.NotEqual(t, id, other)
}
