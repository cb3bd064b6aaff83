package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestToLowerNoAccents(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "jose", ToLowerNoAccents("José"))
	assert.Equal(t, "sao paulo", ToLowerNoAccents("São Paulo"))
	assert.Equal(t, "ann", ToLowerNoAccents("ANN"))
}

func TestIsEmail(t *testing.T) {
	t.Parallel()

	assert.True(t, IsEmail("ann@example.com"))
	assert.False(t, IsEmail("Ann Smith"))
	assert.False(t, IsEmail("@example.com"))
	assert.False(t, IsEmail("ann@"))
}
