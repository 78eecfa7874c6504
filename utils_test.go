package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func Test_defaultIfEmpty(t *testing.T) {
	assert.Equal(t, "value", defaultIfEmpty("value", "fallback"))
	assert.Equal(t, "fallback", defaultIfEmpty("", "fallback"))
}

func Test_sortedKeys(t *testing.T) {
	assert.Equal(t, []string{"a", "b", "c"}, sortedKeys(map[string][]string{
		"c": nil, "a": nil, "b": nil,
	}))
}
