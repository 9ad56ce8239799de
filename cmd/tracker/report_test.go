package main

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestShortID(t *testing.T) {
	assert.Equal(t, "0f8fad5b", shortID("0f8fad5b-d9cb-469f-a165-70867728950e"))
	assert.Equal(t, "abc", shortID("abc"))
}

func TestPrintNumbers(t *testing.T) {
	var buf bytes.Buffer
	printNumbers(&buf, []string{"400100", "500001"}, map[string]int{"400100": 95})

	out := buf.String()
	assert.Contains(t, out, "400100")
	assert.Contains(t, out, "95 days")
	assert.Contains(t, out, "500001")

	buf.Reset()
	printNumbers(&buf, nil, nil)
	assert.Contains(t, buf.String(), "none")
}
