package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsHTTPURL(t *testing.T) {
	testCases := []struct {
		raw      string
		expected bool
	}{
		{"http://example.com/list.m3u", true},
		{"https://example.com/epg.xml", true},
		{"ftp://example.com/list.m3u", false},
		{"example.com/list.m3u", false},
		{"http://", false},
		{"", false},
	}

	for _, tc := range testCases {
		assert.Equal(t, tc.expected, IsHTTPURL(tc.raw), tc.raw)
	}
}

func TestCalculateChecksum(t *testing.T) {
	a := CalculateChecksum([]byte("lineup"))
	assert.Len(t, a, 56)
	assert.Equal(t, a, CalculateChecksum([]byte("lineup")))
	assert.NotEqual(t, a, CalculateChecksum([]byte("lineup2")))
}
