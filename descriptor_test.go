package fqe

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseDescriptor(t *testing.T) {
	tests := []struct {
		raw  string
		host string
		port int
		path string
	}{
		{"fqe://", "localhost", 8080, ""},
		{"fqe://dbhost", "dbhost", 8080, ""},
		{"fqe://dbhost:9000", "dbhost", 9000, ""},
		{"fqe://dbhost:9000/query", "dbhost", 9000, "query"},
		{"fqe://dbhost/query", "dbhost", 8080, "query"},
		// A malformed port falls back to the default instead of failing.
		{"fqe://dbhost:notaport", "dbhost", 8080, ""},
		{"fqe://dbhost:", "dbhost", 8080, ""},
	}

	for _, test := range tests {
		d, err := ParseDescriptor(test.raw)
		assert.Nil(t, err, test.raw)
		assert.Equal(t, test.host, d.Host, test.raw)
		assert.Equal(t, test.port, d.Port, test.raw)
		assert.Equal(t, test.path, d.Path, test.raw)
	}
}

func TestParseDescriptorBadPrefix(t *testing.T) {
	for _, raw := range []string{"", "http://dbhost", "fqe:/dbhost", "jdbc:fqe://dbhost"} {
		_, err := ParseDescriptor(raw)
		assert.ErrorIs(t, err, ErrInvalidDescriptor, raw)
	}
}

func TestParseDescriptorOptions(t *testing.T) {
	d, err := ParseDescriptor("fqe://dbhost:9000?user=alice&password=secret&timeout=5&broken&ssl=true")
	assert.Nil(t, err)

	assert.Equal(t, "alice", d.Option("user", ""))
	assert.Equal(t, "secret", d.Option("password", ""))
	assert.Equal(t, "5", d.Option("timeout", ""))
	assert.Equal(t, "true", d.Option("ssl", ""))

	// Pairs missing = are dropped silently.
	_, ok := d.Options["broken"]
	assert.False(t, ok)

	assert.Equal(t, []string{"user", "password", "timeout", "ssl"}, d.OptionKeys())
}

func TestBaseURL(t *testing.T) {
	tests := []struct {
		raw string
		url string
	}{
		{"fqe://dbhost:9000", "http://dbhost:9000"},
		{"fqe://dbhost:9000?ssl=true", "https://dbhost:9000"},
		{"fqe://dbhost:9000/engine?ssl=false", "http://dbhost:9000/engine"},
		{"fqe://", "http://localhost:8080"},
	}

	for _, test := range tests {
		d, err := ParseDescriptor(test.raw)
		assert.Nil(t, err, test.raw)
		assert.Equal(t, test.url, d.BaseURL(), test.raw)
	}
}
