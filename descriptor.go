package fqe

import (
	"fmt"
	"strconv"
	"strings"
)

const (
	// DescriptorPrefix is the scheme every connection string must start with.
	DescriptorPrefix = "fqe://"

	DefaultHost = "localhost"
	DefaultPort = 8080
)

// Descriptor is the parsed, immutable form of a connection string.
type Descriptor struct {
	Host    string
	Port    int
	Path    string
	Options map[string]string

	// optionKeys preserves the order options appeared in the raw string.
	optionKeys []string
}

// ParseDescriptor parses a connection string of the form
//
//	fqe://host[:port][/path][?key=value[&key=value...]]
//
// The host defaults to localhost and the port to 8080 when absent. A port
// segment that does not parse as a number also falls back to the default
// port rather than failing. Option pairs missing an = are dropped.
func ParseDescriptor(raw string) (*Descriptor, error) {
	if !strings.HasPrefix(raw, DescriptorPrefix) {
		return nil, fmt.Errorf("%w: %q must start with %q", ErrInvalidDescriptor, raw, DescriptorPrefix)
	}

	rest := raw[len(DescriptorPrefix):]

	d := &Descriptor{
		Host:    DefaultHost,
		Port:    DefaultPort,
		Options: map[string]string{},
	}

	address := rest
	if i := strings.Index(rest, "?"); i != -1 {
		address = rest[:i]
		d.parseOptions(rest[i+1:])
	}

	hostPort := address
	if i := strings.Index(address, "/"); i != -1 {
		hostPort = address[:i]
		d.Path = strings.TrimSuffix(address[i+1:], "/")
	}

	host := hostPort
	if i := strings.Index(hostPort, ":"); i != -1 {
		host = hostPort[:i]
		// An unparseable port is normalized to the default, not rejected.
		if port, err := strconv.Atoi(hostPort[i+1:]); err == nil {
			d.Port = port
		}
	}
	if host != "" {
		d.Host = host
	}

	return d, nil
}

func (d *Descriptor) parseOptions(query string) {
	for _, pair := range strings.Split(query, "&") {
		i := strings.Index(pair, "=")
		if i == -1 {
			continue
		}

		key := pair[:i]
		if _, ok := d.Options[key]; !ok {
			d.optionKeys = append(d.optionKeys, key)
		}
		d.Options[key] = pair[i+1:]
	}
}

func (d *Descriptor) setOption(key, value string) {
	if _, ok := d.Options[key]; !ok {
		d.optionKeys = append(d.optionKeys, key)
	}
	d.Options[key] = value
}

// Option returns the named option or the given fallback when unset.
func (d *Descriptor) Option(key, fallback string) string {
	if v, ok := d.Options[key]; ok {
		return v
	}
	return fallback
}

// OptionKeys returns option names in the order they first appeared.
func (d *Descriptor) OptionKeys() []string {
	keys := make([]string, len(d.optionKeys))
	copy(keys, d.optionKeys)
	return keys
}

// BaseURL computes the HTTP base URL for the descriptor. The ssl option
// selects https over http.
func (d *Descriptor) BaseURL() string {
	scheme := "http"
	if d.Option("ssl", "false") == "true" {
		scheme = "https"
	}

	url := fmt.Sprintf("%s://%s:%d", scheme, d.Host, d.Port)
	if d.Path != "" {
		url += "/" + d.Path
	}

	return url
}
