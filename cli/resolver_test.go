package cli

import (
	"strings"
	"testing"

	"github.com/alecthomas/kong"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func resolveFlag(t *testing.T, r kong.Resolver, name string) any {
	t.Helper()

	v, err := r.Resolve(nil, nil, &kong.Flag{Value: &kong.Value{Name: name}})
	require.NoError(t, err)

	return v
}

func TestResolveYAML(t *testing.T) {
	r, err := resolveYAML(strings.NewReader(`
log-level: debug
log_format: text
log-pretty: false
`))
	require.NoError(t, err)

	assert.Equal(t, "debug", resolveFlag(t, r, "log-level"))
	assert.Equal(t, false, resolveFlag(t, r, "log-pretty"))

	// Underscore spellings resolve hyphenated flag names.
	assert.Equal(t, "text", resolveFlag(t, r, "log-format"))

	assert.Nil(t, resolveFlag(t, r, "unknown"))
}

func TestResolveYAMLNumbersAsStrings(t *testing.T) {
	r, err := resolveYAML(strings.NewReader("depth: 4\nratio: 0.5\n"))
	require.NoError(t, err)

	assert.Equal(t, "4", resolveFlag(t, r, "depth"))
	assert.Equal(t, "0.5", resolveFlag(t, r, "ratio"))
}

func TestResolveYAMLMalformedFileResolvesNothing(t *testing.T) {
	r, err := resolveYAML(strings.NewReader("log-level: {broken"))
	require.NoError(t, err)

	assert.Nil(t, resolveFlag(t, r, "log-level"))
}
