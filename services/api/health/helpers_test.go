package health

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"
)

// topLevelKeys returns the keys of a JSON object in document order, skipping
// nested values.
func topLevelKeys(t *testing.T, dec *json.Decoder) []string {
	t.Helper()
	tok, err := dec.Token()
	require.NoError(t, err)
	require.Equal(t, json.Delim('{'), tok)

	var keys []string
	for dec.More() {
		tok, err := dec.Token()
		require.NoError(t, err)
		keys = append(keys, tok.(string))

		var skip json.RawMessage
		require.NoError(t, dec.Decode(&skip))
	}
	return keys
}
