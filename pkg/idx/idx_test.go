package idx_test

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/aussiebroadwan/credgate/pkg/idx"
	"github.com/stretchr/testify/require"
)

func TestNewAndParse(t *testing.T) {
	id := idx.New()
	require.False(t, id.IsZero())

	parsed, err := idx.Parse(id.String())
	require.NoError(t, err)
	require.Equal(t, id, parsed)
}

func TestParseRejectsGarbage(t *testing.T) {
	for _, in := range []string{"", "   ", "not-a-ulid", "01HQ7T3Z1MZ0JQ3M6MZQ1FQ3Z"} {
		_, err := idx.Parse(in)
		require.ErrorIs(t, err, idx.ErrInvalid, "input %q", in)
	}
}

func TestNewIsMonotonic(t *testing.T) {
	tm := time.Unix(1700000000, 0).UTC()
	a := idx.NewAt(tm)
	b := idx.NewAt(tm)

	// Same millisecond, the monotonic source still orders them
	require.Less(t, a.String(), b.String())
	require.WithinDuration(t, tm, a.Time(), time.Millisecond)
}

func TestExternalID(t *testing.T) {
	t.Parallel()

	t.Run("numeric ids stay numeric", func(t *testing.T) {
		var id idx.ExternalID
		require.NoError(t, json.Unmarshal([]byte(`42`), &id))
		require.True(t, id.Numeric())
		require.Equal(t, "42", id.String())

		out, err := json.Marshal(id)
		require.NoError(t, err)
		require.JSONEq(t, `42`, string(out))
	})

	t.Run("string ids stay strings", func(t *testing.T) {
		var id idx.ExternalID
		require.NoError(t, json.Unmarshal([]byte(`"64f1c2"`), &id))
		require.False(t, id.Numeric())

		out, err := json.Marshal(id)
		require.NoError(t, err)
		require.JSONEq(t, `"64f1c2"`, string(out))
	})

	t.Run("null is zero", func(t *testing.T) {
		var id idx.ExternalID
		require.NoError(t, json.Unmarshal([]byte(`null`), &id))
		require.True(t, id.IsZero())
	})

	t.Run("objects are rejected", func(t *testing.T) {
		var id idx.ExternalID
		require.ErrorIs(t, json.Unmarshal([]byte(`{"a":1}`), &id), idx.ErrInvalidExternal)
	})
}
