package collectors

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// --- Outcome Tests ---

func TestOutcomeAbsent(t *testing.T) {
	o := Absent[string]()

	assert.False(t, o.Applicable())
	v, err := o.Get()
	assert.Empty(t, v)
	assert.NoError(t, err)
}

func TestOutcomeFound(t *testing.T) {
	o := Found(42)

	require.True(t, o.Applicable())
	v, err := o.Get()
	require.NoError(t, err)
	assert.Equal(t, 42, v)
}

func TestOutcomeFailed(t *testing.T) {
	boom := errors.New("boom")
	o := Failed[int](boom)

	require.True(t, o.Applicable())
	assert.ErrorIs(t, o.Err(), boom)
}

func TestOutcomeFrom(t *testing.T) {
	ok := From("host", nil)
	assert.True(t, ok.Applicable())
	assert.NoError(t, ok.Err())

	boom := errors.New("boom")
	bad := From("", boom)
	assert.True(t, bad.Applicable())
	assert.ErrorIs(t, bad.Err(), boom)
}

// --- Env Tests ---

func TestMapEnv(t *testing.T) {
	env := MapEnv(map[string]string{"A": "1", "EMPTY": ""})

	assert.Equal(t, "1", env.Get("A"))
	assert.Equal(t, "", env.Get("MISSING"))
	assert.True(t, env.Has("EMPTY"))
	assert.False(t, env.Has("MISSING"))
}

func TestOSEnv(t *testing.T) {
	t.Setenv("PROMPT_LINE_TEST_VAR", "x")
	assert.Equal(t, "x", OSEnv().Get("PROMPT_LINE_TEST_VAR"))
}
