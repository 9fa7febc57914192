package session_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dekarrin/mathscript/host/stdhost"
	"github.com/dekarrin/mathscript/session"
)

func Test_Session_EvalAccumulatesHistory(t *testing.T) {
	h := stdhost.New()
	s, err := session.New(h)
	require.NoError(t, err)

	_, err = s.Eval("x = 5")
	require.NoError(t, err)
	_, err = s.Eval("y = x + 1")
	require.NoError(t, err)

	assert.Equal(t, []string{"x = 5", "y = x + 1"}, s.History())

	v, ok := s.Scope().Get("y")
	require.True(t, ok)
	assert.Equal(t, stdhost.Number(6), v)
}

func Test_Session_EvalFailureNotRecorded(t *testing.T) {
	h := stdhost.New()
	s, err := session.New(h)
	require.NoError(t, err)

	_, err = s.Eval("x = 1")
	require.NoError(t, err)
	_, err = s.Eval("z + 1")
	require.Error(t, err)

	assert.Equal(t, []string{"x = 1"}, s.History())
}

func Test_Restore_replaysHistory(t *testing.T) {
	h := stdhost.New()
	orig, err := session.New(h)
	require.NoError(t, err)
	_, err = orig.Eval("x = 5")
	require.NoError(t, err)
	_, err = orig.Eval("y = x * 2")
	require.NoError(t, err)

	restored, err := session.Restore(h, orig.ID, orig.Created, orig.History())
	require.NoError(t, err)

	v, ok := restored.Scope().Get("y")
	require.True(t, ok)
	assert.Equal(t, stdhost.Number(10), v)
}
