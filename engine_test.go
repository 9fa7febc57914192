package mathscript_test

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dekarrin/mathscript"
)

func Test_Engine_EvalsStatementsUntilQuit(t *testing.T) {
	in := strings.NewReader("x = 2\nx + 3\nquit\n")
	var out bytes.Buffer

	eng, err := mathscript.New(in, &out, true)
	require.NoError(t, err)
	defer eng.Close()

	require.NoError(t, eng.RunUntilQuit(nil))

	output := out.String()
	assert.Contains(t, output, "Goodbye")
}

func Test_Engine_StartStatementsRunFirst(t *testing.T) {
	in := strings.NewReader("quit\n")
	var out bytes.Buffer

	eng, err := mathscript.New(in, &out, true)
	require.NoError(t, err)
	defer eng.Close()

	require.NoError(t, eng.RunUntilQuit([]string{"1 + 1"}))

	assert.Contains(t, out.String(), "Goodbye")
}

func Test_Engine_HelpCommand(t *testing.T) {
	in := strings.NewReader("help\nquit\n")
	var out bytes.Buffer

	eng, err := mathscript.New(in, &out, true)
	require.NoError(t, err)
	defer eng.Close()

	require.NoError(t, eng.RunUntilQuit(nil))

	assert.Contains(t, out.String(), "Enter any expression")
}

func Test_Engine_ReportsEvalErrorsWithoutStopping(t *testing.T) {
	in := strings.NewReader("1 +\nquit\n")
	var out bytes.Buffer

	eng, err := mathscript.New(in, &out, true)
	require.NoError(t, err)
	defer eng.Close()

	require.NoError(t, eng.RunUntilQuit(nil))

	assert.Contains(t, out.String(), "error:")
	assert.Contains(t, out.String(), "Goodbye")
}
