// Package mathscript contains a CLI-driven engine for reading expressions
// from an input stream and evaluating them against a session until the user
// quits, mirroring the shape of the teacher's own top-level engine
// (dekarrin-tunaq's root engine.go) generalized from a turn-based game loop
// to a read-eval-print loop over expr/session.
package mathscript

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/dekarrin/rosed"

	"github.com/dekarrin/mathscript/host"
	"github.com/dekarrin/mathscript/host/stdhost"
	"github.com/dekarrin/mathscript/internal/input"
	"github.com/dekarrin/mathscript/session"
)

const consoleOutputWidth = 80

// commandReader is the minimal surface Engine needs from an input source.
// internal/input's DirectCommandReader and InteractiveCommandReader both
// satisfy it structurally, the same duck-typed relationship the teacher's
// engine.go has with its own command.Reader.
type commandReader interface {
	ReadCommand() (string, error)
	AllowBlank(bool)
	Close() error
}

// Engine runs an interactive read-eval-print loop over a single session,
// attached to an input stream and an output stream.
type Engine struct {
	sess        *session.Session
	in          commandReader
	out         *bufio.Writer
	forceDirect bool
	running     bool
}

// New creates a new Engine ready to operate on the given input and output
// streams, backed by the default stdhost.Host.
//
// If nil is given for the input stream, a reader is opened on stdin. If nil
// is given for the output stream, a buffered writer is opened on stdout.
func New(inputStream io.Reader, outputStream io.Writer, forceDirectInput bool) (*Engine, error) {
	if inputStream == nil {
		inputStream = os.Stdin
	}
	if outputStream == nil {
		outputStream = os.Stdout
	}

	sess, err := session.New(stdhost.New())
	if err != nil {
		return nil, fmt.Errorf("initializing session: %w", err)
	}

	eng := &Engine{
		sess:        sess,
		out:         bufio.NewWriter(outputStream),
		forceDirect: forceDirectInput,
	}

	useReadline := !forceDirectInput && inputStream == os.Stdin && outputStream == os.Stdout
	if useReadline {
		eng.in, err = input.NewInteractiveReader()
		if err != nil {
			return nil, fmt.Errorf("initializing interactive-mode input reader: %w", err)
		}
	} else {
		eng.in = input.NewDirectReader(inputStream)
	}

	return eng, nil
}

// Close closes all resources associated with the Engine, including any
// readline-related resources created for interactive mode.
func (eng *Engine) Close() error {
	if eng.running {
		return fmt.Errorf("cannot close a running engine")
	}
	if err := eng.in.Close(); err != nil {
		return fmt.Errorf("close command reader: %w", err)
	}
	return nil
}

func (eng *Engine) writeLine(format string, a ...interface{}) error {
	if _, err := eng.out.WriteString(fmt.Sprintf(format, a...)); err != nil {
		return fmt.Errorf("could not write output: %w", err)
	}
	return eng.out.Flush()
}

// RunUntilQuit begins reading statements from the input stream and
// evaluating them against the session until "quit" or "exit" is entered, or
// the input stream reaches EOF. startStatements, if given, are evaluated
// immediately before the loop begins, as though the user had typed them
// first.
func (eng *Engine) RunUntilQuit(startStatements []string) error {
	intro := "mathscript interactive session\n"
	if eng.forceDirect {
		intro += "(direct input mode)\n"
	}
	intro += "===============================\n"
	if err := eng.writeLine(intro); err != nil {
		return err
	}

	eng.running = true
	defer func() { eng.running = false }()

	for _, stmt := range startStatements {
		if !eng.evalAndPrint(stmt) {
			break
		}
	}

	eng.in.AllowBlank(false)
	for eng.running {
		line, err := eng.in.ReadCommand()
		if err != nil {
			if err == io.EOF {
				break
			}
			return fmt.Errorf("read input: %w", err)
		}

		trimmed := strings.TrimSpace(line)
		if trimmed == "quit" || trimmed == "exit" {
			break
		}
		if trimmed == "help" {
			if err := eng.writeLine("%s\n", helpText()); err != nil {
				break
			}
			continue
		}

		if !eng.evalAndPrint(line) {
			break
		}
	}

	return eng.writeLine("Goodbye\n")
}

// evalAndPrint evaluates one statement and prints its result or error. It
// returns false if a write to the output stream failed, signaling the loop
// to stop.
func (eng *Engine) evalAndPrint(stmt string) bool {
	result, err := eng.sess.Eval(stmt)
	if err != nil {
		wrapped := rosed.Edit("error: " + err.Error()).Wrap(consoleOutputWidth).String()
		return eng.writeLine("%s\n", wrapped) == nil
	}
	return eng.writeLine("%s\n", formatResult(result)) == nil
}

// helpText is the body of the "help" REPL command. It is reflowed through
// rosed the same way evalAndPrint wraps error text, so both of the REPL's
// free-form text paths go through the same line-wrapping library instead of
// one of them being hand-wrapped and the other not.
func helpText() string {
	body := "Enter any expression to evaluate it against the current session. " +
		"Variables assigned in one statement stay bound for the rest of the " +
		"session. Unit conversions are written as \"value to unit\", for " +
		"example \"12 to inches\". Type \"quit\" or \"exit\" to leave."
	return rosed.Edit(body).Wrap(consoleOutputWidth).String()
}

func formatResult(v host.Value) string {
	if v == nil {
		return ""
	}
	if s, ok := v.(fmt.Stringer); ok {
		return s.String()
	}
	return fmt.Sprintf("%v", v)
}
