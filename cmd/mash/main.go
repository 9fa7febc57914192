/*
Mash starts an interactive mathscript session.

It reads expressions from stdin and prints the result of evaluating each one
against a shared session, until "quit" or "exit" is entered or the input
stream reaches EOF.

Usage:

	mash [flags]

The flags are:

	-v, --version
		Give the current version of mathscript and then exit.

	-d, --direct
		Force reading directly from the console as opposed to using GNU
		readline based routines for reading input, even if launched in a
		tty with stdin and stdout.

	-c, --command STATEMENTS
		Immediately evaluate the given statement(s) at start. Can be
		multiple statements separated by the ";" character.
*/
package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/dekarrin/mathscript"
	"github.com/dekarrin/mathscript/internal/version"
	"github.com/spf13/pflag"
)

const (
	ExitSuccess = iota
	ExitEngineError
	ExitInitError
)

var (
	returnCode   = ExitSuccess
	flagVersion  = pflag.BoolP("version", "v", false, "Gives the version info")
	forceDirect  = pflag.BoolP("direct", "d", false, "Force reading directly from stdin instead of going through GNU readline where possible")
	startCommand = pflag.StringP("command", "c", "", "Evaluate the given statements immediately at start and leave the session open")
)

func main() {
	defer func() {
		if panicErr := recover(); panicErr != nil {
			panic(fmt.Sprintf("unrecoverable panic occurred: %v", panicErr))
		} else {
			os.Exit(returnCode)
		}
	}()

	pflag.Parse()

	if *flagVersion {
		fmt.Printf("%s\n", version.Current)
		return
	}

	var startStatements []string
	if *startCommand != "" {
		startStatements = strings.Split(*startCommand, ";")
	}

	eng, err := mathscript.New(os.Stdin, os.Stdout, *forceDirect)
	if err != nil {
		fmt.Fprintf(os.Stderr, "ERROR: %s\n", err.Error())
		returnCode = ExitInitError
		return
	}
	defer eng.Close()

	if err := eng.RunUntilQuit(startStatements); err != nil {
		fmt.Fprintf(os.Stderr, "ERROR: %s\n", err.Error())
		returnCode = ExitEngineError
		return
	}
}
