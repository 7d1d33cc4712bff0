// Package shellx helps to write shell-like Go code.
package shellx

import (
	"errors"
	"io"
	"io/fs"
	"os"
	"strings"

	"github.com/dockpick/dockpick/internal/model"
	"github.com/google/shlex"
	"golang.org/x/sys/execabs"
)

// Dependencies is the library on which this package depends.
type Dependencies interface {
	// CmdOutput is equivalent to calling c.Output.
	CmdOutput(c *execabs.Cmd) ([]byte, error)

	// CmdRun is equivalent to calling c.Run.
	CmdRun(c *execabs.Cmd) error

	// LookPath is equivalent to calling execabs.LookPath.
	LookPath(file string) (string, error)
}

// Library contains the default dependencies.
var Library Dependencies = &StdlibDependencies{}

// StdlibDependencies contains the stdlib implementation of the [Dependencies].
type StdlibDependencies struct{}

// CmdOutput implements [Dependencies].
func (*StdlibDependencies) CmdOutput(c *execabs.Cmd) ([]byte, error) {
	return c.Output()
}

// CmdRun implements [Dependencies].
func (*StdlibDependencies) CmdRun(c *execabs.Cmd) error {
	return c.Run()
}

// LookPath implements [Dependencies].
func (*StdlibDependencies) LookPath(file string) (string, error) {
	return execabs.LookPath(file)
}

// ErrNoCommandToExecute means that the command line is empty.
var ErrNoCommandToExecute = errors.New("shellx: no command to execute")

// Argv contains the complete argv.
type Argv struct {
	// P is the MANDATORY program to execute.
	P string

	// V contains the OPTIONAL arguments.
	V []string
}

// NewArgv creates a new [Argv] from the given command and arguments.
func NewArgv(command string, args ...string) (*Argv, error) {
	fullpath, err := Library.LookPath(command) // allows mocking
	if err != nil {
		return nil, err
	}
	return &Argv{P: fullpath, V: args}, nil
}

// ParseCommandLine creates an instance of [Argv] from the given command line.
func ParseCommandLine(cmdline string) (*Argv, error) {
	args, err := shlex.Split(cmdline)
	if err != nil {
		return nil, err
	}
	if len(args) < 1 {
		return nil, ErrNoCommandToExecute
	}
	return NewArgv(args[0], args[1:]...)
}

// cmd creates a new [execabs.Cmd] instance, logging the quoted command
// line when a logger is configured.
func cmd(logger model.Logger, argv *Argv) *execabs.Cmd {
	if logger != nil {
		logger.Infof("+ %s", quotedCommandLine(argv.P, argv.V...))
	}
	command := execabs.Command(argv.P, argv.V...)
	command.Env = os.Environ()
	return command
}

// run is the common implementation of [Run] and [RunQuiet].
func run(logger model.Logger, command string, args ...string) error {
	argv, err := NewArgv(command, args...)
	if err != nil {
		return err
	}
	c := cmd(logger, argv)
	if logger != nil {
		c.Stdout = os.Stdout
		c.Stderr = os.Stderr
	}
	return Library.CmdRun(c) // allows mocking
}

// RunQuiet runs the given command without emitting any output.
func RunQuiet(command string, args ...string) error {
	return run(nil, command, args...)
}

// Run is like [RunQuiet] except that it also logs the command to exec and
// connects the child's stdout and stderr to ours.
func Run(logger model.Logger, command string, args ...string) error {
	return run(logger, command, args...)
}

// OutputQuiet runs the given command and captures its standard output
// without emitting any other output.
func OutputQuiet(command string, args ...string) ([]byte, error) {
	argv, err := NewArgv(command, args...)
	if err != nil {
		return nil, err
	}
	return Library.CmdOutput(cmd(nil, argv)) // allows mocking
}

// RunCommandLine is like [Run] but takes a command line as argument.
func RunCommandLine(logger model.Logger, cmdline string) error {
	argv, err := ParseCommandLine(cmdline)
	if err != nil {
		return err
	}
	c := cmd(logger, argv)
	if logger != nil {
		c.Stdout = os.Stdout
		c.Stderr = os.Stderr
	}
	return Library.CmdRun(c)
}

// quotedCommandLine returns a quoted command line.
func quotedCommandLine(command string, args ...string) string {
	v := []string{}
	v = append(v, maybeQuoteArg(command))
	for _, a := range args {
		v = append(v, maybeQuoteArg(a))
	}
	return strings.Join(v, " ")
}

// maybeQuoteArg quotes a command line argument if needed.
func maybeQuoteArg(a string) string {
	if strings.Contains(a, "\"") {
		a = strings.ReplaceAll(a, "\"", "\\\"")
	}
	if strings.Contains(a, " ") {
		a = "\"" + a + "\""
	}
	return a
}

// CopyFile copies source to dest.
func CopyFile(source, dest string, perms fs.FileMode) error {
	sourcefp, err := os.Open(source)
	if err != nil {
		return err
	}
	defer sourcefp.Close()
	destfp, err := os.OpenFile(dest, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, perms)
	if err != nil {
		return err
	}
	if _, err := io.Copy(destfp, sourcefp); err != nil {
		destfp.Close()
		return err
	}
	return destfp.Close()
}
