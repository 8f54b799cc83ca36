package main

import (
	"flag"
	"fmt"
	"io"
	"regexp"
	"strings"
	"time"

	"github.com/alessio/shellescape"

	"github.com/restkit/rest-scenario-tests/framework"
)

const defaultWaitTimeout = time.Second * 10

type stringList []string

func (s *stringList) String() string { return strings.Join(*s, ", ") }

// Set is called by the command line parser
func (s *stringList) Set(value string) error {
	*s = append(*s, value)
	return nil
}

type commandParams struct {
	serviceURL  string
	resetURL    string
	suiteFiles  stringList
	filters     framework.RegexFilters
	waitTimeout time.Duration
	debug       bool
	debugAll    bool
}

func (c *commandParams) Read(args []string, errOutput io.Writer) bool {
	fs := flag.NewFlagSet(args[0], flag.ContinueOnError)
	fs.SetOutput(errOutput)
	fs.StringVar(&c.serviceURL, "url", "", "base URL of the service under test")
	fs.StringVar(&c.resetURL, "reset-url", "",
		"URL that receives a POST between scenarios to reset service state")
	fs.Var(&c.suiteFiles, "file", "path of a scenario suite file (can be repeated)")
	fs.Var(&c.filters.MustMatch, "run", "regex pattern(s) to select tests to run")
	fs.Var(&c.filters.MustNotMatch, "skip", "regex pattern(s) to select tests not to run")
	fs.DurationVar(&c.waitTimeout, "timeout", defaultWaitTimeout,
		"how long to wait for the service to become ready")
	fs.BoolVar(&c.debug, "debug", false, "enable debug logging for failed tests")
	fs.BoolVar(&c.debugAll, "debug-all", false, "enable debug logging for all tests")

	if err := fs.Parse(args[1:]); err != nil {
		return false
	}
	if c.serviceURL == "" {
		fmt.Fprintln(errOutput, "-url is required")
		fs.Usage()
		return false
	}
	if len(c.suiteFiles) == 0 {
		fmt.Fprintln(errOutput, "at least one -file is required")
		fs.Usage()
		return false
	}
	return true
}

// rerunCommand builds a copy-pasteable command line that reruns exactly one failed
// test with debug logging enabled.
func (c commandParams) rerunCommand(commandName string, id framework.TestID) string {
	var b commandBuilder
	b.add(commandName, "-url", c.serviceURL)
	for _, f := range c.suiteFiles {
		b.add("-file", f)
	}
	if c.resetURL != "" {
		b.add("-reset-url", c.resetURL)
	}
	b.add("-run", "^"+regexp.QuoteMeta(id.String())+"$", "-debug")
	return b.String()
}

type commandBuilder []string

func (b *commandBuilder) add(args ...string) {
	for _, a := range args {
		*b = append(*b, shellescape.Quote(a))
	}
}

func (b commandBuilder) String() string {
	return strings.Join(b, " ")
}
