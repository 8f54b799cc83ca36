package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/fatih/color"

	"github.com/restkit/rest-scenario-tests/framework"
)

var (
	failColor = color.New(color.FgRed, color.Bold)
	passColor = color.New(color.FgGreen)
	skipColor = color.New(color.FgYellow)
)

// ConsoleTestLogger prints test progress to standard output as the suite runs.
type ConsoleTestLogger struct {
	DebugOutputOnFailure bool
	DebugOutputOnSuccess bool
}

func (c *ConsoleTestLogger) TestStarted(id framework.TestID) {
	fmt.Printf("[%s]\n", id)
}

func (c *ConsoleTestLogger) TestError(id framework.TestID, err error) {
	for _, line := range strings.Split(err.Error(), "\n") {
		fmt.Printf("  %s\n", line)
	}
}

func (c *ConsoleTestLogger) TestFinished(id framework.TestID, failed bool, debugOutput framework.CapturedOutput) {
	if failed {
		failColor.Printf("  FAILED: %s\n", id)
	}
	if len(debugOutput) > 0 &&
		((failed && c.DebugOutputOnFailure) || (!failed && c.DebugOutputOnSuccess)) {
		debugOutput.Dump(os.Stdout, "    DEBUG ")
	}
}

func (c *ConsoleTestLogger) TestSkipped(id framework.TestID, reason string) {
	if reason == "" {
		skipColor.Printf("  SKIPPED: %s\n", id)
	} else {
		skipColor.Printf("  SKIPPED: %s (%s)\n", id, reason)
	}
}

// printResults prints the end-of-run summary, with a rerun hint for every failure.
func printResults(results framework.Results, params commandParams, commandName string) {
	fmt.Println()
	if results.OK() {
		passColor.Printf("All tests passed (%d)\n", len(results.Tests))
		return
	}
	failColor.Printf("%d of %d tests failed:\n", len(results.Failures), len(results.Tests))
	for _, failure := range results.Failures {
		fmt.Printf("  %s\n", failure.TestID)
		fmt.Printf("    rerun: %s\n", params.rerunCommand(commandName, failure.TestID))
	}
}
