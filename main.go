// Command rest-scenario-tests runs declarative REST endpoint scenarios, loaded from
// YAML suite files, against a live service.
//
//	rest-scenario-tests -url http://localhost:8000 -file suites/departments.yaml
package main

import (
	"fmt"
	"log"
	"os"

	"github.com/restkit/rest-scenario-tests/apitests"
	"github.com/restkit/rest-scenario-tests/framework"
	"github.com/restkit/rest-scenario-tests/resttest"
	"github.com/restkit/rest-scenario-tests/suitefile"
)

func main() {
	var params commandParams
	if !params.Read(os.Args, os.Stderr) {
		os.Exit(1)
	}

	mainDebugLogger := framework.NullLogger()
	if params.debugAll {
		mainDebugLogger = framework.LoggerWithPrefix(log.New(os.Stdout, "", log.LstdFlags), "[harness] ")
	}

	suites, err := suitefile.LoadAll(params.suiteFiles)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Cannot load suite file: %s\n", err)
		os.Exit(1)
	}
	for _, suite := range suites {
		mainDebugLogger.Printf("loaded suite %q with %d endpoint(s)", suite.Name, len(suite.Endpoints))
	}

	target := &resttest.RemoteTarget{
		BaseURL:  params.serviceURL,
		ResetURL: params.resetURL,
	}
	if err := target.WaitUntilReady(params.waitTimeout, os.Stdout); err != nil {
		fmt.Fprintf(os.Stderr, "Test target error: %s\n", err)
		os.Exit(1)
	}

	fmt.Println()
	framework.PrintFilterDescription(params.filters)

	fmt.Println("Running test suite")

	testLogger := &ConsoleTestLogger{
		DebugOutputOnFailure: params.debug || params.debugAll,
		DebugOutputOnSuccess: params.debugAll,
	}

	results := apitests.RunSuites(target, suites, params.filters.AsFilter, testLogger)

	printResults(results, params, os.Args[0])
	if !results.OK() {
		os.Exit(1)
	}
}
