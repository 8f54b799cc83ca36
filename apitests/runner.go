// Package apitests runs scenario suites inside the standalone harness, outside of
// the Go test runner. It provides a test context type T that plays the role of
// testing.T, built on the framework package, and delegates the per-scenario
// request/assertion logic to the resttest package.
package apitests

import (
	"github.com/restkit/rest-scenario-tests/framework"
	"github.com/restkit/rest-scenario-tests/resttest"
	"github.com/restkit/rest-scenario-tests/suitefile"
)

// T represents a test or subtest in a suite run.
//
// It implements the same basic functionality as Go's testing.T, but in an
// environment that is outside of the Go test runner, with extra features such as
// per-test debug logging. To make assertions, pass the *T to the testify assert
// and require packages as if it were a *testing.T; the resttest helpers do the
// same internally.
type T struct {
	context *framework.Context
	target  resttest.Target
}

// Errorf is called by assertions to log a test failure. It does not cause an
// immediate exit.
func (t *T) Errorf(format string, args ...interface{}) {
	t.context.Errorf(format, args...)
}

// FailNow is called by assertions when a test should fail and immediately exit.
// The methods in the require package call FailNow.
func (t *T) FailNow() {
	t.context.FailNow()
}

// Run runs a subtest. This is equivalent to the Run method of testing.T.
func (t *T) Run(name string, action func(*T)) {
	t.context.Run(name, func(c *framework.Context) {
		action(&T{context: c, target: t.target})
	})
}

// Debug logs some debug output for the test. The output is captured and passed to
// the test logger when the test ends.
func (t *T) Debug(format string, args ...interface{}) {
	t.context.Debug(format, args...)
}

// DebugLogger returns a logger that writes to this test's captured debug output.
func (t *T) DebugLogger() framework.Logger {
	return t.context.DebugLogger()
}

// Target returns the target the suites are running against.
func (t *T) Target() resttest.Target {
	return t.target
}

// RunSuites runs every suite against the target, one subtest per suite, per
// endpoint, and per scenario, resetting the target's state after each scenario.
func RunSuites(
	target resttest.Target,
	suites []suitefile.Suite,
	filter framework.Filter,
	testLogger framework.TestLogger,
) framework.Results {
	return framework.Run(filter, testLogger, func(c *framework.Context) {
		t := &T{context: c, target: target}
		for _, suite := range suites {
			suite := suite
			t.Run(suite.Name, func(t *T) {
				runSuite(t, suite)
			})
		}
	})
}

func runSuite(t *T, suite suitefile.Suite) {
	for _, endpoint := range suite.Endpoints {
		endpoint := endpoint
		t.Run(endpoint.Method+" "+endpoint.Path, func(t *T) {
			runEndpoint(t, endpoint)
		})
	}
}

func runEndpoint(t *T, endpoint suitefile.Endpoint) {
	for i, scenario := range endpoint.Scenarios {
		scenario := scenario
		t.Run(scenario.DisplayName(i), func(t *T) {
			defer func() {
				if err := resttest.ResetTarget(t.target); err != nil {
					t.Errorf("could not reset target state after scenario: %s", err)
				}
			}()
			t.Debug("dispatching scenario:\n%s", scenario)
			resttest.AssertScenarioSucceeds(t, t.target, endpoint.Method, endpoint.Path, scenario)
		})
	}
}
