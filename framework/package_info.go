// Package framework contains the low-level test-running infrastructure used by the
// scenario test harness.
//
// The general model is:
//
// 1. There is a notion of a test context which is similar to Go's *testing.T,
// allowing pieces of test logic to be associated with a hierarchical test identifier
// and to accumulate success/failure results outside of the Go test runner.
//
// 2. Tests can be selected or excluded with regex filters on their identifiers.
//
// 3. Debug output produced during a test is captured per test, and handed to a
// TestLogger implementation which decides what to print and when.
//
// The domain-specific code that knows what is being tested (the scenario runner in
// the apitests package) is responsible for building the request/response logic and
// a domain-specific test API on top of the test context.
package framework
