package resttest

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/swaggest/assertjson"
)

// AssertScenarioSucceeds dispatches the scenario's request against the target and
// asserts the response against the scenario's expectations. The default assertions,
// if any, run after the declarative checks unless the scenario declares its own.
//
// It accepts a *testing.T, or the harness's own test context.
func AssertScenarioSucceeds(
	t TestingT,
	target Target,
	method, path string,
	scenario Scenario,
	defaultAssertions ...AssertionFunc,
) {
	req, err := scenario.NewRequest(method, path)
	require.NoError(t, err, "could not build request for scenario\n%s", scenario)

	resp, err := target.Do(req)
	require.NoError(t, err, "request dispatch failed for scenario\n%s", scenario)

	AssertResponse(t, scenario, resp, defaultAssertions...)
}

// AssertScenariosSucceed runs each scenario in its own subtest, resetting the
// target's state after every scenario so that scenarios stay independent.
func AssertScenariosSucceed(
	t *testing.T,
	target Target,
	method, path string,
	scenarios []Scenario,
	defaultAssertions ...AssertionFunc,
) {
	for i, scenario := range scenarios {
		scenario := scenario
		t.Run(scenario.DisplayName(i), func(t *testing.T) {
			defer func() {
				if err := ResetTarget(target); err != nil {
					t.Errorf("could not reset target state after scenario: %s", err)
				}
			}()
			AssertScenarioSucceeds(t, target, method, path, scenario, defaultAssertions...)
		})
	}
}

// AssertResponse asserts an already-captured response against the scenario's
// expectations: expected status, body shape, body contents, then the scenario's
// custom assertions (or the defaults, if the scenario has none).
func AssertResponse(t TestingT, scenario Scenario, resp Response, defaultAssertions ...AssertionFunc) {
	if scenario.ExpectedStatus.IsDefined() {
		assert.Equal(t, scenario.ExpectedStatus.IntValue(), resp.StatusCode,
			"unexpected response status (response body was: %s)", string(resp.Body))
	}

	if scenario.ExpectedBodyType != nil {
		if err := scenario.ExpectedBodyType.ValidateBody(resp.Body); err != nil {
			t.Errorf("response body failed validation: %s", err)
		}
	}

	assertExpectedBody(t, scenario.ExpectedBody, resp.Body)

	if scenario.Assertions != nil {
		scenario.Assertions(t, resp)
		return
	}
	for _, assertion := range defaultAssertions {
		assertion(t, resp)
	}
}

func assertExpectedBody(t TestingT, expected interface{}, actual []byte) {
	switch expectedBody := expected.(type) {
	case nil:
	case []byte:
		assert.Equal(t, expectedBody, actual, "response body did not match expected bytes")
	case string:
		assertjson.Equal(t, []byte(expectedBody), actual, "response body did not match")
	case json.RawMessage:
		assertjson.Equal(t, []byte(expectedBody), actual, "response body did not match")
	default:
		data, err := json.Marshal(expectedBody)
		if err != nil {
			t.Errorf("cannot marshal expected response body to JSON: %s", err)
			return
		}
		assertjson.Equal(t, data, actual, "response body did not match")
	}
}
