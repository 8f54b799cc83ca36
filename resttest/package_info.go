// Package resttest implements declarative scenario-based testing of RESTful endpoints.
//
// A test author declares, for one HTTP method and path template, a list of Scenario
// values describing the request to send (path/query parameters, body, headers) and
// the expected response (status, body, body shape). The assertion helpers dispatch
// each scenario against a Target — either an in-process http.Handler or a remote
// base URL — and verify the response.
//
// From an ordinary Go test:
//
//	func TestDepartmentAPI(t *testing.T) {
//		target := resttest.NewHandlerTarget(newTestRouter())
//		resttest.AssertScenariosSucceed(t, target, "GET", "/api/departments/{id}",
//			[]resttest.Scenario{
//				{
//					PathParameters: map[string]interface{}{"id": 1},
//					RequestHeaders: map[string]string{"Authorization": "Bearer 123"},
//					ExpectedStatus: ldvalue.NewOptionalInt(200),
//					ExpectedBody:   `{"id": 1, "title": "department-1"}`,
//				},
//				{
//					PathParameters: map[string]interface{}{"id": 2},
//					ExpectedStatus: ldvalue.NewOptionalInt(404),
//				},
//			})
//	}
//
// Each scenario runs in its own subtest, and the target's state-reset hook (if any)
// runs between scenarios so that scenarios stay independent.
//
// The same Scenario type is used by the standalone harness (see the apitests and
// suitefile packages), which loads scenarios from YAML files and runs them against
// a live service.
package resttest
