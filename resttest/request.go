package resttest

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
)

// NewRequest builds the HTTP request described by the scenario for the given method
// and path template. The returned request has a relative URL; the Target decides
// how to dispatch it.
func (s Scenario) NewRequest(method, path string) (*http.Request, error) {
	expandedPath, err := ExpandPath(path, s.PathParameters)
	if err != nil {
		return nil, err
	}

	body, isJSON, err := s.requestBodyBytes()
	if err != nil {
		return nil, err
	}
	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}

	req, err := http.NewRequest(strings.ToUpper(method), expandedPath, reader)
	if err != nil {
		return nil, fmt.Errorf("cannot build request for %s %s: %w", method, expandedPath, err)
	}
	req.URL.RawQuery = encodeQuery(s.QueryParameters)

	if isJSON {
		req.Header.Set("Content-Type", "application/json")
	}
	for name, value := range s.RequestHeaders {
		req.Header.Set(name, value)
	}
	return req, nil
}

// requestBodyBytes renders the scenario's request body. The second return value
// reports whether the body was produced by JSON marshaling, in which case the
// request gets a JSON Content-Type unless the scenario overrides it.
func (s Scenario) requestBodyBytes() ([]byte, bool, error) {
	switch body := s.RequestBody.(type) {
	case nil:
		return nil, false, nil
	case []byte:
		return body, false, nil
	case string:
		return []byte(body), false, nil
	case json.RawMessage:
		return body, true, nil
	default:
		data, err := json.Marshal(body)
		if err != nil {
			return nil, false, fmt.Errorf("cannot marshal request body to JSON: %w", err)
		}
		return data, true, nil
	}
}
