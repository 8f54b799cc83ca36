package resttest

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
)

// Response is the captured form of an HTTP response, handed to custom assertions.
type Response struct {
	StatusCode int
	Header     http.Header
	Body       []byte
}

// DecodeJSONBody unmarshals the response body into target, rejecting fields that
// target's type does not declare.
func (r Response) DecodeJSONBody(target interface{}) error {
	dec := json.NewDecoder(bytes.NewReader(r.Body))
	dec.DisallowUnknownFields()
	if err := dec.Decode(target); err != nil {
		return fmt.Errorf("cannot decode response body: %w", err)
	}
	return nil
}
