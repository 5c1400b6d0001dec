// Package testhelpers provides a small HTTP mock transport for exercising
// outbound API clients without a network.
package testhelpers

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"sync"
)

type Expectation struct {
	Method string
	Path   string

	StatusCode int
	RespBody   []byte
	Headers    http.Header

	// ReqBody records the body of the request that matched, for
	// assertions on what the client actually sent.
	ReqBody []byte

	isMatched bool
}

type MockTransport struct {
	Expectations []*Expectation
	mutex        sync.Mutex
}

func NewMockTransport() *MockTransport {
	return &MockTransport{Expectations: make([]*Expectation, 0)}
}

// Expect registers an expectation for a method and path. Responses are
// consumed in registration order, one per matching request.
func (t *MockTransport) Expect(method, path string) *Expectation {
	exp := &Expectation{
		Method:  method,
		Path:    path,
		Headers: make(http.Header),
	}
	t.mutex.Lock()
	t.Expectations = append(t.Expectations, exp)
	t.mutex.Unlock()
	return exp
}

func (e *Expectation) Reply(statusCode int) *Expectation {
	e.StatusCode = statusCode
	return e
}

func (e *Expectation) BodyString(body string) *Expectation {
	e.RespBody = []byte(body)
	return e
}

func (e *Expectation) JSON(v interface{}) *Expectation {
	data, err := json.Marshal(v)
	if err != nil {
		panic(fmt.Sprintf("httpmock: failed to marshal JSON: %v", err))
	}
	e.RespBody = data
	e.Headers.Set("Content-Type", "application/json")
	return e
}

// IsDone reports whether every registered expectation was matched.
func (t *MockTransport) IsDone() bool {
	t.mutex.Lock()
	defer t.mutex.Unlock()
	for _, exp := range t.Expectations {
		if !exp.isMatched {
			return false
		}
	}
	return true
}

func (t *MockTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	t.mutex.Lock()
	defer t.mutex.Unlock()

	for _, exp := range t.Expectations {
		if exp.isMatched {
			continue
		}
		if exp.Method != "" && exp.Method != req.Method {
			continue
		}
		if exp.Path != "" && exp.Path != req.URL.Path {
			continue
		}
		exp.isMatched = true
		if req.Body != nil {
			exp.ReqBody, _ = io.ReadAll(req.Body)
			req.Body.Close()
		}
		return buildResponse(exp, req), nil
	}

	return nil, fmt.Errorf("httpmock: no match found for request %s %s", req.Method, req.URL)
}

func buildResponse(exp *Expectation, req *http.Request) *http.Response {
	statusCode := exp.StatusCode
	if statusCode == 0 {
		statusCode = http.StatusOK
	}
	return &http.Response{
		StatusCode:    statusCode,
		Body:          io.NopCloser(bytes.NewReader(exp.RespBody)),
		Header:        exp.Headers,
		Request:       req,
		Proto:         "HTTP/1.1",
		ProtoMajor:    1,
		ProtoMinor:    1,
		ContentLength: int64(len(exp.RespBody)),
	}
}
