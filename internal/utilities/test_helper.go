package utilities

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"

	"github.com/gin-gonic/gin"
)

// SimulateAPICall runs handlerFunc against a JSON request without a router.
// Each setup function runs on the context before the handler, which lets tests
// inject an authenticated "user" or route params.
// It returns the recorder, the JSON body decoded as a map, and any error encountered.
func SimulateAPICall(
	handlerFunc func(*gin.Context),
	route string,
	method string,
	body interface{},
	setup ...func(*gin.Context),
) (*httptest.ResponseRecorder, map[string]interface{}, error) {
	b, err := json.Marshal(body)
	if err != nil {
		return nil, nil, err
	}
	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	req, err := http.NewRequest(method, route, bytes.NewReader(b))
	if err != nil {
		return nil, nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	c.Request = req
	for _, fn := range setup {
		fn(c)
	}
	handlerFunc(c)

	var resp map[string]interface{}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		return rec, nil, err
	}
	return rec, resp, nil
}

// WithUser returns a setup function that marks user as authenticated
func WithUser(user interface{}) func(*gin.Context) {
	return func(c *gin.Context) { c.Set("user", user) }
}

// WithParam returns a setup function that sets a route parameter
func WithParam(key string, value string) func(*gin.Context) {
	return func(c *gin.Context) {
		c.Params = append(c.Params, gin.Param{Key: key, Value: value})
	}
}
