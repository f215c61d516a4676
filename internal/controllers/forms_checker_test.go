package controllers

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"olga/internal/providers"
	"olga/internal/testutil"
)

func validFormValues() url.Values {
	return url.Values{
		"access_token":                 {"5f6e3c1a-8b2d-4e7f-9a0b-1c2d3e4f5a6b"},
		"platform_name":                {"Demo Academy"},
		"platform_url":                 {"https://academy.example.com"},
		"statistics_level":             {"enthusiast"},
		"instances_count":              {"1"},
		"courses_count":                {"12"},
		"students_count":               {"99"},
		"generated_certificates_count": {"4"},
		"students_per_country":         {`{"Canada":66,"United States":33}`},
	}
}

func newFormRequest(values url.Values) *http.Request {
	req := httptest.NewRequest(http.MethodPost, "/api/installation/statistics/", strings.NewReader(values.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return req
}

type recordingHandler struct {
	calls    int
	requests []*http.Request
	writers  []http.ResponseWriter
}

func (h *recordingHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	h.calls++
	h.requests = append(h.requests, r)
	h.writers = append(h.writers, w)
	w.Header().Set("X-Handler", "reached")
	w.WriteHeader(http.StatusTeapot)
	_, _ = w.Write([]byte("handler body"))
}

func TestFormsChecker_ValidFormsCallsHandlerOnce(t *testing.T) {
	metrics := &testutil.MockMetrics{}
	checker := NewFormsChecker(&testutil.MockLogger{}, metrics)
	next := &recordingHandler{}

	req := newFormRequest(validFormValues())
	rr := httptest.NewRecorder()
	checker.Check(next).ServeHTTP(rr, req)

	require.Equal(t, 1, next.calls)
	assert.Same(t, req, next.requests[0])
	assert.Same(t, rr, next.writers[0])
	assert.Equal(t, http.StatusTeapot, rr.Code)
	assert.Equal(t, "handler body", rr.Body.String())
	assert.Equal(t, "reached", rr.Header().Get("X-Handler"))
	assert.Equal(t, 0, metrics.SubmissionCount(providers.SubmissionRejected))
}

func TestFormsChecker_ParanoidWithoutCountries(t *testing.T) {
	checker := NewFormsChecker(&testutil.MockLogger{}, &testutil.MockMetrics{})
	next := &recordingHandler{}

	values := validFormValues()
	values.Set("statistics_level", "paranoid")
	values.Del("students_per_country")
	values.Del("platform_name")
	values.Del("platform_url")

	rr := httptest.NewRecorder()
	checker.Check(next).ServeHTTP(rr, newFormRequest(values))

	assert.Equal(t, 1, next.calls)
	assert.Equal(t, http.StatusTeapot, rr.Code)
}

func TestFormsChecker_InvalidFormsReturn401(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(v url.Values)
	}{
		{"missing access token", func(v url.Values) { v.Del("access_token") }},
		{"malformed access token", func(v url.Values) { v.Set("access_token", "not-a-uuid") }},
		{"unknown statistics level", func(v url.Values) { v.Set("statistics_level", "curious") }},
		{"platform name too long", func(v url.Values) { v.Set("platform_name", strings.Repeat("x", 256)) }},
		{"bad platform url", func(v url.Values) { v.Set("platform_url", "http://[::1") }},
		{"missing students count", func(v url.Values) { v.Del("students_count") }},
		{"negative courses count", func(v url.Values) { v.Set("courses_count", "-3") }},
		{"non numeric instances", func(v url.Values) { v.Set("instances_count", "many") }},
		{"instances above counter bound", func(v url.Values) { v.Set("instances_count", "9223372036854775807") }},
		{"broken country json", func(v url.Values) { v.Set("students_per_country", `{"Canada":`) }},
		{"negative country count", func(v url.Values) { v.Set("students_per_country", `{"Canada":-1}`) }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			logger := &testutil.MockLogger{}
			metrics := &testutil.MockMetrics{}
			checker := NewFormsChecker(logger, metrics)
			next := &recordingHandler{}

			values := validFormValues()
			tt.mutate(values)
			rr := httptest.NewRecorder()
			checker.Check(next).ServeHTTP(rr, newFormRequest(values))

			assert.Equal(t, http.StatusUnauthorized, rr.Code)
			assert.Empty(t, rr.Body.String())
			assert.Equal(t, 0, next.calls)
			assert.Equal(t, 1, metrics.SubmissionCount(providers.SubmissionRejected))
			assert.Equal(t, 1, logger.Count("warn"))
		})
	}
}

func TestFormsChecker_EmptyBody(t *testing.T) {
	checker := NewFormsChecker(&testutil.MockLogger{}, &testutil.MockMetrics{})
	next := &recordingHandler{}

	req := httptest.NewRequest(http.MethodPost, "/api/installation/statistics/", nil)
	rr := httptest.NewRecorder()
	checker.Check(next).ServeHTTP(rr, req)

	assert.Equal(t, http.StatusUnauthorized, rr.Code)
	assert.Equal(t, 0, next.calls)
}

func TestFormsChecker_OversizedBody(t *testing.T) {
	checker := NewFormsChecker(&testutil.MockLogger{}, &testutil.MockMetrics{})
	next := &recordingHandler{}

	values := validFormValues()
	values.Set("platform_name", strings.Repeat("x", maxRequestBodySize))
	rr := httptest.NewRecorder()
	checker.Check(next).ServeHTTP(rr, newFormRequest(values))

	assert.Equal(t, http.StatusUnauthorized, rr.Code)
	assert.Equal(t, 0, next.calls)
}
