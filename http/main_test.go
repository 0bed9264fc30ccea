package http

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/usuario9410/analisador-mac-adress/analyzer"
	"github.com/usuario9410/analisador-mac-adress/oui"
)

func setupTestAnalyzer() {
	registry := oui.NewRegistry(oui.Options{Offline: true})
	batchAnalyzer = analyzer.New(registry, nil, nil, -90)
}

func TestHandleAnalyzeEnriched(t *testing.T) {
	setupTestAnalyzer()

	body := "timestamp,mac,rssi\n" +
		"2026-05-10T14:00:00Z,DC:44:D6:00:00:01,-50\n" +
		"2026-05-10T14:05:00Z,DC:44:D6:00:00:02,-52\n"
	request := httptest.NewRequest(http.MethodPost, "/analyze", strings.NewReader(body))
	recorder := httptest.NewRecorder()

	handleAnalyzeRequest(recorder, request)

	require.Equal(t, http.StatusOK, recorder.Code)
	assert.NotEmpty(t, recorder.Header().Get("X-Run-Id"))
	output := recorder.Body.String()
	assert.Contains(t, output, "DC44D6000001")
	assert.Contains(t, output, "Apple")
}

func TestHandleAnalyzeReport(t *testing.T) {
	setupTestAnalyzer()

	body := "timestamp,mac,rssi\n" +
		"2026-05-10T14:00:00Z,DC:44:D6:00:00:01,-50\n" +
		"2026-05-10T14:05:00Z,DC:44:D6:00:00:02,-52\n"
	request := httptest.NewRequest(http.MethodPost, "/analyze?format=report", strings.NewReader(body))
	recorder := httptest.NewRecorder()

	handleAnalyzeRequest(recorder, request)

	require.Equal(t, http.StatusOK, recorder.Code)
	output := recorder.Body.String()
	assert.Contains(t, output, "rotation_count")
	assert.Contains(t, output, "DC44D6000001;DC44D6000002")
}

func TestHandleAnalyzeBadSchema(t *testing.T) {
	setupTestAnalyzer()

	request := httptest.NewRequest(http.MethodPost, "/analyze", strings.NewReader("foo,bar\n1,2\n"))
	recorder := httptest.NewRecorder()

	handleAnalyzeRequest(recorder, request)
	assert.Equal(t, http.StatusBadRequest, recorder.Code)
}

func TestHandleAnalyzeMethodNotAllowed(t *testing.T) {
	setupTestAnalyzer()

	request := httptest.NewRequest(http.MethodGet, "/analyze", nil)
	recorder := httptest.NewRecorder()

	handleAnalyzeRequest(recorder, request)
	assert.Equal(t, http.StatusMethodNotAllowed, recorder.Code)
}
