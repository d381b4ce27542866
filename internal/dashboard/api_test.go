package dashboard

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/callsight/platform/internal/call"
	"github.com/callsight/platform/internal/shared/types"
)

func newTestHandler(calls map[string][]call.Call) *Handler {
	log := logrus.New()
	log.SetLevel(logrus.PanicLevel)
	svc := NewService(&fakeCallSource{calls: calls}, &fakeAssistantSource{}, &fakeStore{})
	return NewHandler(svc, log)
}

func get(r http.Handler, path string) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
	return rec
}

func TestGetClinicMetricsRejectsMalformedClinicID(t *testing.T) {
	h := newTestHandler(nil)

	rec := get(h.Routes(), "/clinics/not-a-uuid")
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "BAD_REQUEST", body["code"])
}

func TestGetClinicMetricsRejectsMalformedAssistantID(t *testing.T) {
	h := newTestHandler(nil)
	clinicID := types.NewID().String()

	rec := get(h.Routes(), "/clinics/"+clinicID+"?assistantId=not-a-uuid")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestGetClinicMetricsAcceptsAllSentinel(t *testing.T) {
	h := newTestHandler(map[string][]call.Call{"|": {}})

	rec := get(h.Routes(), "/clinics/all?assistantId=all")
	assert.Equal(t, http.StatusOK, rec.Code)

	var out ClinicMetrics
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	assert.Equal(t, 0, out.Metrics.TotalCalls)
}
