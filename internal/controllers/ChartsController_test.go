package controllers

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	json "github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"olga/internal/models"
	"olga/internal/testutil"
)

func TestGraphsView(t *testing.T) {
	renderer := &testutil.MockRenderer{}
	cc := NewChartsController(&testutil.MockLogger{}, sampleService(), renderer)

	rr := httptest.NewRecorder()
	cc.GraphsView(rr, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "text/html; charset=utf-8", rr.Header().Get("Content-Type"))
	assert.Equal(t, GraphsTemplate, renderer.Template)

	pageContext, ok := renderer.Data.(*GraphsContext)
	require.True(t, ok)

	var timeline []string
	require.NoError(t, json.Unmarshal([]byte(pageContext.Timeline), &timeline))
	assert.Equal(t, []string{"2017-06-01", "2017-07-02"}, timeline)

	for _, series := range []string{string(pageContext.Students), string(pageContext.Courses), string(pageContext.Instances)} {
		var values []int64
		require.NoError(t, json.Unmarshal([]byte(series), &values))
		assert.Len(t, values, 2)
	}

	assert.Equal(t, int64(2), pageContext.InstancesCount)
	assert.Equal(t, int64(30), pageContext.CoursesCount)
	assert.Equal(t, int64(150), pageContext.StudentsCount)
	assert.Equal(t, int64(7), pageContext.GeneratedCertificatesCount)
}

func TestGraphsView_EmptyStore(t *testing.T) {
	renderer := &testutil.MockRenderer{}
	svc := &testutil.MockStatisticsService{}
	cc := NewChartsController(&testutil.MockLogger{}, svc, renderer)

	rr := httptest.NewRecorder()
	cc.GraphsView(rr, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, http.StatusOK, rr.Code)
	pageContext := renderer.Data.(*GraphsContext)
	assert.JSONEq(t, `[]`, string(pageContext.Timeline))
	assert.JSONEq(t, `[]`, string(pageContext.Students))
	assert.Equal(t, pageContext.FirstDatetimeOfUpdateData, pageContext.LastDatetimeOfUpdateData)
}

func TestMapView(t *testing.T) {
	renderer := &testutil.MockRenderer{}
	cc := NewChartsController(&testutil.MockLogger{}, sampleService(), renderer)

	rr := httptest.NewRecorder()
	cc.MapView(rr, httptest.NewRequest(http.MethodGet, "/map/", nil))

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, WorldMapTemplate, renderer.Template)

	pageContext, ok := renderer.Data.(*MapContext)
	require.True(t, ok)
	assert.Equal(t, 2, pageContext.CountriesAmount)
	assert.Equal(t, "Canada", pageContext.TopCountry)
	assert.JSONEq(t, `[["Canada",66,"66.67"],["United States",33,"33.33"]]`, string(pageContext.StudentsPerCountry))
	assert.True(t, pageContext.FirstDatetimeOfUpdateData.Equal(time.Date(2017, 6, 1, 14, 56, 18, 0, time.UTC)))
}

func TestMapView_NoCountries(t *testing.T) {
	renderer := &testutil.MockRenderer{}
	cc := NewChartsController(&testutil.MockLogger{}, &testutil.MockStatisticsService{Countries: []models.CountryRow{}}, renderer)

	rr := httptest.NewRecorder()
	cc.MapView(rr, httptest.NewRequest(http.MethodGet, "/map/", nil))

	assert.Equal(t, http.StatusOK, rr.Code)
	pageContext := renderer.Data.(*MapContext)
	assert.Equal(t, 0, pageContext.CountriesAmount)
	assert.Equal(t, "", pageContext.TopCountry)
	assert.JSONEq(t, `[]`, string(pageContext.StudentsPerCountry))
}

func TestChartsViews_ServiceError(t *testing.T) {
	logger := &testutil.MockLogger{}
	cc := NewChartsController(logger, &testutil.MockStatisticsService{Err: errors.New("db down")}, &testutil.MockRenderer{})

	rr := httptest.NewRecorder()
	cc.GraphsView(rr, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusInternalServerError, rr.Code)

	rr = httptest.NewRecorder()
	cc.MapView(rr, httptest.NewRequest(http.MethodGet, "/map/", nil))
	assert.Equal(t, http.StatusInternalServerError, rr.Code)
	assert.Equal(t, 2, logger.Count("error"))
}

func TestChartsViews_RenderError(t *testing.T) {
	cc := NewChartsController(&testutil.MockLogger{}, sampleService(), &testutil.MockRenderer{Err: errors.New("bad template")})

	rr := httptest.NewRecorder()
	cc.GraphsView(rr, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, http.StatusInternalServerError, rr.Code)
	assert.NotContains(t, rr.Body.String(), GraphsTemplate)
}
