package controllers

import (
	"context"
	"html/template"
	"time"

	json "github.com/goccy/go-json"

	"olga/internal/models"
	"olga/internal/services"
)

const (
	GraphsTemplate   = "charts/graphs.html"
	WorldMapTemplate = "charts/worldmap.html"
)

type GraphsData struct {
	Timeline                   []string  `json:"timeline"`
	Students                   []int64   `json:"students"`
	Courses                    []int64   `json:"courses"`
	Instances                  []int64   `json:"instances"`
	InstancesCount             int64     `json:"instances_count"`
	CoursesCount               int64     `json:"courses_count"`
	StudentsCount              int64     `json:"students_count"`
	GeneratedCertificatesCount int64     `json:"generated_certificates_count"`
	FirstDatetimeOfUpdateData  time.Time `json:"first_datetime_of_update_data"`
	LastDatetimeOfUpdateData   time.Time `json:"last_datetime_of_update_data"`
}

// GraphsContext is what the graphs template sees: the series are already
// JSON-encoded for the chart script.
type GraphsContext struct {
	Timeline                   template.JS
	Students                   template.JS
	Courses                    template.JS
	Instances                  template.JS
	InstancesCount             int64
	CoursesCount               int64
	StudentsCount              int64
	GeneratedCertificatesCount int64
	FirstDatetimeOfUpdateData  time.Time
	LastDatetimeOfUpdateData   time.Time
}

type MapData struct {
	StudentsPerCountry        []models.CountryRow `json:"students_per_country"`
	CountriesAmount           int                 `json:"countries_amount"`
	TopCountry                string              `json:"top_country"`
	FirstDatetimeOfUpdateData time.Time           `json:"first_datetime_of_update_data"`
	LastDatetimeOfUpdateData  time.Time           `json:"last_datetime_of_update_data"`
}

type MapContext struct {
	StudentsPerCountry        template.JS
	CountriesAmount           int
	TopCountry                string
	FirstDatetimeOfUpdateData time.Time
	LastDatetimeOfUpdateData  time.Time
}

func buildGraphsData(ctx context.Context, service services.InstallationStatisticsServiceInterface) (*GraphsData, error) {
	series, err := service.PeriodSeries(ctx)
	if err != nil {
		return nil, err
	}
	totals, err := service.OverallCounts(ctx)
	if err != nil {
		return nil, err
	}
	first, last, err := service.DataCreatedDatetimeScope(ctx)
	if err != nil {
		return nil, err
	}

	return &GraphsData{
		Timeline:                   series.Timeline,
		Students:                   series.Students,
		Courses:                    series.Courses,
		Instances:                  series.Instances,
		InstancesCount:             totals.InstancesCount,
		CoursesCount:               totals.CoursesCount,
		StudentsCount:              totals.StudentsCount,
		GeneratedCertificatesCount: totals.GeneratedCertificatesCount,
		FirstDatetimeOfUpdateData:  first,
		LastDatetimeOfUpdateData:   last,
	}, nil
}

func buildMapData(ctx context.Context, service services.InstallationStatisticsServiceInterface) (*MapData, error) {
	rows, err := service.StudentsPerCountryTabular(ctx)
	if err != nil {
		return nil, err
	}
	first, last, err := service.DataCreatedDatetimeScope(ctx)
	if err != nil {
		return nil, err
	}

	return &MapData{
		StudentsPerCountry:        rows,
		CountriesAmount:           len(rows),
		TopCountry:                models.GetStatisticsTopCountry(rows),
		FirstDatetimeOfUpdateData: first,
		LastDatetimeOfUpdateData:  last,
	}, nil
}

func newGraphsContext(data *GraphsData) (*GraphsContext, error) {
	series := make([]template.JS, 0, 4)
	for _, v := range []any{data.Timeline, data.Students, data.Courses, data.Instances} {
		encoded, err := encodeJS(v)
		if err != nil {
			return nil, err
		}
		series = append(series, encoded)
	}

	return &GraphsContext{
		Timeline:                   series[0],
		Students:                   series[1],
		Courses:                    series[2],
		Instances:                  series[3],
		InstancesCount:             data.InstancesCount,
		CoursesCount:               data.CoursesCount,
		StudentsCount:              data.StudentsCount,
		GeneratedCertificatesCount: data.GeneratedCertificatesCount,
		FirstDatetimeOfUpdateData:  data.FirstDatetimeOfUpdateData,
		LastDatetimeOfUpdateData:   data.LastDatetimeOfUpdateData,
	}, nil
}

func newMapContext(data *MapData) (*MapContext, error) {
	perCountry, err := encodeJS(data.StudentsPerCountry)
	if err != nil {
		return nil, err
	}

	return &MapContext{
		StudentsPerCountry:        perCountry,
		CountriesAmount:           data.CountriesAmount,
		TopCountry:                data.TopCountry,
		FirstDatetimeOfUpdateData: data.FirstDatetimeOfUpdateData,
		LastDatetimeOfUpdateData:  data.LastDatetimeOfUpdateData,
	}, nil
}

func encodeJS(v any) (template.JS, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return "", err
	}
	return template.JS(b), nil
}
