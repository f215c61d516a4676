package controllers

import (
	"net/http"

	"olga/internal/models"
	"olga/internal/providers"
)

const maxRequestBodySize = 1 << 20 // 1 MB

// FormsChecker is the validation gate in front of the ingestion endpoint.
type FormsChecker struct {
	logger  providers.Logger
	metrics providers.MetricsProviderInterface
}

func NewFormsChecker(logger providers.Logger, metrics providers.MetricsProviderInterface) *FormsChecker {
	return &FormsChecker{
		logger:  logger,
		metrics: metrics,
	}
}

// Check validates the installation and statistics forms of the request. Only
// when both are valid is next called, once, with the untouched writer and
// request. Otherwise the response is an empty 401 and next is never called.
func (fc *FormsChecker) Check(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		r.Body = http.MaxBytesReader(w, r.Body, maxRequestBodySize)
		if err := r.ParseForm(); err != nil {
			fc.reject(w, "unreadable form: %s", err)
			return
		}

		installationErr := models.NewEdxInstallationForm(r.PostForm).Validate()
		statisticsErr := models.NewInstallationStatisticsForm(r.PostForm).Validate()
		if installationErr != nil || statisticsErr != nil {
			fc.reject(w, "invalid forms: installation=%v statistics=%v", installationErr, statisticsErr)
			return
		}

		next.ServeHTTP(w, r)
	})
}

func (fc *FormsChecker) reject(w http.ResponseWriter, format string, args ...interface{}) {
	fc.logger.Warnf(providers.TypePost, format, args...)
	fc.metrics.IncSubmissions(providers.SubmissionRejected)
	w.WriteHeader(http.StatusUnauthorized)
}
