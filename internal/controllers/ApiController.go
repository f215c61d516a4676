package controllers

import (
	"net/http"

	json "github.com/goccy/go-json"

	"olga/internal/models"
	"olga/internal/providers"
	"olga/internal/services"
)

type ApiController struct {
	logger  providers.Logger
	service services.InstallationStatisticsServiceInterface
	cache   providers.CacheProviderInterface
	metrics providers.MetricsProviderInterface
}

func NewApiController(logger providers.Logger, service services.InstallationStatisticsServiceInterface, cache providers.CacheProviderInterface, metrics providers.MetricsProviderInterface) *ApiController {
	return &ApiController{
		logger:  logger,
		service: service,
		cache:   cache,
		metrics: metrics,
	}
}

func (ac *ApiController) serveFromCacheOrCompute(w http.ResponseWriter, cacheKey string, compute func() (any, error)) {
	if data, ok := ac.cache.Get(cacheKey); ok {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write(data)
		return
	}

	result, err := compute()
	if err != nil {
		ac.logger.Errorf(providers.TypeGet, "Compute %s: %s", cacheKey, err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	gson, err := json.Marshal(result)
	if err != nil {
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	ac.cache.Set(cacheKey, gson)

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(gson)
}

// ReceiveInstallationStatistics stores one submission. It expects to run
// behind FormsChecker, so the forms are known to be valid here.
func (ac *ApiController) ReceiveInstallationStatistics(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Bad Request", http.StatusBadRequest)
		return
	}

	installation := models.NewEdxInstallationForm(r.PostForm)
	statistics := models.NewInstallationStatisticsForm(r.PostForm)
	record, err := models.NewInstallationStatistics(installation, statistics, ac.service.Now())
	if err != nil {
		ac.logger.Warnf(providers.TypePost, "Unusable submission: %s", err)
		ac.metrics.IncSubmissions(providers.SubmissionRejected)
		http.Error(w, "Bad Request", http.StatusBadRequest)
		return
	}

	if err := ac.service.AddStatistics(r.Context(), record); err != nil {
		ac.logger.Errorf(providers.TypePost, "Store submission: %s", err)
		ac.metrics.IncSubmissions(providers.SubmissionFailed)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	ac.logger.Infof(providers.TypePost, "Accepted statistics from %s (%s level)", installation.PlatformName, installation.StatisticsLevel)
	ac.metrics.IncSubmissions(providers.SubmissionAccepted)
	w.WriteHeader(http.StatusCreated)
}

func (ac *ApiController) GetGraphsData(w http.ResponseWriter, r *http.Request) {
	ac.serveFromCacheOrCompute(w, "graphs", func() (any, error) {
		return buildGraphsData(r.Context(), ac.service)
	})
}

func (ac *ApiController) GetMapData(w http.ResponseWriter, r *http.Request) {
	ac.serveFromCacheOrCompute(w, "map", func() (any, error) {
		return buildMapData(r.Context(), ac.service)
	})
}
