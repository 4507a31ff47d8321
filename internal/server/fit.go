package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog/log"

	"github.com/drakos74/polyfit/internal/buffer"
	"github.com/drakos74/polyfit/internal/math"
	"github.com/drakos74/polyfit/internal/metrics"
	"github.com/drakos74/polyfit/internal/series"
	"github.com/drakos74/polyfit/internal/storage"
)

const name = "polyfit"

// Service exposes the polynomial regression over http.
type Service struct {
	config  Config
	solver  *math.Solver
	cache   storage.Cache
	metrics *metrics.Metrics
	window  *buffer.Window
}

// NewService creates a new fit service.
func NewService(config Config, cache storage.Cache, m *metrics.Metrics) (*Service, error) {
	config = config.WithDefaults()
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	if cache == nil {
		cache = storage.NewVoidCache()
	}
	window := buffer.NewWindow(config.Window)
	if config.Debug {
		window.Trace()
	}
	return &Service{
		config:  config,
		solver:  config.Solver(),
		cache:   cache,
		metrics: m,
		window:  window,
	}, nil
}

// Server creates the http server for the service.
// The metrics are served from the given gatherer.
func (s *Service) Server(gatherer prometheus.Gatherer) *Server {
	srv := NewServer(name, s.config.Port).
		Add(Live()).
		AddRoute(POST, Api, "fit", s.fit).
		AddRoute(POST, Api, "predict", s.predict).
		AddRoute(POST, Api, "window", s.push)
	if gatherer != nil {
		srv.Mount("/metrics", promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{}))
	}
	if s.config.Debug {
		srv.Debug()
	}
	return srv
}

func (s *Service) fit(r *http.Request) ([]byte, int, error) {
	var request FitRequest
	if err := JsonRead(r, s.config.Debug, &request); err != nil {
		return nil, http.StatusBadRequest, fmt.Errorf("could not read fit request: %w", err)
	}

	degree := s.degree(request.Degree)
	samples := append(request.Samples, s.values(request.Values, len(request.Samples))...)
	selected := samples
	if request.Min != nil || request.Max != nil {
		min, max, _ := series.Limits(samples)
		if request.Min != nil {
			min = *request.Min
		}
		if request.Max != nil {
			max = *request.Max
		}
		selected = series.Filter(samples, min, max)
	}

	method := request.Method
	if method == "" {
		method = Gauss
	}
	result, cached, err := s.regress(method, selected, degree)
	if err != nil {
		return nil, status(err), err
	}

	return encode(FitResponse{
		ID:           RequestID(r),
		Method:       method,
		Degree:       degree,
		Samples:      len(selected),
		Coefficients: result.Coefficients,
		Fitted:       result.Fitted,
		RSquared:     result.RSquared,
		Curve:        series.Curve(samples, result.Coefficients),
		Cached:       cached,
	})
}

func (s *Service) predict(r *http.Request) ([]byte, int, error) {
	var request PredictRequest
	if err := JsonRead(r, s.config.Debug, &request); err != nil {
		return nil, http.StatusBadRequest, fmt.Errorf("could not read predict request: %w", err)
	}
	if len(request.Coefficients) == 0 {
		return nil, http.StatusBadRequest, fmt.Errorf("no coefficients: %w", math.EmptyInputErr)
	}
	yy := make([]float64, len(request.X))
	for i, x := range request.X {
		yy[i] = math.Predict(request.Coefficients, x)
	}
	return encode(PredictResponse{Y: yy})
}

// push adds the request samples to the rolling window and fits its content.
func (s *Service) push(r *http.Request) ([]byte, int, error) {
	var request FitRequest
	if err := JsonRead(r, s.config.Debug, &request); err != nil {
		return nil, http.StatusBadRequest, fmt.Errorf("could not read window request: %w", err)
	}
	if err := math.Validate(request.Samples, 0); err != nil && !errors.Is(err, math.EmptyInputErr) {
		return nil, http.StatusBadRequest, err
	}
	degree := s.degree(request.Degree)
	if degree < 0 {
		return nil, http.StatusBadRequest, fmt.Errorf("degree %d: %w", degree, math.InvalidDegreeErr)
	}

	s.window.Push(request.Samples...)
	start := time.Now()
	result, err := s.window.Polynomial(degree)
	s.observe(Gauss, start, err)
	if err != nil {
		return nil, status(err), err
	}
	return encode(FitResponse{
		ID:           RequestID(r),
		Method:       Gauss,
		Degree:       degree,
		Samples:      len(result.Fitted),
		Coefficients: result.Coefficients,
		Fitted:       result.Fitted,
		RSquared:     result.RSquared,
	})
}

// regress fits the samples with the given method, going through the cache.
func (s *Service) regress(method string, samples []math.Sample, degree int) (math.Result, bool, error) {
	key := storage.NewKey(samples, degree, s.label(method))
	if result, err := s.cache.Get(key); err == nil {
		s.hit(true)
		return result, true, nil
	}
	s.hit(false)

	start := time.Now()
	var result math.Result
	var err error
	switch method {
	case Gauss:
		result, err = math.NewRegression(degree).WithSolver(s.solver).Fit(samples)
	case QR:
		var c math.Polynomial
		c, err = math.FitQR(samples, degree)
		if err == nil {
			result = math.Evaluate(c, samples)
		}
	default:
		return math.Result{}, false, fmt.Errorf("unknown method '%s': %w", method, unknownMethodErr)
	}
	s.observe(method, start, err)
	if err != nil {
		return math.Result{}, false, err
	}

	if err := s.cache.Put(key, result); err != nil {
		log.Warn().Err(err).Str("key", key.String()).Msg("could not cache fit")
	}
	return result, false, nil
}

func (s *Service) degree(d *Degree) int {
	if d == nil {
		return s.config.Degree
	}
	return int(*d)
}

// values tags the values with x coordinates following the given number of samples.
func (s *Service) values(values []float64, offset int) []math.Sample {
	start := s.config.Start + float64(offset)*s.config.Step
	return series.Values(values, start, s.config.Step)
}

func (s *Service) label(method string) string {
	if method == Gauss {
		return fmt.Sprintf("%s_%s_%v", method, s.solver.Pivoting(), s.solver.Tolerance())
	}
	return method
}

func (s *Service) observe(method string, start time.Time, err error) {
	if s.metrics != nil {
		s.metrics.Fit(method, time.Since(start), err)
	}
}

func (s *Service) hit(hit bool) {
	if s.metrics != nil {
		s.metrics.Cache(hit)
	}
}

var unknownMethodErr = errors.New("unknown method")

// status maps a fit error to the http status code of the response.
func status(err error) int {
	switch {
	case errors.Is(err, math.SingularSystemErr):
		return http.StatusUnprocessableEntity
	case errors.Is(err, math.EmptyInputErr),
		errors.Is(err, math.InvalidDegreeErr),
		errors.Is(err, math.NonFiniteErr),
		errors.Is(err, unknownMethodErr):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

func encode(v interface{}) ([]byte, int, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return nil, http.StatusInternalServerError, fmt.Errorf("could not encode response: %w", err)
	}
	return b, http.StatusOK, nil
}
