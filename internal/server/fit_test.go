package server

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/drakos74/polyfit/internal/metrics"
	"github.com/drakos74/polyfit/internal/storage"
)

func newTestServer(t *testing.T, config Config) *httptest.Server {
	registry := prometheus.NewRegistry()
	m, err := metrics.NewMetrics(registry)
	require.NoError(t, err)
	service, err := NewService(config, storage.NewMemoryCache(10), m)
	require.NoError(t, err)
	ts := httptest.NewServer(service.Server(registry).Handler())
	t.Cleanup(ts.Close)
	return ts
}

func post(t *testing.T, url string, body string) (int, []byte) {
	resp, err := http.Post(url, "application/json", strings.NewReader(body))
	require.NoError(t, err)
	defer resp.Body.Close()
	b, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp.StatusCode, b
}

func TestService_Fit(t *testing.T) {
	ts := newTestServer(t, DefaultConfig())

	type test struct {
		body  string
		code  int
		coeff []float64
	}

	tests := map[string]test{
		"square": {
			body:  `{"samples":[{"x":0,"y":1},{"x":1,"y":2},{"x":2,"y":5}],"degree":2}`,
			code:  http.StatusOK,
			coeff: []float64{1, 0, 1},
		},
		"linear": {
			body:  `{"samples":[{"x":0,"y":0},{"x":1,"y":2},{"x":2,"y":4},{"x":3,"y":6}],"degree":1}`,
			code:  http.StatusOK,
			coeff: []float64{0, 2},
		},
		"qr": {
			body:  `{"samples":[{"x":0,"y":0},{"x":1,"y":2},{"x":2,"y":4},{"x":3,"y":6}],"degree":1,"method":"qr"}`,
			code:  http.StatusOK,
			coeff: []float64{0, 2},
		},
		"values": {
			body:  `{"values":[7,7,7,7],"degree":0}`,
			code:  http.StatusOK,
			coeff: []float64{7},
		},
		"filter": {
			body:  `{"samples":[{"x":0,"y":1},{"x":1,"y":3},{"x":2,"y":1000},{"x":3,"y":7}],"degree":1,"max":100}`,
			code:  http.StatusOK,
			coeff: []float64{1, 2},
		},
		"singular": {
			body: `{"samples":[{"x":1,"y":1},{"x":2,"y":4}],"degree":3}`,
			code: http.StatusUnprocessableEntity,
		},
		"empty": {
			body: `{"samples":[],"degree":1}`,
			code: http.StatusBadRequest,
		},
		"negative-degree": {
			body: `{"samples":[{"x":1,"y":1}],"degree":-1}`,
			code: http.StatusBadRequest,
		},
		"unknown-method": {
			body: `{"samples":[{"x":1,"y":1}],"degree":0,"method":"svd"}`,
			code: http.StatusBadRequest,
		},
		"bad-json": {
			body: `{"samples":[`,
			code: http.StatusBadRequest,
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			code, b := post(t, ts.URL+"/api/fit", tt.body)
			require.Equal(t, tt.code, code, string(b))
			if code != http.StatusOK {
				return
			}
			var response FitResponse
			require.NoError(t, json.Unmarshal(b, &response))
			assert.NotEmpty(t, response.ID)
			require.Len(t, response.Coefficients, len(tt.coeff))
			for i, c := range tt.coeff {
				assert.InDelta(t, c, response.Coefficients[i], 1e-9)
			}
		})
	}
}

func TestService_FitCurve(t *testing.T) {
	ts := newTestServer(t, DefaultConfig())

	body := `{"samples":[{"x":0,"y":1},{"x":1,"y":3},{"x":2,"y":1000},{"x":3,"y":7}],"degree":1,"min":0,"max":100}`
	code, b := post(t, ts.URL+"/api/fit", body)
	require.Equal(t, http.StatusOK, code)

	var response FitResponse
	require.NoError(t, json.Unmarshal(b, &response))
	assert.Equal(t, 3, response.Samples)
	assert.Len(t, response.Fitted, 3)
	// the curve covers the filtered out samples too
	require.Len(t, response.Curve, 4)
	assert.InDelta(t, 5, response.Curve[2].Y, 1e-9)
	assert.False(t, response.Cached)

	code, b = post(t, ts.URL+"/api/fit", body)
	require.Equal(t, http.StatusOK, code)
	require.NoError(t, json.Unmarshal(b, &response))
	assert.True(t, response.Cached)
	assert.InDelta(t, 2, response.Coefficients[1], 1e-9)
}

func TestService_DefaultDegree(t *testing.T) {
	config := DefaultConfig()
	config.Degree = 2
	ts := newTestServer(t, config)

	code, b := post(t, ts.URL+"/api/fit", `{"samples":[{"x":0,"y":1},{"x":1,"y":2},{"x":2,"y":5},{"x":3,"y":10}]}`)
	require.Equal(t, http.StatusOK, code)
	var response FitResponse
	require.NoError(t, json.Unmarshal(b, &response))
	assert.Equal(t, 2, response.Degree)
	assert.Len(t, response.Coefficients, 3)
}

func TestService_TextDegree(t *testing.T) {
	ts := newTestServer(t, DefaultConfig())

	type test struct {
		degree string
		expect int
	}

	tests := map[string]test{
		"number": {
			degree: `2`,
			expect: 2,
		},
		"digits": {
			degree: `"2"`,
			expect: 2,
		},
		"trailing-text": {
			degree: `"2x"`,
			expect: 2,
		},
		"sign-dropped": {
			degree: `"-1"`,
			expect: 1,
		},
		"no-digits": {
			degree: `"abc"`,
			expect: 1,
		},
		"empty": {
			degree: `""`,
			expect: 1,
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			for _, route := range []string{"/api/fit", "/api/window"} {
				body := `{"samples":[{"x":0,"y":1},{"x":1,"y":2},{"x":2,"y":5}],"degree":` + tt.degree + `}`
				code, b := post(t, ts.URL+route, body)
				require.Equal(t, http.StatusOK, code, string(b))
				var response FitResponse
				require.NoError(t, json.Unmarshal(b, &response))
				assert.Equal(t, tt.expect, response.Degree, route)
				assert.Len(t, response.Coefficients, tt.expect+1, route)
			}
		})
	}

	code, _ := post(t, ts.URL+"/api/fit", `{"samples":[{"x":0,"y":1}],"degree":[1]}`)
	assert.Equal(t, http.StatusBadRequest, code)
}

func TestService_Predict(t *testing.T) {
	ts := newTestServer(t, DefaultConfig())

	code, b := post(t, ts.URL+"/api/predict", `{"coefficients":[1,0,1],"x":[0,1,2,-3]}`)
	require.Equal(t, http.StatusOK, code)
	var response PredictResponse
	require.NoError(t, json.Unmarshal(b, &response))
	assert.Equal(t, []float64{1, 2, 5, 10}, response.Y)

	code, _ = post(t, ts.URL+"/api/predict", `{"coefficients":[],"x":[1]}`)
	assert.Equal(t, http.StatusBadRequest, code)
}

func TestService_Window(t *testing.T) {
	config := DefaultConfig()
	config.Window = 4
	ts := newTestServer(t, config)

	code, _ := post(t, ts.URL+"/api/window", `{"samples":[{"x":0,"y":1}],"degree":1}`)
	assert.Equal(t, http.StatusUnprocessableEntity, code)

	code, b := post(t, ts.URL+"/api/window", `{"samples":[{"x":1,"y":3},{"x":2,"y":5}],"degree":1}`)
	require.Equal(t, http.StatusOK, code)
	var response FitResponse
	require.NoError(t, json.Unmarshal(b, &response))
	assert.Equal(t, 3, response.Samples)
	assert.InDelta(t, 1, response.Coefficients[0], 1e-9)
	assert.InDelta(t, 2, response.Coefficients[1], 1e-9)

	// the oldest samples fall out of the window
	code, b = post(t, ts.URL+"/api/window", `{"samples":[{"x":10,"y":0},{"x":11,"y":0},{"x":12,"y":0},{"x":13,"y":0}],"degree":1}`)
	require.Equal(t, http.StatusOK, code)
	require.NoError(t, json.Unmarshal(b, &response))
	assert.Equal(t, 4, response.Samples)
	assert.InDelta(t, 0, response.Coefficients[0], 1e-9)
	assert.InDelta(t, 0, response.Coefficients[1], 1e-9)

	code, _ = post(t, ts.URL+"/api/window", `{"degree":-1}`)
	assert.Equal(t, http.StatusBadRequest, code)
}

func TestService_Metrics(t *testing.T) {
	ts := newTestServer(t, DefaultConfig())

	code, _ := post(t, ts.URL+"/api/fit", `{"samples":[{"x":0,"y":1},{"x":1,"y":2}],"degree":1}`)
	require.Equal(t, http.StatusOK, code)
	code, _ = post(t, ts.URL+"/api/fit", `{"samples":[{"x":1,"y":1},{"x":2,"y":4}],"degree":3}`)
	require.Equal(t, http.StatusUnprocessableEntity, code)

	resp, err := http.Get(ts.URL + "/metrics")
	require.NoError(t, err)
	defer resp.Body.Close()
	b, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	assert.True(t, bytes.Contains(b, []byte(`polyfit_fits_total{method="gauss",outcome="ok"} 1`)), string(b))
	assert.True(t, bytes.Contains(b, []byte(`polyfit_fits_total{method="gauss",outcome="singular"} 1`)), string(b))
	assert.True(t, bytes.Contains(b, []byte(`polyfit_cache_total{result="miss"} 2`)), string(b))
}

func TestNewService_InvalidConfig(t *testing.T) {
	config := DefaultConfig()
	config.Pivoting = "complete"
	_, err := NewService(config, nil, nil)
	assert.Error(t, err)

	config = DefaultConfig()
	config.Degree = -1
	_, err = NewService(config, nil, nil)
	assert.Error(t, err)
}

func TestConfig_WithDefaults(t *testing.T) {
	config := Config{Degree: 2}.WithDefaults()
	assert.NoError(t, config.Validate())
	assert.Equal(t, 2, config.Degree)
	assert.Equal(t, DefaultConfig().Port, config.Port)
	assert.Equal(t, DefaultConfig().Tolerance, config.Tolerance)
	assert.Equal(t, "none", config.Solver().Pivoting().String())
}
