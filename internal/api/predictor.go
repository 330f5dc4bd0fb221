package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"ligapro-predictor/internal/config"
	"ligapro-predictor/internal/constants"
	"ligapro-predictor/internal/domain"

	"github.com/valyala/fasthttp"
)

var ErrStatus = errors.New("unexpected status")

type StatusError struct {
	Path string
	Code int
	Body string
}

func (e *StatusError) Error() string {
	if e.Body != "" {
		return fmt.Sprintf("API error: %s returned %d: %s", e.Path, e.Code, e.Body)
	}
	return fmt.Sprintf("API error: %s returned %d", e.Path, e.Code)
}

func (e *StatusError) Unwrap() error { return ErrStatus }

type PredictorClient struct {
	baseURL string
	client  *fasthttp.Client
}

func NewPredictorClient(cfg *config.Config) *PredictorClient {
	return &PredictorClient{
		baseURL: cfg.PredictorAPIURL,
		client: &fasthttp.Client{
			MaxConnsPerHost:     100,
			ReadTimeout:         constants.ExternalAPITimeout,
			WriteTimeout:        constants.ExternalAPITimeout,
			MaxIdleConnDuration: 1 * time.Minute,
		},
	}
}

func (c *PredictorClient) PredictOutcome(ctx context.Context, req domain.PredictionRequest) (*OutcomeResponse, error) {
	return doRequest[OutcomeResponse](ctx, c, fasthttp.MethodPost, constants.OutcomePath, req)
}

func (c *PredictorClient) PredictCorners(ctx context.Context, req domain.PredictionRequest) (*CornersResponse, error) {
	return doRequest[CornersResponse](ctx, c, fasthttp.MethodPost, constants.CornersPath, req)
}

func (c *PredictorClient) HistoricalData(ctx context.Context, req domain.PredictionRequest) (*HistoricalResponse, error) {
	return doRequest[HistoricalResponse](ctx, c, fasthttp.MethodPost, constants.HistoricalPath, req)
}

func (c *PredictorClient) Health(ctx context.Context) (*HealthResponse, error) {
	return doRequest[HealthResponse](ctx, c, fasthttp.MethodGet, constants.HealthPath, nil)
}

func doRequest[T any](ctx context.Context, client *PredictorClient, method, path string, body any) (*T, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var payload []byte
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("failed to encode request: %w", err)
		}
		payload = b
	}

	// fasthttp does not watch ctx, so the call runs on its own goroutine and
	// owns req/resp until it returns.
	done := make(chan exchange, 1)
	go func() {
		done <- client.exchange(ctx, method, path, payload)
	}()

	var ex exchange
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case ex = <-done:
	}
	if ex.err != nil {
		return nil, ex.err
	}

	if ex.code < 200 || ex.code > 299 {
		return nil, &StatusError{Path: path, Code: ex.code, Body: errorMessage(ex.body)}
	}

	var result T
	if err := json.Unmarshal(ex.body, &result); err != nil {
		return nil, fmt.Errorf("failed to decode %s response: %w", path, err)
	}
	return &result, nil
}

type exchange struct {
	code int
	body []byte
	err  error
}

func (c *PredictorClient) exchange(ctx context.Context, method, path string, payload []byte) exchange {
	req := fasthttp.AcquireRequest()
	resp := fasthttp.AcquireResponse()
	defer fasthttp.ReleaseRequest(req)
	defer fasthttp.ReleaseResponse(resp)

	req.SetRequestURI(c.baseURL + path)
	req.Header.SetMethod(method)
	req.Header.Set("Accept", "application/json")
	if payload != nil {
		req.Header.SetContentType("application/json")
		req.SetBodyRaw(payload)
	}

	var err error
	if deadline, ok := ctx.Deadline(); ok {
		err = c.client.DoDeadline(req, resp, deadline)
	} else {
		err = c.client.Do(req, resp)
	}
	if err != nil {
		return exchange{err: err}
	}

	// resp.Body() is recycled on release
	return exchange{code: resp.StatusCode(), body: append([]byte(nil), resp.Body()...)}
}

// errorMessage pulls the backend's {"error": "..."} text out of a failed response, if any.
func errorMessage(body []byte) string {
	var e struct {
		Error string `json:"error"`
	}
	if json.Unmarshal(body, &e) != nil {
		return ""
	}
	return e.Error
}

type Goals struct {
	Raw     *float64 `json:"raw"`
	Rounded *float64 `json:"rounded"`
}

type OutcomeResponse struct {
	AsOf           string   `json:"as_of"`
	HomeGoals      *Goals   `json:"goles_local"`
	AwayGoals      *Goals   `json:"goles_visitante"`
	Result1X2      *int     `json:"resultado_1x2"`
	ModelVersion   string   `json:"model_version"`
	ModelType      string   `json:"model_type"`
	FeaturesUsed   []string `json:"features_used"`
	CutNote        string   `json:"cut_note"`
	PredictionNote string   `json:"prediction_note"`
	Error          string   `json:"error"`
}

type CornersResponse struct {
	TotalCorners   *float64 `json:"corners_totales"`
	ModelType      string   `json:"model_type"`
	ModelVersion   string   `json:"model_version"`
	ScalerType     string   `json:"scaler_type"`
	FeaturesUsed   []string `json:"features_used"`
	PredictionNote string   `json:"prediction_note"`
	Error          string   `json:"error"`
}

type HistoricalResponse struct {
	Results struct {
		HomeAttacksAvg    *float64 `json:"ataques_local_promedio"`
		AwayAttacksAvg    *float64 `json:"ataques_visitante_promedio"`
		HomePossessionAvg *float64 `json:"posesion_local_promedio"`
		AwayPossessionAvg *float64 `json:"posesion_visitante_promedio"`
		HomeCornersAvg    *float64 `json:"corners_local_promedio"`
		AwayCornersAvg    *float64 `json:"corners_visitante_promedio"`
		Matches           *int     `json:"num_partidos_resultados"`
	} `json:"resultados_historicos"`
	Corners struct {
		CornersAvg *float64 `json:"corners_promedio_hist"`
		Matches    *int     `json:"num_partidos_corners"`
	} `json:"corners_historicos"`
	HeadToHead *HeadToHead `json:"enfrentamiento_historico"`
	Error      string      `json:"error"`
}

type HeadToHead struct {
	TotalMatches      *int     `json:"total_partidos"`
	GoalsAvg          *float64 `json:"goles_promedio"`
	HomeWins          *int     `json:"victorias_local"`
	Draws             *int     `json:"empates"`
	AwayWins          *int     `json:"victorias_visitante"`
	HomePossessionAvg *float64 `json:"posesion_local_promedio"`
	AwayPossessionAvg *float64 `json:"posesion_visitante_promedio"`
	CornersAvg        *float64 `json:"corners_promedio"`
	CardsAvg          *float64 `json:"tarjetas_promedio"`
}

type HealthResponse struct {
	Status       string `json:"status"`
	ModelsLoaded bool   `json:"models_loaded"`
	ModelsInfo   map[string]struct {
		Loaded bool    `json:"loaded"`
		Type   *string `json:"type"`
		File   string  `json:"file"`
	} `json:"models_info"`
	Timestamp string `json:"timestamp"`
}
