package ui

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"ligapro-predictor/internal/api"
	"ligapro-predictor/internal/config"
	"ligapro-predictor/internal/domain"
	"ligapro-predictor/internal/render"
	"ligapro-predictor/internal/selection"
	"ligapro-predictor/internal/service"
	"ligapro-predictor/internal/teams"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type predictorFunc func(ctx context.Context, sessionID string, sel domain.Selection) (*domain.PredictionResult, error)

func (f predictorFunc) Predict(ctx context.Context, sessionID string, sel domain.Selection) (*domain.PredictionResult, error) {
	return f(ctx, sessionID, sel)
}

func newDirectory(t *testing.T) *teams.Directory {
	t.Helper()
	dir, err := teams.New(&config.Config{AssetsBase: "/img/"}, zerolog.Nop())
	require.NoError(t, err)
	return dir
}

func newController(t *testing.T, p Predictor) *Controller {
	t.Helper()
	dir := newDirectory(t)
	sel, err := selection.New(dir, "Emelec", "Barcelona SC")
	require.NoError(t, err)
	return NewController("sess-1", dir, sel, p, zerolog.Nop())
}

func TestInitialSnapshot(t *testing.T) {
	c := newController(t, nil)
	snap := c.Snapshot()

	assert.Equal(t, "sess-1", snap.SessionID)
	assert.Len(t, snap.Teams, 16)
	assert.Equal(t, "Emelec", snap.Home)
	assert.Equal(t, "Barcelona SC", snap.Away)
	assert.Equal(t, Header{
		HomeLogo:  "/img/EscudoCSEmelec.png",
		AwayLogo:  "/img/Barcelona_Sporting_Club_Logo.png",
		HomeLabel: "Win Emelec",
		AwayLabel: "Win Barcelona SC",
	}, snap.Header)
	assert.Equal(t, Trigger{Label: "Predict"}, snap.Trigger)
	assert.Equal(t, render.Blank(), snap.View.State)
}

func TestHeaderRefreshesOnEveryMutation(t *testing.T) {
	c := newController(t, nil)

	c.Swap()
	assert.Equal(t, "Win Barcelona SC", c.Snapshot().Header.HomeLabel)

	require.NoError(t, c.SetAway("Aucas"))
	snap := c.Snapshot()
	assert.Equal(t, "Win Aucas", snap.Header.AwayLabel)
	assert.Equal(t, "/img/SD_Aucas_logo.png", snap.Header.AwayLogo)

	require.NoError(t, c.SetHome("Aucas"))
	snap = c.Snapshot()
	assert.Equal(t, "Aucas", snap.Home)
	assert.Equal(t, "Universidad Catolica", snap.Away)
	assert.Equal(t, "Win Universidad Catolica", snap.Header.AwayLabel)
}

func TestPredictFailureShowsFallbackAndRestoresTrigger(t *testing.T) {
	c := newController(t, predictorFunc(func(context.Context, string, domain.Selection) (*domain.PredictionResult, error) {
		return nil, errors.New("connection refused")
	}))

	view, err := c.Predict(context.Background())
	require.NoError(t, err)
	assert.Equal(t, FallbackNotice, view.Notice)
	assert.Equal(t, render.Blank(), view.State)

	snap := c.Snapshot()
	assert.Equal(t, Trigger{Label: "Predict"}, snap.Trigger)
	assert.Equal(t, view, snap.View)
}

func TestPredictRestoresTriggerOnPanic(t *testing.T) {
	c := newController(t, predictorFunc(func(context.Context, string, domain.Selection) (*domain.PredictionResult, error) {
		panic("boom")
	}))

	assert.Panics(t, func() { _, _ = c.Predict(context.Background()) })
	assert.False(t, c.Snapshot().Trigger.Disabled)
}

func TestPredictRejectsOverlap(t *testing.T) {
	release := make(chan struct{})
	started := make(chan struct{})
	c := newController(t, predictorFunc(func(context.Context, string, domain.Selection) (*domain.PredictionResult, error) {
		close(started)
		<-release
		return &domain.PredictionResult{}, nil
	}))

	done := make(chan struct{})
	go func() {
		_, _ = c.Predict(context.Background())
		close(done)
	}()
	<-started

	snap := c.Snapshot()
	assert.Equal(t, Trigger{Disabled: true, Label: "Calculating…"}, snap.Trigger)

	_, err := c.Predict(context.Background())
	assert.ErrorIs(t, err, ErrPredictionInFlight)

	close(release)
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("predict did not finish")
	}
	assert.False(t, c.Snapshot().Trigger.Disabled)
}

func TestPredictClearsPreviousNotice(t *testing.T) {
	fail := true
	c := newController(t, predictorFunc(func(context.Context, string, domain.Selection) (*domain.PredictionResult, error) {
		if fail {
			return nil, errors.New("down")
		}
		two, one, code := 2.0, 1.0, 1
		return &domain.PredictionResult{Outcome: &domain.MatchOutcome{HomeGoalsRounded: &two, AwayGoalsRounded: &one, OutcomeCode: &code}}, nil
	}))

	_, _ = c.Predict(context.Background())
	require.Equal(t, FallbackNotice, c.Snapshot().View.Notice)

	fail = false
	view, err := c.Predict(context.Background())
	require.NoError(t, err)
	assert.Empty(t, view.Notice)
	assert.Equal(t, "2 - 1", view.State.Score)
}

func TestPredictPassesCurrentSelection(t *testing.T) {
	var got domain.Selection
	var gotSession string
	c := newController(t, predictorFunc(func(_ context.Context, id string, sel domain.Selection) (*domain.PredictionResult, error) {
		got, gotSession = sel, id
		return &domain.PredictionResult{}, nil
	}))

	c.Swap()
	_, err := c.Predict(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "sess-1", gotSession)
	assert.Equal(t, "Barcelona SC", got.Home.Name)
	assert.Equal(t, 0, got.Home.Code)
	assert.Equal(t, 4, got.Away.Code)
}

// Emelec (4) vs Barcelona SC (0): outcome ok, corners 500, history ok.
func TestPredictEndToEndScenario(t *testing.T) {
	var (
		mu     sync.Mutex
		bodies []string
	)
	backend := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		b, _ := io.ReadAll(r.Body)
		mu.Lock()
		bodies = append(bodies, string(b))
		mu.Unlock()

		switch r.URL.Path {
		case "/api/predict":
			_, _ = w.Write([]byte(`{"goles_local":{"rounded":2},"goles_visitante":{"rounded":1},"resultado_1x2":1}`))
		case "/api/predict-corners":
			w.WriteHeader(http.StatusInternalServerError)
		case "/api/historical-data":
			_, _ = w.Write([]byte(`{"enfrentamiento_historico":{"total_partidos":10,"goles_promedio":2.4,"victorias_local":5,"empates":3,"victorias_visitante":2,"posesion_local_promedio":52.3,"posesion_visitante_promedio":47.7}}`))
		}
	}))
	defer backend.Close()

	client := api.NewPredictorClient(&config.Config{PredictorAPIURL: backend.URL})
	svc := service.NewPredictionService(client, nil, zerolog.Nop())
	c := newController(t, svc)

	view, err := c.Predict(context.Background())
	require.NoError(t, err)

	s := view.State
	assert.Empty(t, view.Notice)
	assert.Equal(t, "2 - 1", s.Score)
	assert.Equal(t, render.Triple{Home: "60%", Draw: "25%", Away: "15%"}, s.Bars)
	assert.Equal(t, render.Placeholder, s.Corners)
	assert.Equal(t, render.HistoryFields{
		TotalMatches:   "10",
		AvgGoals:       "2.40 per match",
		HomeWins:       "5",
		Draws:          "3",
		AwayWins:       "2",
		HomePossession: "52%",
		AwayPossession: "48%",
	}, s.History)

	require.Len(t, bodies, 3)
	for _, b := range bodies {
		assert.JSONEq(t, `{"equipo_local_id":4,"equipo_visitante_id":0}`, b)
	}
}
