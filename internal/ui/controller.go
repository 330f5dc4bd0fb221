package ui

import (
	"context"
	"errors"
	"sync"

	"ligapro-predictor/internal/domain"
	"ligapro-predictor/internal/render"
	"ligapro-predictor/internal/selection"
	"ligapro-predictor/internal/teams"

	"github.com/rs/zerolog"
)

const (
	FallbackNotice = "Could not reach the prediction server. Check that the backend is running."
	predictLabel   = "Predict"
	busyLabel      = "Calculating…"
)

var ErrPredictionInFlight = errors.New("prediction already in flight")

type Predictor interface {
	Predict(ctx context.Context, sessionID string, sel domain.Selection) (*domain.PredictionResult, error)
}

type Trigger struct {
	Disabled bool   `json:"disabled"`
	Label    string `json:"label"`
}

type Header struct {
	HomeLogo  string `json:"home_logo"`
	AwayLogo  string `json:"away_logo"`
	HomeLabel string `json:"home_label"`
	AwayLabel string `json:"away_label"`
}

type Snapshot struct {
	SessionID string      `json:"session_id"`
	Teams     []string    `json:"teams"`
	Home      string      `json:"home"`
	Away      string      `json:"away"`
	Header    Header      `json:"header"`
	Trigger   Trigger     `json:"trigger"`
	View      render.View `json:"view"`
}

// Controller owns one page session: the selection, the predict trigger and the last render.
type Controller struct {
	id        string
	dir       *teams.Directory
	selection *selection.State
	predictor Predictor
	logger    zerolog.Logger

	mu      sync.Mutex
	header  Header
	trigger Trigger
	view    render.View
}

func NewController(id string, dir *teams.Directory, sel *selection.State, predictor Predictor, logger zerolog.Logger) *Controller {
	c := &Controller{
		id:        id,
		dir:       dir,
		selection: sel,
		predictor: predictor,
		logger:    logger.With().Str("session_id", id).Logger(),
		trigger:   Trigger{Label: predictLabel},
		view:      render.View{State: render.Blank()},
	}
	c.refreshHeader(sel.Current())
	sel.Subscribe(c.refreshHeader)
	return c
}

func (c *Controller) refreshHeader(sel domain.Selection) {
	h := Header{
		HomeLogo:  c.dir.LogoURL(sel.Home.Name),
		AwayLogo:  c.dir.LogoURL(sel.Away.Name),
		HomeLabel: "Win " + sel.Home.Name,
		AwayLabel: "Win " + sel.Away.Name,
	}
	c.mu.Lock()
	c.header = h
	c.mu.Unlock()
}

func (c *Controller) SetHome(name string) error { return c.selection.SetHome(name) }

func (c *Controller) SetAway(name string) error { return c.selection.SetAway(name) }

func (c *Controller) Swap() { c.selection.Swap() }

// Predict runs one prediction and stores its render. The trigger stays disabled while
// the call is in flight, so an overlapping call gets ErrPredictionInFlight.
func (c *Controller) Predict(ctx context.Context) (render.View, error) {
	c.mu.Lock()
	if c.trigger.Disabled {
		c.mu.Unlock()
		return render.View{}, ErrPredictionInFlight
	}
	c.trigger = Trigger{Disabled: true, Label: busyLabel}
	c.view.Notice = ""
	c.mu.Unlock()

	defer func() {
		c.mu.Lock()
		c.trigger = Trigger{Label: predictLabel}
		c.mu.Unlock()
	}()

	res, err := c.predictor.Predict(ctx, c.id, c.selection.Current())

	var view render.View
	if err != nil {
		c.logger.Error().Err(err).Msg("prediction failed")
		view = render.Failure(FallbackNotice)
	} else {
		view = render.Reconcile(res)
	}

	c.mu.Lock()
	c.view = view
	c.mu.Unlock()
	return view, nil
}

func (c *Controller) Snapshot() Snapshot {
	sel := c.selection.Current()

	c.mu.Lock()
	defer c.mu.Unlock()
	return Snapshot{
		SessionID: c.id,
		Teams:     c.dir.Names(),
		Home:      sel.Home.Name,
		Away:      sel.Away.Name,
		Header:    c.header,
		Trigger:   c.trigger,
		View:      c.view,
	}
}
