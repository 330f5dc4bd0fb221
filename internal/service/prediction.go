package service

import (
	"context"
	"fmt"

	"ligapro-predictor/internal/api"
	"ligapro-predictor/internal/constants"
	"ligapro-predictor/internal/domain"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
)

type Predictor interface {
	PredictOutcome(ctx context.Context, req domain.PredictionRequest) (*api.OutcomeResponse, error)
	PredictCorners(ctx context.Context, req domain.PredictionRequest) (*api.CornersResponse, error)
	HistoricalData(ctx context.Context, req domain.PredictionRequest) (*api.HistoricalResponse, error)
}

type Journal interface {
	Save(ctx context.Context, rec *domain.PredictionRecord) error
}

type PredictionService struct {
	predictor Predictor
	journal   Journal
	logger    zerolog.Logger
}

func NewPredictionService(predictor Predictor, journal Journal, logger zerolog.Logger) *PredictionService {
	return &PredictionService{predictor: predictor, journal: journal, logger: logger}
}

// Predict issues the outcome, corners and history calls concurrently and merges them.
// Only the outcome call can fail the operation; the other two degrade to absent sections.
func (s *PredictionService) Predict(ctx context.Context, sessionID string, sel domain.Selection) (*domain.PredictionResult, error) {
	ctx, cancel := context.WithTimeout(ctx, constants.RequestTimeout)
	defer cancel()

	req := domain.PredictionRequest{HomeCode: sel.Home.Code, AwayCode: sel.Away.Code}
	log := s.logger.With().
		Str("session_id", sessionID).
		Int("home_code", req.HomeCode).
		Int("away_code", req.AwayCode).
		Logger()

	log.Info().Str("home", sel.Home.Name).Str("away", sel.Away.Name).Msg("requesting prediction")

	g, gCtx := errgroup.WithContext(ctx)
	var (
		outcome *api.OutcomeResponse
		corners *api.CornersResponse
		history *api.HistoricalResponse
	)

	g.Go(func() error {
		apiCtx, apiCancel := context.WithTimeout(gCtx, constants.ExternalAPITimeout)
		defer apiCancel()

		var err error
		outcome, err = s.predictor.PredictOutcome(apiCtx, req)
		return err
	})

	g.Go(func() error {
		apiCtx, apiCancel := context.WithTimeout(gCtx, constants.ExternalAPITimeout)
		defer apiCancel()

		resp, err := s.predictor.PredictCorners(apiCtx, req)
		if err != nil {
			log.Warn().Err(err).Msg("corners prediction unavailable")
			return nil
		}
		corners = resp
		return nil
	})

	g.Go(func() error {
		apiCtx, apiCancel := context.WithTimeout(gCtx, constants.ExternalAPITimeout)
		defer apiCancel()

		resp, err := s.predictor.HistoricalData(apiCtx, req)
		if err != nil {
			log.Warn().Err(err).Msg("historical data unavailable")
			return nil
		}
		history = resp
		return nil
	})

	if err := g.Wait(); err != nil {
		log.Error().Err(err).Msg("outcome prediction failed")
		s.record(ctx, log, &domain.PredictionRecord{
			SessionID: sessionID,
			HomeCode:  req.HomeCode,
			AwayCode:  req.AwayCode,
			Error:     err.Error(),
		})
		return nil, fmt.Errorf("failed to predict outcome: %w", err)
	}

	result := merge(outcome, corners, history)
	s.record(ctx, log, toRecord(sessionID, req, result))

	log.Info().
		Bool("corners", result.Corners != nil).
		Bool("history", result.History != nil).
		Str("error", result.Error).
		Msg("prediction merged")
	return result, nil
}

func (s *PredictionService) record(ctx context.Context, log zerolog.Logger, rec *domain.PredictionRecord) {
	if s.journal == nil {
		return
	}
	dbCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), constants.DatabaseTimeout)
	defer cancel()

	if err := s.journal.Save(dbCtx, rec); err != nil {
		log.Warn().Err(err).Msg("failed to journal prediction")
	}
}

func merge(outcome *api.OutcomeResponse, corners *api.CornersResponse, history *api.HistoricalResponse) *domain.PredictionResult {
	result := &domain.PredictionResult{Error: outcome.Error}

	mo := &domain.MatchOutcome{
		OutcomeCode:  outcome.Result1X2,
		AsOf:         outcome.AsOf,
		ModelType:    outcome.ModelType,
		ModelVersion: outcome.ModelVersion,
		Note:         outcome.PredictionNote,
	}
	if outcome.HomeGoals != nil {
		mo.HomeGoalsRounded = outcome.HomeGoals.Rounded
	}
	if outcome.AwayGoals != nil {
		mo.AwayGoalsRounded = outcome.AwayGoals.Rounded
	}
	result.Outcome = mo

	if corners != nil {
		result.Corners = &domain.Corners{
			TotalCorners: corners.TotalCorners,
			ModelType:    corners.ModelType,
			ModelVersion: corners.ModelVersion,
			ScalerType:   corners.ScalerType,
			Note:         corners.PredictionNote,
		}
	}

	if history != nil && history.HeadToHead != nil {
		h := history.HeadToHead
		result.History = &domain.History{
			TotalMatches:         h.TotalMatches,
			AvgGoalsPerMatch:     h.GoalsAvg,
			HomeWins:             h.HomeWins,
			Draws:                h.Draws,
			AwayWins:             h.AwayWins,
			AvgHomePossessionPct: h.HomePossessionAvg,
			AvgAwayPossessionPct: h.AwayPossessionAvg,
		}
	}

	return result
}

func toRecord(sessionID string, req domain.PredictionRequest, r *domain.PredictionResult) *domain.PredictionRecord {
	rec := &domain.PredictionRecord{
		SessionID: sessionID,
		HomeCode:  req.HomeCode,
		AwayCode:  req.AwayCode,
		Error:     r.Error,
	}
	if r.Outcome != nil {
		rec.OutcomeCode = r.Outcome.OutcomeCode
		rec.HomeGoals = r.Outcome.HomeGoalsRounded
		rec.AwayGoals = r.Outcome.AwayGoalsRounded
		rec.ModelVersion = r.Outcome.ModelVersion
	}
	if r.Corners != nil {
		rec.TotalCorners = r.Corners.TotalCorners
	}
	return rec
}
