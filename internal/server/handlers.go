package server

import (
	"context"
	"embed"
	"encoding/json"
	"errors"
	"html/template"
	"mime"
	"net/http"
	"strconv"

	"ligapro-predictor/internal/constants"
	"ligapro-predictor/internal/teams"
	"ligapro-predictor/internal/ui"

	"github.com/rs/zerolog"
)

//go:embed templates/*.html
var templateFS embed.FS

var pageTemplate = template.Must(template.ParseFS(templateFS, "templates/index.html"))

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := pageTemplate.Execute(w, s.page(s.viewer(r))); err != nil {
		zerolog.Ctx(r.Context()).Error().Err(err).Msg("failed to render page")
	}
}

func (s *Server) handleState(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.page(s.viewer(r)))
}

func (s *Server) handleSetHome(w http.ResponseWriter, r *http.Request) {
	s.handleTeam(w, r, (*ui.Controller).SetHome)
}

func (s *Server) handleSetAway(w http.ResponseWriter, r *http.Request) {
	s.handleTeam(w, r, (*ui.Controller).SetAway)
}

func (s *Server) handleTeam(w http.ResponseWriter, r *http.Request, set func(*ui.Controller, string) error) {
	var body struct {
		Team string `json:"team"`
	}
	if err := decode(r, &body, func() { body.Team = r.PostFormValue("team") }); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	c := s.controller(r)
	if err := set(c, body.Team); err != nil {
		if errors.Is(err, teams.ErrUnknownTeam) {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		zerolog.Ctx(r.Context()).Error().Err(err).Msg("failed to update selection")
		writeError(w, http.StatusInternalServerError, "failed to update selection")
		return
	}
	s.respond(w, r, c)
}

func (s *Server) handleSwap(w http.ResponseWriter, r *http.Request) {
	c := s.controller(r)
	c.Swap()
	s.respond(w, r, c)
}

func (s *Server) handlePredict(w http.ResponseWriter, r *http.Request) {
	c := s.controller(r)
	if _, err := c.Predict(r.Context()); err != nil {
		if errors.Is(err, ui.ErrPredictionInFlight) {
			writeError(w, http.StatusConflict, err.Error())
			return
		}
		zerolog.Ctx(r.Context()).Error().Err(err).Msg("predict failed")
		writeError(w, http.StatusInternalServerError, "predict failed")
		return
	}
	s.respond(w, r, c)
}

func (s *Server) handleVolume(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Volume *float64 `json:"volume"`
	}
	err := decode(r, &body, func() {
		if v, err := strconv.ParseFloat(r.PostFormValue("volume"), 64); err == nil {
			body.Volume = &v
		}
	})
	if err != nil || body.Volume == nil {
		writeError(w, http.StatusBadRequest, "volume must be a number")
		return
	}

	v := s.music.SetVolume(*body.Volume)
	zerolog.Ctx(r.Context()).Debug().Float64("volume", v).Msg("music volume changed")
	s.respond(w, r, s.viewer(r))
}

func (s *Server) handleJournal(w http.ResponseWriter, r *http.Request) {
	limit := constants.JournalDefaultLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 {
			writeError(w, http.StatusBadRequest, "limit must be a positive integer")
			return
		}
		limit = min(n, constants.JournalMaxLimit)
	}

	records, err := s.journal.Recent(r.Context(), limit)
	if err != nil {
		zerolog.Ctx(r.Context()).Error().Err(err).Msg("failed to read journal")
		writeError(w, http.StatusInternalServerError, "failed to read journal")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"predictions": records})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), constants.ExternalAPITimeout)
	defer cancel()

	resp, err := s.health.Health(ctx)
	if err != nil {
		s.logger.Warn().Err(err).Msg("prediction backend unhealthy")
		writeJSON(w, http.StatusServiceUnavailable, map[string]string{
			"status": "unavailable",
			"error":  err.Error(),
		})
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"status":  "ok",
		"backend": resp,
	})
}

// respond sends form posts back to the page and answers JSON posts with the new page state.
func (s *Server) respond(w http.ResponseWriter, r *http.Request, c *ui.Controller) {
	if !isJSON(r) {
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}
	writeJSON(w, http.StatusOK, s.page(c))
}

func decode(r *http.Request, dst any, fromForm func()) error {
	if isJSON(r) {
		if r.ContentLength == 0 {
			return nil
		}
		return json.NewDecoder(r.Body).Decode(dst)
	}
	if err := r.ParseForm(); err != nil {
		return err
	}
	fromForm()
	return nil
}

func isJSON(r *http.Request) bool {
	mt, _, err := mime.ParseMediaType(r.Header.Get("Content-Type"))
	return err == nil && mt == "application/json"
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
