// Package api exposes the game service as a JSON HTTP API.
package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/KirkDiggler/kartboard/internal/export"
	"github.com/KirkDiggler/kartboard/internal/models"
	"github.com/KirkDiggler/kartboard/internal/services/game"
)

// Config holds configuration for the API handler
type Config struct {
	GameService game.Service

	// Metrics is mounted at MetricsPath when both are set
	Metrics     http.Handler
	MetricsPath string

	Logger *slog.Logger
}

// Handler serves the game routes
type Handler struct {
	gameService game.Service
	metrics     http.Handler
	metricsPath string
	logger      *slog.Logger
}

// New creates a new API handler
func New(cfg *Config) (*Handler, error) {
	if cfg == nil {
		return nil, errors.New("config cannot be nil")
	}

	if cfg.GameService == nil {
		return nil, errors.New("game service cannot be nil")
	}

	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	return &Handler{
		gameService: cfg.GameService,
		metrics:     cfg.Metrics,
		metricsPath: cfg.MetricsPath,
		logger:      logger,
	}, nil
}

// Routes sets up the routes for the API
func (h *Handler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(h.logRequests)

	if h.metrics != nil && h.metricsPath != "" {
		r.Method(http.MethodGet, h.metricsPath, h.metrics)
	}

	r.Route("/games", func(r chi.Router) {
		r.Post("/", h.createGame)
		r.Get("/", h.listGames)

		r.Route("/{gameID}", func(r chi.Router) {
			r.Get("/", h.getGame)
			r.Delete("/", h.deleteGame)
			r.Post("/registration", h.startRegistration)
			r.Post("/players", h.registerPlayer)
			r.Get("/players", h.listPlayers)
			r.Post("/game-master", h.chooseGameMaster)
			r.Post("/races", h.startRaces)
			r.Post("/races/current", h.submitRace)
			r.Post("/results", h.recordResult)
			r.Get("/results", h.listResults)
			r.Get("/leaderboard", h.getLeaderboard)
			r.Post("/reset", h.resetGame)
			r.Post("/quit", h.quitGame)
			r.Get("/export/{format}", h.exportGame)
		})
	})

	return r
}

func (h *Handler) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)
		h.logger.DebugContext(r.Context(), "http request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"duration", time.Since(start),
			"request_id", middleware.GetReqID(r.Context()),
		)
	})
}

// statusFor maps game errors to HTTP status codes
func statusFor(err error) int {
	switch {
	case errors.Is(err, game.ErrInvalidInput),
		errors.Is(err, game.ErrInvalidPosition),
		errors.Is(err, game.ErrIncompleteRace),
		errors.Is(err, game.ErrNoPlayers):
		return http.StatusBadRequest
	case errors.Is(err, game.ErrGameNotFound):
		return http.StatusNotFound
	case errors.Is(err, game.ErrAlreadyExists),
		errors.Is(err, game.ErrDuplicateEntry),
		errors.Is(err, game.ErrInvalidGameState):
		return http.StatusConflict
	case errors.Is(err, game.ErrUnknownPlayer):
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}

func (h *Handler) writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := statusFor(err)
	message := err.Error()
	if status == http.StatusInternalServerError {
		h.logger.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "error", err)
		message = "internal error"
	}

	writeJSON(w, status, errorResponse{
		Error:  message,
		Reason: game.Reason(err),
	})
}

func writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

func decode(r *http.Request, v interface{}) error {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return fmt.Errorf("%w: failed to decode request body: %w", game.ErrInvalidInput, err)
	}
	return nil
}

func gameID(r *http.Request) string {
	return chi.URLParam(r, "gameID")
}

func toGameResponse(g *models.Game) gameResponse {
	return gameResponse{
		ID:          g.ID,
		Status:      string(g.Status),
		TotalRaces:  g.TotalRaces,
		CurrentRace: g.CurrentRace,
		GameMaster:  g.GameMaster,
		CreatedAt:   g.CreatedAt,
		UpdatedAt:   g.UpdatedAt,
	}
}

func toRowsResponse(rows []*models.LeaderboardRow) []leaderboardRowResponse {
	out := make([]leaderboardRowResponse, 0, len(rows))
	for _, row := range rows {
		out = append(out, leaderboardRowResponse{
			Player:      row.PlayerName,
			TotalPoints: row.TotalPoints,
			Rank:        row.Rank,
			Races:       row.RacesScored,
		})
	}
	return out
}

func toResultsResponse(results []*models.RaceResult) []resultResponse {
	out := make([]resultResponse, 0, len(results))
	for _, r := range results {
		out = append(out, resultResponse{
			RaceNumber: r.RaceNumber,
			Player:     r.PlayerName,
			Position:   r.Position,
			Points:     r.Points,
		})
	}
	return out
}

func (h *Handler) createGame(w http.ResponseWriter, r *http.Request) {
	output, err := h.gameService.CreateGame(r.Context(), &game.CreateGameInput{})
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, toGameResponse(output.Game))
}

func (h *Handler) listGames(w http.ResponseWriter, r *http.Request) {
	output, err := h.gameService.ListActiveGames(r.Context(), &game.ListActiveGamesInput{})
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	games := make([]gameResponse, 0, len(output.Games))
	for _, g := range output.Games {
		games = append(games, toGameResponse(g))
	}
	writeJSON(w, http.StatusOK, games)
}

func (h *Handler) getGame(w http.ResponseWriter, r *http.Request) {
	output, err := h.gameService.GetGame(r.Context(), &game.GetGameInput{GameID: gameID(r)})
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, toGameResponse(output.Game))
}

func (h *Handler) deleteGame(w http.ResponseWriter, r *http.Request) {
	if _, err := h.gameService.DeleteGame(r.Context(), &game.DeleteGameInput{GameID: gameID(r)}); err != nil {
		h.writeError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) startRegistration(w http.ResponseWriter, r *http.Request) {
	output, err := h.gameService.StartRegistration(r.Context(), &game.StartRegistrationInput{GameID: gameID(r)})
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, toGameResponse(output.Game))
}

func (h *Handler) registerPlayer(w http.ResponseWriter, r *http.Request) {
	var req registerPlayerRequest
	if err := decode(r, &req); err != nil {
		h.writeError(w, r, err)
		return
	}

	output, err := h.gameService.RegisterPlayer(r.Context(), &game.RegisterPlayerInput{
		GameID: gameID(r),
		Name:   req.Name,
	})
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, playerResponse{Name: output.Player.Name})
}

func (h *Handler) listPlayers(w http.ResponseWriter, r *http.Request) {
	output, err := h.gameService.ListPlayers(r.Context(), &game.ListPlayersInput{GameID: gameID(r)})
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	players := make([]playerResponse, 0, len(output.Players))
	for _, p := range output.Players {
		players = append(players, playerResponse{Name: p.Name})
	}
	writeJSON(w, http.StatusOK, players)
}

func (h *Handler) chooseGameMaster(w http.ResponseWriter, r *http.Request) {
	output, err := h.gameService.ChooseGameMaster(r.Context(), &game.ChooseGameMasterInput{GameID: gameID(r)})
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, gameMasterResponse{GameMaster: output.GameMaster})
}

func (h *Handler) startRaces(w http.ResponseWriter, r *http.Request) {
	// The body is optional; without one the configured default applies
	var req startRacesRequest
	if err := decode(r, &req); err != nil && !errors.Is(err, io.EOF) {
		h.writeError(w, r, err)
		return
	}

	output, err := h.gameService.StartRaces(r.Context(), &game.StartRacesInput{
		GameID:     gameID(r),
		TotalRaces: req.TotalRaces,
	})
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, toGameResponse(output.Game))
}

func (h *Handler) submitRace(w http.ResponseWriter, r *http.Request) {
	var req submitRaceRequest
	if err := decode(r, &req); err != nil {
		h.writeError(w, r, err)
		return
	}

	output, err := h.gameService.SubmitRace(r.Context(), &game.SubmitRaceInput{
		GameID:    gameID(r),
		Positions: req.Positions,
	})
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, submitRaceResponse{
		RaceNumber:  output.RaceNumber,
		Finished:    output.Finished,
		Results:     toResultsResponse(output.Results),
		Leaderboard: toRowsResponse(output.Leaderboard),
		Game:        toGameResponse(output.Game),
	})
}

func (h *Handler) recordResult(w http.ResponseWriter, r *http.Request) {
	var req recordResultRequest
	if err := decode(r, &req); err != nil {
		h.writeError(w, r, err)
		return
	}

	output, err := h.gameService.RecordResult(r.Context(), &game.RecordResultInput{
		GameID:     gameID(r),
		RaceNumber: req.RaceNumber,
		PlayerName: req.Player,
		Position:   req.Position,
	})
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, toResultsResponse([]*models.RaceResult{output.Result})[0])
}

func (h *Handler) listResults(w http.ResponseWriter, r *http.Request) {
	output, err := h.gameService.ListResults(r.Context(), &game.ListResultsInput{GameID: gameID(r)})
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, toResultsResponse(output.Results))
}

func (h *Handler) getLeaderboard(w http.ResponseWriter, r *http.Request) {
	output, err := h.gameService.GetLeaderboard(r.Context(), &game.GetLeaderboardInput{GameID: gameID(r)})
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, toRowsResponse(output.Rows))
}

func (h *Handler) resetGame(w http.ResponseWriter, r *http.Request) {
	output, err := h.gameService.ResetGame(r.Context(), &game.ResetGameInput{GameID: gameID(r)})
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, toGameResponse(output.Game))
}

func (h *Handler) quitGame(w http.ResponseWriter, r *http.Request) {
	output, err := h.gameService.QuitGame(r.Context(), &game.QuitGameInput{GameID: gameID(r)})
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, toGameResponse(output.Game))
}

func (h *Handler) exportGame(w http.ResponseWriter, r *http.Request) {
	format, err := export.ParseFormat(chi.URLParam(r, "format"))
	if err != nil {
		h.writeError(w, r, fmt.Errorf("%w: %v", game.ErrInvalidInput, err))
		return
	}

	snap, err := export.Collect(r.Context(), h.gameService, gameID(r))
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	w.Header().Set("Content-Type", format.ContentType())
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", fmt.Sprintf("kartboard-%s.%s", snap.Game.ID, format)))
	if err := export.Write(w, format, snap); err != nil {
		h.logger.ErrorContext(r.Context(), "export failed", "game_id", snap.Game.ID, "format", format, "error", err)
	}
}
