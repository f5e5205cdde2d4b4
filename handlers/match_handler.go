package handlers

import (
	"errors"
	"net/http"

	"github.com/Dosada05/tournament-draw/models"
	"github.com/Dosada05/tournament-draw/services"
)

var errMissingCategory = errors.New("category parameter is required")

type MatchHandler struct {
	matchService services.MatchService
}

func NewMatchHandler(matchService services.MatchService) *MatchHandler {
	return &MatchHandler{matchService: matchService}
}

// ListMatchesHandler отдаёт матчи по фильтрам запроса. round=bracket
// разворачивается во все раунды плей-офф; параметр round можно повторять.
func (h *MatchHandler) ListMatchesHandler(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	filter := services.MatchFilter{}

	if category := query.Get("category"); category != "" {
		filter.Category = &category
	}

	rounds := query["round"]
	switch {
	case len(rounds) == 1 && rounds[0] == "group":
		filter.Rounds = []models.MatchRound{models.RoundGroup}
		if group := query.Get("group"); group != "" {
			filter.GroupName = &group
		}
	case len(rounds) == 1 && rounds[0] == "bracket":
		filter.Rounds = models.KnockoutRounds
	default:
		for _, round := range rounds {
			filter.Rounds = append(filter.Rounds, models.MatchRound(round))
		}
	}

	matches, err := h.matchService.ListMatches(r.Context(), filter)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"matches": matches}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *MatchHandler) UpdateScoreHandler(w http.ResponseWriter, r *http.Request) {
	matchID, err := getIDFromURL(r, "matchID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	var body struct {
		Player1Score int                 `json:"player1_score"`
		Player2Score int                 `json:"player2_score"`
		WinnerID     *int                `json:"winner_id"`
		Status       *models.MatchStatus `json:"status"`
	}
	if err := readJSON(w, r, &body); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	match, err := h.matchService.RecordResult(r.Context(), matchID, services.RecordResultInput{
		Player1Score: body.Player1Score,
		Player2Score: body.Player2Score,
		WinnerID:     body.WinnerID,
		Status:       body.Status,
	})
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"match": match}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}
