package handlers

import (
	"net/http"

	"github.com/Dosada05/tournament-draw/services"
	"github.com/go-chi/chi/v5"
)

type TournamentHandler struct {
	drawService services.DrawService
}

func NewTournamentHandler(drawService services.DrawService) *TournamentHandler {
	return &TournamentHandler{drawService: drawService}
}

// CreateDrawHandler строит жеребьёвку: для всех категорий со
// сгруппированными игроками либо, при ?category=, только для одной.
func (h *TournamentHandler) CreateDrawHandler(w http.ResponseWriter, r *http.Request) {
	if category := r.URL.Query().Get("category"); category != "" {
		tournament, err := h.drawService.BuildDraw(r.Context(), category)
		if err != nil {
			mapServiceErrorToHTTP(w, r, err)
			return
		}
		if err := writeJSON(w, http.StatusCreated, jsonResponse{
			"message":    "Tournament matches created successfully",
			"tournament": tournament,
		}, nil); err != nil {
			serverErrorResponse(w, r, err)
		}
		return
	}

	tournaments, err := h.drawService.BuildAllDraws(r.Context())
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusCreated, jsonResponse{
		"message":     "Tournament matches created successfully",
		"tournaments": tournaments,
	}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// GenerateBracketHandler заполняет round16 после группового этапа.
// Нарушенные предусловия - это ответ 200 с generated=false, чтобы фронтенд
// мог спокойно опрашивать готовность сетки.
func (h *TournamentHandler) GenerateBracketHandler(w http.ResponseWriter, r *http.Request) {
	category := chi.URLParam(r, "category")
	if category == "" {
		badRequestResponse(w, r, errMissingCategory)
		return
	}

	result, err := h.drawService.FillBracket(r.Context(), category)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, result, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}
