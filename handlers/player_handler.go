package handlers

import (
	"net/http"

	"github.com/Dosada05/tournament-draw/services"
)

const maxSlipUploadSize = 10 << 20 // 10MB

type PlayerHandler struct {
	playerService services.PlayerService
}

func NewPlayerHandler(playerService services.PlayerService) *PlayerHandler {
	return &PlayerHandler{playerService: playerService}
}

// RegisterHandler принимает multipart-форму с данными игрока и файлом
// платёжного слипа в поле slip.
func (h *PlayerHandler) RegisterHandler(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxSlipUploadSize); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	input := services.RegisterPlayerInput{
		FirstName:   r.FormValue("firstname"),
		LastName:    r.FormValue("lastname"),
		Affiliation: r.FormValue("affiliation"),
		SeedRank:    r.FormValue("seed_rank"),
		Category:    r.FormValue("category"),
	}

	file, header, err := r.FormFile("slip")
	if err != nil {
		mapServiceErrorToHTTP(w, r, services.ErrSlipRequired)
		return
	}
	defer file.Close()

	player, err := h.playerService.Register(r.Context(), input, file, header.Header.Get("Content-Type"))
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusCreated, jsonResponse{"player": player}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *PlayerHandler) SearchPaymentsHandler(w http.ResponseWriter, r *http.Request) {
	results, err := h.playerService.SearchPayments(r.Context(), r.URL.Query().Get("query"))
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"players": results}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *PlayerHandler) ListUnpaidHandler(w http.ResponseWriter, r *http.Request) {
	players, err := h.playerService.ListUnpaid(r.Context())
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"players": players}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *PlayerHandler) ApproveHandler(w http.ResponseWriter, r *http.Request) {
	id, err := getIDFromURL(r, "playerID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	player, err := h.playerService.Approve(r.Context(), id)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"player": player}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *PlayerHandler) ListAvailableForGroupingHandler(w http.ResponseWriter, r *http.Request) {
	players, err := h.playerService.ListAvailableForGrouping(r.Context())
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"players": players}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *PlayerHandler) ListGroupedHandler(w http.ResponseWriter, r *http.Request) {
	grouped, err := h.playerService.ListGrouped(r.Context())
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"players": grouped}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *PlayerHandler) AssignGroupsHandler(w http.ResponseWriter, r *http.Request) {
	var input struct {
		Assignments []services.GroupAssignment `json:"assignments"`
	}
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	if err := h.playerService.AssignGroups(r.Context(), input.Assignments); err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"message": "Groups assigned successfully"}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}
