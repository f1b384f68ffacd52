package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/albertomarcenaro-code/match-manager-v2-sub000/internal/match"
	"github.com/albertomarcenaro-code/match-manager-v2-sub000/internal/service"
	"github.com/albertomarcenaro-code/match-manager-v2-sub000/pkg/response"
)

// TournamentHandler exposes tournament CRUD plus the fold endpoint that
// records the current finished match into a tournament.
type TournamentHandler struct {
	svc      service.TournamentService
	matchSvc service.MatchService
}

func NewTournamentHandler(svc service.TournamentService, matchSvc service.MatchService) *TournamentHandler {
	return &TournamentHandler{svc: svc, matchSvc: matchSvc}
}

func (h *TournamentHandler) Register(r *gin.RouterGroup) {
	g := r.Group("/tournaments")
	{
		g.POST("", h.create)
		g.GET("", h.list)
		g.GET("/:tournament_id", h.getByID)
		g.POST("/:tournament_id/matches", h.recordMatch)
		g.POST("/:tournament_id/deactivate", h.deactivate)
	}
}

type createTournamentRequest struct {
	Name     string `json:"name"`
	TeamName string `json:"teamName"`
}

func (h *TournamentHandler) create(c *gin.Context) {
	var req createTournamentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.WriteError(c, service.ErrInvalidInput)
		return
	}
	t, err := h.svc.Create(c.Request.Context(), req.Name, req.TeamName)
	if err != nil {
		response.WriteError(c, err)
		return
	}
	response.WriteData(c, http.StatusCreated, t)
}

func (h *TournamentHandler) list(c *gin.Context) {
	out, err := h.svc.List(c.Request.Context())
	if err != nil {
		response.WriteError(c, err)
		return
	}
	response.WriteData(c, http.StatusOK, gin.H{"tournaments": out})
}

func (h *TournamentHandler) getByID(c *gin.Context) {
	t, err := h.svc.Get(c.Request.Context(), c.Param("tournament_id"))
	if err != nil {
		response.WriteError(c, err)
		return
	}
	response.WriteData(c, http.StatusOK, t)
}

// recordMatch snapshots the currently ended match and folds it into the
// tournament. The match itself is left untouched; the caller resets it
// separately when continuing with the same roster.
func (h *TournamentHandler) recordMatch(c *gin.Context) {
	state := h.matchSvc.State()
	if !state.IsMatchEnded {
		response.WriteError(c, match.ErrInvalidTransition)
		return
	}
	t, err := h.svc.RecordMatch(c.Request.Context(), c.Param("tournament_id"), h.matchSvc.MatchSummary())
	if err != nil {
		response.WriteError(c, err)
		return
	}
	response.WriteData(c, http.StatusOK, t)
}

func (h *TournamentHandler) deactivate(c *gin.Context) {
	if err := h.svc.Deactivate(c.Request.Context(), c.Param("tournament_id")); err != nil {
		response.WriteError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
