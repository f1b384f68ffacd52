package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/albertomarcenaro-code/match-manager-v2-sub000/internal/service"
	"github.com/albertomarcenaro-code/match-manager-v2-sub000/pkg/response"
)

// MatchHandler exposes the match intents: one POST per user action plus
// read-only state, minutes and summary endpoints.
type MatchHandler struct {
	svc service.MatchService
}

func NewMatchHandler(svc service.MatchService) *MatchHandler { return &MatchHandler{svc: svc} }

func (h *MatchHandler) Register(r *gin.RouterGroup) {
	g := r.Group("/match")
	{
		g.GET("", h.state)
		g.GET("/minutes", h.minutes)
		g.GET("/summary", h.summary)

		g.PUT("/teams/:side", h.setTeamName)
		g.PUT("/periods", h.configurePeriods)
		g.POST("/teams/:side/players", h.addPlayer)
		g.DELETE("/teams/:side/players/:player_id", h.removePlayer)
		g.PUT("/teams/:side/starters", h.setStarters)
		g.POST("/starters/confirm", h.confirmStarters)

		g.POST("/period/start", h.startPeriod)
		g.POST("/period/end", h.endPeriod)
		g.POST("/pause", h.pause)
		g.POST("/resume", h.resume)
		g.POST("/goals", h.recordGoal)
		g.POST("/cards", h.recordCard)
		g.POST("/substitutions", h.recordSubstitution)
		g.POST("/end", h.endMatch)
		g.POST("/undo", h.undo)
		g.POST("/reset", h.reset)
	}
}

func (h *MatchHandler) state(c *gin.Context) {
	response.WriteData(c, http.StatusOK, h.svc.State())
}

func (h *MatchHandler) minutes(c *gin.Context) {
	response.WriteData(c, http.StatusOK, gin.H{"players": h.svc.Minutes()})
}

func (h *MatchHandler) summary(c *gin.Context) {
	response.WriteData(c, http.StatusOK, gin.H{"summary": h.svc.Summary()})
}

type setTeamNameRequest struct {
	Name string `json:"name"`
}

func (h *MatchHandler) setTeamName(c *gin.Context) {
	var req setTeamNameRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.WriteError(c, service.ErrInvalidInput)
		return
	}
	if err := h.svc.SetTeamName(c.Param("side"), req.Name); err != nil {
		response.WriteError(c, err)
		return
	}
	response.WriteData(c, http.StatusOK, h.svc.State())
}

type configurePeriodsRequest struct {
	PeriodDuration int `json:"periodDuration"`
	TotalPeriods   int `json:"totalPeriods"`
}

func (h *MatchHandler) configurePeriods(c *gin.Context) {
	var req configurePeriodsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.WriteError(c, service.ErrInvalidInput)
		return
	}
	if err := h.svc.ConfigurePeriods(req.PeriodDuration, req.TotalPeriods); err != nil {
		response.WriteError(c, err)
		return
	}
	response.WriteData(c, http.StatusOK, h.svc.State())
}

type addPlayerRequest struct {
	Name   string `json:"name"`
	Kind   string `json:"kind"`
	Number *int   `json:"number"`
}

func (h *MatchHandler) addPlayer(c *gin.Context) {
	var req addPlayerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.WriteError(c, service.ErrInvalidInput)
		return
	}
	p, err := h.svc.AddPlayer(c.Param("side"), req.Kind, req.Name, req.Number)
	if err != nil {
		response.WriteError(c, err)
		return
	}
	response.WriteData(c, http.StatusCreated, p)
}

func (h *MatchHandler) removePlayer(c *gin.Context) {
	if err := h.svc.RemovePlayer(c.Param("side"), c.Param("player_id")); err != nil {
		response.WriteError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

type setStartersRequest struct {
	PlayerIDs []string `json:"playerIds"`
}

func (h *MatchHandler) setStarters(c *gin.Context) {
	var req setStartersRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.WriteError(c, service.ErrInvalidInput)
		return
	}
	if err := h.svc.SetStarters(c.Param("side"), req.PlayerIDs); err != nil {
		response.WriteError(c, err)
		return
	}
	response.WriteData(c, http.StatusOK, h.svc.State())
}

func (h *MatchHandler) confirmStarters(c *gin.Context) {
	if err := h.svc.ConfirmStarters(); err != nil {
		response.WriteError(c, err)
		return
	}
	response.WriteData(c, http.StatusOK, h.svc.State())
}

type startPeriodRequest struct {
	DurationMinutes int `json:"durationMinutes"`
}

func (h *MatchHandler) startPeriod(c *gin.Context) {
	var req startPeriodRequest
	// body is optional: an empty body starts with the configured duration
	_ = c.ShouldBindJSON(&req)
	if err := h.svc.StartPeriod(req.DurationMinutes); err != nil {
		response.WriteError(c, err)
		return
	}
	response.WriteData(c, http.StatusOK, h.svc.State())
}

func (h *MatchHandler) endPeriod(c *gin.Context) {
	if err := h.svc.EndPeriod(); err != nil {
		response.WriteError(c, err)
		return
	}
	response.WriteData(c, http.StatusOK, h.svc.State())
}

func (h *MatchHandler) pause(c *gin.Context) {
	if err := h.svc.Pause(); err != nil {
		response.WriteError(c, err)
		return
	}
	response.WriteData(c, http.StatusOK, h.svc.State())
}

func (h *MatchHandler) resume(c *gin.Context) {
	if err := h.svc.Resume(); err != nil {
		response.WriteError(c, err)
		return
	}
	response.WriteData(c, http.StatusOK, h.svc.State())
}

type recordGoalRequest struct {
	Team     string `json:"team"`
	PlayerID string `json:"playerId"`
	OwnGoal  bool   `json:"ownGoal"`
}

func (h *MatchHandler) recordGoal(c *gin.Context) {
	var req recordGoalRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.WriteError(c, service.ErrInvalidInput)
		return
	}
	if err := h.svc.RecordGoal(req.Team, req.PlayerID, req.OwnGoal); err != nil {
		response.WriteError(c, err)
		return
	}
	response.WriteData(c, http.StatusOK, h.svc.State())
}

type recordCardRequest struct {
	Team     string `json:"team"`
	PlayerID string `json:"playerId"`
	Card     string `json:"card"`
}

func (h *MatchHandler) recordCard(c *gin.Context) {
	var req recordCardRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.WriteError(c, service.ErrInvalidInput)
		return
	}
	if err := h.svc.RecordCard(req.Team, req.PlayerID, req.Card); err != nil {
		response.WriteError(c, err)
		return
	}
	response.WriteData(c, http.StatusOK, h.svc.State())
}

type recordSubstitutionRequest struct {
	Team        string `json:"team"`
	PlayerOutID string `json:"playerOutId"`
	PlayerInID  string `json:"playerInId"`
}

func (h *MatchHandler) recordSubstitution(c *gin.Context) {
	var req recordSubstitutionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.WriteError(c, service.ErrInvalidInput)
		return
	}
	if err := h.svc.RecordSubstitution(req.Team, req.PlayerOutID, req.PlayerInID); err != nil {
		response.WriteError(c, err)
		return
	}
	response.WriteData(c, http.StatusOK, h.svc.State())
}

func (h *MatchHandler) endMatch(c *gin.Context) {
	if err := h.svc.EndMatch(); err != nil {
		response.WriteError(c, err)
		return
	}
	response.WriteData(c, http.StatusOK, h.svc.State())
}

func (h *MatchHandler) undo(c *gin.Context) {
	if err := h.svc.Undo(); err != nil {
		response.WriteError(c, err)
		return
	}
	response.WriteData(c, http.StatusOK, h.svc.State())
}

type resetRequest struct {
	KeepTeams bool `json:"keepTeams"`
}

func (h *MatchHandler) reset(c *gin.Context) {
	var req resetRequest
	_ = c.ShouldBindJSON(&req)
	if err := h.svc.Reset(req.KeepTeams); err != nil {
		response.WriteError(c, err)
		return
	}
	response.WriteData(c, http.StatusOK, h.svc.State())
}
