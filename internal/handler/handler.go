package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/albertomarcenaro-code/match-manager-v2-sub000/internal/service"
)

// Register mounts all public routes on the given engine.
func Register(r *gin.Engine, repo Pinger, matchSvc service.MatchService, tournamentSvc service.TournamentService) {
	h := NewHealthHandler(repo)

	// Health probes
	r.GET("/live", h.Liveness)
	r.GET("/ready", h.Readiness)

	api := r.Group(APIV1Prefix)
	{
		health := api.Group("/health")
		{
			health.GET("/live", h.Liveness)
			health.GET("/ready", h.Readiness)
		}
		NewMatchHandler(matchSvc).Register(api)
		NewTournamentHandler(tournamentSvc, matchSvc).Register(api)
	}
}
