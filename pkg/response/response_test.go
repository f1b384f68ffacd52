package response

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/albertomarcenaro-code/match-manager-v2-sub000/internal/match"
	"github.com/albertomarcenaro-code/match-manager-v2-sub000/internal/repository"
	"github.com/albertomarcenaro-code/match-manager-v2-sub000/internal/service"
)

func TestMapError(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantCode   string
	}{
		{name: "nil", err: nil, wantStatus: http.StatusOK, wantCode: "ok"},
		{name: "invalid input", err: service.ErrInvalidInput, wantStatus: http.StatusBadRequest, wantCode: "invalid_input"},
		{name: "player not found", err: match.ErrPlayerNotFound, wantStatus: http.StatusNotFound, wantCode: "player_not_found"},
		{name: "invalid transition", err: match.ErrInvalidTransition, wantStatus: http.StatusConflict, wantCode: "invalid_transition"},
		{name: "player ineligible", err: match.ErrPlayerIneligible, wantStatus: http.StatusConflict, wantCode: "player_ineligible"},
		{name: "not found", err: repository.ErrNotFound, wantStatus: http.StatusNotFound, wantCode: "not_found"},
		{name: "already exists", err: repository.ErrAlreadyExists, wantStatus: http.StatusConflict, wantCode: "already_exists"},
		{name: "conflict", err: repository.ErrConflict, wantStatus: http.StatusConflict, wantCode: "conflict"},
		{name: "wrapped sentinel", err: fmt.Errorf("load state: %w", repository.ErrNotFound), wantStatus: http.StatusNotFound, wantCode: "not_found"},
		{name: "unknown", err: fmt.Errorf("disk on fire"), wantStatus: http.StatusInternalServerError, wantCode: "internal_error"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status, payload := MapError(tt.err)
			assert.Equal(t, tt.wantStatus, status)
			assert.Equal(t, tt.wantCode, payload.Error)
		})
	}
}
