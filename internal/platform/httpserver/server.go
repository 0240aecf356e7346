package httpserver

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	campaignservice "rally/contexts/promotions/campaign-service"
	"rally/contexts/promotions/campaign-service/application/commands"
	domainerrors "rally/contexts/promotions/campaign-service/domain/errors"
	campaignhttp "rally/contexts/promotions/campaign-service/transport/http"
	"rally/internal/platform/metrics"

	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type Server struct {
	mux      *http.ServeMux
	logger   *slog.Logger
	addr     string
	campaign campaignservice.Module
}

func New(campaign campaignservice.Module, logger *slog.Logger, addr string) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	if addr == "" {
		addr = ":8080"
	}

	s := &Server{
		mux:      http.NewServeMux(),
		logger:   logger,
		addr:     addr,
		campaign: campaign,
	}
	s.registerRoutes()
	return s
}

func (s *Server) Start() error {
	s.logger.Info("http server starting",
		"event", "http_server_starting",
		"module", "internal/platform/httpserver",
		"layer", "platform",
		"addr", s.addr,
	)
	return http.ListenAndServe(s.addr, s.mux)
}

// Mux exposes the routed handler for tests and embedding.
func (s *Server) Mux() *http.ServeMux {
	return s.mux
}

func (s *Server) registerRoutes() {
	s.mux.Handle("GET /metrics", promhttp.Handler())
	s.mux.HandleFunc("GET /healthz", s.handleHealth)

	s.mux.HandleFunc("POST /api/campaigns/v1/campaigns", s.handleCreateCampaign)
	s.mux.HandleFunc("GET /api/campaigns/v1/campaigns", s.handleListCampaigns)
	s.mux.HandleFunc("GET /api/campaigns/v1/campaigns/{campaign_id}", s.handleGetCampaign)
	s.mux.HandleFunc("PATCH /api/campaigns/v1/campaigns/{campaign_id}", s.handleUpdateCampaign)
	s.mux.HandleFunc("DELETE /api/campaigns/v1/campaigns/{campaign_id}", s.handleDeleteCampaign)
	s.mux.HandleFunc("POST /api/campaigns/v1/campaigns/{campaign_id}/fund", s.handleFundCampaign)
	s.mux.HandleFunc("POST /api/campaigns/v1/campaigns/{campaign_id}/close", s.handleCloseCampaign)
	s.mux.HandleFunc("POST /api/campaigns/v1/campaigns/{campaign_id}/join", s.handleJoinCampaign)

	s.mux.HandleFunc("GET /api/campaigns/v1/campaigns/{campaign_id}/team", s.handleListTeam)
	s.mux.HandleFunc("POST /api/campaigns/v1/campaigns/{campaign_id}/team", s.handleManageTeam)
	s.mux.HandleFunc("POST /api/campaigns/v1/campaigns/{campaign_id}/participants/{user_id}/approve", s.handleApproveParticipant)
	s.mux.HandleFunc("DELETE /api/campaigns/v1/campaigns/{campaign_id}/participants/{user_id}", s.handleRemoveParticipant)
	s.mux.HandleFunc("POST /api/campaigns/v1/campaigns/{campaign_id}/bans", s.handleBanParticipant)

	s.mux.HandleFunc("GET /api/campaigns/v1/campaigns/{campaign_id}/questions", s.handleGetQuestions)
	s.mux.HandleFunc("PUT /api/campaigns/v1/campaigns/{campaign_id}/questions", s.handleSetQuestions)
	s.mux.HandleFunc("GET /api/campaigns/v1/campaigns/{campaign_id}/responses", s.handleListResponses)
	s.mux.HandleFunc("POST /api/campaigns/v1/campaigns/{campaign_id}/responses/{user_id}/review", s.handleReviewResponse)

	s.mux.HandleFunc("GET /api/campaigns/v1/campaigns/{campaign_id}/permissions", s.handleGetPermissions)
	s.mux.HandleFunc("PUT /api/campaigns/v1/campaigns/{campaign_id}/permissions", s.handleSetPermissions)
	s.mux.HandleFunc("GET /api/campaigns/v1/campaigns/{campaign_id}/stats", s.handleGetStats)
	s.mux.HandleFunc("GET /api/campaigns/v1/campaigns/{campaign_id}/leaderboard", s.handleGetLeaderboard)
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleCreateCampaign(w http.ResponseWriter, r *http.Request) {
	actor, ok := resolveActor(w, r)
	if !ok {
		return
	}

	var req campaignhttp.CreateCampaignRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", "request body must be valid JSON")
		return
	}

	resp, err := s.campaign.Handler.CreateCampaignHandler(
		r.Context(),
		actor,
		r.Header.Get("Idempotency-Key"),
		req,
	)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	status := http.StatusCreated
	if resp.Replayed {
		status = http.StatusOK
	}
	writeJSON(w, status, resp)
}

func (s *Server) handleListCampaigns(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	resp, err := s.campaign.Handler.ListCampaignsHandler(
		r.Context(),
		query.Get("created_by"),
		query.Get("status"),
	)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleGetCampaign(w http.ResponseWriter, r *http.Request) {
	resp, err := s.campaign.Handler.GetCampaignHandler(r.Context(), r.PathValue("campaign_id"))
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleUpdateCampaign(w http.ResponseWriter, r *http.Request) {
	actor, ok := resolveActor(w, r)
	if !ok {
		return
	}

	var req campaignhttp.UpdateCampaignRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", "request body must be valid JSON")
		return
	}

	resp, err := s.campaign.Handler.UpdateCampaignHandler(r.Context(), actor, r.PathValue("campaign_id"), req)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleDeleteCampaign(w http.ResponseWriter, r *http.Request) {
	actor, ok := resolveActor(w, r)
	if !ok {
		return
	}
	if err := s.campaign.Handler.DeleteCampaignHandler(r.Context(), actor, r.PathValue("campaign_id")); err != nil {
		writeDomainError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleFundCampaign(w http.ResponseWriter, r *http.Request) {
	actor, ok := resolveActor(w, r)
	if !ok {
		return
	}
	resp, err := s.campaign.Handler.FundCampaignHandler(r.Context(), actor, r.PathValue("campaign_id"))
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleCloseCampaign(w http.ResponseWriter, r *http.Request) {
	actor, ok := resolveActor(w, r)
	if !ok {
		return
	}
	resp, err := s.campaign.Handler.CloseCampaignHandler(r.Context(), actor, r.PathValue("campaign_id"))
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleJoinCampaign(w http.ResponseWriter, r *http.Request) {
	actor, ok := resolveActor(w, r)
	if !ok {
		return
	}

	req := campaignhttp.JoinCampaignRequest{}
	if r.Body != nil && r.ContentLength != 0 {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid_json", "request body must be valid JSON")
			return
		}
	}

	started := time.Now()
	resp, err := s.campaign.Handler.JoinCampaignHandler(r.Context(), actor, r.PathValue("campaign_id"), req)
	if err != nil {
		metrics.RecordJoinDuration("failure", time.Since(started).Seconds())
		writeDomainError(w, err)
		return
	}
	metrics.RecordJoinDuration("success", time.Since(started).Seconds())
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleListTeam(w http.ResponseWriter, r *http.Request) {
	resp, err := s.campaign.Handler.ListTeamHandler(r.Context(), r.PathValue("campaign_id"))
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleManageTeam(w http.ResponseWriter, r *http.Request) {
	actor, ok := resolveActor(w, r)
	if !ok {
		return
	}

	var req campaignhttp.ManageTeamRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", "request body must be valid JSON")
		return
	}

	if err := s.campaign.Handler.ManageTeamHandler(r.Context(), actor, r.PathValue("campaign_id"), req); err != nil {
		writeDomainError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleApproveParticipant(w http.ResponseWriter, r *http.Request) {
	actor, ok := resolveActor(w, r)
	if !ok {
		return
	}
	err := s.campaign.Handler.ApproveParticipantHandler(
		r.Context(),
		actor,
		r.PathValue("campaign_id"),
		r.PathValue("user_id"),
	)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleRemoveParticipant(w http.ResponseWriter, r *http.Request) {
	actor, ok := resolveActor(w, r)
	if !ok {
		return
	}
	err := s.campaign.Handler.RemoveParticipantHandler(
		r.Context(),
		actor,
		r.PathValue("campaign_id"),
		r.PathValue("user_id"),
	)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleBanParticipant(w http.ResponseWriter, r *http.Request) {
	actor, ok := resolveActor(w, r)
	if !ok {
		return
	}

	var req campaignhttp.BanParticipantRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", "request body must be valid JSON")
		return
	}

	if err := s.campaign.Handler.BanParticipantHandler(r.Context(), actor, r.PathValue("campaign_id"), req); err != nil {
		writeDomainError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleGetQuestions(w http.ResponseWriter, r *http.Request) {
	resp, err := s.campaign.Handler.GetQuestionsHandler(r.Context(), r.PathValue("campaign_id"))
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleSetQuestions(w http.ResponseWriter, r *http.Request) {
	actor, ok := resolveActor(w, r)
	if !ok {
		return
	}

	var req campaignhttp.SetQuestionsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", "request body must be valid JSON")
		return
	}

	resp, err := s.campaign.Handler.SetQuestionsHandler(r.Context(), actor, r.PathValue("campaign_id"), req)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleListResponses(w http.ResponseWriter, r *http.Request) {
	actor, ok := resolveActor(w, r)
	if !ok {
		return
	}
	resp, err := s.campaign.Handler.ListResponsesHandler(
		r.Context(),
		actor,
		r.PathValue("campaign_id"),
		r.URL.Query().Get("status"),
	)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleReviewResponse(w http.ResponseWriter, r *http.Request) {
	actor, ok := resolveActor(w, r)
	if !ok {
		return
	}

	var req campaignhttp.ReviewResponseRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", "request body must be valid JSON")
		return
	}

	resp, err := s.campaign.Handler.ReviewResponseHandler(
		r.Context(),
		actor,
		r.PathValue("campaign_id"),
		r.PathValue("user_id"),
		req,
	)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleGetPermissions(w http.ResponseWriter, r *http.Request) {
	resp, err := s.campaign.Handler.GetPermissionsHandler(r.Context(), r.PathValue("campaign_id"))
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleSetPermissions(w http.ResponseWriter, r *http.Request) {
	actor, ok := resolveActor(w, r)
	if !ok {
		return
	}

	var req campaignhttp.SetPermissionsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", "request body must be valid JSON")
		return
	}

	if err := s.campaign.Handler.SetPermissionsHandler(r.Context(), actor, r.PathValue("campaign_id"), req); err != nil {
		writeDomainError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleGetStats(w http.ResponseWriter, r *http.Request) {
	resp, err := s.campaign.Handler.GetStatsHandler(r.Context(), r.PathValue("campaign_id"))
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleGetLeaderboard(w http.ResponseWriter, r *http.Request) {
	resp, err := s.campaign.Handler.GetLeaderboardHandler(r.Context(), r.PathValue("campaign_id"))
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func resolveActor(w http.ResponseWriter, r *http.Request) (commands.Actor, bool) {
	userID := strings.TrimSpace(r.Header.Get("X-User-Id"))
	if userID == "" {
		writeError(w, http.StatusUnauthorized, "missing_user", "X-User-Id header is required")
		return commands.Actor{}, false
	}
	return commands.Actor{
		UserID: userID,
		Staff:  strings.EqualFold(strings.TrimSpace(r.Header.Get("X-Staff")), "true"),
	}, true
}

func writeDomainError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, domainerrors.ErrCampaignNotFound):
		writeError(w, http.StatusNotFound, "campaign_not_found", err.Error())
	case errors.Is(err, domainerrors.ErrParticipantNotFound):
		writeError(w, http.StatusNotFound, "participant_not_found", err.Error())
	case errors.Is(err, domainerrors.ErrResponseNotFound):
		writeError(w, http.StatusNotFound, "response_not_found", err.Error())
	case errors.Is(err, domainerrors.ErrInvalidCampaignInput):
		writeError(w, http.StatusBadRequest, "invalid_campaign_input", err.Error())
	case errors.Is(err, domainerrors.ErrInvalidPlatform):
		writeError(w, http.StatusBadRequest, "invalid_platform", err.Error())
	case errors.Is(err, domainerrors.ErrIdempotencyKeyRequired):
		writeError(w, http.StatusBadRequest, "idempotency_key_required", err.Error())
	case errors.Is(err, domainerrors.ErrSelfTarget):
		writeError(w, http.StatusBadRequest, "self_target", err.Error())
	case errors.Is(err, domainerrors.ErrCampaignNotActive):
		writeError(w, http.StatusBadRequest, "campaign_not_active", err.Error())
	case errors.Is(err, domainerrors.ErrForbidden):
		writeError(w, http.StatusForbidden, "forbidden", err.Error())
	case errors.Is(err, domainerrors.ErrUserBanned):
		writeError(w, http.StatusForbidden, "user_banned", err.Error())
	case errors.Is(err, domainerrors.ErrCampaignFull):
		writeError(w, http.StatusForbidden, "campaign_full", err.Error())
	case errors.Is(err, domainerrors.ErrInvalidTransition):
		writeError(w, http.StatusConflict, "invalid_transition", err.Error())
	case errors.Is(err, domainerrors.ErrCreatorImmutable):
		writeError(w, http.StatusConflict, "creator_immutable", err.Error())
	case errors.Is(err, domainerrors.ErrAlreadyParticipant):
		writeError(w, http.StatusConflict, "already_participant", err.Error())
	case errors.Is(err, domainerrors.ErrAlreadyFunded):
		writeError(w, http.StatusConflict, "already_funded", err.Error())
	case errors.Is(err, domainerrors.ErrAlreadyEnded):
		writeError(w, http.StatusConflict, "already_ended", err.Error())
	case errors.Is(err, domainerrors.ErrIdempotencyKeyConflict):
		writeError(w, http.StatusConflict, "idempotency_conflict", err.Error())
	default:
		writeError(w, http.StatusInternalServerError, "internal_error", "internal server error")
	}
}

func writeError(w http.ResponseWriter, status int, code string, message string) {
	writeJSON(w, status, campaignhttp.ErrorResponse{
		Code:    code,
		Message: message,
	})
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}
