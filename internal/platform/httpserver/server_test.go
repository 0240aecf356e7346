package httpserver

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	campaignservice "rally/contexts/promotions/campaign-service"
	campaignhttp "rally/contexts/promotions/campaign-service/transport/http"
)

func newTestServer(t *testing.T) *Server {
	t.Helper()
	return New(campaignservice.NewInMemoryModule(nil, nil), nil, "")
}

func doJSON(t *testing.T, s *Server, method string, path string, headers map[string]string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal body: %v", err)
		}
		reader = bytes.NewReader(payload)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	for key, value := range headers {
		req.Header.Set(key, value)
	}
	rec := httptest.NewRecorder()
	s.Mux().ServeHTTP(rec, req)
	return rec
}

func creatorHeaders(key string) map[string]string {
	headers := map[string]string{"X-User-Id": "creator-1"}
	if key != "" {
		headers["Idempotency-Key"] = key
	}
	return headers
}

func createViaHTTP(t *testing.T, s *Server, key string, req campaignhttp.CreateCampaignRequest) campaignhttp.CampaignDTO {
	t.Helper()
	rec := doJSON(t, s, http.MethodPost, "/api/campaigns/v1/campaigns", creatorHeaders(key), req)
	if rec.Code != http.StatusCreated {
		t.Fatalf("create status = %d, body %s", rec.Code, rec.Body.String())
	}
	var resp campaignhttp.CreateCampaignResponse
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("decode create response: %v", err)
	}
	return resp.Campaign
}

func TestHealthz(t *testing.T) {
	s := newTestServer(t)
	rec := doJSON(t, s, http.MethodGet, "/healthz", nil, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("healthz status = %d", rec.Code)
	}
}

func TestMetricsEndpointIsMounted(t *testing.T) {
	s := newTestServer(t)
	rec := doJSON(t, s, http.MethodGet, "/metrics", nil, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("metrics status = %d", rec.Code)
	}
}

func TestCreateRequiresUserHeader(t *testing.T) {
	s := newTestServer(t)
	rec := doJSON(t, s, http.MethodPost, "/api/campaigns/v1/campaigns", map[string]string{
		"Idempotency-Key": "key-1",
	}, campaignhttp.CreateCampaignRequest{Title: "No identity"})
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", rec.Code)
	}
	var errResp campaignhttp.ErrorResponse
	if err := json.NewDecoder(rec.Body).Decode(&errResp); err != nil {
		t.Fatalf("decode error: %v", err)
	}
	if errResp.Code != "missing_user" {
		t.Fatalf("code = %s, want missing_user", errResp.Code)
	}
}

func TestCreateReturns201ThenReplays200(t *testing.T) {
	s := newTestServer(t)
	req := campaignhttp.CreateCampaignRequest{Title: "HTTP replay"}

	first := doJSON(t, s, http.MethodPost, "/api/campaigns/v1/campaigns", creatorHeaders("key-http"), req)
	if first.Code != http.StatusCreated {
		t.Fatalf("first status = %d, want 201", first.Code)
	}

	second := doJSON(t, s, http.MethodPost, "/api/campaigns/v1/campaigns", creatorHeaders("key-http"), req)
	if second.Code != http.StatusOK {
		t.Fatalf("replay status = %d, want 200", second.Code)
	}
	var resp campaignhttp.CreateCampaignResponse
	if err := json.NewDecoder(second.Body).Decode(&resp); err != nil {
		t.Fatalf("decode replay: %v", err)
	}
	if !resp.Replayed {
		t.Fatalf("replay flag not set")
	}
}

func TestCreateRejectsMalformedJSON(t *testing.T) {
	s := newTestServer(t)
	req := httptest.NewRequest(http.MethodPost, "/api/campaigns/v1/campaigns", strings.NewReader("{not json"))
	req.Header.Set("X-User-Id", "creator-1")
	req.Header.Set("Idempotency-Key", "key-bad")
	rec := httptest.NewRecorder()
	s.Mux().ServeHTTP(rec, req)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
}

func TestMissingIdempotencyKeyIs400(t *testing.T) {
	s := newTestServer(t)
	rec := doJSON(t, s, http.MethodPost, "/api/campaigns/v1/campaigns", creatorHeaders(""),
		campaignhttp.CreateCampaignRequest{Title: "No key"})
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
	var errResp campaignhttp.ErrorResponse
	if err := json.NewDecoder(rec.Body).Decode(&errResp); err != nil {
		t.Fatalf("decode error: %v", err)
	}
	if errResp.Code != "idempotency_key_required" {
		t.Fatalf("code = %s, want idempotency_key_required", errResp.Code)
	}
}

func TestGetUnknownCampaignIs404(t *testing.T) {
	s := newTestServer(t)
	rec := doJSON(t, s, http.MethodGet, "/api/campaigns/v1/campaigns/nope", nil, nil)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", rec.Code)
	}
}

func TestConflictStatusMapping(t *testing.T) {
	s := newTestServer(t)
	campaign := createViaHTTP(t, s, "key-conflict", campaignhttp.CreateCampaignRequest{
		Title:       "Conflicts",
		TotalBudget: 1000,
	})
	base := "/api/campaigns/v1/campaigns/" + campaign.CampaignID

	if rec := doJSON(t, s, http.MethodPost, base+"/fund", creatorHeaders(""), nil); rec.Code != http.StatusOK {
		t.Fatalf("fund status = %d, body %s", rec.Code, rec.Body.String())
	}
	rec := doJSON(t, s, http.MethodPost, base+"/fund", creatorHeaders(""), nil)
	if rec.Code != http.StatusConflict {
		t.Fatalf("double fund status = %d, want 409", rec.Code)
	}
	var errResp campaignhttp.ErrorResponse
	if err := json.NewDecoder(rec.Body).Decode(&errResp); err != nil {
		t.Fatalf("decode error: %v", err)
	}
	if errResp.Code != "already_funded" {
		t.Fatalf("code = %s, want already_funded", errResp.Code)
	}

	// Joining a draft campaign is a bad request, not a conflict.
	rec = doJSON(t, s, http.MethodPost, base+"/join", map[string]string{"X-User-Id": "u1"}, nil)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("draft join status = %d, want 400", rec.Code)
	}
	errResp = campaignhttp.ErrorResponse{}
	if err := json.NewDecoder(rec.Body).Decode(&errResp); err != nil {
		t.Fatalf("decode error: %v", err)
	}
	if errResp.Code != "campaign_not_active" {
		t.Fatalf("code = %s, want campaign_not_active", errResp.Code)
	}
}

func TestForbiddenStatusMapping(t *testing.T) {
	s := newTestServer(t)
	campaign := createViaHTTP(t, s, "key-forbidden", campaignhttp.CreateCampaignRequest{Title: "Locked"})
	base := "/api/campaigns/v1/campaigns/" + campaign.CampaignID

	rec := doJSON(t, s, http.MethodPost, base+"/close", map[string]string{"X-User-Id": "stranger"}, nil)
	if rec.Code != http.StatusForbidden {
		t.Fatalf("stranger close status = %d, want 403", rec.Code)
	}

	// Staff header lifts the restriction.
	rec = doJSON(t, s, http.MethodPost, base+"/close", map[string]string{
		"X-User-Id": "ops-1",
		"X-Staff":   "true",
	}, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("staff close status = %d, body %s", rec.Code, rec.Body.String())
	}
}

func TestFullCampaignJoinIsForbidden(t *testing.T) {
	s := newTestServer(t)
	one := 1
	campaign := createViaHTTP(t, s, "key-full", campaignhttp.CreateCampaignRequest{
		Title:       "Tiny",
		EditorSlots: &one,
	})
	base := "/api/campaigns/v1/campaigns/" + campaign.CampaignID

	active := "active"
	if rec := doJSON(t, s, http.MethodPatch, base, creatorHeaders(""), campaignhttp.UpdateCampaignRequest{Status: &active}); rec.Code != http.StatusOK {
		t.Fatalf("activate status = %d, body %s", rec.Code, rec.Body.String())
	}
	if rec := doJSON(t, s, http.MethodPost, base+"/join", map[string]string{"X-User-Id": "u1"}, nil); rec.Code != http.StatusOK {
		t.Fatalf("first join status = %d, body %s", rec.Code, rec.Body.String())
	}

	rec := doJSON(t, s, http.MethodPost, base+"/join", map[string]string{"X-User-Id": "u2"}, nil)
	if rec.Code != http.StatusForbidden {
		t.Fatalf("full join status = %d, want 403", rec.Code)
	}
	var errResp campaignhttp.ErrorResponse
	if err := json.NewDecoder(rec.Body).Decode(&errResp); err != nil {
		t.Fatalf("decode error: %v", err)
	}
	if errResp.Code != "campaign_full" {
		t.Fatalf("code = %s, want campaign_full", errResp.Code)
	}
}

func TestTeamRoutes(t *testing.T) {
	s := newTestServer(t)
	campaign := createViaHTTP(t, s, "key-team-http", campaignhttp.CreateCampaignRequest{Title: "Team"})
	base := "/api/campaigns/v1/campaigns/" + campaign.CampaignID

	active := "active"
	rec := doJSON(t, s, http.MethodPatch, base, creatorHeaders(""), campaignhttp.UpdateCampaignRequest{Status: &active})
	if rec.Code != http.StatusOK {
		t.Fatalf("activate status = %d, body %s", rec.Code, rec.Body.String())
	}

	if rec := doJSON(t, s, http.MethodPost, base+"/join", map[string]string{"X-User-Id": "u1"}, nil); rec.Code != http.StatusOK {
		t.Fatalf("join status = %d, body %s", rec.Code, rec.Body.String())
	}

	rec = doJSON(t, s, http.MethodPost, base+"/team", creatorHeaders(""), campaignhttp.ManageTeamRequest{
		UserID: "u1",
		Action: "promote",
	})
	if rec.Code != http.StatusNoContent {
		t.Fatalf("promote status = %d, body %s", rec.Code, rec.Body.String())
	}

	rec = doJSON(t, s, http.MethodGet, base+"/team", nil, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("list team status = %d", rec.Code)
	}
	var team campaignhttp.ListTeamResponse
	if err := json.NewDecoder(rec.Body).Decode(&team); err != nil {
		t.Fatalf("decode team: %v", err)
	}
	if len(team.Items) != 2 {
		t.Fatalf("team size = %d, want creator plus admin", len(team.Items))
	}

	rec = doJSON(t, s, http.MethodDelete, base+"/participants/u1", creatorHeaders(""), nil)
	if rec.Code != http.StatusNoContent {
		t.Fatalf("remove status = %d, body %s", rec.Code, rec.Body.String())
	}
}

func TestValidationRejectsBadManageTeamAction(t *testing.T) {
	s := newTestServer(t)
	campaign := createViaHTTP(t, s, "key-validate", campaignhttp.CreateCampaignRequest{Title: "Validate"})

	rec := doJSON(t, s, http.MethodPost, "/api/campaigns/v1/campaigns/"+campaign.CampaignID+"/team",
		creatorHeaders(""), campaignhttp.ManageTeamRequest{UserID: "u1", Action: "explode"})
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
}
