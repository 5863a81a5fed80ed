package internal

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"
)

func newTestLogger() *Logger {
	return &Logger{
		level:       LogLevelError,
		service:     "test",
		environment: "test",
		logger:      log.New(bytes.NewBuffer(nil), "", 0),
	}
}

func newTestClient(serverURL string) *RiotClient {
	cfg := &Config{RiotAPIKey: "RGAPI-test-key"}
	client := NewRiotClient(cfg, newTestLogger(), nil)
	client.baseURL = serverURL
	return client
}

func intPtr(v int) *int       { return &v }
func int64Ptr(v int64) *int64 { return &v }

func TestGetAccountByRiotID(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("X-Riot-Token") != "RGAPI-test-key" {
			t.Error("missing or incorrect riot token header")
		}

		expectedPath := "/riot/account/v1/accounts/by-riot-id/Wander/HENRO"
		if r.URL.Path != expectedPath {
			t.Errorf("expected path %s, got %s", expectedPath, r.URL.Path)
		}

		w.WriteHeader(http.StatusOK)
		json.NewEncoder(w).Encode(Account{
			PUUID:    "wander-puuid",
			GameName: "Wander",
			TagLine:  "HENRO",
		})
	}))
	defer server.Close()

	client := newTestClient(server.URL)

	account, err := client.GetAccountByRiotID(context.Background(), "americas", "Wander", "HENRO")
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	if account.GameName != "Wander" {
		t.Errorf("expected gameName Wander, got %s", account.GameName)
	}
	if account.PUUID != "wander-puuid" {
		t.Errorf("expected puuid wander-puuid, got %s", account.PUUID)
	}
}

func TestGetSummonerByPUUID(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		expectedPath := "/tft/summoner/v1/summoners/by-puuid/fixed-puuid"
		if r.URL.Path != expectedPath {
			t.Errorf("expected path %s, got %s", expectedPath, r.URL.Path)
		}

		w.WriteHeader(http.StatusOK)
		json.NewEncoder(w).Encode(Summoner{
			PUUID:         "fixed-puuid",
			ProfileIconID: 4270,
			RevisionDate:  1722800000000,
			SummonerLevel: 212,
		})
	}))
	defer server.Close()

	client := newTestClient(server.URL)

	summoner, err := client.GetSummonerByPUUID(context.Background(), "na1", "fixed-puuid")
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	if summoner.ProfileIconID != 4270 {
		t.Errorf("expected profileIconId 4270, got %d", summoner.ProfileIconID)
	}
}

func TestGetActiveShard(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		expectedPath := "/riot/account/v1/region/by-game/tft/by-puuid/fixed-puuid"
		if r.URL.Path != expectedPath {
			t.Errorf("expected path %s, got %s", expectedPath, r.URL.Path)
		}

		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"puuid":"fixed-puuid","game":"tft","activeShard":"na1"}`))
	}))
	defer server.Close()

	client := newTestClient(server.URL)

	shard, err := client.GetActiveShard(context.Background(), "americas", "tft", "fixed-puuid")
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	if shard.Region != "na1" {
		t.Errorf("expected region na1, got %s", shard.Region)
	}
}

func TestValidation_NoNetworkCall(t *testing.T) {
	requests := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests++
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("{}"))
	}))
	defer server.Close()

	client := newTestClient(server.URL)
	ctx := context.Background()

	calls := []struct {
		name string
		fn   func() error
	}{
		{"bad routing region", func() error {
			_, err := client.GetAccountByPUUID(ctx, "moon", "p1")
			return err
		}},
		{"empty gameName", func() error {
			_, err := client.GetAccountByRiotID(ctx, "americas", "", "TAG")
			return err
		}},
		{"empty tagLine", func() error {
			_, err := client.GetAccountByRiotID(ctx, "americas", "Name", "")
			return err
		}},
		{"bad game", func() error {
			_, err := client.GetActiveShard(ctx, "americas", "chess", "p1")
			return err
		}},
		{"bad platform", func() error {
			_, err := client.GetSummonerByPUUID(ctx, "americas", "p1")
			return err
		}},
		{"empty puuid", func() error {
			_, err := client.GetMatchIDs(ctx, "americas", "", nil)
			return err
		}},
		{"start too high", func() error {
			_, err := client.GetMatchIDs(ctx, "americas", "p1", &MatchIDsOptions{Start: intPtr(1000)})
			return err
		}},
		{"start negative", func() error {
			_, err := client.GetMatchIDs(ctx, "americas", "p1", &MatchIDsOptions{Start: intPtr(-1)})
			return err
		}},
		{"count zero", func() error {
			_, err := client.GetMatchIDs(ctx, "americas", "p1", &MatchIDsOptions{Count: intPtr(0)})
			return err
		}},
		{"count too high", func() error {
			_, err := client.GetMatchIDs(ctx, "americas", "p1", &MatchIDsOptions{Count: intPtr(201)})
			return err
		}},
		{"empty matchId", func() error {
			_, err := client.GetMatch(ctx, "americas", "")
			return err
		}},
	}

	for _, call := range calls {
		err := call.fn()
		if err == nil {
			t.Errorf("%s: expected error, got nil", call.name)
			continue
		}
		var validationErr *ValidationError
		if !errors.As(err, &validationErr) {
			t.Errorf("%s: expected ValidationError, got %T (%v)", call.name, err, err)
		}
	}

	if requests != 0 {
		t.Errorf("expected no network calls, server saw %d", requests)
	}
}

func TestClassifyResponse(t *testing.T) {
	tests := []struct {
		name            string
		statusCode      int
		body            string
		expectedMessage string
	}{
		{"riot envelope", 404, `{"status":{"message":"Data not found","status_code":404}}`, "Data not found"},
		{"rate limited", 429, `{"status":{"message":"Rate limit exceeded","status_code":429}}`, "Rate limit exceeded"},
		{"unparseable body", 404, "Not Found", "could not parse error body, status=404"},
		{"envelope without message", 500, `{"status":{}}`, "Unknown API error"},
		{"empty object", 403, `{}`, "Unknown API error"},
	}

	for _, tt := range tests {
		err := classifyResponse(tt.statusCode, []byte(tt.body))
		if err.StatusCode != tt.statusCode {
			t.Errorf("%s: expected status %d, got %d", tt.name, tt.statusCode, err.StatusCode)
		}
		if err.Message != tt.expectedMessage {
			t.Errorf("%s: expected message %q, got %q", tt.name, tt.expectedMessage, err.Message)
		}
		if !strings.Contains(err.Error(), "API request failed") {
			t.Errorf("%s: error text missing 'API request failed': %s", tt.name, err.Error())
		}
		if !strings.Contains(err.Error(), strconv.Itoa(tt.statusCode)) {
			t.Errorf("%s: error text missing status code: %s", tt.name, err.Error())
		}
	}
}

func TestDoRequest_ErrorSurface(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		w.Write([]byte(`{"status":{"message":"Data not found","status_code":404}}`))
	}))
	defer server.Close()

	client := newTestClient(server.URL)

	_, err := client.GetAccountByPUUID(context.Background(), "americas", "unknown-puuid")
	if err == nil {
		t.Fatal("expected error, got nil")
	}

	var apiErr *APIRequestError
	if !errors.As(err, &apiErr) {
		t.Fatalf("expected APIRequestError, got %T", err)
	}
	if apiErr.StatusCode != 404 {
		t.Errorf("expected status 404, got %d", apiErr.StatusCode)
	}

	expected := "Riot API request failed (Status 404): Data not found"
	if err.Error() != expected {
		t.Errorf("expected %q, got %q", expected, err.Error())
	}

	if strings.Contains(err.Error(), "RGAPI-test-key") {
		t.Error("API key leaked into error message")
	}
}

func TestDoRequest_MetricsUseEndpointLabels(t *testing.T) {
	fixture := buildTestMatch()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		json.NewEncoder(w).Encode(fixture)
	}))
	defer server.Close()

	metrics := newTestMetrics()
	cfg := &Config{RiotAPIKey: "RGAPI-test-key"}
	client := NewRiotClient(cfg, newTestLogger(), metrics)
	client.baseURL = server.URL
	ctx := context.Background()

	for _, id := range []string{"NA1_5001", "NA1_5002", "NA1_5003"} {
		if _, err := client.GetMatch(ctx, "americas", id); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
	}

	requests := metrics.GetMetrics()["requests"].(map[string]int64)
	if requests["get_match"] != 3 {
		t.Errorf("expected 3 requests under get_match, got %d", requests["get_match"])
	}

	// distinct match IDs must not become distinct counter keys
	if len(requests) != 1 {
		t.Errorf("expected a single counter key, got %d: %v", len(requests), requests)
	}
	for key := range requests {
		if strings.Contains(key, "NA1_") || strings.Contains(key, "/") {
			t.Errorf("concrete request path leaked into metrics key %q", key)
		}
	}
}

func TestGetMatchIDs_Pagination(t *testing.T) {
	dataset := make([]string, 60)
	for i := range dataset {
		dataset[i] = "NA1_" + strconv.Itoa(7000+i)
	}

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := 0
		count := 20
		if raw := r.URL.Query().Get("start"); raw != "" {
			start, _ = strconv.Atoi(raw)
		}
		if raw := r.URL.Query().Get("count"); raw != "" {
			count, _ = strconv.Atoi(raw)
		}

		end := start + count
		if end > len(dataset) {
			end = len(dataset)
		}

		w.WriteHeader(http.StatusOK)
		json.NewEncoder(w).Encode(dataset[start:end])
	}))
	defer server.Close()

	client := newTestClient(server.URL)
	ctx := context.Background()

	full, err := client.GetMatchIDs(ctx, "americas", "p1", &MatchIDsOptions{
		Start: intPtr(0),
		Count: intPtr(50),
	})
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	offset, err := client.GetMatchIDs(ctx, "americas", "p1", &MatchIDsOptions{
		Start: intPtr(10),
		Count: intPtr(40),
	})
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	if len(offset) != 40 {
		t.Fatalf("expected 40 ids, got %d", len(offset))
	}

	for i, id := range full[10:50] {
		if offset[i] != id {
			t.Errorf("offset id %d: expected %s, got %s", i, id, offset[i])
		}
	}
}

func TestGetMatchIDs_OmitsUnsetParams(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.RawQuery != "" {
			t.Errorf("expected empty query, got %s", r.URL.RawQuery)
		}
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`["NA1_1"]`))
	}))
	defer server.Close()

	client := newTestClient(server.URL)

	ids, err := client.GetMatchIDs(context.Background(), "americas", "p1", nil)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if len(ids) != 1 || ids[0] != "NA1_1" {
		t.Errorf("unexpected ids %v", ids)
	}
}

func TestGetMatchIDs_TimeWindow(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("startTime") != "1722000000" {
			t.Errorf("expected startTime 1722000000, got %s", r.URL.Query().Get("startTime"))
		}
		if r.URL.Query().Get("endTime") != "1722900000" {
			t.Errorf("expected endTime 1722900000, got %s", r.URL.Query().Get("endTime"))
		}
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`[]`))
	}))
	defer server.Close()

	client := newTestClient(server.URL)

	_, err := client.GetMatchIDs(context.Background(), "americas", "p1", &MatchIDsOptions{
		StartTime: int64Ptr(1722000000),
		EndTime:   int64Ptr(1722900000),
	})
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
}

func TestGetMatchNormalized(t *testing.T) {
	fixture := buildTestMatch()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		expectedPath := "/tft/match/v1/matches/NA1_5001"
		if r.URL.Path != expectedPath {
			t.Errorf("expected path %s, got %s", expectedPath, r.URL.Path)
		}
		w.WriteHeader(http.StatusOK)
		json.NewEncoder(w).Encode(fixture)
	}))
	defer server.Close()

	client := newTestClient(server.URL)

	nm, err := client.GetMatchNormalized(context.Background(), "americas", "NA1_5001")
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	if nm.Match.MatchID != "NA1_5001" {
		t.Errorf("expected match_id NA1_5001, got %s", nm.Match.MatchID)
	}
	if len(nm.Participants) != 3 {
		t.Errorf("expected 3 participant rows, got %d", len(nm.Participants))
	}
	if len(nm.Traits) != 3 {
		t.Errorf("expected 3 trait rows, got %d", len(nm.Traits))
	}
	if len(nm.Units) != 3 {
		t.Errorf("expected 3 unit rows, got %d", len(nm.Units))
	}
}

func TestGetMatch_Raw(t *testing.T) {
	fixture := buildTestMatch()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		json.NewEncoder(w).Encode(fixture)
	}))
	defer server.Close()

	client := newTestClient(server.URL)

	match, err := client.GetMatch(context.Background(), "americas", "NA1_5001")
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	if match.Metadata.MatchID != "NA1_5001" {
		t.Errorf("expected match_id NA1_5001, got %s", match.Metadata.MatchID)
	}
	if len(match.Info.Participants) != 3 {
		t.Errorf("expected 3 nested participants, got %d", len(match.Info.Participants))
	}
	if len(match.Info.Participants[0].Units[0].ItemNames) != 3 {
		t.Error("raw document should keep nested item name lists")
	}
}
