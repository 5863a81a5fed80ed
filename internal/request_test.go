package internal

import (
	"net/url"
	"strings"
	"testing"
)

func TestBuildRequest_URL(t *testing.T) {
	req := buildRequest("", routingHost(RoutingAmericas),
		[]string{"riot", "account", "v1", "accounts", "by-riot-id", "Wander", "HENRO"},
		nil, "secret-key")

	expected := "https://americas.api.riotgames.com/riot/account/v1/accounts/by-riot-id/Wander/HENRO"
	if req.url != expected {
		t.Errorf("expected url %s, got %s", expected, req.url)
	}
	if req.method != "GET" {
		t.Errorf("expected method GET, got %s", req.method)
	}
}

func TestBuildRequest_EscapesSegments(t *testing.T) {
	req := buildRequest("", routingHost(RoutingEurope),
		[]string{"riot", "account", "v1", "accounts", "by-riot-id", "Name With Space", "TAG/1"},
		nil, "secret-key")

	if !strings.Contains(req.url, "Name%20With%20Space") {
		t.Errorf("expected escaped game name, got %s", req.url)
	}
	if !strings.Contains(req.url, "TAG%2F1") {
		t.Errorf("expected escaped tag line, got %s", req.url)
	}
}

func TestBuildRequest_QueryOnlyWhenSupplied(t *testing.T) {
	noQuery := buildRequest("", routingHost(RoutingAmericas),
		[]string{"tft", "match", "v1", "matches", "by-puuid", "p1", "ids"},
		url.Values{}, "secret-key")
	if strings.Contains(noQuery.url, "?") {
		t.Errorf("expected no query string, got %s", noQuery.url)
	}

	query := url.Values{}
	query.Set("start", "10")
	query.Set("count", "40")
	withQuery := buildRequest("", routingHost(RoutingAmericas),
		[]string{"tft", "match", "v1", "matches", "by-puuid", "p1", "ids"},
		query, "secret-key")
	if !strings.Contains(withQuery.url, "start=10") || !strings.Contains(withQuery.url, "count=40") {
		t.Errorf("expected pagination query params, got %s", withQuery.url)
	}
}

func TestBuildRequest_AuthHeaderOnly(t *testing.T) {
	req := buildRequest("", platformHost(PlatformNA1),
		[]string{"tft", "summoner", "v1", "summoners", "by-puuid", "p1"},
		nil, "RGAPI-secret")

	if req.header.Get(authHeader) != "RGAPI-secret" {
		t.Errorf("expected auth header to carry the key, got %q", req.header.Get(authHeader))
	}
	if strings.Contains(req.url, "RGAPI-secret") {
		t.Errorf("API key leaked into URL: %s", req.url)
	}
}

func TestBuildRequest_BaseOverride(t *testing.T) {
	req := buildRequest("http://127.0.0.1:9999/", routingHost(RoutingAsia),
		[]string{"tft", "match", "v1", "matches", "KR_123"},
		nil, "secret-key")

	expected := "http://127.0.0.1:9999/tft/match/v1/matches/KR_123"
	if req.url != expected {
		t.Errorf("expected override url %s, got %s", expected, req.url)
	}
}

func TestHosts(t *testing.T) {
	if routingHost(RoutingAsia) != "asia.api.riotgames.com" {
		t.Errorf("unexpected routing host %s", routingHost(RoutingAsia))
	}
	if platformHost(PlatformEUW1) != "euw1.api.riotgames.com" {
		t.Errorf("unexpected platform host %s", platformHost(PlatformEUW1))
	}
}
