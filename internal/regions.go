package internal

import (
	"fmt"
	"strings"
)

// RoutingRegion selects the globally replicated API cluster used for account
// and match lookups. Any cluster returns the same data; the choice only
// affects latency.
type RoutingRegion string

const (
	RoutingAmericas RoutingRegion = "americas"
	RoutingAsia     RoutingRegion = "asia"
	RoutingEurope   RoutingRegion = "europe"
)

// PlatformRegion is the game-server shard that actually holds a player's
// summoner data. Distinct namespace from RoutingRegion.
type PlatformRegion string

const (
	PlatformBR1  PlatformRegion = "br1"
	PlatformEUN1 PlatformRegion = "eun1"
	PlatformEUW1 PlatformRegion = "euw1"
	PlatformJP1  PlatformRegion = "jp1"
	PlatformKR   PlatformRegion = "kr"
	PlatformLA1  PlatformRegion = "la1"
	PlatformLA2  PlatformRegion = "la2"
	PlatformNA1  PlatformRegion = "na1"
	PlatformOC1  PlatformRegion = "oc1"
	PlatformPH2  PlatformRegion = "ph2"
	PlatformSG2  PlatformRegion = "sg2"
	PlatformTH2  PlatformRegion = "th2"
	PlatformTR1  PlatformRegion = "tr1"
	PlatformTW2  PlatformRegion = "tw2"
	PlatformVN2  PlatformRegion = "vn2"
)

// Game selects which title the active-shard lookup answers for.
type Game string

const (
	GameLoL Game = "lol"
	GameTFT Game = "tft"
)

var platformRegions = map[PlatformRegion]bool{
	PlatformBR1: true, PlatformEUN1: true, PlatformEUW1: true,
	PlatformJP1: true, PlatformKR: true, PlatformLA1: true,
	PlatformLA2: true, PlatformNA1: true, PlatformOC1: true,
	PlatformPH2: true, PlatformSG2: true, PlatformTH2: true,
	PlatformTR1: true, PlatformTW2: true, PlatformVN2: true,
}

// ParseRoutingRegion validates a routing region, case-insensitively.
func ParseRoutingRegion(s string) (RoutingRegion, error) {
	r := RoutingRegion(strings.ToLower(s))
	switch r {
	case RoutingAmericas, RoutingAsia, RoutingEurope:
		return r, nil
	}
	return "", newValidationError("routing region",
		fmt.Sprintf("%q is not one of americas, asia, europe", s))
}

// ParsePlatformRegion validates a platform region, case-insensitively.
func ParsePlatformRegion(s string) (PlatformRegion, error) {
	p := PlatformRegion(strings.ToLower(s))
	if platformRegions[p] {
		return p, nil
	}
	return "", newValidationError("platform region",
		fmt.Sprintf("%q is not a known platform code", s))
}

// ParseGame validates a game selector, case-insensitively.
func ParseGame(s string) (Game, error) {
	g := Game(strings.ToLower(s))
	switch g {
	case GameLoL, GameTFT:
		return g, nil
	}
	return "", newValidationError("game", fmt.Sprintf("%q is not one of lol, tft", s))
}

func validateStart(start int) error {
	if start < 0 || start > 999 {
		return newValidationError("start", fmt.Sprintf("%d is outside [0, 999]", start))
	}
	return nil
}

func validateCount(count int) error {
	if count < 1 || count > 200 {
		return newValidationError("count", fmt.Sprintf("%d is outside [1, 200]", count))
	}
	return nil
}

func requireNonEmpty(field, value string) error {
	if value == "" {
		return newValidationError(field, "must not be empty")
	}
	return nil
}
