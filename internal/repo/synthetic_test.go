package repo

import (
	"math/rand"
	"strings"
	"testing"

	"github.com/vayustack/vayu-intel/internal/models"
)

func TestGenerateFullyPopulates(t *testing.T) {
	s := NewSynthesizer(rand.New(rand.NewSource(42)))

	for i := 0; i < 100; i++ {
		got := s.Generate()

		if got.ID == "" || got.SrcIP == "" || got.FirstSeen == "" {
			t.Fatalf("generated entity has empty identity fields: %+v", got)
		}
		if got.Source != models.SourceHeuristics {
			t.Fatalf("expected heuristic source tag, got %s", got.Source)
		}
		if got.Severity != models.SeverityCritical && got.Severity != models.SeverityHigh {
			t.Fatalf("unexpected severity %s", got.Severity)
		}
		if got.NeuralScore < 0.85 || got.NeuralScore >= 0.95 {
			t.Fatalf("neural score out of band: %v", got.NeuralScore)
		}
		if got.RiskScore < 70 || got.RiskScore > 99 {
			t.Fatalf("risk score out of band: %d", got.RiskScore)
		}
		if !strings.HasPrefix(got.ASN, "AS") {
			t.Fatalf("ASN missing prefix: %s", got.ASN)
		}
		if got.ASNOwner != "Heuristic Cloud Compute" {
			t.Fatalf("unexpected owner %s", got.ASNOwner)
		}
		if got.ThreatVector != "Heuristic Network Anomaly" {
			t.Fatalf("unexpected vector %s", got.ThreatVector)
		}
		if !models.KnownCountryCode(got.CountryCode) {
			t.Fatalf("origin %s not in geo table", got.CountryCode)
		}
		if got.CountryName == "" || got.Lat == "" || got.Lon == "" {
			t.Fatalf("geo fields not resolved: %+v", got)
		}
		if !containsAttackType(got.Type) {
			t.Fatalf("type %q not in vocabulary", got.Type)
		}
	}
}

func TestGenerateCriticalRatio(t *testing.T) {
	s := NewSynthesizer(rand.New(rand.NewSource(7)))

	criticals := 0
	const n = 2000
	for i := 0; i < n; i++ {
		if s.Generate().Severity == models.SeverityCritical {
			criticals++
		}
	}

	// Expected ~15%; allow a wide band so the test stays seed-stable.
	if criticals < n/20 || criticals > n/4 {
		t.Fatalf("critical ratio off: %d of %d", criticals, n)
	}
}

func TestGenerateUniqueIDs(t *testing.T) {
	s := NewSynthesizer(nil)
	seen := make(map[string]bool)
	for i := 0; i < 100; i++ {
		id := s.Generate().ID
		if seen[id] {
			t.Fatalf("duplicate id %s", id)
		}
		seen[id] = true
	}
}

func containsAttackType(label string) bool {
	for _, v := range AttackTypes {
		if v == label {
			return true
		}
	}
	return false
}
