package engine

import (
	"math/rand"
	"time"

	"github.com/google/uuid"

	"github.com/vayustack/vayu-intel/internal/models"
	"github.com/vayustack/vayu-intel/internal/repo"
)

// Normalizer maps partial upstream records into canonical entities. It never
// fails: every missing field is substituted with a documented default so no
// partial entity escapes the aggregation core.
type Normalizer struct {
	rng *rand.Rand
}

// NewNormalizer constructs a Normalizer; a nil source falls back to a
// time-seeded one.
func NewNormalizer(rng *rand.Rand) *Normalizer {
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return &Normalizer{rng: rng}
}

// Normalize completes a partial record at the given ingestion instant.
// Defaults: generated ID, random source IP, random attack label, severity
// high, abuse.ch source tag, neural score 0.92, risk score 88, unknown
// authority placeholders, "??" origin. FirstSeen is always stamped here,
// never taken from upstream.
func (n *Normalizer) Normalize(p models.PartialThreat, now time.Time) models.Threat {
	countryCode := p.CountryCode
	if !models.KnownCountryCode(countryCode) {
		countryCode = models.UnknownCountryCode
	}
	geo := models.ResolveGeo(countryCode)

	severity := p.Severity
	if !severity.Valid() {
		severity = models.SeverityHigh
	}

	neuralScore := p.NeuralScore
	if neuralScore == 0 {
		neuralScore = 0.92
	}
	neuralScore = clampFloat(neuralScore, 0, 1)

	riskScore := p.RiskScore
	if riskScore == 0 {
		riskScore = 88
	}
	riskScore = clampInt(riskScore, 0, 100)

	id := p.ID
	if id == "" {
		id = uuid.NewString()
	}
	srcIP := p.SrcIP
	if srcIP == "" {
		srcIP = repo.RandomIP(n.rng)
	}
	attackType := p.Type
	if attackType == "" {
		attackType = repo.AttackTypes[n.rng.Intn(len(repo.AttackTypes))]
	}

	return models.Threat{
		ID:           id,
		Timestamp:    now.UnixMilli(),
		SrcIP:        srcIP,
		Type:         attackType,
		Severity:     severity,
		Source:       defaultString(p.Source, models.SourceAbuseCh),
		NeuralScore:  neuralScore,
		RiskScore:    riskScore,
		ASN:          defaultString(p.ASN, "N/A"),
		ASNOwner:     defaultString(p.ASNOwner, "Authority Node"),
		CountryCode:  countryCode,
		CountryName:  geo.Name,
		Coordinates:  geo.Lat + ", " + geo.Lon,
		Lat:          geo.Lat,
		Lon:          geo.Lon,
		ThreatVector: defaultString(p.ThreatVector, "Live Network Probe"),
		FirstSeen:    now.UTC().Format(time.RFC3339),
	}
}

func defaultString(value, fallback string) string {
	if value == "" {
		return fallback
	}
	return value
}

func clampFloat(value, min, max float64) float64 {
	if value < min {
		return min
	}
	if value > max {
		return max
	}
	return value
}

func clampInt(value, min, max int) int {
	if value < min {
		return min
	}
	if value > max {
		return max
	}
	return value
}
