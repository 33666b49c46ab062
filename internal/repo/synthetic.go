package repo

import (
	"fmt"
	"math/rand"
	"time"

	"github.com/google/uuid"

	"github.com/vayustack/vayu-intel/internal/models"
)

// AttackTypes is the fixed classification vocabulary used when upstream
// records carry no label and for every synthesized entity.
var AttackTypes = []string{
	"Ransomware_C2_Beacon",
	"Advanced_Phishing_Link",
	"Botnet_Drone_Poll",
	"SQL_Injection_Probe",
	"Zero_Day_Exploit_Scan",
	"Brute_Force_Attempt",
	"Cryptominer_Payload",
	"Lateral_Movement_Sync",
}

// Synthesizer produces heuristic threat entities when no live feed delivers.
// Every generated entity is fully populated; it never passes through the
// normalizer's defaulting path.
type Synthesizer struct {
	rng *rand.Rand
}

// NewSynthesizer constructs a generator. A nil source falls back to a
// time-seeded one; tests inject a fixed seed for determinism.
func NewSynthesizer(rng *rand.Rand) *Synthesizer {
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return &Synthesizer{rng: rng}
}

// Generate returns one synthetic entity from the weighted random model:
// ~15% critical else high, uniform origin over the geo table, risk 70-99.
func (s *Synthesizer) Generate() models.Threat {
	codes := models.GeoCodes()
	countryCode := codes[s.rng.Intn(len(codes))]
	geo := models.ResolveGeo(countryCode)

	severity := models.SeverityHigh
	if s.rng.Float64() > 0.85 {
		severity = models.SeverityCritical
	}

	now := time.Now()
	return models.Threat{
		ID:           uuid.NewString(),
		Timestamp:    now.UnixMilli(),
		SrcIP:        RandomIP(s.rng),
		Type:         AttackTypes[s.rng.Intn(len(AttackTypes))],
		Severity:     severity,
		Source:       models.SourceHeuristics,
		NeuralScore:  0.85 + s.rng.Float64()*0.1,
		RiskScore:    70 + s.rng.Intn(30),
		ASN:          fmt.Sprintf("AS%d", 1000+s.rng.Intn(90000)),
		ASNOwner:     "Heuristic Cloud Compute",
		CountryCode:  countryCode,
		CountryName:  geo.Name,
		Coordinates:  fmt.Sprintf("%s, %s", geo.Lat, geo.Lon),
		Lat:          geo.Lat,
		Lon:          geo.Lon,
		ThreatVector: "Heuristic Network Anomaly",
		FirstSeen:    now.UTC().Format(time.RFC3339),
	}
}

// RandomIP renders four random octets.
func RandomIP(rng *rand.Rand) string {
	return fmt.Sprintf("%d.%d.%d.%d", rng.Intn(256), rng.Intn(256), rng.Intn(256), rng.Intn(256))
}
