package models

// Severity captures threat impact levels.
type Severity string

const (
	SeverityCritical Severity = "CRITICAL"
	SeverityHigh     Severity = "HIGH"
	SeverityMedium   Severity = "MEDIUM"
	SeverityLow      Severity = "LOW"
)

// Valid reports whether s is one of the four known levels.
func (s Severity) Valid() bool {
	switch s {
	case SeverityCritical, SeverityHigh, SeverityMedium, SeverityLow:
		return true
	}
	return false
}

// Source tags identify the origin of an ingested record.
const (
	SourceThreatFox  = "THREATFOX"
	SourceURLhaus    = "URLHAUS"
	SourceAbuseCh    = "ABUSE.CH"
	SourceHeuristics = "VAYU_HEURISTICS"
)

// Threat is the canonical entity every upstream record is normalized into.
// Immutable once created; every field is populated after normalization.
type Threat struct {
	ID           string   `json:"id"`
	Timestamp    int64    `json:"timestamp"` // epoch millis at ingestion
	SrcIP        string   `json:"srcIP"`
	Type         string   `json:"type"`
	Severity     Severity `json:"severity"`
	Source       string   `json:"source"`
	NeuralScore  float64  `json:"neuralScore"` // confidence-like, [0,1]
	RiskScore    int      `json:"riskScore"`   // [0,100]
	ASN          string   `json:"asn"`
	ASNOwner     string   `json:"asnOwner"`
	CountryCode  string   `json:"countryCode"`
	CountryName  string   `json:"countryName"`
	Coordinates  string   `json:"coordinates"`
	Lat          string   `json:"lat"`
	Lon          string   `json:"lon"`
	ThreatVector string   `json:"threatVector"`
	FirstSeen    string   `json:"firstSeen"` // RFC3339, stamped at normalization
}

// PartialThreat is the loose upstream shape produced by feed adapters before
// normalization. Zero values mean "absent"; the normalizer substitutes
// documented defaults for every missing field.
type PartialThreat struct {
	ID           string
	SrcIP        string
	Type         string
	Severity     Severity
	Source       string
	NeuralScore  float64
	RiskScore    int
	ASN          string
	ASNOwner     string
	CountryCode  string
	ThreatVector string
}

// NeuralStats holds the session's derived running counters. Not persisted;
// created at session start and discarded at teardown.
type NeuralStats struct {
	ThreatCount int     `json:"threatCount"`
	AbuseCount  int     `json:"abuseCount"`
	Accuracy    float64 `json:"accuracy"`
	Entropy     float64 `json:"entropy"`
	Uptime      int     `json:"uptime"` // whole seconds since session start
}
