package repo

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/vayustack/vayu-intel/internal/models"
	"github.com/vayustack/vayu-intel/internal/utils"
)

// ThreatFoxClient pulls recent IOCs from the ThreatFox query API.
type ThreatFoxClient struct {
	endpoint   string
	batchLimit int
	httpClient *http.Client
	logger     *slog.Logger
}

// NewThreatFoxClient constructs a client targeting the configured endpoint.
func NewThreatFoxClient(endpoint string, timeout time.Duration, batchLimit int, logger *slog.Logger) *ThreatFoxClient {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	if batchLimit <= 0 {
		batchLimit = 15
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &ThreatFoxClient{
		endpoint:   strings.TrimSpace(endpoint),
		batchLimit: batchLimit,
		httpClient: &http.Client{Timeout: timeout},
		logger:     logger,
	}
}

// FetchBatch queries for indicators seen over the last day. Transport
// failures, bad statuses, and malformed payloads all surface as an empty
// batch; upstream health never propagates to the caller.
func (c *ThreatFoxClient) FetchBatch(ctx context.Context) []models.PartialThreat {
	batch, err := c.fetch(ctx)
	if err != nil {
		c.logger.Warn("threatfox sync failed, returning empty batch",
			slog.Any("error", utils.NewAppError("threatfox.fetch", "live feed unavailable", err)))
		return nil
	}
	return batch
}

func (c *ThreatFoxClient) fetch(ctx context.Context) ([]models.PartialThreat, error) {
	if c.endpoint == "" {
		return nil, fmt.Errorf("endpoint not configured")
	}

	body, err := json.Marshal(map[string]any{"query": "get_iocs", "days": 1})
	if err != nil {
		return nil, fmt.Errorf("marshal query: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("threatfox returned %s", resp.Status)
	}

	var payload struct {
		QueryStatus string `json:"query_status"`
		Data        []struct {
			ID              json.Number `json:"id"`
			IOC             string      `json:"ioc"`
			ThreatType      string      `json:"threat_type"`
			ThreatTypeDesc  string      `json:"threat_type_desc"`
			ConfidenceLevel int         `json:"confidence_level"`
			ASN             string      `json:"asn"`
			ASName          string      `json:"as_name"`
			Country         string      `json:"country"`
		} `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}
	if payload.QueryStatus != "ok" {
		return nil, fmt.Errorf("query_status %q", payload.QueryStatus)
	}

	items := payload.Data
	if len(items) > c.batchLimit {
		items = items[:c.batchLimit]
	}

	batch := make([]models.PartialThreat, 0, len(items))
	for _, ioc := range items {
		confidence := ioc.ConfidenceLevel
		riskScore := confidence
		if riskScore == 0 {
			riskScore = 50
		}
		batch = append(batch, models.PartialThreat{
			ID:           ioc.ID.String(),
			SrcIP:        hostPart(ioc.IOC),
			Type:         firstNonEmpty(ioc.ThreatTypeDesc, ioc.ThreatType),
			Severity:     severityFromConfidence(confidence),
			Source:       models.SourceThreatFox,
			ASN:          firstNonEmpty(ioc.ASN, "N/A"),
			ASNOwner:     firstNonEmpty(ioc.ASName, "Unknown Authority"),
			CountryCode:  firstNonEmpty(ioc.Country, models.UnknownCountryCode),
			RiskScore:    riskScore,
			ThreatVector: firstNonEmpty(ioc.ThreatType, "Network IOC"),
		})
	}
	return batch, nil
}

// severityFromConfidence maps the feed's confidence score onto the fixed
// two-threshold policy: >85 critical, >60 high, otherwise medium.
func severityFromConfidence(confidence int) models.Severity {
	switch {
	case confidence > 85:
		return models.SeverityCritical
	case confidence > 60:
		return models.SeverityHigh
	default:
		return models.SeverityMedium
	}
}

// hostPart strips a port suffix from an ip:port indicator.
func hostPart(ioc string) string {
	if idx := strings.Index(ioc, ":"); idx >= 0 {
		return ioc[:idx]
	}
	return ioc
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}
