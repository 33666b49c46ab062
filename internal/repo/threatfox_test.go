package repo

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/vayustack/vayu-intel/internal/models"
)

func jsonResponse(status int, body string) *http.Response {
	return &http.Response{
		StatusCode: status,
		Status:     fmt.Sprintf("%d %s", status, http.StatusText(status)),
		Body:       io.NopCloser(strings.NewReader(body)),
		Header:     http.Header{"Content-Type": []string{"application/json"}},
	}
}

func TestThreatFoxFetchBatchMapsRecords(t *testing.T) {
	c := NewThreatFoxClient("https://threatfox.test/api/v1/", time.Second, 15, nil)
	c.httpClient = newTestClient(func(req *http.Request) (*http.Response, error) {
		if req.Method != http.MethodPost {
			t.Fatalf("expected POST, got %s", req.Method)
		}
		var query map[string]any
		if err := json.NewDecoder(req.Body).Decode(&query); err != nil {
			t.Fatalf("decode request body: %v", err)
		}
		if query["query"] != "get_iocs" {
			t.Fatalf("expected get_iocs query, got %v", query["query"])
		}
		return jsonResponse(http.StatusOK, `{
			"query_status": "ok",
			"data": [
				{"id": 1188021, "ioc": "45.155.205.86:443", "threat_type": "botnet_cc", "threat_type_desc": "Cobalt Strike Beacon", "confidence_level": 95, "asn": "AS48693", "as_name": "Rices", "country": "RU"},
				{"id": 1188022, "ioc": "103.57.210.12", "threat_type": "payload_delivery", "confidence_level": 70, "country": "CN"},
				{"id": 1188023, "ioc": "185.220.101.4", "threat_type": "botnet_cc", "confidence_level": 40}
			]
		}`), nil
	})

	batch := c.FetchBatch(context.Background())
	if len(batch) != 3 {
		t.Fatalf("expected 3 records, got %d", len(batch))
	}

	first := batch[0]
	if first.ID != "1188021" {
		t.Fatalf("expected numeric id as string, got %q", first.ID)
	}
	if first.SrcIP != "45.155.205.86" {
		t.Fatalf("port suffix not stripped: %s", first.SrcIP)
	}
	if first.Type != "Cobalt Strike Beacon" {
		t.Fatalf("description should win over type code: %s", first.Type)
	}
	if first.Severity != models.SeverityCritical {
		t.Fatalf("confidence 95 should map to CRITICAL, got %s", first.Severity)
	}
	if first.RiskScore != 95 {
		t.Fatalf("risk score should mirror confidence, got %d", first.RiskScore)
	}
	if first.Source != models.SourceThreatFox {
		t.Fatalf("wrong source tag %s", first.Source)
	}
	if first.ThreatVector != "botnet_cc" {
		t.Fatalf("vector should carry the type code, got %s", first.ThreatVector)
	}

	if batch[1].Severity != models.SeverityHigh {
		t.Fatalf("confidence 70 should map to HIGH, got %s", batch[1].Severity)
	}
	if batch[1].Type != "payload_delivery" {
		t.Fatalf("missing description should fall back to type code, got %s", batch[1].Type)
	}
	if batch[1].ASN != "N/A" || batch[1].ASNOwner != "Unknown Authority" {
		t.Fatalf("missing authority fields not defaulted: %s / %s", batch[1].ASN, batch[1].ASNOwner)
	}

	if batch[2].Severity != models.SeverityMedium {
		t.Fatalf("confidence 40 should map to MEDIUM, got %s", batch[2].Severity)
	}
	if batch[2].CountryCode != models.UnknownCountryCode {
		t.Fatalf("missing country should map to sentinel, got %s", batch[2].CountryCode)
	}
}

func TestThreatFoxZeroConfidenceGetsBaselineRisk(t *testing.T) {
	c := NewThreatFoxClient("https://threatfox.test/api/v1/", time.Second, 15, nil)
	c.httpClient = newTestClient(func(_ *http.Request) (*http.Response, error) {
		return jsonResponse(http.StatusOK, `{
			"query_status": "ok",
			"data": [{"id": 1, "ioc": "10.0.0.1"}]
		}`), nil
	})

	batch := c.FetchBatch(context.Background())
	if len(batch) != 1 {
		t.Fatalf("expected 1 record, got %d", len(batch))
	}
	if batch[0].RiskScore != 50 {
		t.Fatalf("zero confidence should yield baseline risk 50, got %d", batch[0].RiskScore)
	}
	if batch[0].Severity != models.SeverityMedium {
		t.Fatalf("zero confidence should map to MEDIUM, got %s", batch[0].Severity)
	}
}

func TestThreatFoxBatchLimit(t *testing.T) {
	var records []string
	for i := 0; i < 20; i++ {
		records = append(records, fmt.Sprintf(`{"id": %d, "ioc": "10.0.0.%d"}`, i, i))
	}
	c := NewThreatFoxClient("https://threatfox.test/api/v1/", time.Second, 5, nil)
	c.httpClient = newTestClient(func(_ *http.Request) (*http.Response, error) {
		return jsonResponse(http.StatusOK, fmt.Sprintf(`{"query_status": "ok", "data": [%s]}`, strings.Join(records, ","))), nil
	})

	batch := c.FetchBatch(context.Background())
	if len(batch) != 5 {
		t.Fatalf("expected batch capped at 5, got %d", len(batch))
	}
}

func TestThreatFoxFailuresYieldEmptyBatch(t *testing.T) {
	tests := []struct {
		name string
		rt   roundTripFunc
	}{
		{"transport error", func(_ *http.Request) (*http.Response, error) {
			return nil, fmt.Errorf("connection refused")
		}},
		{"server error", func(_ *http.Request) (*http.Response, error) {
			return jsonResponse(http.StatusBadGateway, "upstream down"), nil
		}},
		{"malformed payload", func(_ *http.Request) (*http.Response, error) {
			return jsonResponse(http.StatusOK, "{not json"), nil
		}},
		{"query rejected", func(_ *http.Request) (*http.Response, error) {
			return jsonResponse(http.StatusOK, `{"query_status": "no_result"}`), nil
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := NewThreatFoxClient("https://threatfox.test/api/v1/", time.Second, 15, nil)
			c.httpClient = newTestClient(tt.rt)
			if batch := c.FetchBatch(context.Background()); len(batch) != 0 {
				t.Fatalf("expected empty batch, got %d records", len(batch))
			}
		})
	}
}

func TestThreatFoxEmptyEndpoint(t *testing.T) {
	c := NewThreatFoxClient("", time.Second, 15, nil)
	if batch := c.FetchBatch(context.Background()); len(batch) != 0 {
		t.Fatalf("expected empty batch without an endpoint, got %d", len(batch))
	}
}
