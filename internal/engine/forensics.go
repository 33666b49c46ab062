package engine

import (
	"fmt"
	"strings"

	"github.com/vayustack/vayu-intel/internal/models"
)

// regionClusterThreshold gates the regional-cluster warning: strictly more
// sibling nodes than this from one origin flag a cluster.
const regionClusterThreshold = 3

// relatedNodeLimit caps the correlation-graph selection.
const relatedNodeLimit = 6

// Analyze renders the deterministic forensic report for a focused entity
// against the current buffer contents. Equal inputs yield byte-identical
// output; the report never fails regardless of buffer state.
func Analyze(focused models.Threat, history []models.Threat) string {
	correlationCount := 0
	regionAffinity := 0
	for _, t := range history {
		if t.ID == focused.ID {
			continue
		}
		if t.ASN == focused.ASN {
			correlationCount++
		}
		if t.CountryCode == focused.CountryCode {
			regionAffinity++
		}
	}

	var report strings.Builder
	fmt.Fprintf(&report, ">>> NEURAL_FORENSICS_REPORT [ID: %s]\n", focused.ID)
	fmt.Fprintf(&report, ">>> SUBJECT_IP: %s\n", focused.SrcIP)
	fmt.Fprintf(&report, ">>> AUTHORITY: %s (%s)\n\n", focused.ASNOwner, focused.ASN)

	report.WriteString("[CO-ORDINATION ANALYSIS]\n")
	if correlationCount > 0 {
		fmt.Fprintf(&report, "WARNING: Detected %d sibling nodes from the same infrastructure provider active in this window. High probability of coordinated botnet movement.\n", correlationCount)
	} else {
		report.WriteString("STATUS: No active sibling nodes detected within the local buffer. Isolated probe profile.\n")
	}

	if regionAffinity > regionClusterThreshold {
		fmt.Fprintf(&report, "GEO_ALERT: Significant traffic volume from %s (%d nodes). Regional threat cluster observed.\n", focused.CountryName, regionAffinity)
	}

	report.WriteString("\n[TACTICAL THREAT PROFILE]\n")
	fmt.Fprintf(&report, "Source Classification: %s\n", focused.Source)
	fmt.Fprintf(&report, "Ingress Vector: %s\n", focused.ThreatVector)
	fmt.Fprintf(&report, "Attack Class: %s\n", focused.Type)
	fmt.Fprintf(&report, "Confidence Level: %d%%\n", focused.RiskScore)

	report.WriteString("\n[FORENSIC MARKERS]\n")
	report.WriteString("- Pattern suggests automated scanning / C2 beaconing.\n")
	report.WriteString("- Entropy anomaly detected in packet headers.\n")
	report.WriteString("- Origin aligns with known high-risk hosting facilities.")

	report.WriteString("\n\n[REMEDIATION STRATEGY]\n")
	fmt.Fprintf(&report, "1. Immediate ACL block for host %s/32.\n", focused.SrcIP)
	fmt.Fprintf(&report, "2. Monitor ASN %s for additional ingress spikes.\n", focused.ASN)
	fmt.Fprintf(&report, "3. Scrub active session state for vector: %s.", focused.ThreatVector)

	return report.String()
}

// Related selects up to six buffer entries sharing infrastructure (ASN) or
// origin region with the focused entity, preserving buffer order. This feeds
// the correlation-graph relationship display.
func Related(focused models.Threat, history []models.Threat) []models.Threat {
	related := make([]models.Threat, 0, relatedNodeLimit)
	for _, t := range history {
		if t.ID == focused.ID {
			continue
		}
		if t.ASN != focused.ASN && t.CountryCode != focused.CountryCode {
			continue
		}
		related = append(related, t)
		if len(related) == relatedNodeLimit {
			break
		}
	}
	return related
}
