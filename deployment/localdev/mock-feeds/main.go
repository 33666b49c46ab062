package main

import (
	"encoding/json"
	"log"
	"net/http"
	"time"
)

type threatFoxIOC struct {
	ID              json.Number `json:"id"`
	IOC             string      `json:"ioc"`
	ThreatType      string      `json:"threat_type"`
	ThreatTypeDesc  string      `json:"threat_type_desc"`
	ConfidenceLevel int         `json:"confidence_level"`
	ASN             string      `json:"asn"`
	ASName          string      `json:"as_name"`
	Country         string      `json:"country"`
}

type urlhausEntry struct {
	ID          string `json:"id"`
	URL         string `json:"url"`
	Threat      string `json:"threat"`
	ASN         string `json:"asn"`
	ASName      string `json:"as_name"`
	CountryCode string `json:"countrycode"`
}

func main() {
	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	mux.HandleFunc("/api/v1/", func(w http.ResponseWriter, r *http.Request) {
		if !enforcePost(w, r) {
			return
		}
		writeJSON(w, map[string]any{
			"query_status": "ok",
			"data": []threatFoxIOC{
				{
					ID:              json.Number("1188021"),
					IOC:             "45.155.205.86:443",
					ThreatType:      "botnet_cc",
					ThreatTypeDesc:  "Cobalt Strike Beacon",
					ConfidenceLevel: 95,
					ASN:             "AS48693",
					ASName:          "Rices Privately owned enterprise",
					Country:         "RU",
				},
				{
					ID:              json.Number("1188022"),
					IOC:             "103.57.210.12:8080",
					ThreatType:      "payload_delivery",
					ThreatTypeDesc:  "AgentTesla",
					ConfidenceLevel: 70,
					ASN:             "AS4837",
					ASName:          "CHINA UNICOM",
					Country:         "CN",
				},
				{
					ID:              json.Number("1188023"),
					IOC:             "185.220.101.4",
					ThreatType:      "botnet_cc",
					ThreatTypeDesc:  "QakBot",
					ConfidenceLevel: 40,
					ASN:             "AS60729",
					ASName:          "Zwiebelfreunde e.V.",
					Country:         "DE",
				},
			},
		})
	})

	mux.HandleFunc("/v1/urls/recent/", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, map[string]any{
			"query_status": "ok",
			"urls": []urlhausEntry{
				{
					ID:          "3414001",
					URL:         "http://121.142.87.9/bin.sh",
					Threat:      "malware_download",
					ASN:         "AS4766",
					ASName:      "KIXS-AS-KR Korea Telecom",
					CountryCode: "KP",
				},
				{
					ID:          "3414002",
					URL:         "https://badcdn.example.net/loader.exe",
					Threat:      "malware_download",
					ASN:         "AS13335",
					ASName:      "CLOUDFLARENET",
					CountryCode: "US",
				},
			},
		})
	})

	logger := log.New(log.Writer(), "feeds-mock ", log.LstdFlags|log.Lmicroseconds)
	srv := &http.Server{
		Addr:    ":8090",
		Handler: logRequests(logger, mux),
	}

	logger.Println("listening on :8090")
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.Fatalf("server error: %v", err)
	}
}

func enforcePost(w http.ResponseWriter, r *http.Request) bool {
	if r.Method != http.MethodPost {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return false
	}
	return true
}

func writeJSON(w http.ResponseWriter, payload any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		log.Printf("encode error: %v", err)
	}
}

func logRequests(logger *log.Logger, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rw := &responseWriter{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rw, r)
		logger.Printf("%s %s %d %s", r.Method, r.URL.Path, rw.status, time.Since(start))
	})
}

type responseWriter struct {
	http.ResponseWriter
	status int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.status = code
	rw.ResponseWriter.WriteHeader(code)
}
