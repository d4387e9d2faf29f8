// Command inemock serves a local stand-in for the INE indicator API so the
// job can be exercised without hitting ine.pt. It answers the same query
// shape the real endpoint does and fabricates a small set of observations
// per year.
//
// Usage:
//
//	go run ./cmd/inemock -addr :8081 -last-year 2013
//	API_BASE_URL=http://localhost:8081/ine/json_indicador/pindica.jsp go run ./cmd/etl
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"net/http"
	"strconv"
	"strings"
)

type observation struct {
	GeoCode   string `json:"geocod"`
	GeoName   string `json:"geodsg"`
	CrimeCode string `json:"dim_3"`
	CrimeName string `json:"dim_3_t"`
	Value     string `json:"valor"`
	Flag      string `json:"sinal_conv"`
	FlagDesc  string `json:"sinal_conv_desc"`
}

var regions = []struct{ code, name string }{
	{"11", "Norte"},
	{"17", "Área Metropolitana de Lisboa"},
	{"15", "Algarve"},
}

var crimes = []struct{ code, name string }{
	{"100", "Total"},
	{"200", "Crimes against persons"},
}

func main() {
	addr := flag.String("addr", ":8081", "listen address")
	lastYear := flag.Int("last-year", 2013, "last year of data the mock reports")
	flag.Parse()

	mux := http.NewServeMux()
	mux.HandleFunc("GET /ine/json_indicador/pindica.jsp", handleIndicator(*lastYear))

	log.Printf("mock INE API listening on %s (last year %d)", *addr, *lastYear)
	log.Fatal(http.ListenAndServe(*addr, mux))
}

func handleIndicator(lastYear int) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		token := q.Get("Dim1")
		if q.Get("varcd") == "" || token == "" {
			http.Error(w, "missing varcd or Dim1", http.StatusBadRequest)
			return
		}

		year, err := strconv.Atoi(strings.TrimPrefix(token, "S7A"))
		if err != nil {
			http.Error(w, "bad Dim1 token", http.StatusBadRequest)
			return
		}
		if year > lastYear {
			http.Error(w, "no data for requested year", http.StatusNotFound)
			return
		}

		yearKey := strconv.Itoa(year)
		resp := []map[string]any{{
			"IndicadorCod": q.Get("varcd"),
			"UltimoPref":   strconv.Itoa(lastYear),
			"Dados": map[string][]observation{
				yearKey: yearObservations(year),
			},
		}}

		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(resp); err != nil {
			log.Printf("encode response: %v", err)
		}
	}
}

// yearObservations fabricates deterministic values so reruns produce
// identical artifacts.
func yearObservations(year int) []observation {
	obs := make([]observation, 0, len(regions)*len(crimes))
	for i, region := range regions {
		for j, crime := range crimes {
			value := float64(30+(year-2011)) + float64(i)*2.5 + float64(j)*0.7
			obs = append(obs, observation{
				GeoCode:   region.code,
				GeoName:   region.name,
				CrimeCode: crime.code,
				CrimeName: crime.name,
				Value:     fmt.Sprintf("%.1f", value),
			})
		}
	}
	return obs
}
