package main

import (
	"encoding/json"
	"flag"
	"log"
	"net/http"
	"os"
	"time"

	"github.com/contactkeval/option-smile/internal/data"
	"github.com/contactkeval/option-smile/internal/extract"
	"github.com/contactkeval/option-smile/internal/report"
)

func main() {
	configPath := flag.String("config", "config.json", "path to JSON config")
	quotesPath := flag.String("quotes", "", "path to a local quote CSV (optional)")
	rest := flag.Bool("rest", false, "run as REST server (accept extraction jobs)")
	port := flag.String("port", ":8080", "REST server listen address")
	flag.Parse()

	cfg, err := extract.LoadConfig(*configPath)
	if err != nil {
		log.Fatalf("loading config: %v", err)
	}
	if cfg.ReportDir == "" {
		cfg.ReportDir = "reports"
	}

	// choose provider
	var prov data.Provider
	apiKey := os.Getenv("MASSIVE_API_KEY")
	if apiKey != "" {
		prov = data.NewMassiveDataProvider(apiKey)
		log.Printf("[info] massive provider enabled")
	} else {
		prov = data.NewSyntheticProvider(uint64(time.Now().UnixNano()))
		log.Printf("[info] synthetic provider enabled")
	}

	if *quotesPath != "" {
		prov, err = data.NewLocalCSVProvider(*quotesPath, prov)
		if err != nil {
			log.Fatalf("loading quotes: %v", err)
		}
		log.Printf("[info] local quote file layered over provider chain")
	}

	engine := extract.NewEngine(cfg, prov)

	if *rest {
		mux := http.NewServeMux()
		mux.HandleFunc("/run", func(w http.ResponseWriter, r *http.Request) {
			// quick endpoint to run one extraction with the loaded config
			log.Printf("[info] received /run request")
			res, err := engine.Run()
			if err != nil {
				http.Error(w, err.Error(), http.StatusInternalServerError)
				return
			}
			w.Header().Set("Content-Type", "application/json")
			_ = json.NewEncoder(w).Encode(res)
		})
		mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(200); w.Write([]byte("ok")) })
		log.Printf("[info] starting REST server on %s", *port)
		log.Fatal(http.ListenAndServe(*port, mux))
		return
	}

	start := time.Now()
	res, err := engine.Run()
	if err != nil {
		log.Fatalf("extraction failed: %v", err)
	}
	if _, err := report.WriteJSON(res, cfg.ReportDir); err != nil {
		log.Printf("[warn] %v", err)
	}
	if _, err := report.WriteCSV(res, cfg.ReportDir); err != nil {
		log.Printf("[warn] %v", err)
	}
	log.Printf("[done] finished in %v, wrote %d expiry slices to %s", time.Since(start), len(res.Slices), cfg.ReportDir)
}
