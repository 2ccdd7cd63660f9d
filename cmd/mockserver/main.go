// mockserver is a scripted debate server for local development: in-memory
// accounts, instant matchmaking once two clients queue, and the full
// prep/turn countdown flow of the real backend.
package main

import (
	"flag"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

func main() {
	_ = godotenv.Load()

	addr := flag.String("addr", ":8765", "listen address")
	prep := flag.Int("prep", 180, "preparation seconds")
	turn := flag.Int("turn", 120, "turn seconds")
	flag.Parse()

	log, err := zap.NewDevelopment()
	if err != nil {
		panic(err)
	}
	defer log.Sync()

	srv := newServer(*prep, *turn, log)

	r := chi.NewRouter()
	r.Get("/ws", srv.handleWS)
	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	log.Info("mock debate server listening", zap.String("addr", *addr))
	if err := http.ListenAndServe(*addr, r); err != nil {
		log.Fatal("listen", zap.Error(err))
	}
}
