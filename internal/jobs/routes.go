package jobs

import (
	"encoding/json"
	"log"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/websocket"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

// streamInterval is how often the websocket pushes job status.
const streamInterval = 500 * time.Millisecond

// RegisterRoutes mounts the job status API routes.
func RegisterRoutes(r chi.Router, store *Store) {
	r.Get("/api/jobs/{id}", handleGet(store))
	r.Get("/ws/jobs/{id}", handleStream(store))
}

func handleGet(store *Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "id")
		job, err := store.Get(r.Context(), id)
		if err != nil {
			http.Error(w, `{"error":"`+err.Error()+`"}`, http.StatusInternalServerError)
			return
		}
		if job == nil {
			http.Error(w, `{"error":"not found"}`, http.StatusNotFound)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(job)
	}
}

// handleStream pushes job status over a websocket until the job reaches a
// terminal state or the client goes away.
func handleStream(store *Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "id")

		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			log.Printf("jobs: websocket upgrade: %v", err)
			return
		}
		defer conn.Close()

		ticker := time.NewTicker(streamInterval)
		defer ticker.Stop()

		for {
			job, err := store.Get(r.Context(), id)
			if err != nil || job == nil {
				conn.WriteJSON(map[string]string{"error": "job not found"})
				return
			}

			if err := conn.WriteJSON(job); err != nil {
				return
			}
			if job.Status.Terminal() {
				return
			}

			select {
			case <-r.Context().Done():
				return
			case <-ticker.C:
			}
		}
	}
}
