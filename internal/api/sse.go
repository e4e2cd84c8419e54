package api

import (
	"fmt"
	"net/http"
)

// handleRoundStream is the Server-Sent Events handler for a round's live
// event feed. Every event appended to the round's log after the connection
// is established is pushed down this stream; history is fetched separately
// through the pull endpoint.
func (s *Server) handleRoundStream(w http.ResponseWriter, r *http.Request) {
	roundID, err := parseRoundID(r)
	if err != nil {
		s.errorJSON(w, err, http.StatusBadRequest)
		return
	}

	// Required headers for an SSE connection.
	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("Access-Control-Allow-Origin", s.config.FrontendURL)

	// Flusher is needed to push data to the client as it becomes available.
	flusher, ok := w.(http.Flusher)
	if !ok {
		s.errorJSON(w, fmt.Errorf("streaming unsupported"), http.StatusInternalServerError)
		return
	}

	// Register with the broker; unregister when the client goes away.
	sub := s.broker.Subscribe(roundID)
	defer sub.Close()

	for {
		select {
		case message, open := <-sub.C:
			if !open {
				// The channel was closed by the broker.
				return
			}
			// Format per the SSE spec: "data: {...}\n\n"
			fmt.Fprintf(w, "data: %s\n\n", message)
			flusher.Flush()
		case <-r.Context().Done():
			// Client disconnected; the defer handles cleanup.
			return
		}
	}
}
