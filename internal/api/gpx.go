package api

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/tkrajina/gpxgo/gpx"

	"github.com/openfairway/roundlog/internal/round"
)

// handleExportTrack exports a round's recorded location trail as a GPX
// file: one track, one segment, one point per LocationUpdated event in
// timestamp order.
func (s *Server) handleExportTrack(w http.ResponseWriter, r *http.Request) {
	roundID, err := parseRoundID(r)
	if err != nil {
		s.errorJSON(w, err, http.StatusBadRequest)
		return
	}

	recs, err := s.db.EventsByType(s.db.DB(), roundID, string(round.TypeLocationUpdated))
	if err != nil {
		s.errorJSON(w, errors.New("failed to load location events"), http.StatusInternalServerError)
		return
	}
	if len(recs) == 0 {
		s.errorJSON(w, errors.New("round has no recorded locations"), http.StatusNotFound)
		return
	}

	segment := gpx.GPXTrackSegment{}
	for _, rec := range recs {
		e, err := round.FromRecord(rec)
		if err != nil {
			s.errorJSON(w, err, http.StatusInternalServerError)
			return
		}
		loc, ok := e.(round.LocationUpdated)
		if !ok {
			s.errorJSON(w, fmt.Errorf("record tagged %s decoded to %T", rec.EventType, e), http.StatusInternalServerError)
			return
		}
		segment.Points = append(segment.Points, gpx.GPXPoint{
			Point: gpx.Point{
				Latitude:  loc.Location.Latitude,
				Longitude: loc.Location.Longitude,
			},
			Timestamp: time.UnixMilli(loc.Timestamp).UTC(),
		})
	}

	doc := &gpx.GPX{
		Creator: "roundlog",
		Name:    fmt.Sprintf("Round %d", roundID),
		Tracks: []gpx.GPXTrack{{
			Name:     fmt.Sprintf("Round %d location trail", roundID),
			Segments: []gpx.GPXTrackSegment{segment},
		}},
	}

	xml, err := doc.ToXml(gpx.ToXmlParams{Version: "1.1", Indent: true})
	if err != nil {
		s.errorJSON(w, errors.New("failed to serialize GPX"), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/gpx+xml")
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="round_%d.gpx"`, roundID))
	w.WriteHeader(http.StatusOK)
	w.Write(xml)
}
