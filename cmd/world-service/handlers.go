package main

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"darktower-backend/internal/errors"
	"darktower-backend/internal/export"
	"darktower-backend/internal/region"
)

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func (s *service) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *service) handleWorldInfo(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()

	writeJSON(w, http.StatusOK, map[string]any{
		"id":        s.world.ID.String(),
		"seed":      s.world.Seed,
		"width":     s.world.Width,
		"height":    s.world.Height,
		"year":      s.history.CurrentDate.Year,
		"season":    s.history.CurrentDate.Season,
		"factions":  len(s.history.LiveFactions()),
		"events":    s.history.Chronicle.Len(),
		"cache":     s.cache.Stats().Summary(),
	})
}

func (s *service) handleMapPNG(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()

	img, err := export.Overworld(s.world)
	if err != nil {
		errors.RespondWithError(w, err)
		return
	}
	w.Header().Set("Content-Type", "image/png")
	_ = export.EncodePNG(w, img)
}

func (s *service) handleRegionPNG(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	x0 := queryInt(q.Get("x"), 0)
	y0 := queryInt(q.Get("y"), 0)
	width := queryInt(q.Get("w"), 32)
	height := queryInt(q.Get("h"), 32)
	scale := queryInt(q.Get("scale"), 4)
	layer := export.LayerBiome
	switch q.Get("layer") {
	case "height":
		layer = export.LayerHeight
	case "temperature":
		layer = export.LayerTemperature
	case "moisture":
		layer = export.LayerMoisture
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	img, err := export.Region(s.world, x0, y0, width, height, export.Options{Layer: layer, Scale: scale})
	if err != nil {
		errors.RespondWithError(w, err)
		return
	}
	w.Header().Set("Content-Type", "image/png")
	_ = export.EncodePNG(w, img)
}

func (s *service) handleRegionRefinement(w http.ResponseWriter, r *http.Request) {
	wx, err1 := strconv.Atoi(chi.URLParam(r, "wx"))
	wy, err2 := strconv.Atoi(chi.URLParam(r, "wy"))
	if err1 != nil || err2 != nil {
		errors.RespondWithError(w, errors.NewInvalidInput("region coordinates must be integers"))
		return
	}
	lod := region.LODFull
	switch r.URL.Query().Get("lod") {
	case "low":
		lod = region.LODLow
	case "medium":
		lod = region.LODMedium
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.regions.SetCursor(wx, wy)
	ref := s.regions.Get(wx, wy, lod)

	rivers, veg, rocks := 0, 0, 0
	minH, maxH := ref.Tiles[0][0].Height, ref.Tiles[0][0].Height
	for py := 0; py < region.Size; py++ {
		for px := 0; px < region.Size; px++ {
			t := ref.Tiles[py][px]
			if t.River {
				rivers++
			}
			if t.Vegetation != region.VegNone {
				veg++
			}
			if t.Rock {
				rocks++
			}
			if t.Height < minH {
				minH = t.Height
			}
			if t.Height > maxH {
				maxH = t.Height
			}
		}
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"wx":         ref.WX,
		"wy":         ref.WY,
		"lod":        int(ref.LOD),
		"min_height": minH,
		"max_height": maxH,
		"river_px":   rivers,
		"vegetation": veg,
		"rocks":      rocks,
	})
}

func (s *service) handleChunkSummary(w http.ResponseWriter, r *http.Request) {
	wx, err1 := strconv.Atoi(chi.URLParam(r, "wx"))
	wy, err2 := strconv.Atoi(chi.URLParam(r, "wy"))
	if err1 != nil || err2 != nil {
		errors.RespondWithError(w, errors.NewInvalidInput("chunk coordinates must be integers"))
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	chunk, valid := s.cache.GetOrGenerateValidated(s.world, s.history, wx, wy, s.cfg.Cache.MaxRetries)
	summary := chunk.Summarize()
	summary.Valid = valid
	writeJSON(w, http.StatusOK, summary)
}

func (s *service) handleChunkPNG(w http.ResponseWriter, r *http.Request) {
	wx, err1 := strconv.Atoi(chi.URLParam(r, "wx"))
	wy, err2 := strconv.Atoi(chi.URLParam(r, "wy"))
	if err1 != nil || err2 != nil {
		errors.RespondWithError(w, errors.NewInvalidInput("chunk coordinates must be integers"))
		return
	}
	span := queryInt(r.URL.Query().Get("span"), 1)

	s.mu.Lock()
	defer s.mu.Unlock()

	img, err := export.Chunks(s.cache, s.world, s.history, wx, wy, span, span)
	if err != nil {
		errors.RespondWithError(w, err)
		return
	}
	w.Header().Set("Content-Type", "image/png")
	_ = export.EncodePNG(w, img)
}

func (s *service) handleHistoryStep(w http.ResponseWriter, r *http.Request) {
	steps := queryInt(r.URL.Query().Get("seasons"), 1)
	if steps < 1 || steps > 400 {
		errors.RespondWithError(w, errors.NewInvalidInput("seasons must be between 1 and 400"))
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	appended := 0
	for i := 0; i < steps; i++ {
		appended += s.stepHistory()
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"year":    s.history.CurrentDate.Year,
		"season":  s.history.CurrentDate.Season,
		"events":  appended,
		"factions": len(s.history.LiveFactions()),
	})
}

func (s *service) handleHistoryEvents(w http.ResponseWriter, r *http.Request) {
	n := queryInt(r.URL.Query().Get("limit"), 50)
	if n < 1 {
		n = 50
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	events := s.history.Chronicle.Tail(n)
	out := make([]map[string]any, 0, len(events))
	for _, e := range events {
		entry := map[string]any{
			"id":    uint64(e.ID),
			"type":  e.Type.String(),
			"year":  e.Date.Year,
			"season": e.Date.Season,
			"title": e.Title,
		}
		if e.HasLocation {
			entry["x"] = e.Location.X
			entry["y"] = e.Location.Y
		}
		out = append(out, entry)
	}
	writeJSON(w, http.StatusOK, out)
}

func queryInt(v string, def int) int {
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return n
}
