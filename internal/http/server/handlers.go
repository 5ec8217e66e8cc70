package server

import (
	"encoding/json"
	"net/http"

	"github.com/dropDatabas3/nido/internal/migrate"
)

func handleHealthz(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

type migrationHandler struct {
	fm *migrate.FlagManager
}

// flags expone la config de flags vigente (solo estructura de rollout,
// sin datos de usuarios). Para debugging operativo de la migración.
func (h *migrationHandler) flags(w http.ResponseWriter, _ *http.Request) {
	cfg, ok := h.fm.Current()
	if !ok {
		writeJSON(w, http.StatusServiceUnavailable, map[string]string{
			"error": "sin config de flags; resolviendo a primary_only",
		})
		return
	}
	type tierOut struct {
		Mode    string `json:"mode"`
		Percent int    `json:"percent"`
	}
	type epOut struct {
		Kill  bool      `json:"kill"`
		Deny  int       `json:"deny_count"`
		Allow int       `json:"allow_count"`
		Tiers []tierOut `json:"tiers"`
	}
	out := struct {
		Version   string           `json:"version"`
		Endpoints map[string]epOut `json:"endpoints"`
	}{
		Version:   cfg.Version,
		Endpoints: make(map[string]epOut, len(cfg.Endpoints)),
	}
	for name, ep := range cfg.Endpoints {
		e := epOut{Kill: ep.Kill, Deny: len(ep.Deny), Allow: len(ep.Allow)}
		for _, t := range ep.Tiers {
			e.Tiers = append(e.Tiers, tierOut{Mode: t.Mode.String(), Percent: t.Percent})
		}
		out.Endpoints[name] = e
	}
	writeJSON(w, http.StatusOK, out)
}

// resolve responde el modo que le tocaría a (endpoint, key). Para
// reproducir decisiones de routing en soporte.
func (h *migrationHandler) resolve(w http.ResponseWriter, r *http.Request) {
	endpoint := r.URL.Query().Get("endpoint")
	key := r.URL.Query().Get("key")
	if endpoint == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "falta ?endpoint"})
		return
	}
	mode := h.fm.Resolve(endpoint, key)
	writeJSON(w, http.StatusOK, map[string]any{
		"endpoint": endpoint,
		"bucket":   migrate.Bucket(key),
		"mode":     mode.String(),
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
