package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/subculture-collective/clipper-sub005/pkg/parser"
	"github.com/subculture-collective/clipper-sub005/pkg/plan"
)

// errorBody is the error envelope for failures outside the parse error
// taxonomy. Parse errors marshal their full QueryError instead.
type errorBody struct {
	Message string `json:"message"`
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleParse(w http.ResponseWriter, req *http.Request) {
	query, ok := queryParam(w, req)
	if !ok {
		return
	}

	q, err := parser.ParseWithConfig(query, s.limits)
	if err != nil {
		writeParseError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"query": q})
}

func (s *Server) handlePlan(w http.ResponseWriter, req *http.Request) {
	query, ok := queryParam(w, req)
	if !ok {
		return
	}

	q, err := parser.ParseWithConfig(query, s.limits)
	if err != nil {
		writeParseError(w, err)
		return
	}

	opts := plan.DefaultOptions()
	sqlPlan, err := plan.SQL(q, opts)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]any{"error": errorBody{Message: err.Error()}})
		return
	}
	searchPlan, err := plan.Search(q, opts)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]any{"error": errorBody{Message: err.Error()}})
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"sql": sqlPlan, "search": searchPlan})
}

func (s *Server) handleFilters(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"filters": parser.AllFilters()})
}

func (s *Server) handleCodes(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"codes": parser.AllCodes()})
}

// queryParam extracts the q parameter, answering 400 when it is missing.
func queryParam(w http.ResponseWriter, req *http.Request) (string, bool) {
	query := req.URL.Query().Get("q")
	if strings.TrimSpace(query) == "" {
		writeJSON(w, http.StatusBadRequest, map[string]any{"error": errorBody{Message: "missing query parameter q"}})
		return "", false
	}
	return query, true
}

func writeParseError(w http.ResponseWriter, err error) {
	var qe *parser.QueryError
	if errors.As(err, &qe) {
		writeJSON(w, http.StatusBadRequest, map[string]any{"error": qe})
		return
	}
	writeJSON(w, http.StatusBadRequest, map[string]any{"error": errorBody{Message: err.Error()}})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
