package http

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"
	jsoniter "github.com/json-iterator/go"

	"github.com/c360/fetchlab/errors"
	"github.com/c360/fetchlab/fetch"
	"github.com/c360/fetchlab/gateway"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// writeJSON writes a JSON response and records its size.
func (g *Gateway) writeJSON(w http.ResponseWriter, status int, body any) {
	data, err := json.Marshal(body)
	if err != nil {
		g.logger.Error("response encoding failed", "error", err)
		w.WriteHeader(http.StatusInternalServerError)
		g.traffic.RecordFailure()
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if _, err := w.Write(data); err != nil {
		g.traffic.RecordFailure()
		return
	}
	g.traffic.RecordSuccess(len(data))
}

// writeError writes a JSON error body without touching the success counters.
func (g *Gateway) writeError(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	data, _ := json.Marshal(map[string]any{"error": message, "status": status})
	_, _ = w.Write(data)
}

// respondError maps a strategy or store error to an HTTP status. Validation
// reasons are safe to expose; anything unexpected is sanitized.
func (g *Gateway) respondError(w http.ResponseWriter, r *http.Request, err error) {
	g.traffic.RecordFailure()

	switch {
	case errors.IsNotFound(err):
		g.writeError(w, http.StatusNotFound, "resource not found")
	case errors.IsInvalid(err):
		g.writeError(w, http.StatusBadRequest, err.Error())
	default:
		g.logger.Error("request failed",
			"path", r.URL.Path,
			"request_id", w.Header().Get(gateway.RequestIDHeader),
			"error", err)
		g.writeError(w, http.StatusInternalServerError, "internal server error")
	}
}

// setFetchHeaders reports the strategy cost of a resolved request.
func setFetchHeaders(w http.ResponseWriter, stats fetch.Stats) {
	w.Header().Set(gateway.FetchCallsHeader, strconv.Itoa(stats.Calls))
	w.Header().Set(gateway.FetchBytesHeader, strconv.Itoa(stats.Bytes))
}

// decode parses a JSON request body into v.
func (g *Gateway) decode(r *http.Request, v any) error {
	defer func() { _ = r.Body.Close() }()

	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return errors.WrapInvalid(err, "Gateway", "decode", "parse request body")
	}
	return nil
}

// pathID extracts the numeric {id} route variable.
func pathID(r *http.Request) (int, error) {
	raw := mux.Vars(r)["id"]
	id, err := strconv.Atoi(raw)
	if err != nil {
		return 0, errors.WrapInvalid(fmt.Errorf("id %q is not numeric", raw),
			"Gateway", "pathID", "parse path id")
	}
	return id, nil
}

// queryFlag reads a boolean query parameter, false when absent or malformed.
func queryFlag(r *http.Request, name string) bool {
	v, err := strconv.ParseBool(r.URL.Query().Get(name))
	return err == nil && v
}

// queryInt reads an integer query parameter, 0 when absent or malformed.
func queryInt(r *http.Request, name string) int {
	v, err := strconv.Atoi(r.URL.Query().Get(name))
	if err != nil {
		return 0
	}
	return v
}
