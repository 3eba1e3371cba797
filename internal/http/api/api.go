// Package api holds the request and response helpers shared by the HTTP
// handlers.
package api

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/MrJamesThe3rd/fillbook/internal/scope"
)

func JSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

func Text(w http.ResponseWriter, s string) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")

	if _, err := w.Write([]byte(s)); err != nil {
		slog.Error("failed to write response", "error", err)
	}
}

// WantsText reports whether the client asked for the rendered table instead
// of JSON.
func WantsText(r *http.Request) bool {
	return r.URL.Query().Get("format") == "text"
}

// Scope returns the chat scope resolved by the scope middleware.
func Scope(r *http.Request) *scope.Scope {
	sc, ok := scope.FromContext(r.Context())
	if !ok {
		panic("api: request has no scope; route is missing the scope middleware")
	}

	return sc
}

// Year reads ?year=, defaulting to the current year.
func Year(r *http.Request) (int, error) {
	s := r.URL.Query().Get("year")
	if s == "" {
		return time.Now().Year(), nil
	}

	year, err := strconv.Atoi(s)
	if err != nil || year < 1970 || year > 9999 {
		return 0, fmt.Errorf("invalid year %q", s)
	}

	return year, nil
}

// Months reads ?month=, given repeated or comma separated. No months means
// the whole year.
func Months(r *http.Request) ([]time.Month, error) {
	var months []time.Month

	for _, v := range r.URL.Query()["month"] {
		for part := range strings.SplitSeq(v, ",") {
			part = strings.TrimSpace(part)
			if part == "" {
				continue
			}

			m, err := strconv.Atoi(part)
			if err != nil || m < 1 || m > 12 {
				return nil, fmt.Errorf("invalid month %q", part)
			}

			months = append(months, time.Month(m))
		}
	}

	return months, nil
}
