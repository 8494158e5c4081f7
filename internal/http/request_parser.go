package http

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"finance/internal/core"
)

// maxBodyBytes bounds JSON request bodies.
const maxBodyBytes = 1 << 20

// DecodeJSON reads a single JSON value from the request body into dst.
func DecodeJSON(w http.ResponseWriter, r *http.Request, dst any) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err := dec.Decode(dst); err != nil {
		if errors.Is(err, io.EOF) {
			return errors.New("request body is empty")
		}
		return fmt.Errorf("invalid request body: %w", err)
	}
	if dec.More() {
		return errors.New("invalid request body: unexpected data after JSON value")
	}
	return nil
}

// PathID parses the {id} path segment.
func PathID(r *http.Request) (int64, error) {
	raw := r.PathValue("id")
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid id %q", raw)
	}
	return id, nil
}

// requiredInt parses a required integer parameter.
func requiredInt(name, raw string) (int, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0, fmt.Errorf("%s is required", name)
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("%s must be an integer, got %q", name, raw)
	}
	return n, nil
}

// ParsePeriod parses and validates a month/year pair.
func ParsePeriod(rawMonth, rawYear string) (month, year int, err error) {
	if month, err = requiredInt("month", rawMonth); err != nil {
		return 0, 0, err
	}
	if year, err = requiredInt("year", rawYear); err != nil {
		return 0, 0, err
	}
	if err := core.ValidatePeriod(month, year); err != nil {
		return 0, 0, err
	}
	return month, year, nil
}

// ParseDateRange reads the required startDate and endDate query parameters.
func ParseDateRange(query url.Values) (from, to core.Date, err error) {
	from, err = requiredDate(query, "startDate")
	if err != nil {
		return core.Date{}, core.Date{}, err
	}
	to, err = requiredDate(query, "endDate")
	if err != nil {
		return core.Date{}, core.Date{}, err
	}
	return from, to, nil
}

func requiredDate(query url.Values, name string) (core.Date, error) {
	raw := strings.TrimSpace(query.Get(name))
	if raw == "" {
		return core.Date{}, fmt.Errorf("%s is required", name)
	}
	d, err := core.ParseDate(raw)
	if err != nil {
		return core.Date{}, fmt.Errorf("%s: %w", name, err)
	}
	return d, nil
}

// ParseRecurring reads the recurring flag, true when absent.
func ParseRecurring(query url.Values) (bool, error) {
	raw := strings.TrimSpace(query.Get("recurring"))
	if raw == "" {
		return true, nil
	}
	v, err := strconv.ParseBool(raw)
	if err != nil {
		return false, fmt.Errorf("recurring must be true or false, got %q", raw)
	}
	return v, nil
}
