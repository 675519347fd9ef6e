package helpers

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
)

// DateTimeLayout is the layout of range query parameters.
const DateTimeLayout = "2006-01-02 15:04:05"

// PathUUID reads a path value and requires it to be a UUID. On failure it
// writes a 400 and returns false.
func PathUUID(w http.ResponseWriter, r *http.Request, name string) (string, bool) {
	raw := r.PathValue(name)
	id, err := uuid.Parse(raw)
	if err != nil {
		WriteJSONError(w, http.StatusBadRequest, ErrCodeBadRequest, "invalid "+name)
		return "", false
	}
	return id.String(), true
}

// QueryList reads a repeated or comma separated query parameter.
func QueryList(r *http.Request, name string) []string {
	var out []string
	for _, v := range r.URL.Query()[name] {
		for _, part := range strings.Split(v, ",") {
			if part = strings.TrimSpace(part); part != "" {
				out = append(out, part)
			}
		}
	}
	return out
}

// QueryUUIDs is QueryList restricted to UUID values.
func QueryUUIDs(r *http.Request, name string) ([]string, bool) {
	list := QueryList(r, name)
	for i, v := range list {
		id, err := uuid.Parse(v)
		if err != nil {
			return nil, false
		}
		list[i] = id.String()
	}
	return list, true
}

// QueryBool reads an optional boolean query parameter.
func QueryBool(r *http.Request, name string) (*bool, bool) {
	s := r.URL.Query().Get(name)
	if s == "" {
		return nil, true
	}
	v, err := strconv.ParseBool(s)
	if err != nil {
		return nil, false
	}
	return &v, true
}

// QueryTime reads an optional time query parameter in DateTimeLayout or RFC 3339.
func QueryTime(r *http.Request, name string) (*time.Time, bool) {
	s := r.URL.Query().Get(name)
	if s == "" {
		return nil, true
	}
	for _, layout := range []string{DateTimeLayout, time.RFC3339} {
		if t, err := time.Parse(layout, s); err == nil {
			t = t.UTC()
			return &t, true
		}
	}
	return nil, false
}

// CanonicalUUID returns s in the lowercase hyphenated form stored in the
// database. Values that do not parse are returned unchanged, so call it after
// validation.
func CanonicalUUID(s string) string {
	id, err := uuid.Parse(s)
	if err != nil {
		return s
	}
	return id.String()
}

// CanonicalUUIDs applies CanonicalUUID to every element. nil stays nil.
func CanonicalUUIDs(ids []string) []string {
	if ids == nil {
		return nil
	}
	out := make([]string, len(ids))
	for i, id := range ids {
		out[i] = CanonicalUUID(id)
	}
	return out
}
