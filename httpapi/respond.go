package httpapi

import (
	"encoding/json"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/jacentio/shelf/library"
	"github.com/jacentio/shelf/store"
)

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// decode reads a JSON request body into v. An empty body leaves v untouched.
func decode(r *http.Request, v any) error {
	body, err := io.ReadAll(r.Body)
	if err != nil {
		return library.NewArgumentError("Unreadable request body: %v", err)
	}
	if strings.TrimSpace(string(body)) == "" {
		return nil
	}
	if err := json.Unmarshal(body, v); err != nil {
		return &library.ValidationError{Entity: "request", Message: "malformed JSON body"}
	}
	return nil
}

// pagination reads pageSize, sortOrder and next (or lastKey) from the query string.
// Unparseable page sizes fall back to the store default.
func pagination(r *http.Request) store.Pagination {
	q := r.URL.Query()
	var p store.Pagination
	if n, err := strconv.ParseInt(q.Get("pageSize"), 10, 32); err == nil && n > 0 {
		p.Limit = int32(n)
	}
	p.Descending = q.Get("sortOrder") == "descending"
	p.Next = q.Get("next")
	if p.Next == "" {
		p.Next = q.Get("lastKey")
	}
	return p
}

func writePage[M any](w http.ResponseWriter, page library.Page[M]) {
	if page.Next != "" {
		w.Header().Set(NextTokenHeader, page.Next)
	}
	items := page.Items
	if items == nil {
		items = []M{}
	}
	writeJSON(w, http.StatusOK, items)
}
