// Package handlers owns the HTTP route surface. Read routes admit any
// authenticated user; write routes are admin-only.
package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"
)

func parseID(r *http.Request) (int64, error) {
	return strconv.ParseInt(r.PathValue("id"), 10, 64)
}

func decodeJSON(r *http.Request, dst any) error {
	return json.NewDecoder(r.Body).Decode(dst)
}
