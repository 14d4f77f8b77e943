package httpx

import (
	"encoding/json"
	"io"
	"net/http"

	"github.com/itechcomputers/storefront/apperr"
	"github.com/itechcomputers/storefront/validation"
)

const maxBodyBytes = 1 << 20

// DecodeJSON reads a single JSON object from the request body into dst
// and validates it.
func DecodeJSON(r *http.Request, dst any) error {
	dec := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes))
	if err := dec.Decode(dst); err != nil {
		return apperr.InvalidErr("Invalid JSON body", nil)
	}
	return validation.Struct(dst)
}
