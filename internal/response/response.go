package response

import (
	"encoding/json"
	"net/http"

	"github.com/Pavanreddy56/BKI-company/internal/validation"
)

// JSON writes v as the response body with the given status code.
func JSON(w http.ResponseWriter, code int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(v)
}

// Err writes a JSON error body of the form {"message": ...}.
func Err(w http.ResponseWriter, msg string, code int) {
	JSON(w, code, map[string]string{"message": msg})
}

// ValidationErr writes a 400 with the itemized field errors alongside the
// top-level message.
func ValidationErr(w http.ResponseWriter, ve *validation.ValidationErrors) {
	JSON(w, http.StatusBadRequest, map[string]interface{}{
		"message": "validation failed",
		"errors":  ve.Errors,
	})
}

// DecodeBody decodes a JSON request body into the given value.
func DecodeBody(r *http.Request, v interface{}) error {
	return json.NewDecoder(r.Body).Decode(v)
}
