package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/DFSguan/Collaborative-Task-Management-System/apperrors"
	"github.com/DFSguan/Collaborative-Task-Management-System/logging"
)

var statusByKind = map[apperrors.Kind]int{
	apperrors.KindValidation:   http.StatusBadRequest,
	apperrors.KindNotFound:     http.StatusNotFound,
	apperrors.KindAuth:         http.StatusUnauthorized,
	apperrors.KindUpstreamAuth: http.StatusBadRequest,
	apperrors.KindInternal:     http.StatusInternalServerError,
}

func statusFor(err error) int {
	if status, ok := statusByKind[apperrors.KindOf(err)]; ok {
		return status
	}
	return http.StatusInternalServerError
}

func writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		logging.Logger.Errorf("Event ID: RESPONSE_ENCODE_FAILED, Description: Failed to encode response: %v", err)
	}
}

// writeError renders {"error": msg} plus any detail fields carried by the error.
func writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := statusFor(err)
	body := map[string]interface{}{"error": err.Error()}
	if appErr, ok := apperrors.As(err); ok {
		for k, v := range appErr.Details {
			body[k] = v
		}
	}

	if status >= http.StatusInternalServerError {
		logging.Logger.Errorf("Event ID: REQUEST_FAILED, Description: %s %s failed: %v", r.Method, r.URL.Path, err)
	} else {
		logging.Logger.Debugf("Event ID: REQUEST_REJECTED, Description: %s %s rejected with %d: %v", r.Method, r.URL.Path, status, err)
	}
	writeJSON(w, status, body)
}

const maxBodyBytes = 1 << 20

// decodeBody reads the JSON request body into dst, rejecting bodies over maxBodyBytes.
func decodeBody(w http.ResponseWriter, r *http.Request, dst interface{}) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			logging.Logger.Debugf("Event ID: REQUEST_REJECTED, Description: %s %s body exceeds %d bytes", r.Method, r.URL.Path, tooLarge.Limit)
			writeJSON(w, http.StatusRequestEntityTooLarge, map[string]string{"error": "Request body too large"})
			return false
		}
		writeError(w, r, apperrors.Validation("Invalid request body"))
		return false
	}
	return true
}
