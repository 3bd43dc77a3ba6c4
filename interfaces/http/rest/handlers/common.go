package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"inviter-backend/pkg/errors"
)

var validate = validator.New()

type errorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}

func respondJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if v != nil {
		json.NewEncoder(w).Encode(v)
	}
}

// respondError maps application errors to HTTP responses. Server-side error
// details stay in the logs; the client only sees the error type and message.
func respondError(w http.ResponseWriter, logger *zap.Logger, err error) {
	appErr := errors.GetAppError(err)
	if appErr == nil {
		logger.Error("unhandled error", zap.Error(err))
		respondJSON(w, http.StatusInternalServerError, errorResponse{
			Error: "internal server error",
			Code:  string(errors.ErrorTypeInternal),
		})
		return
	}

	status := appErr.HTTPStatus
	if status == 0 {
		status = http.StatusInternalServerError
	}
	if status >= http.StatusInternalServerError {
		logger.Error("request failed", zap.Error(err))
	}
	respondJSON(w, status, errorResponse{Error: appErr.Message, Code: string(appErr.Type)})
}

// decodeAndValidate parses the JSON body into dst and runs validator tags
func decodeAndValidate(r *http.Request, dst interface{}) error {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		return errors.NewValidationError("invalid request body")
	}
	if err := validate.Struct(dst); err != nil {
		return errors.NewValidationError(err.Error())
	}
	return nil
}

func pageLimit(r *http.Request, fallback int32) int32 {
	raw := r.URL.Query().Get("limit")
	if raw == "" {
		return fallback
	}
	limit, err := strconv.ParseInt(raw, 10, 32)
	if err != nil || limit < 1 || limit > 100 {
		return fallback
	}
	return int32(limit)
}
