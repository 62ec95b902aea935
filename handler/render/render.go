package render

import (
	"encoding/json"
	"net/http"

	"cardmarket/core"

	"github.com/sirupsen/logrus"
)

type H map[string]interface{}

// JSON render with json
func JSON(w http.ResponseWriter, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)

	if err := json.NewEncoder(w).Encode(v); err != nil {
		logrus.Errorln("render json:", err)
	}
}

// Error write error
func Error(w http.ResponseWriter, statusCode int, errCode core.ErrorCode, err error) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)

	if err := json.NewEncoder(w).Encode(H{"code": errCode, "msg": err.Error()}); err != nil {
		logrus.Errorln("render error:", err)
	}
}

// BadRequest bad request error
func BadRequest(w http.ResponseWriter, err error) {
	Error(w, http.StatusBadRequest, core.ErrInvalidArguments, err)
}

// NotFoundRequest not found request error
func NotFoundRequest(w http.ResponseWriter, err error) {
	Error(w, http.StatusNotFound, core.ErrUnknown, err)
}

// Unauthorized generic unauthorized. Deliberately carries no detail
// about which check failed.
func Unauthorized(w http.ResponseWriter) {
	Error(w, http.StatusUnauthorized, core.ErrUnauthorized, core.ErrUnauthorized)
}

// Code translate a service error into the proper response
func Code(w http.ResponseWriter, err error) {
	code, ok := err.(core.ErrorCode)
	if !ok {
		Error(w, http.StatusInternalServerError, core.ErrUnknown, err)
		return
	}

	switch code {
	case core.ErrUnauthorized:
		Unauthorized(w)
	case core.ErrOperationForbidden:
		Error(w, http.StatusForbidden, code, code)
	case core.ErrSaleNotFound, core.ErrCardNotFound:
		Error(w, http.StatusNotFound, code, code)
	case core.ErrOrderHash, core.ErrBlockSource, core.ErrJobNotProvisioned, core.ErrClientNotProvisioned:
		Error(w, http.StatusInternalServerError, code, code)
	default:
		Error(w, http.StatusBadRequest, code, code)
	}
}
