package api

import (
	"errors"
	"fmt"
	"log"
	"net/http"
	"reflect"
	"strings"

	"plinkoServer/game"
	"plinkoServer/state"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator/v10"
)

// ErrorResponse represents an error response
type ErrorResponse struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
}

// sendJSON writes v with the given status
func sendJSON(w http.ResponseWriter, r *http.Request, statusCode int, v interface{}) {
	render.Status(r, statusCode)
	render.JSON(w, r, v)
}

// sendError sends an error response
func sendError(w http.ResponseWriter, r *http.Request, statusCode int, message string) {
	sendJSON(w, r, statusCode, ErrorResponse{
		Success: false,
		Error:   message,
	})
}

// sendDomainError maps store and engine errors onto status codes
func sendDomainError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, state.ErrRoundNotFound):
		sendError(w, r, http.StatusNotFound, "Round not found")
	case errors.Is(err, game.ErrRoundAlreadyStarted):
		sendError(w, r, http.StatusConflict, "Round already started")
	case errors.Is(err, game.ErrRoundNotStarted):
		sendError(w, r, http.StatusConflict, "Round has not started yet")
	case errors.Is(err, state.ErrRoundConflict):
		sendError(w, r, http.StatusConflict, "Round status changed, retry")
	case errors.Is(err, game.ErrInvalidInput):
		sendError(w, r, http.StatusUnprocessableEntity, err.Error())
	default:
		log.Printf("❌ [%s] %s %s failed: %v", middleware.GetReqID(r.Context()), r.Method, r.URL.Path, err)
		sendError(w, r, http.StatusInternalServerError, "Internal Server Error")
	}
}

// validationMessage flattens validator errors into one line
func validationMessage(err error) string {
	var errs validator.ValidationErrors
	if !errors.As(err, &errs) {
		return err.Error()
	}

	var msgs []string
	for _, e := range errs {
		switch e.ActualTag() {
		case "required":
			msgs = append(msgs, fmt.Sprintf("field %s is required", e.Field()))
		case "min", "max", "len":
			msgs = append(msgs, fmt.Sprintf("field %s must satisfy %s=%s", e.Field(), e.ActualTag(), e.Param()))
		case "hexadecimal":
			msgs = append(msgs, fmt.Sprintf("field %s must be hexadecimal", e.Field()))
		default:
			msgs = append(msgs, fmt.Sprintf("field %s is invalid", e.Field()))
		}
	}
	return strings.Join(msgs, ", ")
}

// newValidator reports fields by their JSON names
func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return fld.Name
		}
		return name
	})
	return v
}
