package ladderhandlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"

	ladderdomain "github.com/Black-And-White-Club/padel-ladder/app/modules/ladder/domain"
	ladderidentity "github.com/Black-And-White-Club/padel-ladder/app/modules/ladder/infrastructure/identity"
	"github.com/Black-And-White-Club/padel-ladder/app/shared/attr"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

const maxBodyBytes = 1 << 20

// Codes for failures raised before the service is reached.
const (
	codeInvalidRequest = "invalid_request"
	codeUnauthorized   = "unauthorized"
	codeInternal       = "internal_error"
)

type errorBody struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Field   string `json:"field,omitempty"`
	Count   int    `json:"count,omitempty"`
}

type errorEnvelope struct {
	Error errorBody `json:"error"`
}

// requestError is a malformed request caught in the handler.
type requestError struct {
	field string
	msg   string
}

func (e *requestError) Error() string { return e.msg }

func badRequest(field, format string, args ...any) error {
	return &requestError{field: field, msg: fmt.Sprintf(format, args...)}
}

// StatusFor maps an error to its HTTP status and wire body.
func StatusFor(err error) (int, errorBody) {
	var re *requestError
	if errors.As(err, &re) {
		return http.StatusBadRequest, errorBody{Code: codeInvalidRequest, Message: re.msg, Field: re.field}
	}

	if errors.Is(err, errUnauthenticated) {
		return http.StatusUnauthorized, errorBody{Code: codeUnauthorized, Message: err.Error()}
	}

	var le *ladderdomain.Error
	if !errors.As(err, &le) {
		return http.StatusInternalServerError, errorBody{Code: codeInternal, Message: "internal error"}
	}
	body := errorBody{Code: string(le.Code), Message: le.Reason, Field: le.Field, Count: le.Count}
	switch {
	case errors.Is(err, ladderdomain.ErrValidation):
		return http.StatusBadRequest, body
	case errors.Is(err, ladderdomain.ErrPolicyViolation):
		if le.Code == ladderdomain.CodeAdminRequired {
			return http.StatusForbidden, body
		}
		return http.StatusUnprocessableEntity, body
	case errors.Is(err, ladderdomain.ErrStateConflict):
		return http.StatusConflict, body
	case errors.Is(err, ladderdomain.ErrNotFound):
		return http.StatusNotFound, body
	case errors.Is(err, ladderdomain.ErrIntegrityFailure):
		// Lock timeouts and rollbacks are retryable.
		return http.StatusServiceUnavailable, body
	}
	return http.StatusInternalServerError, errorBody{Code: codeInternal, Message: "internal error"}
}

func (h *LadderHandlers) fail(w http.ResponseWriter, r *http.Request, op string, err error) {
	status, body := StatusFor(err)
	if status >= http.StatusInternalServerError {
		h.logger.ErrorContext(r.Context(), "Request failed",
			attr.String("operation", op),
			attr.Int("status", status),
			attr.ExtractCorrelationID(r.Context()),
			attr.Error(err),
		)
	} else {
		h.logger.InfoContext(r.Context(), "Request rejected",
			attr.String("operation", op),
			attr.Int("status", status),
			attr.String("code", body.Code),
			attr.ExtractCorrelationID(r.Context()),
		)
	}
	writeJSON(w, status, errorEnvelope{Error: body})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeBlob(w http.ResponseWriter, contentType, filename string, data []byte) {
	w.Header().Set("Content-Type", contentType)
	if filename != "" {
		w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	}
	w.Header().Set("Content-Length", strconv.Itoa(len(data)))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}

// readJSON decodes a single JSON object. An empty body leaves dst untouched.
func readJSON(w http.ResponseWriter, r *http.Request, dst any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()

	if err := dec.Decode(dst); err != nil {
		var syntaxErr *json.SyntaxError
		var typeErr *json.UnmarshalTypeError
		var tooLarge *http.MaxBytesError
		switch {
		case errors.Is(err, io.EOF):
			return nil
		case errors.As(err, &syntaxErr):
			return badRequest("", "body contains badly-formed JSON (at character %d)", syntaxErr.Offset)
		case errors.Is(err, io.ErrUnexpectedEOF):
			return badRequest("", "body contains badly-formed JSON")
		case errors.As(err, &typeErr):
			return badRequest(typeErr.Field, "body contains incorrect JSON type for field %q", typeErr.Field)
		case errors.As(err, &tooLarge):
			return badRequest("", "body must not be larger than %d bytes", maxBodyBytes)
		case strings.HasPrefix(err.Error(), "json: unknown field "):
			field := strings.Trim(strings.TrimPrefix(err.Error(), "json: unknown field "), `"`)
			return badRequest(field, "body contains unknown key %q", field)
		default:
			return badRequest("", "%s", err.Error())
		}
	}
	if err := dec.Decode(&struct{}{}); !errors.Is(err, io.EOF) {
		return badRequest("", "body must only contain a single JSON value")
	}
	return nil
}

func pathUUID(r *http.Request, name string) (uuid.UUID, error) {
	raw := chi.URLParam(r, name)
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, badRequest(name, "%s must be a UUID", name)
	}
	return id, nil
}

// roundQuery reads the optional ?round=N reference round.
func roundQuery(r *http.Request) (*int, error) {
	raw := r.URL.Query().Get("round")
	if raw == "" {
		return nil, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return nil, badRequest("round", "round must be an integer")
	}
	return &n, nil
}

func actor(r *http.Request) (ladderdomain.Actor, error) {
	a, ok := ladderidentity.ActorFrom(r.Context())
	if !ok {
		return ladderdomain.Actor{}, errUnauthenticated
	}
	return a, nil
}

var errUnauthenticated = errors.New("no authenticated actor")

func requireAdmin(r *http.Request) (ladderdomain.Actor, error) {
	a, err := actor(r)
	if err != nil {
		return a, err
	}
	if !a.IsAdmin {
		return a, ladderdomain.NewPolicyViolation(ladderdomain.CodeAdminRequired, "this operation is reserved to administrators")
	}
	return a, nil
}
