package http

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"reflect"
	"strings"
	"time"

	"github.com/atinyakov/zenly/internal/apperror"
	"github.com/atinyakov/zenly/internal/auth"
	"github.com/atinyakov/zenly/internal/middleware"
	"github.com/atinyakov/zenly/internal/models"
	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"
)

// maxBodyBytes caps request bodies; the largest payload is a journal entry.
const maxBodyBytes = 1 << 20

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	// Report fields by their JSON names.
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// decode reads a single JSON object into dst, rejecting unknown fields,
// and runs its validate tags.
func decode(w http.ResponseWriter, r *http.Request, dst any) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		if errors.Is(err, io.EOF) {
			return fmt.Errorf("%w: request body is empty", models.ErrValidation)
		}
		return fmt.Errorf("%w: invalid request body: %v", models.ErrValidation, err)
	}
	if dec.More() {
		return fmt.Errorf("%w: request body must be a single JSON object", models.ErrValidation)
	}
	if err := validate.Struct(dst); err != nil {
		return validationError(err)
	}
	return nil
}

func validationError(err error) error {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return fmt.Errorf("%w: %v", models.ErrValidation, err)
	}
	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		switch fe.Tag() {
		case "required":
			msgs = append(msgs, fe.Field()+" is required")
		case "email":
			msgs = append(msgs, fe.Field()+" must be a valid email")
		case "min", "max", "gte", "lte":
			msgs = append(msgs, fmt.Sprintf("%s fails %s=%s", fe.Field(), fe.Tag(), fe.Param()))
		default:
			msgs = append(msgs, fmt.Sprintf("%s is invalid (%s)", fe.Field(), fe.Tag()))
		}
	}
	return fmt.Errorf("%w: %s", models.ErrValidation, strings.Join(msgs, "; "))
}

// principal returns the caller resolved by the Authenticate middleware.
func principal(r *http.Request) (auth.Principal, error) {
	p, ok := middleware.PrincipalFromContext(r.Context())
	if !ok {
		return auth.Principal{}, auth.ErrUnauthenticated
	}
	return p, nil
}

// parseRange reads the optional RFC 3339 "from" and "to" query parameters.
func parseRange(r *http.Request) (models.MoodRange, error) {
	var rng models.MoodRange
	q := r.URL.Query()
	for _, f := range []struct {
		name string
		dst  *time.Time
	}{{"from", &rng.From}, {"to", &rng.To}} {
		v := q.Get(f.name)
		if v == "" {
			continue
		}
		t, err := time.Parse(time.RFC3339, v)
		if err != nil {
			return rng, fmt.Errorf("%w: %s must be an RFC 3339 timestamp", models.ErrValidation, f.name)
		}
		*f.dst = t
	}
	return rng, nil
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	apperror.WriteJSON(w, status, v)
}

// writeError sends the classified response for err. Only unexpected
// failures are logged; the client sees a generic message for those.
func writeError(log *zap.Logger, w http.ResponseWriter, r *http.Request, err error) {
	if status := apperror.Write(w, err); status == http.StatusInternalServerError && log != nil {
		log.Error("request failed",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Error(err),
		)
	}
}
