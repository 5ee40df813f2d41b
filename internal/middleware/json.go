package middleware

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"
	"strings"

	"github.com/mtlprog/contacts/internal/handler/dto"
)

// JSONBody parses bodies declared as JSON into the request payload,
// available downstream via Payload. The raw bytes are restored on r.Body so
// routers see the request unmodified. Like express.json in strict mode, only
// objects and arrays are accepted. Failures are answered per request and
// never reach the routes.
func JSONBody(limit int64) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Body == nil || r.Body == http.NoBody || !isJSON(r.Header.Get("Content-Type")) {
				next.ServeHTTP(w, r)
				return
			}

			body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, limit))
			if err != nil {
				var tooLarge *http.MaxBytesError
				if errors.As(err, &tooLarge) {
					dto.WriteError(w, http.StatusRequestEntityTooLarge, dto.CodePayloadTooLarge, "Request body too large")
					return
				}
				dto.WriteError(w, http.StatusBadRequest, dto.CodeInvalidJSON, "Failed to read request body")
				return
			}
			r.Body = io.NopCloser(bytes.NewReader(body))

			trimmed := bytes.TrimSpace(body)
			if len(trimmed) == 0 {
				next.ServeHTTP(w, r)
				return
			}

			payload, err := decodeStrict(trimmed)
			if err != nil {
				dto.WriteError(w, http.StatusBadRequest, dto.CodeInvalidJSON, err.Error())
				return
			}

			ctx := context.WithValue(r.Context(), ContextKeyPayload, payload)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// Payload returns the decoded JSON body stored by JSONBody. Numbers are
// kept as json.Number.
func Payload(ctx context.Context) (any, bool) {
	payload := ctx.Value(ContextKeyPayload)
	return payload, payload != nil
}

func decodeStrict(data []byte) (any, error) {
	if data[0] != '{' && data[0] != '[' {
		return nil, errors.New("request body must be a JSON object or array")
	}
	if !json.Valid(data) {
		return nil, errors.New("malformed JSON in request body")
	}

	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	var payload any
	if err := dec.Decode(&payload); err != nil {
		return nil, errors.New("malformed JSON in request body")
	}
	if err := checkNumbers(payload); err != nil {
		return nil, err
	}
	return payload, nil
}

// checkNumbers rejects numbers that fit neither int64 nor float64, which
// the document store cannot encode.
func checkNumbers(v any) error {
	switch v := v.(type) {
	case json.Number:
		if _, err := v.Int64(); err == nil {
			return nil
		}
		if _, err := v.Float64(); err != nil {
			return fmt.Errorf("number %s is out of range", v)
		}
	case map[string]any:
		for _, e := range v {
			if err := checkNumbers(e); err != nil {
				return err
			}
		}
	case []any:
		for _, e := range v {
			if err := checkNumbers(e); err != nil {
				return err
			}
		}
	}
	return nil
}

func isJSON(contentType string) bool {
	if contentType == "" {
		return false
	}
	mediaType, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		return false
	}
	return mediaType == "application/json" || strings.HasSuffix(mediaType, "+json")
}
