package binder

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"
)

// DefaultMaxJSONSize limits request bodies to 1MB.
const DefaultMaxJSONSize = 1 << 20

// JSON returns a binder that decodes application/json bodies in strict mode.
func JSON() func(r *http.Request, v any) error {
	return JSONWithLimit(DefaultMaxJSONSize)
}

func JSONWithLimit(limit int64) func(r *http.Request, v any) error {
	return func(r *http.Request, v any) error {
		mediaType, _, err := mime.ParseMediaType(r.Header.Get("Content-Type"))
		if err != nil || mediaType != "application/json" {
			return &Error{Sentinel: ErrUnsupportedMediaType, Detail: "expected application/json"}
		}

		body, err := io.ReadAll(io.LimitReader(r.Body, limit+1))
		if err != nil {
			return &Error{Sentinel: ErrFailedToParseJSON, Detail: "failed to read body"}
		}
		if int64(len(body)) > limit {
			return &Error{Sentinel: ErrFailedToParseJSON, Detail: fmt.Sprintf("body too large (max %d bytes)", limit)}
		}

		dec := json.NewDecoder(bytes.NewReader(body))
		dec.DisallowUnknownFields()
		if err := dec.Decode(v); err != nil {
			if errors.Is(err, io.EOF) {
				return &Error{Sentinel: ErrFailedToParseJSON, Detail: "empty body"}
			}
			return &Error{Sentinel: ErrFailedToParseJSON, Detail: err.Error()}
		}
		if dec.More() {
			return &Error{Sentinel: ErrFailedToParseJSON, Detail: "unexpected data after JSON object"}
		}

		return nil
	}
}
