package httpx

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"citizenportal/internal/domains"
)

const maxBodyBytes = 1 << 20

// ReadBody decodes a JSON body into InitType and runs its validate tags.
// Decode and validation failures both come back as ValidationErrors.
func ReadBody[InitType any](w http.ResponseWriter, r *http.Request) (InitType, error) {
	body, ok, err := ReadOptionalBody[InitType](w, r)
	if err != nil {
		return body, err
	}
	if !ok {
		return body, domains.Invalid("body", "request body is empty", nil)
	}
	return body, nil
}

// ReadOptionalBody is ReadBody for endpoints where the body may be left out.
// ok is false when the body turns out to be empty, whatever Content-Length
// said; nothing is validated then.
func ReadOptionalBody[InitType any](w http.ResponseWriter, r *http.Request) (body InitType, ok bool, err error) {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err := dec.Decode(&body); err != nil {
		if errors.Is(err, io.EOF) {
			return body, false, nil
		}
		return body, false, domains.Invalid("body", "request body is not valid JSON", nil)
	}
	if err := Validate(body); err != nil {
		return body, true, err
	}
	return body, true, nil
}

// Validate runs the struct's validate tags and translates failures to the
// portal's field error shape.
func Validate(v any) error {
	return domains.CheckTags(v, "")
}
