package jerify

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/andyballingall/jerify/internal/validator"
)

// Response serializes payload as JSON and checks the result against the
// named schema. The returned bytes are exactly the document that was checked.
// An empty schemaName skips the check.
//
// A payload which cannot be serialized, fails the schema, or names an
// unregistered schema is a server fault: the cause is logged and a 500
// *HTTPError with a generic detail is returned.
func (j *Jerify) Response(payload any, schemaName string) ([]byte, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		j.logger.Error("Failed to serialize response", "schema", schemaName, "error", err)
		return nil, InternalError(err)
	}
	if schemaName == "" {
		return data, nil
	}

	doc, err := validator.ParseDocument(bytes.NewReader(data))
	if err != nil {
		j.logger.Error("Failed to serialize response", "schema", schemaName, "error", err)
		return nil, InternalError(err)
	}

	if vErr := j.store.Validate(doc, schemaName); vErr != nil {
		reason := ReasonSchemaViolation
		var unknown *UnknownSchemaError
		if errors.As(vErr, &unknown) {
			reason = ReasonUnknownSchema
		}
		j.logger.Error(fmt.Sprintf("Response failed validation against schema '%s': %s", schemaName, data),
			"schema", schemaName, "payload", string(data), "error", vErr)
		j.recorder.ResponseRejected(schemaName, reason)
		return nil, &HTTPError{
			Code:   http.StatusInternalServerError,
			Name:   http.StatusText(http.StatusInternalServerError),
			Detail: DetailInternal,
			Err:    vErr,
		}
	}
	return data, nil
}

// Respond writes payload with the given status once Response has accepted it.
// Nothing is written when it returns an error.
func (j *Jerify) Respond(w http.ResponseWriter, status int, payload any, schemaName string) error {
	data, err := j.Response(payload, schemaName)
	if err != nil {
		return err
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, err = w.Write(data)
	return err
}
