package domain

import (
	"errors"
	"fmt"
	"net/http"
)

// ErrResourceNotFound is the sentinel for a fetch target that does not exist.
// It is not an error for catalog reads (absent means empty) or for the blob
// lookup before a delete (absent means already deleted).
var ErrResourceNotFound = errors.New("resource not found")

// ErrRevisionConflict reports a write or delete rejected because the supplied
// revision token no longer matches the store's current token. The store is
// the source of truth for conflict detection; this module never merges and
// never retries.
var ErrRevisionConflict = errors.New("revision token conflict")

// StoreError wraps a failure from the remote store with the HTTP status and
// the message extracted from the store's structured error body when present.
type StoreError struct {
	Op         string
	StatusCode int
	Message    string
	Err        error
}

func (e *StoreError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("store: %s failed with status %d: %s", e.Op, e.StatusCode, e.Message)
	}
	return fmt.Sprintf("store: %s failed: %v", e.Op, e.Err)
}

func (e *StoreError) Unwrap() error {
	if e.Err != nil {
		return e.Err
	}
	switch e.StatusCode {
	case http.StatusNotFound:
		return ErrResourceNotFound
	case http.StatusConflict:
		return ErrRevisionConflict
	}
	return nil
}

// UserMessage maps an operation failure to the message shown to the end
// user, keeping invalid credentials and insufficient permissions distinct.
func UserMessage(err error) string {
	if errors.Is(err, ErrRevisionConflict) {
		return "the gallery was modified by another writer, please retry"
	}
	var serr *StoreError
	if errors.As(err, &serr) {
		switch serr.StatusCode {
		case http.StatusUnauthorized:
			return "authentication failed: the access token is invalid or expired"
		case http.StatusForbidden:
			return "permission denied: the access token does not have write access to the repository"
		}
		if serr.Message != "" {
			return serr.Message
		}
	}
	return err.Error()
}
