package domain

import (
	"errors"
	"fmt"
	"net/http"
)

// RemoteError is the single failure kind surfaced by a remote store call:
// transport failures, auth failures and validation rejections alike.
type RemoteError struct {
	Op      string // fetch-all, insert, update, delete, sign-in, ...
	Status  int    // HTTP status, 0 when the request never completed
	Message string
	Err     error
}

func (e *RemoteError) Error() string {
	msg := e.Message
	if msg == "" && e.Err != nil {
		msg = e.Err.Error()
	}
	if e.Status != 0 {
		return fmt.Sprintf("%s failed (%d): %s", e.Op, e.Status, msg)
	}
	return fmt.Sprintf("%s failed: %s", e.Op, msg)
}

func (e *RemoteError) Unwrap() error {
	return e.Err
}

// Unauthorized reports whether the store rejected the session itself.
func (e *RemoteError) Unauthorized() bool {
	return e.Status == http.StatusUnauthorized
}

// IsRemoteError unwraps err into a *RemoteError.
func IsRemoteError(err error) (*RemoteError, bool) {
	var re *RemoteError
	if errors.As(err, &re) {
		return re, true
	}
	return nil, false
}
