package generator

import (
	"errors"
	"fmt"
)

type ErrorKind int

const (
	// KindRequestFailed covers an invalid request, a transport failure or a
	// non-2xx status from the generation endpoint.
	KindRequestFailed ErrorKind = iota + 1
	// KindMalformedResponse means the generation response arrived but had no
	// usable image URL.
	KindMalformedResponse
	// KindDownloadFailed means the image could not be fetched or written.
	KindDownloadFailed
)

func (k ErrorKind) String() string {
	switch k {
	case KindRequestFailed:
		return "request failed"
	case KindMalformedResponse:
		return "malformed response"
	case KindDownloadFailed:
		return "download failed"
	default:
		return "unknown error"
	}
}

var (
	ErrRequestFailed     = &GenerationError{Kind: KindRequestFailed}
	ErrMalformedResponse = &GenerationError{Kind: KindMalformedResponse}
	ErrDownloadFailed    = &GenerationError{Kind: KindDownloadFailed}
)

type GenerationError struct {
	Kind       ErrorKind
	StatusCode int
	Message    string
	Err        error
}

func (e *GenerationError) Error() string {
	msg := e.Kind.String()
	if e.StatusCode != 0 {
		msg = fmt.Sprintf("%s: status %d", msg, e.StatusCode)
	}
	if e.Message != "" {
		msg = fmt.Sprintf("%s: %s", msg, e.Message)
	}
	if e.Err != nil {
		msg = fmt.Sprintf("%s: %v", msg, e.Err)
	}
	return msg
}

func (e *GenerationError) Unwrap() error {
	return e.Err
}

// Is matches any GenerationError of the same kind, so
// errors.Is(err, ErrDownloadFailed) works on wrapped values.
func (e *GenerationError) Is(target error) bool {
	t, ok := target.(*GenerationError)
	return ok && t.Kind == e.Kind
}

// KindOf reports the kind of the first GenerationError in err's chain, or 0.
func KindOf(err error) ErrorKind {
	var ge *GenerationError
	if errors.As(err, &ge) {
		return ge.Kind
	}
	return 0
}

func requestFailed(status int, msg string, err error) error {
	return &GenerationError{Kind: KindRequestFailed, StatusCode: status, Message: msg, Err: err}
}

func malformedResponse(msg string, err error) error {
	return &GenerationError{Kind: KindMalformedResponse, Message: msg, Err: err}
}

func downloadFailed(status int, msg string, err error) error {
	return &GenerationError{Kind: KindDownloadFailed, StatusCode: status, Message: msg, Err: err}
}
