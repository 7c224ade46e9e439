package routekit

import "io"

// Result is the outcome of a single dispatch attempt. It is a closed union
// with three variants: a body payload to emit, handled-with-nothing-to-emit,
// and unhandled. Exactly one variant is active; values are created fresh per
// attempt, never mutated, and consumed immediately by the caller.
type Result interface {
	isResult()
}

type unhandledResult struct{}

func (unhandledResult) isResult() {}

type handledResult struct{}

func (handledResult) isResult() {}

// BodyResult carries the response body to emit using the status and headers
// accumulated on the message so far. The payload is either a byte sequence
// or a lazy byte-producing stream, never both.
type BodyResult struct {
	content []byte
	stream  func(w io.Writer) error
}

func (*BodyResult) isResult() {}

// Content returns the buffered payload. It is nil for streaming results.
func (r *BodyResult) Content() []byte {
	return r.content
}

// Streaming reports whether the payload is produced lazily.
func (r *BodyResult) Streaming() bool {
	return r.stream != nil
}

// emit writes the payload to w.
func (r *BodyResult) emit(w io.Writer) error {
	if r.stream != nil {
		return r.stream(w)
	}
	if len(r.content) == 0 {
		return nil
	}
	_, err := w.Write(r.content)
	return err
}

// Unhandled signals "not for me, try the next candidate". It carries no
// payload and is the first-class representation of no-match.
func Unhandled() Result {
	return unhandledResult{}
}

// Handled signals the request was fully dealt with and there is no body to
// emit: either a response was already side-effected (socket takeover) or a
// status was set with no body.
func Handled() Result {
	return handledResult{}
}

// Text creates a body result from a string payload.
func Text(content string) Result {
	return &BodyResult{content: []byte(content)}
}

// Bytes creates a body result from a raw byte payload.
func Bytes(content []byte) Result {
	return &BodyResult{content: content}
}

// Stream creates a body result whose payload is produced lazily by the given
// writer function at emit time.
func Stream(writer func(w io.Writer) error) Result {
	return &BodyResult{stream: writer}
}

// IsUnhandled reports whether r is the Unhandled variant.
func IsUnhandled(r Result) bool {
	_, ok := r.(unhandledResult)
	return ok
}

// IsHandled reports whether r is the Handled variant.
func IsHandled(r Result) bool {
	_, ok := r.(handledResult)
	return ok
}

// IsBody reports whether r carries a body payload.
func IsBody(r Result) bool {
	_, ok := r.(*BodyResult)
	return ok
}
