package action

import "net/http"

// Kind classifies the outcome of an action.
type Kind string

const (
	KindOK             Kind = "ok"
	KindBadRequest     Kind = "bad_request"
	KindNotFound       Kind = "not_found"
	KindForbidden      Kind = "forbidden"
	KindNotImplemented Kind = "not_implemented"
	KindServerError    Kind = "server_error"
)

// Status maps the kind onto its HTTP status code.
func (k Kind) Status() int {
	switch k {
	case KindOK:
		return http.StatusOK
	case KindBadRequest:
		return http.StatusBadRequest
	case KindNotFound:
		return http.StatusNotFound
	case KindForbidden:
		return http.StatusForbidden
	case KindNotImplemented:
		return http.StatusNotImplemented
	default:
		return http.StatusInternalServerError
	}
}

// Request is one action invocation: a name plus string parameters taken
// from path segments and the query string.
type Request struct {
	Name   string
	Params map[string]string
}

// Param returns the named parameter or "".
func (r Request) Param(key string) string {
	return r.Params[key]
}

// Payload is the structured body of a successful action.
type Payload map[string]any

// Attachment is a file to stream back instead of a JSON payload.
type Attachment struct {
	Path        string
	Name        string
	ContentType string
	// Remove deletes Path once it has been sent.
	Remove bool
}

// Result is either a payload, an attachment, or a failure.
type Result struct {
	Kind       Kind
	Payload    Payload
	Attachment *Attachment
	Message    string
}

func OK(p Payload) Result {
	return Result{Kind: KindOK, Payload: p}
}

func File(a Attachment) Result {
	return Result{Kind: KindOK, Attachment: &a}
}

func Fail(kind Kind, msg string) Result {
	return Result{Kind: kind, Message: msg}
}

func (r Result) Success() bool {
	return r.Kind == KindOK
}

func (r Result) Status() int {
	return r.Kind.Status()
}

// Body is the JSON document for the result. Attachments have no body.
func (r Result) Body() map[string]any {
	if !r.Success() {
		return map[string]any{
			"success": false,
			"error":   r.Message,
			"kind":    string(r.Kind),
		}
	}

	return r.Payload
}
