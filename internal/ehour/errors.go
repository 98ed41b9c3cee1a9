package ehour

import "fmt"

// RESTError is returned for any non-2xx HTTP response from the eHour API.
// It carries the numeric status code and the textual reason phrase.
// Callers may inspect the code; the client never retries on its own.
type RESTError struct {
	Code   int
	Reason string
}

func (e *RESTError) Error() string {
	return fmt.Sprintf("ehour: HTTP %d %s", e.Code, e.Reason)
}

// SchemaError reports a response body that violates the API contract:
// missing required fields, wrong types, or an unparseable shape. It is a
// defect signal rather than a transient failure; retrying cannot help.
type SchemaError struct {
	Msg string
}

func (e *SchemaError) Error() string {
	return "ehour: " + e.Msg
}

func schemaErrorf(format string, args ...any) *SchemaError {
	return &SchemaError{Msg: fmt.Sprintf(format, args...)}
}
