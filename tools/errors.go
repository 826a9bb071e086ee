package tools

import "errors"

// ErrUnknownTool reports a call naming a tool the registry never
// registered. Wrapped with the offending name at the call site.
var ErrUnknownTool = errors.New("unknown tool")

// InvalidArgumentsError reports argument text that failed schema
// validation or decoding into the tool's argument struct. Tool is set
// by the registry once the failing tool is known.
type InvalidArgumentsError struct {
	Tool string
	Err  error
}

func (e *InvalidArgumentsError) Error() string {
	return "invalid arguments: " + e.Err.Error()
}

func (e *InvalidArgumentsError) Unwrap() error { return e.Err }

// errorResult is the shared failure envelope. Success is always
// serialized, even when false, so the model can branch on it.
type errorResult struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
}

func fail(message string) errorResult {
	return errorResult{Success: false, Error: message}
}

// notFoundResult is a failure envelope that carries did-you-mean
// candidates from the fuzzy name index.
type notFoundResult struct {
	Success     bool     `json:"success"`
	Error       string   `json:"error"`
	Suggestions []string `json:"suggestions,omitempty"`
}

func notFound(message string, suggestions []string) notFoundResult {
	return notFoundResult{Success: false, Error: message, Suggestions: suggestions}
}

// ErrorResult renders the standard failure envelope for callers that
// need a serialized tool result without going through Execute, such as
// a tool call whose argument text never parsed.
func ErrorResult(message string) string {
	return Serialize(fail(message))
}
