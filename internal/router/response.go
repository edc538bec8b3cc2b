// Package router dispatches inbound events to step handlers: an exact-match
// command table, an ordered list of callback-token bindings, and free-text
// interpretation against the user's current session state.
package router

// Class categorizes an outbound response. Which class a handler picks is
// part of the engine's contract and is asserted in tests; the rendered text
// is not.
type Class string

const (
	ClassSuccess         Class = "success"
	ClassValidationError Class = "validation_error"
	ClassRateLimited     Class = "rate_limited"
	ClassUnknown         Class = "unknown"
	ClassUnavailable     Class = "unavailable"
)

// Button is one inline keyboard button: a label and the callback token the
// tap sends back.
type Button struct {
	Label    string `json:"label"`
	Callback string `json:"callback"`
}

// Response is the rendered payload handed to the transport: text plus an
// optional inline keyboard, rows of buttons.
type Response struct {
	Class    Class      `json:"class"`
	Text     string     `json:"text"`
	Keyboard [][]Button `json:"keyboard,omitempty"`
}

func success(text string, keyboard ...[]Button) *Response {
	return &Response{Class: ClassSuccess, Text: text, Keyboard: keyboard}
}

func invalid(text string) *Response {
	return &Response{Class: ClassValidationError, Text: text}
}

func unknown(text string) *Response {
	return &Response{Class: ClassUnknown, Text: text}
}
