package dto

// FormState is the body of every customer and invoice mutation response. The
// dashboard re-renders its form from it.
type FormState struct {
	Errors   map[string][]string `json:"errors,omitempty"`
	Message  string              `json:"message,omitempty"`
	Redirect string              `json:"redirect,omitempty"`
}

type ErrorResponse struct {
	Error string `json:"error"`
}
