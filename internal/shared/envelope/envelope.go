// Package envelope defines the JSON wrapper every API response uses.
package envelope

// Response is {success, data?, message?, error?}.
type Response struct {
	Success bool   `json:"success"`
	Data    any    `json:"data,omitempty"`
	Message string `json:"message,omitempty"`
	Error   string `json:"error,omitempty"`
}

func OK(data any, message string) Response {
	return Response{Success: true, Data: data, Message: message}
}

// Fail builds a failure envelope. A nil err leaves the error field out.
func Fail(message string, err error) Response {
	r := Response{Message: message}
	if err != nil {
		r.Error = err.Error()
	}
	return r
}
