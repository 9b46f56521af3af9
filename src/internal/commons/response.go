package commons

// Response is the envelope every service call returns. Code carries
// the machine-readable error kind on failures so callers do not have
// to match on Message text.
type Response[T any] struct {
	Success bool     `json:"success"`
	Message string   `json:"message"`
	Code    string   `json:"code,omitempty"`
	Data    *T       `json:"data,omitempty"`
	Errors  []string `json:"errors,omitempty"`
}

func SuccessResponse[T any](message string, data T) Response[T] {
	return Response[T]{
		Success: true,
		Message: message,
		Data:    &data,
	}
}

func ErrorResponse[T any](code string, message string, errors ...string) Response[T] {
	return Response[T]{
		Success: false,
		Message: message,
		Code:    code,
		Errors:  errors,
	}
}
