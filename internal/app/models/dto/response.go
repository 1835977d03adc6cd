package dto

// APIResponse is the envelope of every API response
type APIResponse struct {
	Error   bool        `json:"error" example:"false"`
	Message string      `json:"message" example:"Operation completed successfully"`
	Data    interface{} `json:"data,omitempty"`
}

// NewSuccessResponse builds a successful envelope
func NewSuccessResponse(message string, data interface{}) APIResponse {
	return APIResponse{
		Error:   false,
		Message: message,
		Data:    data,
	}
}

// NewErrorResponse builds a failed envelope. data carries optional details,
// e.g. the violated fields of a validation error.
func NewErrorResponse(message string, data interface{}) APIResponse {
	return APIResponse{
		Error:   true,
		Message: message,
		Data:    data,
	}
}

// ValidationErrorData lists violated fields by their JSON name
type ValidationErrorData struct {
	Fields map[string]string `json:"fields"`
}
