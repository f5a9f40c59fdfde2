package dto

// Response is the envelope every endpoint returns. Exactly one of Data and
// Error is set; Meta accompanies list payloads.
type Response struct {
	Success bool       `json:"success"`
	Data    any        `json:"data,omitempty"`
	Error   *ErrorInfo `json:"error,omitempty"`
	Meta    *Meta      `json:"meta,omitempty"`
}

// ErrorInfo carries the machine-readable code alongside the human message.
type ErrorInfo struct {
	Code      string `json:"code"`
	Message   string `json:"message"`
	RequestID string `json:"request_id,omitempty"`
}

// Meta describes a list payload.
type Meta struct {
	Count int `json:"count"`
	Limit int `json:"limit,omitempty"`
}

func NewSuccessResponse(data any) Response {
	return Response{Success: true, Data: data}
}

// NewListResponse wraps a list payload with its count and the limit that was
// applied to the query.
func NewListResponse(data any, count, limit int) Response {
	return Response{
		Success: true,
		Data:    data,
		Meta:    &Meta{Count: count, Limit: limit},
	}
}

func NewErrorResponse(code, message string) Response {
	return Response{
		Success: false,
		Error:   &ErrorInfo{Code: code, Message: message},
	}
}

// NewErrorResponseWithRequestID attaches the request id so clients can quote
// it when reporting failures.
func NewErrorResponseWithRequestID(code, message, requestID string) Response {
	resp := NewErrorResponse(code, message)
	resp.Error.RequestID = requestID
	return resp
}

// IDRequest binds the :id path parameter.
type IDRequest struct {
	ID string `uri:"id" binding:"required,uuid"`
}
