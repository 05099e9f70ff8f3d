package types

// ApiResponse is the uniform envelope for every JSON response. Token is only
// set by the auth endpoints that issue a session token.
type ApiResponse struct {
	Message string      `json:"message"`
	Status  int         `json:"status"`
	Token   string      `json:"token,omitempty"`
	Data    interface{} `json:"data,omitempty"`
}
