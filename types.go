package main

// SMSRequest is the body of POST /api/v1/sms/send. PhoneNumber is optional
// and only used to address the handoff job.
type SMSRequest struct {
	Message     *string `json:"message"`
	PhoneNumber string  `json:"phoneNumber"`
}

// ErrorResponse is returned for every failed request.
type ErrorResponse struct {
	Error     string `json:"error"`
	Message   string `json:"message"`
	Timestamp string `json:"timestamp"`
	Status    int    `json:"status"`
}

// HealthResponse is returned by the health endpoint.
type HealthResponse struct {
	Status  string `json:"status"`
	Service string `json:"service"`
	Version string `json:"version"`
}
