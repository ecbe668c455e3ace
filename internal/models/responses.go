package models

type PageMetadata struct {
	Total      int `json:"total"`
	TotalPages int `json:"totalPages"`
	Page       int `json:"page"`
	PageSize   int `json:"pageSize"`
}

// QuestionPage is the response shape of the due-today / upcoming list
// endpoints.
type QuestionPage struct {
	Metadata  PageMetadata `json:"metadata"`
	Questions []*Question  `json:"questions"`
}

type APIError struct {
	Code      string            `json:"code"`
	Message   string            `json:"message"`
	Fields    map[string]string `json:"fields,omitempty"`
	RequestID string            `json:"request_id,omitempty"`
}

type ErrorResponse struct {
	Error APIError `json:"error"`
}
