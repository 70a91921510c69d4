package response

import (
	"encoding/json"
	"net/http"
)

type SuccessResponse struct {
	Data       interface{} `json:"data"`
	NextToken  string      `json:"nextToken,omitempty"`
	StatusCode int         `json:"-"`
}

func (r SuccessResponse) Send(w http.ResponseWriter) {
	w.WriteHeader(r.StatusCode)
	json.NewEncoder(w).Encode(r)
}

func OK(data interface{}) SuccessResponse {
	return SuccessResponse{Data: data, StatusCode: http.StatusOK}
}

func Created(data interface{}) SuccessResponse {
	return SuccessResponse{Data: data, StatusCode: http.StatusCreated}
}
