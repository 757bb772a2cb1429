package handlers

import (
	"github.com/fosuklisman1-boop/Datagod2-sub000/pkg/response"
)

// RespOK is a generic OK envelope for endpoints returning no specific data.
type RespOK struct {
	Code    response.APIResponseCode `json:"code"`
	Message string                   `json:"message"`
	Data    interface{}              `json:"data"`
}

// RespListFulfillmentLogs wraps ListFulfillmentLogsResponse in the standard envelope.
type RespListFulfillmentLogs struct {
	Code    response.APIResponseCode    `json:"code"`
	Message string                      `json:"message"`
	Data    ListFulfillmentLogsResponse `json:"data"`
}
