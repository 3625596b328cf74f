package models

import (
	"net/http"
	"time"
)

const apiVersion = 2

// ResponseModel is the envelope of every API response.
type ResponseModel struct {
	Code        int         `json:"code"`
	CurrentTime int64       `json:"currentTime"`
	Data        interface{} `json:"data"`
	Text        string      `json:"text"`
	Version     int         `json:"version"`
}

// ResponseCurrentTime is the currentTime of a response, in milliseconds.
func ResponseCurrentTime() int64 {
	return time.Now().UnixNano() / int64(time.Millisecond)
}

func NewResponse(code int, data interface{}, text string) ResponseModel {
	return ResponseModel{
		Code:        code,
		CurrentTime: ResponseCurrentTime(),
		Data:        data,
		Text:        text,
		Version:     apiVersion,
	}
}

func NewOKResponse(data interface{}) ResponseModel {
	return NewResponse(http.StatusOK, data, "OK")
}

func NewEntryResponse(entry interface{}, references ReferencesModel) ResponseModel {
	return NewOKResponse(map[string]interface{}{
		"entry":      entry,
		"references": references,
	})
}

func NewListResponse(list interface{}, references ReferencesModel) ResponseModel {
	return NewListResponseWithLimit(list, references, false)
}

// NewListResponseWithLimit reports whether list was truncated.
func NewListResponseWithLimit(list interface{}, references ReferencesModel, limitExceeded bool) ResponseModel {
	return NewOKResponse(map[string]interface{}{
		"limitExceeded": limitExceeded,
		"list":          list,
		"references":    references,
	})
}
