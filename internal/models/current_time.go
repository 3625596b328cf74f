package models

import "time"

// CurrentTimeModel is the server clock. Time is in unix milliseconds.
type CurrentTimeModel struct {
	ReadableTime string `json:"readableTime"`
	Time         int64  `json:"time"`
}

type CurrentTimeData struct {
	Entry      CurrentTimeModel `json:"entry"`
	References ReferencesModel  `json:"references"`
}

func NewCurrentTimeData(t time.Time) CurrentTimeData {
	return CurrentTimeData{
		Entry: CurrentTimeModel{
			ReadableTime: t.Format(time.RFC3339),
			Time:         t.UnixMilli(),
		},
		References: NewEmptyReferences(),
	}
}
