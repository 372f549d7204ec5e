package models

import "time"

// DayAvailability lists a companion's open windows for one date next to the
// windows already reserved, both ordered by start time.
type DayAvailability struct {
	CompanionID int          `json:"companionId"`
	Date        string       `json:"date"`
	Open        []TimeWindow `json:"open"`
	Booked      []TimeWindow `json:"booked"`
}

// WeeklyWindow is one weekday entry of a companion's recurring schedule.
type WeeklyWindow struct {
	CompanionID int          `bson:"companionId" json:"-"`
	Weekday     time.Weekday `bson:"weekday" json:"weekday"`
	StartTime   string       `bson:"startTime" json:"startTime"`
	EndTime     string       `bson:"endTime" json:"endTime"`
	IsAvailable bool         `bson:"isAvailable" json:"isAvailable"`
}
