package models

import "time"

// BookingStatus is the lifecycle state of a persisted booking.
type BookingStatus string

const (
	BookingConfirmed BookingStatus = "confirmed"
	BookingCompleted BookingStatus = "completed"
	BookingCancelled BookingStatus = "cancelled"
)

// Booking is a confirmed booking record.
type Booking struct {
	ID              string        `bson:"id" json:"id"`
	CompanionID     int           `bson:"companionId" json:"companionId"`
	UserID          string        `bson:"userId" json:"userId"`
	Date            string        `bson:"date" json:"date"` // "YYYY-MM-DD"
	Start           string        `bson:"start" json:"start"`
	End             string        `bson:"end" json:"end"`
	DurationHours   float64       `bson:"durationHours" json:"durationHours"`
	ServiceName     string        `bson:"serviceName" json:"serviceName"`
	CategoryID      int           `bson:"categoryId,omitempty" json:"categoryId,omitempty"`
	MeetingType     MeetingType   `bson:"meetingType" json:"meetingType"`
	Location        *Location     `bson:"location,omitempty" json:"location,omitempty"`
	Subtotal        float64       `bson:"subtotal" json:"subtotal"`
	Fee             float64       `bson:"fee" json:"fee"`
	ExtraAmount     float64       `bson:"extraAmount" json:"extraAmount"`
	Total           float64       `bson:"total" json:"total"`
	SpecialRequests string        `bson:"specialRequests,omitempty" json:"specialRequests,omitempty"`
	Status          BookingStatus `bson:"status" json:"status"`
	CreatedAt       time.Time     `bson:"createdAt" json:"createdAt"`
}

// CustomServiceInput is the custom-service half of a submission payload.
type CustomServiceInput struct {
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
}

// BookingSubmission is the payload handed to the submission gateway once a
// draft clears review. The service selection is resolved into either a
// category id or a custom-service object, never both.
type BookingSubmission struct {
	CompanionID     int                 `json:"companionId"`
	UserID          string              `json:"userId"`
	Date            string              `json:"date"`
	StartTime       string              `json:"startTime"`
	EndTime         string              `json:"endTime"`
	DurationHours   float64             `json:"duration"`
	CategoryID      int                 `json:"categoryId,omitempty"`
	CustomService   *CustomServiceInput `json:"customService,omitempty"`
	ServiceName     string              `json:"serviceName"`
	MeetingType     MeetingType         `json:"meetingType"`
	Location        *Location           `json:"location,omitempty"`
	SpecialRequests string              `json:"specialRequests,omitempty"`
	ExtraAmount     float64             `json:"extraAmount"`
	Subtotal        float64             `json:"subtotal"`
	Fee             float64             `json:"fee"`
	Total           float64             `json:"total"`
}

// PaymentIntent is the client-facing slice of a created Stripe intent.
type PaymentIntent struct {
	ClientSecret string `json:"clientSecret"`
	AmountCents  int64  `json:"amountCents"`
	Currency     string `json:"currency"`
}
