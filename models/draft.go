package models

// MeetingType says where a booking takes place.
type MeetingType string

const (
	MeetingInPerson MeetingType = "in_person"
	MeetingVirtual  MeetingType = "virtual"
)

// ServiceKind discriminates the two service-selection variants.
type ServiceKind string

const (
	ServiceNone    ServiceKind = ""
	ServiceCatalog ServiceKind = "catalog"
	ServiceCustom  ServiceKind = "custom"
)

// TimeWindow is a same-day wall-clock interval, "HH:MM" strings.
type TimeWindow struct {
	Start string `bson:"start" json:"start"`
	End   string `bson:"end" json:"end"`
}

// ServiceSelection is either a priced catalog category or a free-text custom
// service. Exactly one variant is populated; switching variants goes through
// the draft setters, which replace the whole struct.
type ServiceSelection struct {
	Kind        ServiceKind `json:"kind"`
	CategoryID  int         `json:"categoryId,omitempty"`
	Name        string      `json:"name,omitempty"`
	HourlyRate  float64     `json:"hourlyRate,omitempty"`
	Description string      `json:"description,omitempty"`
}

// Location carries the address text plus its geocode. An address string alone
// is not a validated location.
type Location struct {
	Address string   `bson:"address" json:"address"`
	Lat     *float64 `bson:"lat,omitempty" json:"lat,omitempty"`
	Lng     *float64 `bson:"lng,omitempty" json:"lng,omitempty"`
	PlaceID string   `bson:"placeId,omitempty" json:"placeId,omitempty"`
}

// Geocoded reports whether the location carries coordinates and a place id.
func (l *Location) Geocoded() bool {
	return l != nil && l.Address != "" && l.Lat != nil && l.Lng != nil && l.PlaceID != ""
}

// BookingDraft is the in-progress booking owned by one wizard session.
// It is mutated only through the setters below so the variant and
// meeting-type invariants cannot be bypassed.
type BookingDraft struct {
	CompanionID     int              `json:"companionId"`
	Date            string           `json:"date,omitempty"` // "YYYY-MM-DD"
	Window          TimeWindow       `json:"window"`
	Service         ServiceSelection `json:"service"`
	MeetingType     MeetingType      `json:"meetingType"`
	Location        *Location        `json:"location,omitempty"`
	ExtraAmount     float64          `json:"extraAmount"`
	SpecialRequests string           `json:"specialRequests,omitempty"`
}

func (d *BookingDraft) SetDate(date string) {
	d.Date = date
}

func (d *BookingDraft) SetTimeWindow(w TimeWindow) {
	d.Window = w
}

// SetCatalogService selects a catalog category, clearing any custom service.
func (d *BookingDraft) SetCatalogService(category ServiceCategory) {
	d.Service = ServiceSelection{
		Kind:       ServiceCatalog,
		CategoryID: category.ID,
		Name:       category.Name,
		HourlyRate: category.BasePrice,
	}
}

// SetCustomService selects a free-text custom service, clearing any catalog
// category.
func (d *BookingDraft) SetCustomService(name, description string) {
	d.Service = ServiceSelection{
		Kind:        ServiceCustom,
		Name:        name,
		Description: description,
	}
}

// SetMeetingType switches the meeting type. A virtual meeting has no
// location, so switching away from in_person drops it.
func (d *BookingDraft) SetMeetingType(mt MeetingType) {
	d.MeetingType = mt
	if mt == MeetingVirtual {
		d.Location = nil
	}
}

func (d *BookingDraft) SetLocation(loc *Location) {
	d.Location = loc
}

func (d *BookingDraft) SetExtraAmount(amount float64) {
	d.ExtraAmount = amount
}

func (d *BookingDraft) SetSpecialRequests(text string) {
	d.SpecialRequests = text
}
