package schema

// ReservationTable represents the 'reservations' table
type ReservationTable struct {
	Table          string
	ID             string
	Date           string
	StartTime      string
	EndTime        string
	Status         string
	Kind           string
	NumberOfGuests string
	Purpose        string
	Notes          string
	CommonSpaceID  string
	ResidentID     string
	CreatedAt      string
	UpdatedAt      string
	DeletedAt      string
}

// Reservation is the schema definition for reservations
var Reservation = ReservationTable{
	Table:          "reservations",
	ID:             "id",
	Date:           "date",
	StartTime:      "starttime",
	EndTime:        "endtime",
	Status:         "status",
	Kind:           "kind",
	NumberOfGuests: "numberofguests",
	Purpose:        "purpose",
	Notes:          "notes",
	CommonSpaceID:  "commonspaceid",
	ResidentID:     "residentid",
	CreatedAt:      "createdat",
	UpdatedAt:      "updatedat",
	DeletedAt:      "deletedat",
}
