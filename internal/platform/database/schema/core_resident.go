package schema

// ResidentTable represents the 'residents' table
type ResidentTable struct {
	Table          string
	ID             string
	FirstName      string
	LastName       string
	Email          string
	Phone          string
	ResidentType   string
	DocumentType   string
	DocumentNumber string
	IsActive       string
	MoveInDate     string
	MoveOutDate    string
	CondominiumID  string
	UnitID         string
	CreatedAt      string
	UpdatedAt      string
	DeletedAt      string
}

// Resident is the schema definition for residents
var Resident = ResidentTable{
	Table:          "residents",
	ID:             "id",
	FirstName:      "firstname",
	LastName:       "lastname",
	Email:          "email",
	Phone:          "phone",
	ResidentType:   "residenttype",
	DocumentType:   "documenttype",
	DocumentNumber: "documentnumber",
	IsActive:       "isactive",
	MoveInDate:     "moveindate",
	MoveOutDate:    "moveoutdate",
	CondominiumID:  "condominiumid",
	UnitID:         "unitid",
	CreatedAt:      "createdat",
	UpdatedAt:      "updatedat",
	DeletedAt:      "deletedat",
}
