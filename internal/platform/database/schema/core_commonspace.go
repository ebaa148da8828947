package schema

// CommonSpaceTable represents the 'common_spaces' table
type CommonSpaceTable struct {
	Table         string
	ID            string
	Name          string
	Descr         string
	Capacity      string
	OpensAt       string
	ClosesAt      string
	RequiresFee   string
	FeeAmount     string
	IsActive      string
	CondominiumID string
	CreatedAt     string
	UpdatedAt     string
	DeletedAt     string
}

// CommonSpace is the schema definition for common_spaces
var CommonSpace = CommonSpaceTable{
	Table:         "common_spaces",
	ID:            "id",
	Name:          "name",
	Descr:         "description",
	Capacity:      "capacity",
	OpensAt:       "opensat",
	ClosesAt:      "closesat",
	RequiresFee:   "requiresfee",
	FeeAmount:     "feeamount",
	IsActive:      "isactive",
	CondominiumID: "condominiumid",
	CreatedAt:     "createdat",
	UpdatedAt:     "updatedat",
	DeletedAt:     "deletedat",
}
