package schema

// BuildingTable represents the 'buildings' table
type BuildingTable struct {
	Table         string
	ID            string
	Name          string
	Descr         string
	Floors        string
	UnitsCount    string
	CondominiumID string
	CreatedAt     string
	UpdatedAt     string
	DeletedAt     string
}

// Building is the schema definition for buildings
var Building = BuildingTable{
	Table:         "buildings",
	ID:            "id",
	Name:          "name",
	Descr:         "description",
	Floors:        "floors",
	UnitsCount:    "unitscount",
	CondominiumID: "condominiumid",
	CreatedAt:     "createdat",
	UpdatedAt:     "updatedat",
	DeletedAt:     "deletedat",
}
