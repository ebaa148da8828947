package schema

// UnitTable represents the 'units' table
type UnitTable struct {
	Table             string
	ID                string
	UnitNumber        string
	Floor             string
	Block             string
	Area              string
	Bedrooms          string
	Bathrooms         string
	ParkingSpots      string
	StorageUnits      string
	Status            string
	IsOccupied        string
	BuildingID        string
	CurrentResidentID string
	CreatedAt         string
	UpdatedAt         string
	DeletedAt         string
}

// Unit is the schema definition for units
var Unit = UnitTable{
	Table:             "units",
	ID:                "id",
	UnitNumber:        "unitnumber",
	Floor:             "floor",
	Block:             "block",
	Area:              "area",
	Bedrooms:          "bedrooms",
	Bathrooms:         "bathrooms",
	ParkingSpots:      "parkingspots",
	StorageUnits:      "storageunits",
	Status:            "status",
	IsOccupied:        "isoccupied",
	BuildingID:        "buildingid",
	CurrentResidentID: "currentresidentid",
	CreatedAt:         "createdat",
	UpdatedAt:         "updatedat",
	DeletedAt:         "deletedat",
}
