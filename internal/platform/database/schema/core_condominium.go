package schema

// CondominiumTable represents the 'condominiums' table
type CondominiumTable struct {
	Table      string
	ID         string
	Name       string
	Descr      string
	Address    string
	City       string
	Country    string
	PostalCode string
	Phone      string
	Email      string
	Website    string
	TaxID      string
	IsActive   string
	CreatedAt  string
	UpdatedAt  string
	DeletedAt  string
}

// Condominium is the schema definition for condominiums
var Condominium = CondominiumTable{
	Table:      "condominiums",
	ID:         "id",
	Name:       "name",
	Descr:      "description",
	Address:    "address",
	City:       "city",
	Country:    "country",
	PostalCode: "postalcode",
	Phone:      "phone",
	Email:      "email",
	Website:    "website",
	TaxID:      "taxid",
	IsActive:   "isactive",
	CreatedAt:  "createdat",
	UpdatedAt:  "updatedat",
	DeletedAt:  "deletedat",
}

// Columns returns all standard column names
func (t CondominiumTable) Columns() []string {
	return []string{
		t.ID, t.Name, t.Descr, t.Address, t.City, t.Country, t.PostalCode,
		t.Phone, t.Email, t.Website, t.TaxID, t.IsActive,
		t.CreatedAt, t.UpdatedAt, t.DeletedAt,
	}
}
