package schema

// UserCondominiumTable represents the 'user_condominiums' join table
type UserCondominiumTable struct {
	Table         string
	UserID        string
	CondominiumID string
	CreatedAt     string
}

// UserCondominium is the schema definition for user_condominiums
var UserCondominium = UserCondominiumTable{
	Table:         "user_condominiums",
	UserID:        "userid",
	CondominiumID: "condominiumid",
	CreatedAt:     "createdat",
}
