package schema

// UserTable represents the 'users' table
type UserTable struct {
	Table            string
	ID               string
	Email            string
	Password         string
	FirstName        string
	LastName         string
	Role             string
	IsActive         string
	RefreshTokenHash string
	CreatedAt        string
	UpdatedAt        string
	DeletedAt        string
}

// User is the schema definition for users
var User = UserTable{
	Table:            "users",
	ID:               "id",
	Email:            "email",
	Password:         "password",
	FirstName:        "firstname",
	LastName:         "lastname",
	Role:             "role",
	IsActive:         "isactive",
	RefreshTokenHash: "refreshtokenhash",
	CreatedAt:        "createdat",
	UpdatedAt:        "updatedat",
	DeletedAt:        "deletedat",
}

// Columns returns all standard column names
func (t UserTable) Columns() []string {
	return []string{
		t.ID, t.Email, t.Password, t.FirstName, t.LastName, t.Role,
		t.IsActive, t.RefreshTokenHash, t.CreatedAt, t.UpdatedAt, t.DeletedAt,
	}
}
