package schema

// PaymentTable represents the 'payments' table
type PaymentTable struct {
	Table           string
	ID              string
	Amount          string
	Currency        string
	Status          string
	Method          string
	Descr           string
	DueDate         string
	PaidAt          string
	UnitID          string
	ResidentID      string
	CommonExpenseID string
	CreatedAt       string
	UpdatedAt       string
	DeletedAt       string
}

// Payment is the schema definition for payments
var Payment = PaymentTable{
	Table:           "payments",
	ID:              "id",
	Amount:          "amount",
	Currency:        "currency",
	Status:          "status",
	Method:          "method",
	Descr:           "description",
	DueDate:         "duedate",
	PaidAt:          "paidat",
	UnitID:          "unitid",
	ResidentID:      "residentid",
	CommonExpenseID: "commonexpenseid",
	CreatedAt:       "createdat",
	UpdatedAt:       "updatedat",
	DeletedAt:       "deletedat",
}
