package schema

// CommonExpenseTable represents the 'common_expenses' table
type CommonExpenseTable struct {
	Table         string
	ID            string
	Period        string
	TotalAmount   string
	Currency      string
	Descr         string
	DueDate       string
	CondominiumID string
	CreatedAt     string
	UpdatedAt     string
	DeletedAt     string
}

// CommonExpense is the schema definition for common_expenses
var CommonExpense = CommonExpenseTable{
	Table:         "common_expenses",
	ID:            "id",
	Period:        "period",
	TotalAmount:   "totalamount",
	Currency:      "currency",
	Descr:         "description",
	DueDate:       "duedate",
	CondominiumID: "condominiumid",
	CreatedAt:     "createdat",
	UpdatedAt:     "updatedat",
	DeletedAt:     "deletedat",
}
