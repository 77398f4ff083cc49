package dto

import "github.com/google/uuid"

// NameRequest creates or renames households, categories, subcategories,
// vendors and funds.
type NameRequest struct {
	Name string `json:"name"`
}

type BudgetRequest struct {
	Month       string `json:"month"` // YYYY-MM
	AmountCents int64  `json:"amountCents"`
}

type BudgetPatch struct {
	Month       *string `json:"month,omitempty"`
	AmountCents *int64  `json:"amountCents,omitempty"`
}

type ExpenseRequest struct {
	SubcategoryID *uuid.UUID `json:"subcategoryId,omitempty"`
	VendorID      *uuid.UUID `json:"vendorId,omitempty"`
	SpentOn       string     `json:"spentOn"` // YYYY-MM-DD
	AmountCents   int64      `json:"amountCents"`
	Memo          *string    `json:"memo,omitempty"`
}

type ExpensePatch struct {
	SubcategoryID *uuid.UUID `json:"subcategoryId,omitempty"`
	VendorID      *uuid.UUID `json:"vendorId,omitempty"`
	SpentOn       *string    `json:"spentOn,omitempty"`
	AmountCents   *int64     `json:"amountCents,omitempty"`
	Memo          *string    `json:"memo,omitempty"` // empty clears
}

type DepositRequest struct {
	AmountCents int64  `json:"amountCents"`
	DepositedOn string `json:"depositedOn,omitempty"` // YYYY-MM-DD, defaults to today
}
