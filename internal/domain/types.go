package domain

import "github.com/google/uuid"

type UserID = uuid.UUID
type CredentialID = uuid.UUID
type HouseholdID = uuid.UUID
type MemberID = uuid.UUID
type CategoryID = uuid.UUID
type SubcategoryID = uuid.UUID
type BudgetID = uuid.UUID
type VendorID = uuid.UUID
type ExpenseID = uuid.UUID
type FundID = uuid.UUID
type DepositID = uuid.UUID
type AuditCallID = uuid.UUID
