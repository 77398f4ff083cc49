package store

import "budget/internal/domain"

func (s *Store) Categories() Records[domain.Category] { return Records[domain.Category]{db: s.DB} }

func (s *Store) Subcategories() Records[domain.Subcategory] {
	return Records[domain.Subcategory]{db: s.DB}
}

func (s *Store) Budgets() Records[domain.Budget] { return Records[domain.Budget]{db: s.DB} }

func (s *Store) Vendors() Records[domain.Vendor] { return Records[domain.Vendor]{db: s.DB} }

func (s *Store) Expenses() Records[domain.Expense] { return Records[domain.Expense]{db: s.DB} }

func (s *Store) Funds() Records[domain.Fund] { return Records[domain.Fund]{db: s.DB} }

func (s *Store) Deposits() Records[domain.Deposit] { return Records[domain.Deposit]{db: s.DB} }
