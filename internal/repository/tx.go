package repository

import "gorm.io/gorm"

// Transactor runs fn inside one database transaction. Repository methods
// that take a *gorm.DB accept the tx handed to fn; nil means "no tx".
type Transactor interface {
	WithinTransaction(fn func(tx *gorm.DB) error) error
}

type gormTransactor struct {
	db *gorm.DB
}

func NewTransactor(db *gorm.DB) Transactor {
	return &gormTransactor{db}
}

func (t *gormTransactor) WithinTransaction(fn func(tx *gorm.DB) error) error {
	return t.db.Transaction(fn)
}

// conn picks tx when given, otherwise the repository's own handle.
func conn(db, tx *gorm.DB) *gorm.DB {
	if tx != nil {
		return tx
	}
	return db
}
