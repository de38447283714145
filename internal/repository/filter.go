package repository

import (
	"gorm.io/gorm"
)

// CompareOp is the relational operator of an IDFilter.
type CompareOp int

const (
	OpGT CompareOp = iota + 1
	OpLT
)

// IDFilter constrains a query to message ids on one side of a boundary.
// A nil *IDFilter means no id constraint.
type IDFilter struct {
	Op    CompareOp
	Value uint
}

// Matches reports whether id satisfies the filter. A nil filter matches
// everything.
func (f *IDFilter) Matches(id uint) bool {
	if f == nil {
		return true
	}
	switch f.Op {
	case OpGT:
		return id > f.Value
	case OpLT:
		return id < f.Value
	}
	return true
}

func applyIDFilter(q *gorm.DB, f *IDFilter) *gorm.DB {
	if f == nil {
		return q
	}
	switch f.Op {
	case OpGT:
		return q.Where("id > ?", f.Value)
	case OpLT:
		return q.Where("id < ?", f.Value)
	}
	return q
}
