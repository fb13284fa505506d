package domain

// Record is one retained transaction row, with values aligned to the
// sheet's header labels (same index, same column). Missing trailing
// cells are padded with empty text cells so columns stay dense for
// export.
type Record []Cell

// SheetExtract is the extraction result for one sheet: the chosen
// header labels and every retained data row. A sheet with no locatable
// header yields an extract with empty Header and Records, which callers
// treat as "no analyzable data", not an error.
type SheetExtract struct {
	SheetName string   `json:"sheet_name"`
	HeaderRow int      `json:"header_row"`
	Header    []string `json:"header"`
	Records   []Record `json:"-"`
}

// Empty reports whether the sheet yielded no usable data.
func (e SheetExtract) Empty() bool {
	return len(e.Header) == 0 || len(e.Records) == 0
}

// Role binds a semantic column role to a physical column. Label keeps
// the original header text unchanged so downstream consumers can
// re-locate the column. Index is -1 when the role is unresolved.
type Role struct {
	Label string `json:"label"`
	Index int    `json:"index"`
}

// Resolved reports whether the role was bound to a column.
func (r Role) Resolved() bool {
	return r.Index >= 0
}

// UnresolvedRole is the zero value for an absent role.
func UnresolvedRole() Role {
	return Role{Index: -1}
}

// RoleSet is the resolved semantic meaning of a sheet's columns.
// Any role may be unresolved.
type RoleSet struct {
	Date        Role `json:"date"`
	Debit       Role `json:"debit"`
	Credit      Role `json:"credit"`
	Vendor      Role `json:"vendor"`
	Description Role `json:"description"`
}
