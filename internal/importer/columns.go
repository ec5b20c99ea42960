package importer

import (
	"time"

	"hushall/internal/core"
)

// Role is the semantic meaning of a parsed column.
type Role string

const (
	RoleDate   Role = "date"
	RoleLabel  Role = "label"
	RoleAmount Role = "amount"
	RoleNone   Role = ""
)

// RoleAssigner maps column indexes to roles. The initial assignment is
// positional: the first three columns get date, label and amount in that
// order; any extra columns carry no role.
type RoleAssigner struct {
	roles []Role
}

// NewRoleAssigner creates an assigner for the given column count.
func NewRoleAssigner(columns int) *RoleAssigner {
	defaults := []Role{RoleDate, RoleLabel, RoleAmount}
	roles := make([]Role, columns)
	for i := range roles {
		if i < len(defaults) {
			roles[i] = defaults[i]
		}
	}
	return &RoleAssigner{roles: roles}
}

// AssignerFromRoles restores an explicit assignment, one role per column.
func AssignerFromRoles(roles []Role) *RoleAssigner {
	out := make([]Role, len(roles))
	copy(out, roles)
	return &RoleAssigner{roles: out}
}

// Roles returns the current assignment, one slot per column.
func (a *RoleAssigner) Roles() []Role {
	out := make([]Role, len(a.roles))
	copy(out, a.roles)
	return out
}

// Reorder moves the role at from to position to, shifting the slots in
// between. Out-of-range indexes are ignored.
func (a *RoleAssigner) Reorder(from, to int) {
	if from < 0 || from >= len(a.roles) || to < 0 || to >= len(a.roles) || from == to {
		return
	}
	role := a.roles[from]
	roles := append(a.roles[:from], a.roles[from+1:]...)
	roles = append(roles, RoleNone)
	copy(roles[to+1:], roles[to:])
	roles[to] = role
	a.roles = roles
}

// Resolved is one row mapped through the role assignment.
type Resolved struct {
	Date      time.Time
	Label     string
	Amount    float64
	RawAmount string
}

// ResolveRow extracts the date, label and amount cells from a row according
// to the current assignment. It reports false when any of the three is
// missing, the amount does not parse, or the date is not a valid calendar
// date.
func (a *RoleAssigner) ResolveRow(row []string) (Resolved, bool) {
	dateCell, ok := a.cell(row, RoleDate)
	if !ok {
		return Resolved{}, false
	}
	label, ok := a.cell(row, RoleLabel)
	if !ok {
		return Resolved{}, false
	}
	amountCell, ok := a.cell(row, RoleAmount)
	if !ok {
		return Resolved{}, false
	}

	date, err := time.Parse("2006-01-02", dateCell)
	if err != nil {
		return Resolved{}, false
	}
	amount, _, err := core.ParseAmount(amountCell)
	if err != nil {
		return Resolved{}, false
	}

	return Resolved{
		Date:      date,
		Label:     label,
		Amount:    amount,
		RawAmount: amountCell,
	}, true
}

func (a *RoleAssigner) cell(row []string, role Role) (string, bool) {
	for i, r := range a.roles {
		if r != role {
			continue
		}
		if i >= len(row) {
			return "", false
		}
		return row[i], true
	}
	return "", false
}
