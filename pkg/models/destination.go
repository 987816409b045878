package models

import (
	"fmt"
	"strings"
)

// Destination is a fully qualified load target. Account is optional; when
// present the destination was given as a 4-part name and overrides the
// configured account.
type Destination struct {
	Account  string
	Database string
	Schema   string
	Table    string
}

// ParseDestination parses a dotted destination identifier. Accepted forms:
// account.database.schema.table, database.schema.table, and schema.table.
func ParseDestination(s string) (Destination, error) {
	parts := strings.Split(s, ".")
	for _, p := range parts {
		if strings.TrimSpace(p) == "" {
			return Destination{}, fmt.Errorf("destination %q contains an empty name part", s)
		}
	}

	switch len(parts) {
	case 4:
		return Destination{Account: parts[0], Database: parts[1], Schema: parts[2], Table: parts[3]}, nil
	case 3:
		return Destination{Database: parts[0], Schema: parts[1], Table: parts[2]}, nil
	case 2:
		return Destination{Schema: parts[0], Table: parts[1]}, nil
	default:
		return Destination{}, fmt.Errorf("destination %q must be schema.table, database.schema.table, or account.database.schema.table", s)
	}
}

// QualifiedName returns the database.schema.table form used in SQL statements
func (d Destination) QualifiedName() string {
	if d.Database == "" {
		return fmt.Sprintf("%s.%s", d.Schema, d.Table)
	}
	return fmt.Sprintf("%s.%s.%s", d.Database, d.Schema, d.Table)
}

// String returns the identifier including the account when present
func (d Destination) String() string {
	if d.Account != "" {
		return fmt.Sprintf("%s.%s", d.Account, d.QualifiedName())
	}
	return d.QualifiedName()
}
