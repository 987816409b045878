package schema

import (
	"fmt"
	"strconv"
	"strings"

	"tabload/internal/infer"
	"tabload/pkg/errors"
	"tabload/pkg/models"
)

// State tracks the reconciler through its decision sequence
type State string

const (
	StateUnknown State = "unknown"
	StateAbsent  State = "absent"
	StatePresent State = "present"
	StateReady   State = "ready"
	StateFailed  State = "failed"
)

// VarcharMax is Snowflake's VARCHAR capacity, used for --varchar-length max
const VarcharMax = 16777216

// Column is one (name, SQL type) pair of the target table
type Column struct {
	Name    string
	SQLType string
}

// TargetTableSchema is the ordered candidate schema handed to the loader.
// Column order matches source column order exactly; the loader binds rows
// by ordinal position against it.
type TargetTableSchema struct {
	Destination models.Destination
	Columns     []Column
}

// ColumnCount returns the positional arity of the target
func (t TargetTableSchema) ColumnCount() int {
	return len(t.Columns)
}

// BuildTarget maps inferred column profiles onto Snowflake types in source
// column order
func BuildTarget(dest models.Destination, profiles []infer.ColumnProfile, varcharLength string) (TargetTableSchema, error) {
	textType, err := resolveTextType(varcharLength)
	if err != nil {
		return TargetTableSchema{}, err
	}

	columns := make([]Column, len(profiles))
	for i, profile := range profiles {
		var sqlType string
		switch profile.Kind {
		case infer.KindDecimal:
			sqlType = "NUMBER(18,2)"
		case infer.KindTimestamp:
			sqlType = "TIMESTAMP_NTZ"
		default:
			sqlType = textType
		}
		columns[i] = Column{Name: profile.Name, SQLType: sqlType}
	}

	return TargetTableSchema{Destination: dest, Columns: columns}, nil
}

// resolveTextType turns the --varchar-length argument into a SQL type
func resolveTextType(varcharLength string) (string, error) {
	if strings.EqualFold(varcharLength, "max") {
		return fmt.Sprintf("VARCHAR(%d)", VarcharMax), nil
	}

	n, err := strconv.Atoi(varcharLength)
	if err != nil || n <= 0 || n > VarcharMax {
		return "", errors.New(errors.ErrCodeInvalidInput,
			fmt.Sprintf("Invalid varchar length %q", varcharLength)).
			WithComponent("schema").
			WithSuggestions(fmt.Sprintf("Use a number between 1 and %d, or \"max\"", VarcharMax))
	}
	return fmt.Sprintf("VARCHAR(%d)", n), nil
}

// quoteIdent renders a quoted Snowflake identifier so header text with
// spaces or mixed case survives as a column name
func quoteIdent(name string) string {
	return `"` + strings.ReplaceAll(name, `"`, `""`) + `"`
}

// CreateDDL renders the CREATE TABLE statement for the candidate schema
func CreateDDL(target TargetTableSchema) string {
	var b strings.Builder
	b.WriteString("CREATE TABLE ")
	b.WriteString(target.Destination.QualifiedName())
	b.WriteString(" (")
	for i, col := range target.Columns {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString(quoteIdent(col.Name))
		b.WriteByte(' ')
		b.WriteString(col.SQLType)
	}
	b.WriteString(")")
	return b.String()
}

// DropDDL renders the destructive drop issued under --force
func DropDDL(dest models.Destination) string {
	return "DROP TABLE IF EXISTS " + dest.QualifiedName()
}
