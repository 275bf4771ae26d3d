package schema

import "fmt"

// Kind is the logical type of a source-of-record column. The set is fixed:
// descriptors are declared by hand, never introspected, so an unknown kind
// is a programming error surfaced at build time.
type Kind int

const (
	KindUnknown Kind = iota
	KindSmallInt
	KindInteger
	KindBigInt
	KindFloat
	KindDecimal
	KindBoolean
	KindVarChar // bounded text, MaxLength required
	KindText
	KindDate
	KindTime
	KindTimestamp
	KindBinary
	KindJSON
	KindForeignKey
	KindManyToMany // declared only to be rejected; junction tables are out of scope
)

func (k Kind) String() string {
	switch k {
	case KindSmallInt:
		return "smallint"
	case KindInteger:
		return "integer"
	case KindBigInt:
		return "bigint"
	case KindFloat:
		return "float"
	case KindDecimal:
		return "decimal"
	case KindBoolean:
		return "boolean"
	case KindVarChar:
		return "varchar"
	case KindText:
		return "text"
	case KindDate:
		return "date"
	case KindTime:
		return "time"
	case KindTimestamp:
		return "timestamp"
	case KindBinary:
		return "binary"
	case KindJSON:
		return "json"
	case KindForeignKey:
		return "foreign_key"
	case KindManyToMany:
		return "many_to_many"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}
