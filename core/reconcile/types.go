package reconcile

import (
	"errors"
	"fmt"
)

var (
	// ErrUnknownObjectType is returned when an object type name is not recognised.
	ErrUnknownObjectType = errors.New("unknown object type")
	// ErrInvalidRange is returned when a range starts after it ends.
	ErrInvalidRange = errors.New("invalid license range")
)

// ObjectType identifies the kind of an application object.
type ObjectType int

const (
	TableData ObjectType = iota
	Table
	Report
	Codeunit
	XMLport
	MenuSuite
	Page
	Query
	System
	FieldNumber
	PageExtension
	TableExtension
	Enum
	EnumExtension
	Profile
	ProfileExtension
	PermissionSet
	PermissionSetExtension
	ReportExtension
)

type objectTypeInfo struct {
	name     string
	licensed bool
}

// objectTypes holds the display name and license flag per variant.
// XMLport is displayed as "XMLPort" on purpose, that is how license reports spell it.
var objectTypes = [...]objectTypeInfo{
	TableData:              {"TableData", true},
	Table:                  {"Table", false},
	Report:                 {"Report", true},
	Codeunit:               {"Codeunit", true},
	XMLport:                {"XMLPort", true},
	MenuSuite:              {"MenuSuite", false},
	Page:                   {"Page", true},
	Query:                  {"Query", true},
	System:                 {"System", false},
	FieldNumber:            {"FieldNumber", false},
	PageExtension:          {"PageExtension", false},
	TableExtension:         {"TableExtension", false},
	Enum:                   {"Enum", false},
	EnumExtension:          {"EnumExtension", false},
	Profile:                {"Profile", false},
	ProfileExtension:       {"ProfileExtension", false},
	PermissionSet:          {"PermissionSet", false},
	PermissionSetExtension: {"PermissionSetExtension", false},
	ReportExtension:        {"ReportExtension", false},
}

// objectTypeNames maps accepted spellings to variants. Lookup is case-sensitive.
var objectTypeNames = map[string]ObjectType{
	"XMLport": XMLport,
}

func init() {
	for t, info := range objectTypes {
		objectTypeNames[info.name] = ObjectType(t)
	}
}

// ParseObjectType resolves an object type name as written in license reports
// and inventory exports. Both "XMLport" and "XMLPort" are accepted.
func ParseObjectType(name string) (ObjectType, error) {
	t, ok := objectTypeNames[name]
	if !ok {
		return 0, fmt.Errorf("%w %q", ErrUnknownObjectType, name)
	}
	return t, nil
}

// ObjectTypes returns every variant in declaration order.
func ObjectTypes() []ObjectType {
	types := make([]ObjectType, len(objectTypes))
	for i := range objectTypes {
		types[i] = ObjectType(i)
	}
	return types
}

// String returns the canonical display name.
func (t ObjectType) String() string {
	if !t.valid() {
		return fmt.Sprintf("ObjectType(%d)", int(t))
	}
	return objectTypes[t].name
}

// RequiresLicense reports whether objects of this type consume license ranges.
func (t ObjectType) RequiresLicense() bool {
	return t.valid() && objectTypes[t].licensed
}

// MarshalText encodes the type by its display name.
func (t ObjectType) MarshalText() ([]byte, error) {
	if !t.valid() {
		return nil, fmt.Errorf("%w: %d", ErrUnknownObjectType, int(t))
	}
	return []byte(t.String()), nil
}

// UnmarshalText decodes a type name accepted by ParseObjectType.
func (t *ObjectType) UnmarshalText(text []byte) error {
	parsed, err := ParseObjectType(string(text))
	if err != nil {
		return err
	}
	*t = parsed
	return nil
}

func (t ObjectType) valid() bool {
	return t >= 0 && int(t) < len(objectTypes)
}

// LicenseRange is an inclusive range of object ids granted for one object type.
type LicenseRange struct {
	// ObjectType is the kind of object the range applies to.
	ObjectType ObjectType `json:"object_type"`

	// From is the first id of the range.
	From int64 `json:"from"`

	// To is the last id of the range.
	To int64 `json:"to"`

	// Permission carries the permission codes as printed in the report (e.g. "RIMDX").
	// It is not interpreted.
	Permission string `json:"permission"`
}

// NewLicenseRange builds a range and rejects one whose start is after its end.
func NewLicenseRange(objectType ObjectType, from, to int64, permission string) (LicenseRange, error) {
	if from > to {
		return LicenseRange{}, fmt.Errorf("%w: %s %d-%d", ErrInvalidRange, objectType, from, to)
	}
	return LicenseRange{
		ObjectType: objectType,
		From:       from,
		To:         to,
		Permission: permission,
	}, nil
}

// Quantity is the number of ids in the range. Informational only.
func (r LicenseRange) Quantity() int64 {
	return r.To - r.From + 1
}

// Contains reports whether the range covers an object of the given type and id.
func (r LicenseRange) Contains(objectType ObjectType, id int64) bool {
	return r.ObjectType == objectType && r.From <= id && id <= r.To
}

// InventoryObject is a single object defined in the inventory export.
type InventoryObject struct {
	ObjectType ObjectType `json:"object_type"`
	ID         int64      `json:"id"`
	Name       string     `json:"name"`
}

// Violation is an inventory object that is not covered by any license range.
type Violation InventoryObject

// Band is an inclusive id interval.
type Band struct {
	From int64
	To   int64
}

// Contains reports whether id lies inside the band.
func (b Band) Contains(id int64) bool {
	return b.From <= id && id <= b.To
}

// String renders the band the way license tooling prints available ranges.
func (b Band) String() string {
	return fmt.Sprintf("%d - %d", b.From, b.To)
}

// CustomizationBand holds the ids reserved for customer objects. Objects
// outside of it belong to the platform and are never checked.
var CustomizationBand = Band{From: 50000, To: 99999}

// Summary provides aggregate counts for one reconciliation.
type Summary struct {
	// Ranges is the number of license ranges considered.
	Ranges int `json:"ranges"`

	// TotalObjects is the number of inventory objects.
	TotalObjects int `json:"total_objects"`

	// Licensed counts objects whose type requires a license.
	Licensed int `json:"licensed"`

	// Checked counts licensed objects inside the customization band.
	Checked int `json:"checked"`

	// Covered counts checked objects matched by a range.
	Covered int `json:"covered"`

	// Violations counts checked objects without a matching range.
	Violations int `json:"violations"`
}

// Result bundles the violations of a reconciliation with its summary.
type Result struct {
	Violations []Violation `json:"violations"`
	Summary    Summary     `json:"summary"`
}
