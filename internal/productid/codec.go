// =============================================================================
// Quarterly Sales Report - Product Identifier Codec
// =============================================================================
//
// A product identifier packs five attributes into one string key:
//
//   MENS-142-XL-BK-US1
//   |    |   |  |  +-- manufacturing site
//   |    |   |  +----- color code
//   |    |   +-------- size code
//   |    +------------ serial number: department position (1-based) + 2 digits
//   +----------------- department abbreviation
//
// The profit-tracking key keeps only the department abbreviation and serial
// number and replaces the rest with fixed placeholders, so every size, color
// and site variant of a product line collapses onto one key:
//
//   MENS-142-ss-cc-mmm
//
// =============================================================================

package productid

import (
	"errors"
	"fmt"
	"strings"

	"github.com/ginjaninja78/quarterly-sales-report/internal/catalog"
)

// Separator joins the identifier segments.
const Separator = "-"

// segmentCount is the number of segments in a well-formed identifier.
const segmentCount = 5

// Placeholders used by ProfitLineKey.
const (
	SizePlaceholder  = "ss"
	ColorPlaceholder = "cc"
	SitePlaceholder  = "mmm"
)

var (
	// ErrInvalidDepartment is returned by Encode for a department the
	// catalog does not know.
	ErrInvalidDepartment = errors.New("invalid department")

	// ErrInvalidSerialSeed is returned by Encode for a running number
	// that does not fit in two digits.
	ErrInvalidSerialSeed = errors.New("invalid serial seed")

	// ErrInvalidSegment is returned by Encode for an empty variant code or
	// one containing the separator.
	ErrInvalidSegment = errors.New("invalid identifier segment")

	// ErrMalformedIdentifier is returned when a key does not split into
	// exactly five segments.
	ErrMalformedIdentifier = errors.New("malformed product identifier")
)

// Part labels, in segment order.
const (
	LabelDepartmentAbbreviation = "Department Abbreviation"
	LabelSerialNumber           = "Product Serial Number"
	LabelSizeCode               = "Size Code"
	LabelColorCode              = "Color Code"
	LabelManufacturingSite      = "Manufacturing Site"
)

// Identifier is a decoded product identifier.
type Identifier struct {
	DepartmentAbbreviation string
	SerialNumber           string
	SizeCode               string
	ColorCode              string
	ManufacturingSite      string
}

// Part is one labelled segment of an identifier.
type Part struct {
	Label string
	Value string
}

// Parts returns the five labelled segments in canonical order.
func (id Identifier) Parts() [segmentCount]Part {
	return [segmentCount]Part{
		{Label: LabelDepartmentAbbreviation, Value: id.DepartmentAbbreviation},
		{Label: LabelSerialNumber, Value: id.SerialNumber},
		{Label: LabelSizeCode, Value: id.SizeCode},
		{Label: LabelColorCode, Value: id.ColorCode},
		{Label: LabelManufacturingSite, Value: id.ManufacturingSite},
	}
}

// String returns the canonical "ABBR-NDD-SIZE-COLOR-SITE" form.
func (id Identifier) String() string {
	return strings.Join([]string{
		id.DepartmentAbbreviation,
		id.SerialNumber,
		id.SizeCode,
		id.ColorCode,
		id.ManufacturingSite,
	}, Separator)
}

// LineKey returns the product-line grouping key for id.
func (id Identifier) LineKey() string {
	return strings.Join([]string{
		id.DepartmentAbbreviation,
		id.SerialNumber,
		SizePlaceholder,
		ColorPlaceholder,
		SitePlaceholder,
	}, Separator)
}

// Codec encodes and decodes product identifiers against a catalog.
type Codec struct {
	catalog catalog.Catalog
}

// NewCodec creates a codec over the given catalog tables.
func NewCodec(c catalog.Catalog) *Codec {
	return &Codec{catalog: c}
}

// Catalog returns the tables the codec was built with.
func (c *Codec) Catalog() catalog.Catalog {
	return c.catalog
}

// Encode builds an identifier string.
//
// PARAMETERS:
//   - department: A department name from the catalog.
//   - serialSeed: The 2-digit running number (0..99).
//   - size, color, site: Variant codes. They are not checked against the
//     catalog but must be non-empty and free of the separator.
//
// RETURNS:
//   - "ABBR-{position}{seed:02d}-{size}-{color}-{site}"
//   - ErrInvalidDepartment if the department is not in the catalog.
//   - ErrInvalidSegment if a variant code would not decode back.
func (c *Codec) Encode(department string, serialSeed int, size, color, site string) (string, error) {
	idx, ok := c.catalog.DepartmentIndex(department)
	if !ok {
		return "", fmt.Errorf("%w: %q", ErrInvalidDepartment, department)
	}
	if serialSeed < 0 || serialSeed > 99 {
		return "", fmt.Errorf("%w: %d", ErrInvalidSerialSeed, serialSeed)
	}
	for _, part := range []Part{
		{Label: LabelSizeCode, Value: size},
		{Label: LabelColorCode, Value: color},
		{Label: LabelManufacturingSite, Value: site},
	} {
		if part.Value == "" || strings.Contains(part.Value, Separator) {
			return "", fmt.Errorf("%w: %s %q", ErrInvalidSegment, part.Label, part.Value)
		}
	}

	id := Identifier{
		DepartmentAbbreviation: c.catalog.Departments[idx].Abbreviation,
		SerialNumber:           fmt.Sprintf("%d%02d", idx+1, serialSeed),
		SizeCode:               size,
		ColorCode:              color,
		ManufacturingSite:      site,
	}
	return id.String(), nil
}

// Decode splits a key into its five parts.
// It does not check the parts against the catalog.
func (c *Codec) Decode(key string) (Identifier, error) {
	return Decode(key)
}

// ProfitLineKey maps a full identifier onto its product-line key.
func (c *Codec) ProfitLineKey(key string) (string, error) {
	id, err := Decode(key)
	if err != nil {
		return "", err
	}
	return id.LineKey(), nil
}

// Decode splits a key into its five parts.
func Decode(key string) (Identifier, error) {
	parts := strings.Split(key, Separator)
	if len(parts) != segmentCount {
		return Identifier{}, fmt.Errorf("%w: %q has %d segments, want %d",
			ErrMalformedIdentifier, key, len(parts), segmentCount)
	}

	return Identifier{
		DepartmentAbbreviation: parts[0],
		SerialNumber:           parts[1],
		SizeCode:               parts[2],
		ColorCode:              parts[3],
		ManufacturingSite:      parts[4],
	}, nil
}
