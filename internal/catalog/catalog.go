// =============================================================================
// Quarterly Sales Report - Product Catalog Tables
// =============================================================================
//
// The catalog holds the fixed lookup tables the product identifier codec and
// the synthetic generator work from:
//   - Departments (display name + 4-letter abbreviation, in a fixed order;
//     the 1-based position is the first digit of a product serial number)
//   - Manufacturing sites
//   - Size codes
//   - Color codes
//
// A Catalog is configuration data. It is loaded from the YAML config (or the
// defaults below) and injected into the components that need it, so tests can
// substitute smaller tables.
//
// =============================================================================

package catalog

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

// Department is a product department.
type Department struct {
	// Name is the display name, e.g. "Men's Clothing".
	Name string `yaml:"name" validate:"required"`

	// Abbreviation is the product id prefix, e.g. "MENS".
	// It must not contain the "-" separator.
	Abbreviation string `yaml:"abbreviation" validate:"required,excludes=-"`
}

// Catalog is the immutable set of lookup tables.
//
// At most 9 departments are allowed because the department position is a
// single digit of the product serial number.
type Catalog struct {
	Departments []Department `yaml:"departments" validate:"required,min=1,max=9,unique=Name,unique=Abbreviation,dive"`
	Sites       []string     `yaml:"sites" validate:"required,min=1,dive,required,excludes=-"`
	Sizes       []string     `yaml:"sizes" validate:"required,min=1,dive,required,excludes=-"`
	Colors      []string     `yaml:"colors" validate:"required,min=1,dive,required,excludes=-"`
}

// ErrInvalidCatalog is returned by Validate.
var ErrInvalidCatalog = errors.New("invalid catalog")

// Default returns the built-in tables.
func Default() Catalog {
	return Catalog{
		Departments: []Department{
			{Name: "Men's Clothing", Abbreviation: "MENS"},
			{Name: "Women's Clothing", Abbreviation: "WOMN"},
			{Name: "Children's Clothing", Abbreviation: "CHLD"},
			{Name: "Accessories", Abbreviation: "ACCS"},
			{Name: "Footwear", Abbreviation: "FOOT"},
			{Name: "Outerwear", Abbreviation: "OUTR"},
			{Name: "Sportswear", Abbreviation: "SPRT"},
			{Name: "Undergarments", Abbreviation: "UNDR"},
		},
		Sites:  []string{"US1", "US2", "US3", "UK1", "UK2", "UK3", "JP1", "JP2", "JP3", "CA1"},
		Sizes:  []string{"XS", "S", "M", "L", "XL"},
		Colors: []string{"BK", "BL", "GR", "RD", "YL", "OR", "WT", "GY"},
	}
}

var validate = validator.New()

// Validate checks the tables against their struct tags.
func (c Catalog) Validate() error {
	err := validate.Struct(c)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return fmt.Errorf("%w: %v", ErrInvalidCatalog, err)
	}

	msgs := make([]string, 0, len(verrs))
	for _, e := range verrs {
		rule := e.Tag()
		if e.Param() != "" {
			rule += "=" + e.Param()
		}
		msgs = append(msgs, fmt.Sprintf("%s fails %s", strings.TrimPrefix(e.Namespace(), "Catalog."), rule))
	}
	return fmt.Errorf("%w: %s", ErrInvalidCatalog, strings.Join(msgs, "; "))
}

// DepartmentIndex returns the 0-based position of a department name.
func (c Catalog) DepartmentIndex(name string) (int, bool) {
	for i, d := range c.Departments {
		if d.Name == name {
			return i, true
		}
	}
	return -1, false
}

// DepartmentNames returns the department names in catalog order.
func (c Catalog) DepartmentNames() []string {
	names := make([]string, len(c.Departments))
	for i, d := range c.Departments {
		names[i] = d.Name
	}
	return names
}
