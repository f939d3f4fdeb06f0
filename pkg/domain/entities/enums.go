package entities

import "fmt"

// Severity represents how far a metric has drifted past its target
type Severity int

const (
	SeverityInfo Severity = iota
	SeverityWarning
	SeverityCritical
)

// String method for Severity enum
func (s Severity) String() string {
	switch s {
	case SeverityInfo:
		return "info"
	case SeverityWarning:
		return "warning"
	case SeverityCritical:
		return "critical"
	default:
		return "unknown"
	}
}

// Rank orders severities for sorting, critical first
func (s Severity) Rank() int {
	switch s {
	case SeverityCritical:
		return 0
	case SeverityWarning:
		return 1
	case SeverityInfo:
		return 2
	default:
		return 3
	}
}

// MarshalText encodes the severity by name
func (s Severity) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// UnmarshalText decodes a severity name, rejecting unknown names
func (s *Severity) UnmarshalText(text []byte) error {
	switch string(text) {
	case "info":
		*s = SeverityInfo
	case "warning":
		*s = SeverityWarning
	case "critical":
		*s = SeverityCritical
	default:
		return fmt.Errorf("unknown severity %q", text)
	}
	return nil
}

// Instrument represents the security sold in a capital raise
type Instrument int

const (
	Equity Instrument = iota
	SAFE
	ConvertibleDebt
)

// String method for Instrument enum
func (i Instrument) String() string {
	switch i {
	case Equity:
		return "equity"
	case SAFE:
		return "safe"
	case ConvertibleDebt:
		return "convertible_debt"
	default:
		return "unknown"
	}
}

// HasDiscountTerms reports whether the instrument converts at a discount
func (i Instrument) HasDiscountTerms() bool {
	switch i {
	case SAFE, ConvertibleDebt:
		return true
	case Equity:
		return false
	default:
		return false
	}
}

// MarshalText encodes the instrument by name
func (i Instrument) MarshalText() ([]byte, error) {
	return []byte(i.String()), nil
}

// UnmarshalText decodes an instrument name, rejecting unknown names
func (i *Instrument) UnmarshalText(text []byte) error {
	switch string(text) {
	case "equity":
		*i = Equity
	case "safe":
		*i = SAFE
	case "convertible_debt":
		*i = ConvertibleDebt
	default:
		return fmt.Errorf("unknown instrument %q", text)
	}
	return nil
}

// RunwayRisk buckets runway months into discrete risk levels
type RunwayRisk int

const (
	RunwayCritical RunwayRisk = iota
	RunwayLow
	RunwayModerate
	RunwayComfortable
	RunwayExtended
)

// String method for RunwayRisk enum
func (r RunwayRisk) String() string {
	switch r {
	case RunwayCritical:
		return "critical"
	case RunwayLow:
		return "low"
	case RunwayModerate:
		return "moderate"
	case RunwayComfortable:
		return "comfortable"
	case RunwayExtended:
		return "extended"
	default:
		return "unknown"
	}
}

// MarshalText encodes the runway risk by name
func (r RunwayRisk) MarshalText() ([]byte, error) {
	return []byte(r.String()), nil
}

// UnmarshalText decodes a runway risk name, rejecting unknown names
func (r *RunwayRisk) UnmarshalText(text []byte) error {
	switch string(text) {
	case "critical":
		*r = RunwayCritical
	case "low":
		*r = RunwayLow
	case "moderate":
		*r = RunwayModerate
	case "comfortable":
		*r = RunwayComfortable
	case "extended":
		*r = RunwayExtended
	default:
		return fmt.Errorf("unknown runway risk %q", text)
	}
	return nil
}

// DepositType controls how a pre-order deposit amount is interpreted
type DepositType int

const (
	// FixedDeposit is a flat dollar amount per pre-order
	FixedDeposit DepositType = iota
	// PercentageDeposit is a fraction of the full price
	PercentageDeposit
)

// String method for DepositType enum
func (d DepositType) String() string {
	switch d {
	case FixedDeposit:
		return "fixed"
	case PercentageDeposit:
		return "percentage"
	default:
		return "unknown"
	}
}

// MarshalText encodes the deposit type by name
func (d DepositType) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

// UnmarshalText decodes a deposit type name, rejecting unknown names
func (d *DepositType) UnmarshalText(text []byte) error {
	switch string(text) {
	case "fixed", "":
		*d = FixedDeposit
	case "percentage":
		*d = PercentageDeposit
	default:
		return fmt.Errorf("unknown deposit type %q", text)
	}
	return nil
}

// COGSCategory names a per-unit cost line
type COGSCategory int

const (
	Manufacturing COGSCategory = iota
	Freight
	Packaging
	Duties
)

// COGSCategories lists every category in display order
var COGSCategories = []COGSCategory{Manufacturing, Freight, Packaging, Duties}

// String method for COGSCategory enum
func (c COGSCategory) String() string {
	switch c {
	case Manufacturing:
		return "manufacturing"
	case Freight:
		return "freight"
	case Packaging:
		return "packaging"
	case Duties:
		return "duties"
	default:
		return "unknown"
	}
}

// Label returns the display label for the category
func (c COGSCategory) Label() string {
	switch c {
	case Manufacturing:
		return "Manufacturing"
	case Freight:
		return "Freight & Shipping"
	case Packaging:
		return "Packaging"
	case Duties:
		return "Duties & Tariffs"
	default:
		return "Unknown"
	}
}

// MarshalText encodes the COGS category by name
func (c COGSCategory) MarshalText() ([]byte, error) {
	return []byte(c.String()), nil
}

// UnmarshalText decodes a COGS category name, rejecting unknown names
func (c *COGSCategory) UnmarshalText(text []byte) error {
	for _, category := range COGSCategories {
		if category.String() == string(text) {
			*c = category
			return nil
		}
	}
	return fmt.Errorf("unknown COGS category %q", text)
}
