package demand

import (
	"fmt"
	"strings"
)

// ProfileType is a BDEW heat standard load profile code (shlp type).
type ProfileType string

const (
	ProfileEFH ProfileType = "EFH" // single family house
	ProfileMFH ProfileType = "MFH" // multi family house
	ProfileGMK ProfileType = "GMK" // metal and automotive
	ProfileGPD ProfileType = "GPD" // paper and printing
	ProfileGHA ProfileType = "GHA" // retail and wholesale
	ProfileGBD ProfileType = "GBD" // other business services
	ProfileGKO ProfileType = "GKO" // banks and insurance
	ProfileGBH ProfileType = "GBH" // accommodation
	ProfileGGA ProfileType = "GGA" // restaurants
	ProfileGBA ProfileType = "GBA" // bakeries
	ProfileGWA ProfileType = "GWA" // laundries
	ProfileGGB ProfileType = "GGB" // horticulture
	ProfileGMF ProfileType = "GMF" // household-like businesses
	ProfileGHD ProfileType = "GHD" // trade and services, aggregated
)

// ProfileTypes lists every supported code in a stable order.
var ProfileTypes = []ProfileType{
	ProfileEFH, ProfileMFH,
	ProfileGMK, ProfileGPD, ProfileGHA, ProfileGBD, ProfileGKO, ProfileGBH,
	ProfileGGA, ProfileGBA, ProfileGWA, ProfileGGB, ProfileGMF, ProfileGHD,
}

const (
	MaxBuildingClass = 11
	MaxWindClass     = 1
)

// ParseProfileType accepts codes case-insensitively.
func ParseProfileType(value string) (ProfileType, error) {
	candidate := ProfileType(strings.ToUpper(strings.TrimSpace(value)))
	if !candidate.IsValid() {
		return "", fmt.Errorf("%w: %q", ErrUnknownProfileType, value)
	}
	return candidate, nil
}

// IsValid reports whether p is a known code.
func (p ProfileType) IsValid() bool {
	for _, known := range ProfileTypes {
		if p == known {
			return true
		}
	}
	return false
}

// IsResidential is true for single and multi family houses.
func (p ProfileType) IsResidential() bool {
	return p == ProfileEFH || p == ProfileMFH
}

func (p ProfileType) String() string { return string(p) }

// Building describes one building type to generate a profile for.
type Building struct {
	ID               string
	Name             string
	ProfileType      ProfileType
	BuildingClass    int
	WindClass        int
	AnnualHeatDemand float64 // kWh per year
}

// Validate checks the building configuration.
func (b Building) Validate() error {
	if strings.TrimSpace(b.ID) == "" {
		return ErrEmptyBuildingID
	}
	if !b.ProfileType.IsValid() {
		return fmt.Errorf("%w: %q for %s", ErrUnknownProfileType, b.ProfileType, b.ID)
	}
	if b.BuildingClass < 0 || b.BuildingClass > MaxBuildingClass {
		return fmt.Errorf("%w: %d for %s", ErrInvalidBuildingClass, b.BuildingClass, b.ID)
	}
	if b.WindClass < 0 || b.WindClass > MaxWindClass {
		return fmt.Errorf("%w: %d for %s", ErrInvalidWindClass, b.WindClass, b.ID)
	}
	if b.AnnualHeatDemand < 0 {
		return fmt.Errorf("%w: %v for %s", ErrNegativeDemand, b.AnnualHeatDemand, b.ID)
	}
	return nil
}

// DisplayName falls back to the id when no name is set.
func (b Building) DisplayName() string {
	if b.Name != "" {
		return b.Name
	}
	return b.ID
}
