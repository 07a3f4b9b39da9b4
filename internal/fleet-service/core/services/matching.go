package services

import "rideway/internal/fleet-service/core/myerrors"

// Matching rules. The rider-initiated search and the admin-assignment
// path intentionally use different vehicle compatibility rules, so both
// are kept as explicitly named rules instead of being unified.
const (
	MatchRuleRiderSearch = "rider_search"
	MatchRuleAdminAssign = "admin_assign"
)

// MatchLimit caps the candidate list. No ranking, store order.
const MatchLimit = 10

// Ride categories a match can be requested for.
const (
	CategoryBicycle    = "bicycle"
	CategoryMotorcycle = "motorcycle"
	CategoryCar        = "car"
)

func isValidCategory(category string) bool {
	switch category {
	case CategoryBicycle, CategoryMotorcycle, CategoryCar:
		return true
	}
	return false
}

// matchFilter translates a category and rule into a vehicle filter.
// unassigned means the driver must have no vehicle at all.
func matchFilter(category, rule string) (vehicleTypes []string, unassigned bool, err error) {
	if !isValidCategory(category) {
		return nil, false, myerrors.ErrUnknownCategory
	}

	switch rule {
	case MatchRuleRiderSearch:
		switch category {
		case CategoryBicycle:
			return nil, true, nil
		case CategoryMotorcycle:
			return []string{"motorcycle"}, false, nil
		case CategoryCar:
			return []string{"sedan", "suv", "van"}, false, nil
		}
	case MatchRuleAdminAssign:
		// Simplified admin rule, exact equality to the category label.
		return []string{category}, false, nil
	}

	return nil, false, myerrors.ErrUnknownMatchRule
}
