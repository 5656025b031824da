package models

import "fmt"

// PlanStatus is the closed set of plans an account can hold. Anything read
// from storage that is not one of these values must be treated as invalid,
// never silently passed through.
type PlanStatus string

const (
	PlanFree       PlanStatus = "free"
	PlanProMonthly PlanStatus = "pro_monthly"
	PlanProAnnual  PlanStatus = "pro_annual"
	PlanAdmin      PlanStatus = "admin"
)

// ParsePlanStatus validates a raw string against the closed plan set.
func ParsePlanStatus(s string) (PlanStatus, error) {
	switch PlanStatus(s) {
	case PlanFree, PlanProMonthly, PlanProAnnual, PlanAdmin:
		return PlanStatus(s), nil
	}
	return "", fmt.Errorf("unknown plan status: %q", s)
}

// Valid reports whether p is a member of the closed plan set.
func (p PlanStatus) Valid() bool {
	_, err := ParsePlanStatus(string(p))
	return err == nil
}

// Metered reports whether usage on this plan consumes credits.
// Only the free tier is metered; paid and admin plans are unlimited.
func (p PlanStatus) Metered() bool {
	return p == PlanFree
}
