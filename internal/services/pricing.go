// Package services – pricing policy.
//
// This file implements the role-based price charged at submission time.
// Prices are whole rupees throughout; there is no fractional currency.
package services

import "github.com/digitalseva/go-portal-backend/internal/domain"

// FinalPrice returns the amount a user pays to submit an application for a
// service with the given base price. Admins pay nothing. Retailers pay 90% of
// the base price rounded half-up to the nearest rupee, so a 150 service costs
// 135 and a 350 service costs 315. Any other role pays the base price.
func FinalPrice(base int, role string) int {
	if base <= 0 {
		return 0
	}
	switch role {
	case domain.RoleAdmin:
		return 0
	case domain.RoleRetailer:
		return (base*9 + 5) / 10
	default:
		return base
	}
}
