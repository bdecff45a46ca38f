package finance

import "github.com/rythu-saathi/backend/internal/users"

// BNPLPlan is one buy-now-pay-later option for input purchases.
type BNPLPlan struct {
	ID               string  `json:"id"`
	Name             string  `json:"name"`
	NameTelugu       string  `json:"nameTelugu"`
	LimitRupees      float64 `json:"limit"`
	TenureDays       int     `json:"tenureDays"`
	InterestRate     float64 `json:"interestRate"`
	Partner          string  `json:"partner"`
	Available        bool    `json:"available"`
	farmersOnly      bool
	onboardingNeeded bool
}

var bnplPlans = []BNPLPlan{
	{
		ID:               "seed-starter",
		Name:             "Seed & Fertilizer Starter",
		NameTelugu:       "విత్తన & ఎరువుల స్టార్టర్",
		LimitRupees:      10000,
		TenureDays:       30,
		InterestRate:     0,
		Partner:          "AgriPay",
		onboardingNeeded: true,
	},
	{
		ID:               "input-flex",
		Name:             "Farm Input Flex",
		NameTelugu:       "వ్యవసాయ ఇన్‌పుట్ ఫ్లెక్స్",
		LimitRupees:      50000,
		TenureDays:       90,
		InterestRate:     1.5,
		Partner:          "AgriPay",
		farmersOnly:      true,
		onboardingNeeded: true,
	},
	{
		ID:               "harvest-advance",
		Name:             "Harvest Season Advance",
		NameTelugu:       "పంట కాలపు అడ్వాన్స్",
		LimitRupees:      100000,
		TenureDays:       180,
		InterestRate:     2.5,
		Partner:          "RuralFin",
		farmersOnly:      true,
		onboardingNeeded: true,
	},
}

// BNPLOptions returns the static plan list with availability gated by the
// user profile.
func BNPLOptions(profile users.User) []BNPLPlan {
	plans := make([]BNPLPlan, 0, len(bnplPlans))
	for _, plan := range bnplPlans {
		plan.Available = true
		if plan.onboardingNeeded && !profile.OnboardingComplete {
			plan.Available = false
		}
		if plan.farmersOnly && profile.UserType != users.UserTypeFarmer {
			plan.Available = false
		}
		plans = append(plans, plan)
	}
	return plans
}
