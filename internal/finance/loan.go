// Package finance provides the loan eligibility calculator, insurance claim
// tracking, and buy-now-pay-later plans.
package finance

import (
	"math"

	"github.com/rythu-saathi/backend/internal/users"
)

// Purpose categorizes a loan request and bounds its maximum amount.
type Purpose string

const (
	PurposeCrop      Purpose = "crop"
	PurposeEquipment Purpose = "equipment"
	PurposeLand      Purpose = "land"
	PurposePersonal  Purpose = "personal"
)

// Per-purpose borrowing caps in rupees.
var purposeCaps = map[Purpose]float64{
	PurposeCrop:      300000,
	PurposeEquipment: 1000000,
	PurposeLand:      2500000,
	PurposePersonal:  200000,
}

// ValidPurpose reports whether the raw value names a known loan purpose.
func ValidPurpose(value string) bool {
	_, ok := purposeCaps[Purpose(value)]
	return ok
}

const (
	baseScore      = 650
	farmerBonus    = 50
	telanganaBonus = 30
	minimumScore   = 600
)

// LoanRequest is one eligibility check.
type LoanRequest struct {
	Amount       float64 `json:"amount"`
	TenureMonths int     `json:"tenureMonths"`
	Purpose      Purpose `json:"purpose"`
}

// LoanAssessment is the calculator's verdict.
type LoanAssessment struct {
	Eligible       bool    `json:"eligible"`
	Score          int     `json:"score"`
	MaxAmount      float64 `json:"maxAmount"`
	ApprovedAmount float64 `json:"approvedAmount"`
	InterestRate   float64 `json:"interestRate"`
	MonthlyEMI     float64 `json:"monthlyEmi"`
	TotalPayable   float64 `json:"totalPayable"`
}

// AssessLoan scores the profile, caps the amount by purpose, and computes
// the EMI by standard amortization.
func AssessLoan(profile users.User, request LoanRequest) LoanAssessment {
	score := baseScore
	if profile.UserType == users.UserTypeFarmer {
		score += farmerBonus
	}
	if profile.State == "Telangana" {
		score += telanganaBonus
	}

	maxAmount, ok := purposeCaps[request.Purpose]
	if !ok {
		maxAmount = purposeCaps[PurposePersonal]
	}

	assessment := LoanAssessment{
		Score:     score,
		MaxAmount: maxAmount,
		Eligible:  score >= minimumScore,
	}
	if !assessment.Eligible || request.Amount <= 0 || request.TenureMonths <= 0 {
		assessment.Eligible = false
		return assessment
	}

	assessment.ApprovedAmount = math.Min(request.Amount, maxAmount)
	assessment.InterestRate = interestRate(score)
	assessment.MonthlyEMI = emi(assessment.ApprovedAmount, assessment.InterestRate, request.TenureMonths)
	assessment.TotalPayable = round2(assessment.MonthlyEMI * float64(request.TenureMonths))
	return assessment
}

func interestRate(score int) float64 {
	switch {
	case score > 750:
		return 8
	case score > 700:
		return 10
	case score > 650:
		return 12
	default:
		return 14
	}
}

// emi applies the standard amortization formula with a monthly rate.
func emi(principal, annualRatePercent float64, tenureMonths int) float64 {
	monthlyRate := annualRatePercent / 12 / 100
	if monthlyRate == 0 {
		return round2(principal / float64(tenureMonths))
	}
	factor := math.Pow(1+monthlyRate, float64(tenureMonths))
	return round2(principal * monthlyRate * factor / (factor - 1))
}

func round2(value float64) float64 {
	return math.Round(value*100) / 100
}
