// Package schemes serves the government scheme catalog with per-user
// eligibility annotation.
package schemes

// Category groups schemes for filtering.
type Category string

const (
	CategoryIncome    Category = "income-support"
	CategoryInsurance Category = "insurance"
	CategoryCredit    Category = "credit"
	CategorySubsidy   Category = "subsidy"
)

// Scheme is one government program entry, bilingual.
type Scheme struct {
	ID                 string   `json:"id"`
	Title              string   `json:"title"`
	TitleTelugu        string   `json:"titleTelugu"`
	Description        string   `json:"description"`
	DescriptionTelugu  string   `json:"descriptionTelugu"`
	Benefits           []string `json:"benefits"`
	BenefitsTelugu     []string `json:"benefitsTelugu"`
	Eligibility        []string `json:"eligibility"`
	EligibilityTelugu  []string `json:"eligibilityTelugu"`
	ApplicationProcess string   `json:"applicationProcess"`
	Category           Category `json:"category"`
	// FarmersOnly gates the scheme to the farmer user type.
	FarmersOnly bool `json:"-"`
	// TelanganaOnly gates the scheme to Telangana residents.
	TelanganaOnly bool `json:"-"`
}

// Catalog is the static scheme list served to every user.
var Catalog = []Scheme{
	{
		ID:                "rythu-bandhu",
		Title:             "Rythu Bandhu",
		TitleTelugu:       "రైతు బంధు",
		Description:       "Investment support scheme providing financial assistance per acre per season for agriculture and horticulture crops.",
		DescriptionTelugu: "వ్యవసాయ మరియు ఉద్యాన పంటలకు ప్రతి సీజన్‌కు ఎకరాకు ఆర్థిక సహాయం అందించే పెట్టుబడి మద్దతు పథకం.",
		Benefits: []string{
			"Rs 5,000 per acre per season",
			"Direct bank transfer",
			"No loan repayment burden",
		},
		BenefitsTelugu: []string{
			"సీజన్‌కు ఎకరాకు రూ. 5,000",
			"నేరుగా బ్యాంక్ ఖాతాకు బదిలీ",
			"రుణ తిరిగి చెల్లింపు భారం లేదు",
		},
		Eligibility: []string{
			"Must own agricultural land in Telangana",
			"Land records must be updated",
		},
		EligibilityTelugu: []string{
			"తెలంగాణలో వ్యవసాయ భూమి కలిగి ఉండాలి",
			"భూమి రికార్డులు నవీకరించబడి ఉండాలి",
		},
		ApplicationProcess: "Automatic for registered landowners; verify records at the local MRO office.",
		Category:           CategoryIncome,
		FarmersOnly:        true,
		TelanganaOnly:      true,
	},
	{
		ID:                "pm-kisan",
		Title:             "PM-KISAN",
		TitleTelugu:       "పీఎం కిసాన్",
		Description:       "Central income support scheme paying Rs 6,000 per year to landholding farmer families in three installments.",
		DescriptionTelugu: "భూమి కలిగిన రైతు కుటుంబాలకు సంవత్సరానికి రూ. 6,000 మూడు వాయిదాలలో చెల్లించే కేంద్ర ఆదాయ మద్దతు పథకం.",
		Benefits: []string{
			"Rs 6,000 per year in three installments",
			"Direct benefit transfer to bank account",
		},
		BenefitsTelugu: []string{
			"సంవత్సరానికి రూ. 6,000 మూడు వాయిదాలలో",
			"నేరుగా బ్యాంక్ ఖాతాకు బదిలీ",
		},
		Eligibility: []string{
			"Landholding farmer family",
			"Aadhaar-linked bank account",
		},
		EligibilityTelugu: []string{
			"భూమి కలిగిన రైతు కుటుంబం",
			"ఆధార్‌తో అనుసంధానించబడిన బ్యాంక్ ఖాతా",
		},
		ApplicationProcess: "Register at pmkisan.gov.in or through the village agriculture officer.",
		Category:           CategoryIncome,
		FarmersOnly:        true,
	},
	{
		ID:                "pmfby",
		Title:             "Pradhan Mantri Fasal Bima Yojana",
		TitleTelugu:       "ప్రధాన మంత్రి ఫసల్ బీమా యోజన",
		Description:       "Crop insurance scheme covering yield losses from natural calamities, pests and diseases at subsidized premium.",
		DescriptionTelugu: "ప్రకృతి వైపరీత్యాలు, తెగుళ్లు మరియు వ్యాధుల వల్ల పంట నష్టాలను సబ్సిడీ ప్రీమియంతో కవర్ చేసే పంట బీమా పథకం.",
		Benefits: []string{
			"Premium capped at 2% for kharif, 1.5% for rabi",
			"Full sum insured on total crop loss",
		},
		BenefitsTelugu: []string{
			"ఖరీఫ్‌కు 2%, రబీకి 1.5% గరిష్ట ప్రీమియం",
			"పూర్తి పంట నష్టంపై పూర్తి బీమా మొత్తం",
		},
		Eligibility: []string{
			"All farmers growing notified crops",
			"Enrollment before the seasonal cutoff date",
		},
		EligibilityTelugu: []string{
			"నోటిఫై చేసిన పంటలు పండించే రైతులందరూ",
			"సీజన్ గడువు తేదీకి ముందు నమోదు",
		},
		ApplicationProcess: "Apply through banks, CSCs, or the PMFBY portal before the seasonal cutoff.",
		Category:           CategoryInsurance,
		FarmersOnly:        true,
	},
	{
		ID:                "kisan-credit-card",
		Title:             "Kisan Credit Card",
		TitleTelugu:       "కిసాన్ క్రెడిట్ కార్డ్",
		Description:       "Short-term credit line for crop cultivation and allied activities at subsidized interest rates.",
		DescriptionTelugu: "పంట సాగు మరియు అనుబంధ కార్యకలాపాలకు సబ్సిడీ వడ్డీ రేట్లతో స్వల్పకాలిక రుణ సదుపాయం.",
		Benefits: []string{
			"Credit up to Rs 3 lakh at 7% interest",
			"Interest subvention of 3% on prompt repayment",
		},
		BenefitsTelugu: []string{
			"7% వడ్డీతో రూ. 3 లక్షల వరకు రుణం",
			"సకాలంలో చెల్లిస్తే 3% వడ్డీ రాయితీ",
		},
		Eligibility: []string{
			"Farmers, tenant farmers, and sharecroppers",
			"Valid land or cultivation documents",
		},
		EligibilityTelugu: []string{
			"రైతులు, కౌలు రైతులు మరియు వాటా సాగుదారులు",
			"చెల్లుబాటు అయ్యే భూమి లేదా సాగు పత్రాలు",
		},
		ApplicationProcess: "Apply at any bank branch with land documents and identity proof.",
		Category:           CategoryCredit,
		FarmersOnly:        true,
	},
	{
		ID:                "drip-irrigation-subsidy",
		Title:             "Micro Irrigation Subsidy",
		TitleTelugu:       "సూక్ష్మ నీటిపారుదల సబ్సిడీ",
		Description:       "Subsidy on drip and sprinkler irrigation systems to improve water-use efficiency for farms and gardens.",
		DescriptionTelugu: "పొలాలు మరియు తోటలలో నీటి వినియోగ సామర్థ్యాన్ని మెరుగుపరచడానికి డ్రిప్ మరియు స్ప్రింక్లర్ వ్యవస్థలపై సబ్సిడీ.",
		Benefits: []string{
			"Up to 90% subsidy for small and marginal farmers",
			"Covers drip, sprinkler, and rain gun systems",
		},
		BenefitsTelugu: []string{
			"చిన్న, సన్నకారు రైతులకు 90% వరకు సబ్సిడీ",
			"డ్రిప్, స్ప్రింక్లర్ మరియు రెయిన్ గన్ వ్యవస్థలు",
		},
		Eligibility: []string{
			"Farmers and gardeners with cultivable land",
			"No prior micro irrigation subsidy in last 7 years",
		},
		EligibilityTelugu: []string{
			"సాగు భూమి ఉన్న రైతులు మరియు తోటమాలులు",
			"గత 7 సంవత్సరాలలో సూక్ష్మ నీటిపారుదల సబ్సిడీ పొందకూడదు",
		},
		ApplicationProcess: "Apply through the horticulture department portal with land records.",
		Category:           CategorySubsidy,
	},
}
