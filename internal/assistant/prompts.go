package assistant

import "fmt"

const systemPromptEnglish = "You are Rythu Saathi, a friendly agricultural assistant for farmers " +
	"and home gardeners in Telangana, India. Give practical, region-appropriate advice on crops, " +
	"soil, pests, irrigation, and government schemes. Keep answers short and plain. Reply in English."

const systemPromptTelugu = "మీరు రైతు సాథి, తెలంగాణ రైతులు మరియు ఇంటి తోటమాలుల కోసం స్నేహపూర్వక " +
	"వ్యవసాయ సహాయకుడు. పంటలు, నేల, తెగుళ్లు, నీటిపారుదల మరియు ప్రభుత్వ పథకాలపై ఆచరణాత్మక సలహా ఇవ్వండి. " +
	"సమాధానాలు చిన్నవిగా, సరళంగా ఉంచండి. తెలుగులో సమాధానం ఇవ్వండి."

func systemPrompt(language string) string {
	if language == "te" {
		return systemPromptTelugu
	}
	return systemPromptEnglish
}

func analysisPrompt(kind AnalysisKind, language string) string {
	languageClause := "Respond in English."
	if language == "te" {
		languageClause = "Respond in Telugu."
	}
	switch kind {
	case AnalysisSoil:
		return fmt.Sprintf("Analyze this soil photo. Return only JSON with keys "+
			`"soilType", "condition", "suitableCrops" (array), "improvements" (array). %s`, languageClause)
	case AnalysisDocumentOCR:
		return fmt.Sprintf("Extract the text from this document image. Return only JSON with keys "+
			`"documentType", "extractedText", "summary". %s`, languageClause)
	default:
		return fmt.Sprintf("Identify any disease or pest on this crop photo. Return only JSON with keys "+
			`"disease", "confidence", "severity", "treatment" (array), "prevention" (array). %s`, languageClause)
	}
}

// fallbackAnswer is served when the model is unconfigured or failing.
func fallbackAnswer(language string) string {
	if language == "te" {
		return "క్షమించండి, ఏఐ సహాయకుడు ప్రస్తుతం అందుబాటులో లేదు. దయచేసి కొద్దిసేపటి తర్వాత మళ్లీ ప్రయత్నించండి."
	}
	return "Sorry, the AI assistant is currently unavailable. Please try again in a little while."
}

// fallbackVerdict is the templated structured guess used when the model
// reply is not parseable JSON.
func fallbackVerdict(kind AnalysisKind, language string) map[string]interface{} {
	telugu := language == "te"
	switch kind {
	case AnalysisSoil:
		if telugu {
			return map[string]interface{}{
				"soilType":      "గుర్తించలేకపోయాం",
				"condition":     "చిత్రం నుండి నిర్ధారించలేకపోయాం",
				"suitableCrops": []string{},
				"improvements":  []string{"స్పష్టమైన ఫోటోతో మళ్లీ ప్రయత్నించండి"},
			}
		}
		return map[string]interface{}{
			"soilType":      "Unknown",
			"condition":     "Could not determine from the image",
			"suitableCrops": []string{},
			"improvements":  []string{"Retry with a clearer photo"},
		}
	case AnalysisDocumentOCR:
		if telugu {
			return map[string]interface{}{
				"documentType":  "గుర్తించలేకపోయాం",
				"extractedText": "",
				"summary":       "పత్రాన్ని చదవలేకపోయాం. స్పష్టమైన ఫోటోతో మళ్లీ ప్రయత్నించండి.",
			}
		}
		return map[string]interface{}{
			"documentType":  "Unknown",
			"extractedText": "",
			"summary":       "Could not read the document. Retry with a clearer photo.",
		}
	default:
		if telugu {
			return map[string]interface{}{
				"disease":    "గుర్తించలేకపోయాం",
				"confidence": "low",
				"severity":   "unknown",
				"treatment":  []string{"స్థానిక వ్యవసాయ అధికారిని సంప్రదించండి"},
				"prevention": []string{"స్పష్టమైన ఫోటోతో మళ్లీ ప్రయత్నించండి"},
			}
		}
		return map[string]interface{}{
			"disease":    "Unidentified",
			"confidence": "low",
			"severity":   "unknown",
			"treatment":  []string{"Consult your local agriculture officer"},
			"prevention": []string{"Retry with a clearer photo"},
		}
	}
}
