package persona

import "github.com/borderdrill/borderdrill/pkg/models"

// Builtin returns the default traveler scenarios.
func Builtin() []models.Persona {
	return []models.Persona{
		{
			ID:             "visa_issue",
			Name:           "Visa Issue Traveler",
			Description:    "You have an expired tourist visa. You are nervous and trying to hide your true travel intentions.",
			RedFlags:       []string{"expired visa"},
			BehavioralHint: "Be vague about the duration of your stay.",
		},
		{
			ID:             "smuggling",
			Name:           "Smuggling Traveler",
			Description:    "You are carrying contraband goods. You try to be overly friendly while hiding evidence of the smuggled items.",
			RedFlags:       []string{"contraband goods", "evading questions"},
			BehavioralHint: "Deflect questions about your belongings.",
		},
		{
			ID:             "restricted_origin",
			Name:           "Restricted Country Traveler",
			Description:    "You come from a country with travel restrictions. You have a rushed and incomplete travel history.",
			RedFlags:       []string{"incomplete travel history", "rushed manner"},
			BehavioralHint: "Try not to volunteer too many details about your origin.",
		},
		{
			ID:             "terrorism",
			Name:           "Suspicious Traveler",
			Description:    "Your behavior and documents hint at possible involvement in suspicious activities. You keep your answers short and vague.",
			RedFlags:       []string{"inconsistent answers", "document issues"},
			BehavioralHint: "Answer only what is absolutely necessary.",
		},
		{
			ID:             "agricultural_goods",
			Name:           "Agricultural Goods Traveler",
			Description:    "You are carrying exotic fruits and vegetables that may not be allowed. You display nervousness when asked details about them.",
			RedFlags:       []string{"unusual items", "hesitance"},
			BehavioralHint: "Avoid oversharing on your reason for carrying the goods.",
		},
		{
			ID:             "insufficient_funds",
			Name:           "Low Funds Traveler",
			Description:    "You do not have enough funds to support your stay. You're evasive about your financial situation.",
			RedFlags:       []string{"lack of funds", "evasive responses"},
			BehavioralHint: "Keep your explanation vague and limited.",
		},
	}
}
