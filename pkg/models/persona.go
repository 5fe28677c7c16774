package models

// Persona is a traveler scenario the model plays during an interview.
type Persona struct {
	ID             string   `json:"id" yaml:"id"`
	Name           string   `json:"name" yaml:"name"`
	Description    string   `json:"description" yaml:"description"`
	RedFlags       []string `json:"red_flags" yaml:"red_flags"`
	BehavioralHint string   `json:"behavioral_hint,omitempty" yaml:"behavioral_hint"`
}

// PersonaSummary is the public listing form of a persona. Red flags stay hidden
// so the officer has to find them.
type PersonaSummary struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}
