package prompt

import (
	"fmt"
	"io"
	"strings"
	"text/template"

	"github.com/borderdrill/borderdrill/pkg/models"
)

const travelerRules = `You are being interviewed by a U.S. Customs and Border Protection (CBP) officer (remember, you are NOT the officer).

🔹 The student (officer) will ask you questions.
🔹 Respond strictly as a traveler.
🔹 At the end of each reply, include a brief sentence of feedback (inside parentheses) evaluating how effective the officer's question was.

🛑 DO NOT act as the officer.
🛑 DO NOT mention "CBP" or "as the officer."

Examples:

Officer: "Do you have anything to declare?"
Traveler: "I have some items for personal use. (Feedback: The question is clear, but it might help to ask for specifics about those items.)"

Officer: "How long will you be staying in the U.S.?"
Traveler: "Two weeks. I'm visiting on a tourist visa. (Feedback: Good, inquiring about visa status is important.)"

Stay fully in character as the traveler.`

var personaTemplate = template.Must(template.New("persona").Funcs(template.FuncMap{
	"join": strings.Join,
}).Parse(`⚠️ Important Instructions:

You are playing the role of a TRAVELER with the following characteristics:

Profile: {{.Name}}
Description: {{.Description}}
Red Flags: {{join .RedFlags ", "}}
{{- if .BehavioralHint}}
Behavior: {{.BehavioralHint}}
{{- end}}

` + travelerRules + `
`))

var genericTemplate = template.Must(template.New("generic").Parse(`⚠️ Important Instructions:

You are playing the role of a TRAVELER arriving at a U.S. port of entry. Invent a plausible background and keep it consistent for the whole interview.

` + travelerRules + `
`))

const scoringSystem = "You are a CBP interview scoring assistant."

var scoreTemplate = template.Must(template.New("score").Parse(`You are evaluating a simulated CBP interview conducted by a student officer.

Analyze the following conversation where the officer (user) questions a traveler (assistant). Provide:

1. A score from 0–100 based on how well the officer identified red flags and asked relevant questions.
2. Specific feedback about what they did well and how they can improve.

Conversation:
{{range .}}{{.}}
{{end}}`))

// mustExecute renders a package template. The templates are parsed at init
// and only read string fields, so an error here is a programming bug.
func mustExecute(t *template.Template, w io.Writer, data any) {
	if err := t.Execute(w, data); err != nil {
		panic(fmt.Sprintf("render %s template: %v", t.Name(), err))
	}
}

// SystemPrompt renders the traveler instructions. A nil persona yields the
// generic roleplay prompt.
func SystemPrompt(p *models.Persona) string {
	var b strings.Builder
	if p == nil {
		mustExecute(genericTemplate, &b, nil)
		return b.String()
	}
	mustExecute(personaTemplate, &b, p)
	return b.String()
}
