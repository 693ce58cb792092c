package compliance

import "strings"

// DisclaimerLevel selects how much health wording closes a recommendation.
type DisclaimerLevel string

const (
	DisclaimerShort    DisclaimerLevel = "short"
	DisclaimerStandard DisclaimerLevel = "standard"
	DisclaimerFull     DisclaimerLevel = "full"
)

const (
	disclaimerShortText = "No es consejo médico."

	disclaimerStandardText = "Esta información no sustituye la consulta con un profesional de la salud."

	disclaimerFullText = "Estas sugerencias son de carácter general y no sustituyen el diagnóstico ni el tratamiento de un profesional de la salud. Si tus síntomas persisten o empeoran, acude con tu médico."
)

// ParseDisclaimerLevel maps a config value to a level. Unknown values fall
// back to the standard wording.
func ParseDisclaimerLevel(raw string) DisclaimerLevel {
	switch DisclaimerLevel(strings.ToLower(strings.TrimSpace(raw))) {
	case DisclaimerShort:
		return DisclaimerShort
	case DisclaimerFull:
		return DisclaimerFull
	default:
		return DisclaimerStandard
	}
}

// DisclaimerText returns the wording for level.
func DisclaimerText(level DisclaimerLevel) string {
	switch level {
	case DisclaimerShort:
		return disclaimerShortText
	case DisclaimerFull:
		return disclaimerFullText
	default:
		return disclaimerStandardText
	}
}

// EnsureDisclaimer appends the disclaimer to reply unless the model already
// closed with it.
func EnsureDisclaimer(reply string, level DisclaimerLevel) string {
	text := DisclaimerText(level)
	reply = strings.TrimSpace(reply)
	if reply == "" || strings.Contains(reply, text) {
		return reply
	}
	return reply + "\n\n" + text
}
