package learning

// Pattern is a symptom cluster: the canonical symptom name recorded in
// suggestions and the normalized phrases that signal it.
type Pattern struct {
	Symptom string
	Phrases []string
}

// DefaultPatterns is the stock cluster table. Phrases are normalized text.
var DefaultPatterns = []Pattern{
	{Symptom: "dolor de cabeza", Phrases: []string{"dolor de cabeza", "me duele la cabeza", "migrana", "jaqueca", "cefalea"}},
	{Symptom: "estrés", Phrases: []string{"estres", "estresado", "estresada", "tension nerviosa", "agobiado"}},
	{Symptom: "ansiedad", Phrases: []string{"ansiedad", "ansioso", "ansiosa", "nervios", "angustia"}},
	{Symptom: "insomnio", Phrases: []string{"insomnio", "no puedo dormir", "no duermo", "desvelo", "dormir mal"}},
	{Symptom: "dolor muscular", Phrases: []string{"dolor muscular", "me duelen los musculos", "contractura", "calambre", "golpe"}},
	{Symptom: "acidez", Phrases: []string{"acidez", "agruras", "reflujo", "gastritis", "ardor de estomago"}},
	{Symptom: "gripe", Phrases: []string{"gripe", "gripa", "resfriado", "congestion", "tos"}},
	{Symptom: "inflamación", Phrases: []string{"inflamacion", "hinchazon", "inflamado", "inflamada"}},
	{Symptom: "cansancio", Phrases: []string{"cansancio", "fatiga", "agotamiento", "sin energia", "cansado"}},
	{Symptom: "dolor articular", Phrases: []string{"dolor articular", "dolor de rodilla", "artritis", "dolor en las articulaciones"}},
	{Symptom: "problemas de piel", Phrases: []string{"acne", "granos", "manchas en la piel", "dermatitis", "comezon"}},
}
