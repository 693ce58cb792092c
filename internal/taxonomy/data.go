package taxonomy

var defaultCategories = []Category{
	{Name: "respiratorias", Terms: []string{
		"gripe", "resfriado", "tos", "tos seca", "asma", "bronquitis", "congestión nasal",
		"sinusitis", "rinitis", "dolor de garganta", "faringitis", "neumonía",
		"dificultad para respirar", "alergia respiratoria", "flemas",
	}},
	{Name: "digestivas", Terms: []string{
		"gastritis", "acidez", "reflujo", "indigestión", "estreñimiento", "diarrea", "colitis",
		"náuseas", "vómito", "inflamación abdominal", "gases", "dolor de estómago", "úlcera",
		"hemorroides", "colon irritable",
	}},
	{Name: "neurologicas", Terms: []string{
		"dolor de cabeza", "migraña", "cefalea", "mareo", "vértigo", "insomnio", "neuralgia",
		"hormigueo", "convulsiones", "pérdida de memoria", "temblor", "neuropatía",
		"entumecimiento",
	}},
	{Name: "mentales", Terms: []string{
		"estrés", "ansiedad", "depresión", "nerviosismo", "angustia", "irritabilidad",
		"fatiga mental", "falta de concentración", "tristeza", "ataques de pánico",
		"agotamiento emocional", "cambios de humor",
	}},
	{Name: "musculoesqueleticas", Terms: []string{
		"dolor muscular", "dolor de espalda", "artritis", "artrosis", "reumatismo", "contractura",
		"calambres", "tendinitis", "esguince", "golpes", "dolor de rodilla", "lumbalgia",
		"osteoporosis", "inflamación articular", "ciática", "dolor de cuello",
	}},
	{Name: "dermatologicas", Terms: []string{
		"acné", "dermatitis", "eccema", "psoriasis", "hongos", "urticaria", "manchas en la piel",
		"quemaduras", "picaduras", "heridas", "cicatrices", "piel seca", "caspa", "verrugas",
		"herpes", "rosácea",
	}},
	{Name: "cardiovasculares", Terms: []string{
		"hipertensión", "presión alta", "presión baja", "colesterol alto", "triglicéridos",
		"mala circulación", "várices", "arritmia", "palpitaciones", "retención de líquidos",
		"piernas cansadas", "taquicardia",
	}},
	{Name: "endocrinas", Terms: []string{
		"diabetes", "azúcar alta", "hipotiroidismo", "hipertiroidismo", "obesidad", "sobrepeso",
		"metabolismo lento", "ácido úrico", "gota", "resistencia a la insulina",
	}},
	{Name: "inmunologicas", Terms: []string{
		"defensas bajas", "sistema inmune débil", "alergias", "fiebre", "infecciones recurrentes",
		"lupus", "fatiga crónica", "anemia", "inflamación",
	}},
	{Name: "urinarias", Terms: []string{
		"infección urinaria", "cistitis", "cálculos renales", "piedras en el riñón", "incontinencia",
		"retención urinaria", "próstata inflamada", "ardor al orinar", "riñones",
	}},
	{Name: "reproductivas", Terms: []string{
		"cólicos menstruales", "menopausia", "síndrome premenstrual", "infertilidad", "bochornos",
		"flujo vaginal", "disfunción eréctil", "libido bajo", "candidiasis", "menstruación irregular",
	}},
	{Name: "oftalmologicas", Terms: []string{
		"ojos secos", "conjuntivitis", "vista cansada", "cataratas", "irritación ocular",
		"orzuelo", "visión borrosa",
	}},
	{Name: "oncologicas", Terms: []string{
		"cáncer", "cáncer de piel", "cáncer de mama", "cáncer de próstata", "cáncer de colon",
		"tumor", "quimioterapia", "leucemia",
	}},
	{Name: "generales", Terms: []string{
		"cansancio", "debilidad", "fatiga", "falta de energía", "pérdida de apetito",
		"dolor general", "desnutrición", "deshidratación", "mal aliento", "sudoración excesiva",
		"caída del cabello", "uñas débiles", "dolor de muelas", "gingivitis", "aftas",
	}},
}

// defaultSynonyms maps a canonical term to alternate spellings and phrasings.
var defaultSynonyms = map[string][]string{
	"dolor de cabeza":   {"cefalea", "jaqueca", "me duele la cabeza", "dolor cabeza"},
	"estrés":            {"estresado", "estresada", "stress", "tensión nerviosa"},
	"ansiedad":          {"ansioso", "ansiosa", "nervios"},
	"insomnio":          {"no puedo dormir", "desvelo", "no duermo"},
	"cáncer":            {"kanser", "cancer", "tumor maligno", "neoplasia"},
	"cáncer de piel":    {"kanser de piel", "melanoma", "carcinoma"},
	"diarrea":           {"soltura", "evacuaciones líquidas"},
	"estreñimiento":     {"estreñido", "estreñida", "no puedo ir al baño"},
	"gripe":             {"gripa", "influenza"},
	"presión alta":      {"hipertension", "tensión alta"},
	"dolor de estómago": {"dolor de panza", "dolor de barriga", "me duele el estómago"},
}
