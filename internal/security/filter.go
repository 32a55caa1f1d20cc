// Package security provides the heuristic request filter and the input/output
// sanitizers that wrap every model call. The filter is a blacklist with known
// false negatives; it is a pre-filter, not a security boundary, and is always
// paired with the output sanitizer.
package security

import "regexp"

// Reason classifies why an input was rejected.
type Reason string

// Rejection reasons.
const (
	ReasonJailbreak    Reason = "jailbreak"
	ReasonOffTopic     Reason = "off_topic"
	ReasonPersonalData Reason = "personal_data"
)

// Verdict is the result of classifying one user input.
type Verdict struct {
	Safe    bool
	Reason  Reason
	Message string
}

// Canned user-facing redirect messages, one per rejection reason.
var rejectionMessages = map[Reason]string{
	ReasonJailbreak:    "Solo puedo ayudarte a redactar el contenido de tu CV. ¿Sobre qué sección quieres trabajar?",
	ReasonOffTopic:     "Ese tema se sale de lo que puedo hacer aquí. Cuéntame sobre tu experiencia, formación, proyectos o habilidades.",
	ReasonPersonalData: "Los datos personales se editan directamente en el formulario de información personal, no desde el chat.",
}

// pattern pairs a compiled expression with the reason it triggers.
type pattern struct {
	re     *regexp.Regexp
	reason Reason
}

// Ordered list; first match wins. Spanish and English variants are kept
// side by side because the product ships in both languages.
var patterns = []pattern{
	// Instruction-override phrasing.
	{regexp.MustCompile(`(?i)ignora\s+(todas\s+)?(las\s+|tus\s+)?instrucciones`), ReasonJailbreak},
	{regexp.MustCompile(`(?i)ignore\s+(all\s+)?(the\s+|your\s+)?(previous\s+|prior\s+)?instructions`), ReasonJailbreak},
	{regexp.MustCompile(`(?i)olvida\s+(todo\s+)?lo\s+(anterior|que\s+te\s+dije)`), ReasonJailbreak},
	{regexp.MustCompile(`(?i)forget\s+(everything|all)\s+(above|before)`), ReasonJailbreak},
	{regexp.MustCompile(`(?i)(nuevas?\s+instrucciones|new\s+instructions?)\s*:`), ReasonJailbreak},
	// Roleplay / persona swaps.
	{regexp.MustCompile(`(?i)act[úu]a\s+como\s+(si\s+fueras|un|una)`), ReasonJailbreak},
	{regexp.MustCompile(`(?i)act\s+as\s+(if\s+you\s+were|a|an)\s`), ReasonJailbreak},
	{regexp.MustCompile(`(?i)(pretend|finge)\s+(to\s+be|que\s+eres)`), ReasonJailbreak},
	{regexp.MustCompile(`(?i)(eres|you\s+are)\s+ahora\s`), ReasonJailbreak},
	{regexp.MustCompile(`(?i)\b(DAN|jailbreak|roleplay|juego\s+de\s+rol)\b`), ReasonJailbreak},
	// Prompt/credential extraction.
	{regexp.MustCompile(`(?i)(muestra|revela|repite|show|reveal|repeat)\s+(me\s+)?(tu|el|your|the)\s+(system\s+)?prompt`), ReasonJailbreak},
	{regexp.MustCompile(`(?i)(api\s*key|clave\s+(api|secreta)|credencial|password\s+del\s+sistema)`), ReasonJailbreak},
	// Creative-format redirection.
	{regexp.MustCompile(`(?i)(escribe|write)\s+(me\s+)?(un|una|a)\s+(poema|canci[óo]n|cuento|poem|song|story)`), ReasonJailbreak},
	// Personal-field edits belong to the profile form, not the chat.
	{regexp.MustCompile(`(?i)(cambia|actualiza|modifica)\s+mi\s+(email|correo|tel[ée]fono|nombre|direcci[óo]n|foto)`), ReasonPersonalData},
	{regexp.MustCompile(`(?i)(change|update|modify)\s+my\s+(email|phone|name|address|photo)`), ReasonPersonalData},
	{regexp.MustCompile(`(?i)mis\s+datos\s+personales`), ReasonPersonalData},
	// Off-topic subjects.
	{regexp.MustCompile(`(?i)(qu[ée]\s+tiempo\s+hace|pron[óo]stico|weather\s+(today|forecast))`), ReasonOffTopic},
	{regexp.MustCompile(`(?i)(receta\s+de|recipe\s+for)`), ReasonOffTopic},
	{regexp.MustCompile(`(?i)(cu[ée]ntame|tell\s+me)\s+(un\s+chiste|a\s+joke)`), ReasonOffTopic},
	{regexp.MustCompile(`(?i)(partido|resultado)\s+de\s+(f[úu]tbol|baloncesto)`), ReasonOffTopic},
	{regexp.MustCompile(`(?i)(elecciones|pol[íi]tica|criptomonedas?)\b`), ReasonOffTopic},
}

// Classify runs the ordered pattern list over the raw input. It is pure: no
// network, no state. A non-matching input is reported safe even when a human
// would not consider it so.
func Classify(input string) Verdict {
	for _, p := range patterns {
		if p.re.MatchString(input) {
			return Verdict{Safe: false, Reason: p.reason, Message: rejectionMessages[p.reason]}
		}
	}
	return Verdict{Safe: true}
}
