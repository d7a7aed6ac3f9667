package prompt

// Localized fixed strings for the supported reply locales. The guardrail block
// is appended to every system prompt; the fallback strings replace the reply
// when the provider fails; the clarification string is the canned reply used
// in strict mode when a tenant has no knowledge at all.

var guardrails = map[string]string{
	"en": "Universal rules: stay strictly on topic for this business. Do not answer trivia or questions unrelated to the business. Always reply in the language the user writes in. Do not repeat yourself. Keep replies short and concrete.",
	"es": "Reglas universales: mantente estrictamente en el tema de este negocio. No respondas trivialidades ni preguntas ajenas al negocio. Responde siempre en el idioma del usuario. No te repitas. Sé breve y concreto.",
	"fr": "Règles universelles : restez strictement dans le sujet de cette entreprise. Ne répondez pas aux questions sans rapport. Répondez toujours dans la langue de l'utilisateur. Ne vous répétez pas. Soyez bref et concret.",
	"it": "Regole universali: rimani strettamente in tema con questa attività. Non rispondere a domande estranee. Rispondi sempre nella lingua dell'utente. Non ripeterti. Sii breve e concreto.",
	"de": "Universelle Regeln: Bleiben Sie strikt beim Thema dieses Unternehmens. Beantworten Sie keine fachfremden Fragen. Antworten Sie immer in der Sprache des Nutzers. Wiederholen Sie sich nicht. Fassen Sie sich kurz und konkret.",
}

var unavailableFallback = map[string]string{
	"en": "I can't reply right now. Please try again in a moment.",
	"es": "No puedo responder en este momento. Inténtalo de nuevo en un momento.",
	"fr": "Je ne peux pas répondre pour le moment. Veuillez réessayer dans un instant.",
	"it": "Non posso rispondere in questo momento. Riprova tra un istante.",
	"de": "Ich kann gerade nicht antworten. Bitte versuchen Sie es gleich noch einmal.",
}

var genericApology = map[string]string{
	"en": "Sorry, something went wrong on my side. Could you rephrase that?",
	"es": "Lo siento, algo salió mal por mi parte. ¿Podrías reformularlo?",
	"fr": "Désolé, un problème est survenu de mon côté. Pouvez-vous reformuler ?",
	"it": "Scusa, qualcosa è andato storto da parte mia. Puoi riformulare?",
	"de": "Entschuldigung, bei mir ist etwas schiefgelaufen. Können Sie das umformulieren?",
}

var clarification = map[string]string{
	"en": "Thanks for reaching out! So I can point you to the right person, could you share your name and email?",
	"es": "¡Gracias por escribirnos! Para dirigirte a la persona adecuada, ¿podrías compartir tu nombre y correo electrónico?",
	"fr": "Merci de nous avoir contactés ! Pour vous orienter vers la bonne personne, pouvez-vous indiquer votre nom et votre e-mail ?",
	"it": "Grazie per averci contattato! Per indirizzarti alla persona giusta, puoi condividere il tuo nome e la tua email?",
	"de": "Danke für Ihre Nachricht! Damit ich Sie an die richtige Person weiterleiten kann, nennen Sie mir bitte Ihren Namen und Ihre E-Mail-Adresse.",
}

func localized(table map[string]string, locale string) string {
	if s, ok := table[locale]; ok {
		return s
	}
	return table["en"]
}

// Guardrails returns the fixed universal-rules block for a locale.
func Guardrails(locale string) string { return localized(guardrails, locale) }

// UnavailableFallback is the reply used when the provider is throttled or
// rejects our credentials.
func UnavailableFallback(locale string) string { return localized(unavailableFallback, locale) }

// GenericApology is the reply used for any other provider failure.
func GenericApology(locale string) string { return localized(genericApology, locale) }

// Clarification is the canned strict-mode reply for tenants without knowledge.
func Clarification(locale string) string { return localized(clarification, locale) }

// DefaultPersona is used when a tenant has no system prompt configured.
const DefaultPersona = "You are a friendly, concise assistant for this business's website. Help visitors with questions about the business, its services and pricing, and guide interested visitors toward leaving their contact details."

// DemoPricingLines are the authoritative pricing lines appended for the
// platform's own demo tenant.
const DemoPricingLines = "Authoritative pricing: Free plan $0/mo (50 messages). Starter $29/mo (500 messages). Growth $79/mo (2000 messages). Scale $199/mo (unlimited messages). Never invent other prices."
