package assistant

import "fmt"

const replyPromptTemplate = `Voici le contexte d’un patient en rééducation :
%s

Le patient pose la question suivante :
%s

Réponds de manière professionnelle, bienveillante et claire. Tu es un assistant kinésithérapeute.`

// Fixed replies.
const (
	GreetingReply = "Bonjour 👋 Je suis votre assistant kiné. Posez-moi une question ou parlez-moi de vos douleurs."

	NotFoundReply = "Je ne trouve pas vos informations. Veuillez vérifier votre prénom ou ID, " +
		"ou contacter directement votre kinésithérapeute."

	RetryLaterReply = "Le service est momentanément indisponible. Merci de réessayer plus tard."

	ApologyReply = "Désolé, je n'arrive pas à vous répondre pour le moment. " +
		"Merci de réessayer plus tard ou de contacter directement votre kinésithérapeute."
)

// Reply outcomes, used as metric labels and in logs.
const (
	OutcomeGreeting         = "greeting"
	OutcomeAnswered         = "answered"
	OutcomeNotFound         = "not_found"
	OutcomeStoreUnavailable = "store_unavailable"
	OutcomeGenerationFailed = "generation_failed"
)

// BuildPrompt embeds the patient context and the question in the assistant's
// role framing.
func BuildPrompt(patientContext, question string) string {
	return fmt.Sprintf(replyPromptTemplate, patientContext, question)
}
