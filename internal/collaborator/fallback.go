package collaborator

// Quotes is the fixed motivation pool. The first entry is the fallback.
var Quotes = []string{
	"A disciplina é a ponte entre o sonho e a faixa preta.",
	"No tatame da vida, a única derrota é desistir de lutar.",
	"Sua guarda é sua resiliência; não deixe os problemas passarem.",
	"O segredo da evolução não é a força, mas a consistência no detalhe.",
}

// FallbackMotivation is used when no quote can be generated.
func FallbackMotivation() string { return Quotes[0] }

// FallbackModeration approves the content.
func FallbackModeration() Moderation {
	return Moderation{Authorized: true, Reason: "Aprovado automaticamente (falha na rede neural)."}
}

// FallbackAudit blocks only when the payment is more than five days late.
func FallbackAudit(daysOffset int) Audit {
	action := ActionWarn
	if daysOffset > 5 {
		action = ActionBlock
	}
	return Audit{Message: "Mantenha sua guarda financeira alta.", Action: action}
}

// FallbackStorageHealth is the neutral report.
func FallbackStorageHealth() StorageHealth {
	return StorageHealth{
		HealthScore:      50,
		Recommendations:  "IA Offline. Recomenda-se purga manual de instâncias.",
		PotentialSavings: "Estimando...",
	}
}
