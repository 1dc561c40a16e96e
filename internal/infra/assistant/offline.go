package assistant

import (
	"regexp"
	"strings"

	"github.com/karimmaktouf/QUANTUM-MIND/internal/domain"
)

const (
	replyWelcome = "Bonjour ! Je suis votre assistant spécialisé en Intelligence Artificielle. Comment puis-je vous aider aujourd'hui ?"

	replyWhatIsAI = "L'**Intelligence Artificielle (IA)** est un domaine de l'informatique qui vise à créer des systèmes " +
		"capables d'effectuer des tâches nécessitant normalement l'intelligence humaine.\n\n" +
		"🧠 **Domaines clés** :\n" +
		"• **Machine Learning (ML)** : Apprentissage à partir de données\n" +
		"• **Deep Learning** : Réseaux de neurones profonds\n" +
		"• **NLP** : Traitement du langage naturel (comme moi !)\n" +
		"• **Computer Vision** : Analyse d'images et vidéos\n" +
		"• **Robotique** : Machines autonomes\n\n" +
		"💡 **Applications** : ChatGPT, reconnaissance faciale, voitures autonomes, traduction automatique, diagnostics médicaux...\n\n" +
		"📚 Posez-moi des questions spécifiques : papers récents, modèles, benchmarks, tendances !"

	replyGreeting  = "Bonjour ! Je suis spécialisé en IA/ML. Posez-moi des questions sur les papers, modèles, benchmarks ou architectures récentes !"
	replyHowAreYou = "Ça va très bien ! Prêt à discuter d'IA, de ML, de LLMs ou de recherche. Que puis-je faire pour vous ?"
	replyThanks    = "Avec plaisir ! N'hésitez pas pour d'autres questions sur l'IA/ML."
	replyRAG       = "Je peux vous aider avec RAG (Retrieval-Augmented Generation). Voulez-vous des papers récents, des implémentations ou des benchmarks ?"
	replyLLM       = "Je suis spécialisé dans les LLMs ! Je peux chercher les derniers modèles, benchmarks ou papers. Que voulez-vous savoir ?"
	replyDiffusion = "Génération d'images par diffusion ! Je peux vous montrer les derniers modèles et papers. Précisez votre besoin ?"
	replyTransform = "Architecture Transformer ! Je peux chercher les variantes récentes, optimisations ou applications. Qu'est-ce qui vous intéresse ?"
	replyHelp      = "Je peux vous aider avec : 📚 Papers arXiv • 🤗 Modèles HF • 📊 Benchmarks • 🌐 News IA. Dites-moi ce que vous cherchez !"
	replyTooShort  = "Précisez votre question sur l'IA/ML ?"
	replyDefault   = "Je suis votre assistant IA spécialisé ! Je peux chercher des papers (arXiv), " +
		"modèles (Hugging Face), benchmarks ou actualités. Précisez votre besoin ?"

	replyRephrase = "Je n'ai pas compris votre question, pouvez-vous reformuler ?"
)

var (
	whatIsAIPattern  = regexp.MustCompile(`\b(c'est quoi|qu'est-ce que|what is|define)\b.*\b(ia|ai|intelligence artificielle|artificial intelligence)\b`)
	greetingPattern  = regexp.MustCompile(`^(salut|bonjour|bonsoir|cc|coucou|hello)|\b(salut|bonjour|bonsoir|cc|coucou|hello)\b`)
	howAreYouPattern = regexp.MustCompile(`comment\s+ça\s+va|\bcv\b|ça\s+va`)
	markdownLink     = regexp.MustCompile(`\[([^\]]+)\]\([^)]+\)`)
)

type topicReply struct {
	terms []string
	reply string
}

var topicReplies = []topicReply{
	{terms: []string{"rag", "retrieval", "augmented"}, reply: replyRAG},
	{terms: []string{"llm", "large language", "gpt", "claude", "gemini"}, reply: replyLLM},
	{terms: []string{"diffusion", "stable diffusion", "dall-e", "midjourney"}, reply: replyDiffusion},
	{terms: []string{"transformer", "attention", "bert", "encoder"}, reply: replyTransform},
}

// OfflineReply answers without a generator using a few French rules.
func OfflineReply(messages []domain.Message) string {
	last := LastUserMessage(messages)
	if last == "" {
		return replyWelcome
	}
	text := strings.ToLower(last)

	switch {
	case whatIsAIPattern.MatchString(text):
		return replyWhatIsAI
	case greetingPattern.MatchString(text):
		return replyGreeting
	case howAreYouPattern.MatchString(text):
		return replyHowAreYou
	case strings.Contains(text, "merci"):
		return replyThanks
	}
	for _, topic := range topicReplies {
		for _, term := range topic.terms {
			if strings.Contains(text, term) {
				return topic.reply
			}
		}
	}
	if strings.Contains(text, "aide") || strings.Contains(text, "besoin") {
		return replyHelp
	}
	if len(text) < 5 {
		return replyTooShort
	}
	return replyDefault
}

// LastUserMessage returns the trimmed content of the latest non-empty user turn.
func LastUserMessage(messages []domain.Message) string {
	for i := len(messages) - 1; i >= 0; i-- {
		if messages[i].Role != domain.RoleUser {
			continue
		}
		if content := strings.TrimSpace(messages[i].Content); content != "" {
			return content
		}
	}
	return ""
}

// StripLinks replaces markdown links with their label.
func StripLinks(text string) string {
	return markdownLink.ReplaceAllString(text, "$1")
}
