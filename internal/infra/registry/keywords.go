package registry

import "github.com/karimmaktouf/QUANTUM-MIND/internal/domain"

var refreshKeywords = []string{
	"actualise", "mise a jour", "maj", "update", "refresh",
	"nouveau", "nouvelle", "nouveaux", "nouvelles",
}

type toolTable struct {
	label            string
	strong           []string
	weak             []string
	tokenOverlap     []string
	minLengthTrigger int
	cooldownSeconds  int
	requiresAPIKey   string
	cooldownMessage  string
	noDataMessage    string
}

var tables = map[domain.ToolName]toolTable{
	domain.ToolWebSearch: {
		label: "🌐 Résultats web",
		strong: []string{
			"derniere actualite", "dernieres actualites", "breaking news",
			"annonce officielle", "reglementation", "regulation", "legislation",
			"loi ia", "lois ia", "urgence", "alerte", "openai announcement",
		},
		weak: []string{
			"quoi", "quand", "comment", "pourquoi", "combien", "meteo",
			"weather", "prix", "cout", "couts", "news", "actualite",
			"actualites", "trend", "tendance", "update", "nouveaute",
		},
		minLengthTrigger: 80,
		cooldownSeconds:  45,
		requiresAPIKey:   domain.CredentialSerpAPI,
		cooldownMessage:  `ℹ️ Recherche web déjà effectuée récemment. Ajoutez "actualise" pour rafraîchir les résultats.`,
	},
	domain.ToolArxivLookup: {
		label: "📚 Papers récents (arXiv)",
		strong: []string{
			"arxiv", "preprint", "preprints", "paper", "articles scientifiques",
			"publication scientifique", "research article", "scientific article",
			"neurips", "icml", "iclr", "cvpr", "acl", "emnlp",
		},
		weak: []string{
			"publication", "article", "etude", "etudes", "research", "pfe",
			"these", "thesis", "conference", "latest paper", "latest papers",
			"nouveau papier", "nouveaux papiers", "nouvelle publication",
			"rag", "retrieval", "llm", "transformer", "bert", "gpt",
			"neural", "deep learning", "machine learning", "ai", "ml", "dl",
			"diffusion", "gan", "vae", "autoencoder", "attention", "multimodal",
		},
		tokenOverlap:    []string{"papier", "papiers", "paper", "papers", "publications", "preprints"},
		cooldownSeconds: 60,
		cooldownMessage: `ℹ️ Résultats arXiv déjà fournis. Ajoutez "actualise" ou modifiez la requête pour récupérer de nouveaux papiers.`,
	},
	domain.ToolArxivDigest: {
		label: "📰 Preprints IA (arXiv)",
		strong: []string{
			"tldr", "tl dr", "tl;dr", "digest", "resume rapide", "resumer",
			"synthese rapide", "quick summary", "short summary", "brief summary",
		},
		weak: []string{
			"resume", "resumes", "synthese", "syntheses", "executive summary",
			"condense", "overview", "recap", "highlight",
		},
		cooldownSeconds: 75,
		cooldownMessage: `ℹ️ Un digest arXiv a déjà été fourni récemment. Ajoutez "actualise" pour forcer une nouvelle synthèse.`,
	},
	domain.ToolHuggingFace: {
		label: "🤗 Modèles récents (Hugging Face)",
		strong: []string{
			"huggingface", "hugging face", "hf model", "hf models", "checkpoint",
			"model card", "model hub", "pretrained", "pre trained",
		},
		weak: []string{
			"modele", "modeles", "model", "models", "open weight", "openweights",
			"fine tune", "fine tuning", "finetuning", "weights", "release", "repo",
			"llm", "vision model", "multimodal", "embedding", "encoder", "decoder",
			"seq2seq", "causal lm", "masked lm", "text generation", "image generation",
			"francais", "french", "france", "mistral", "bloom", "camembert",
			"flaubert", "vigogne", "croissant", "langue", "language", "multilingual",
		},
		cooldownSeconds: 45,
		cooldownMessage: `ℹ️ Résultats Hugging Face déjà fournis. Ajoutez "actualise" pour rafraîchir la liste.`,
		noDataMessage:   "ℹ️ Aucun modèle Hugging Face pertinent trouvé pour cette requête.",
	},
	domain.ToolBenchmarks: {
		label: "📊 Benchmarks récents (datasets HF)",
		strong: []string{
			"mt bench", "mt-bench", "mmlu", "leaderboard", "open llm leaderboard",
			"lm evaluation", "benchmarking", "leaderboards", "lmsys", "chatbot arena",
		},
		weak: []string{
			"benchmark", "benchmarks", "score", "scores", "sota", "state of the art",
			"evaluation", "eval", "classement", "ranking", "gsm8k", "hellaswag",
			"truthfulqa", "mmmu", "mmbench", "winogrande", "human eval", "humaneval",
			"glue", "superglue", "squad", "xsum", "cnn dailymail", "arc", "bigbench",
			"performance", "accuracy", "f1 score", "perplexity", "bleu", "rouge",
		},
		cooldownSeconds: 30,
		cooldownMessage: `ℹ️ Benchmarks déjà fournis. Ajoutez "actualise" pour mettre à jour les scores.`,
		noDataMessage:   "ℹ️ Aucun dataset de benchmark trouvé pour cette requête.",
	},
	domain.ToolResearchTrends: {
		label: "🧠 Tendances Recherche IA",
		strong: []string{
			"tendance", "tendances", "trend", "trends", "trending", "hot topic",
			"emergent", "emerging", "popularity", "popularite", "en vogue",
			"what is hot", "whats new", "cutting edge", "breakthrough",
		},
		weak: []string{
			"nouveau", "nouveaux", "nouvelle", "nouvelles", "recent", "recents",
			"dernier", "derniers", "derniere", "dernieres", "actuel", "actuelle",
			"populaire", "popular", "top", "best", "meilleur", "meilleurs",
			"avancee", "avancees", "progress", "innovation", "decouverte",
		},
		cooldownSeconds: 120,
		cooldownMessage: `🧠 Analyse des tendances déjà effectuée. Ajoutez "actualise" pour rafraîchir (opération coûteuse).`,
	},
}
