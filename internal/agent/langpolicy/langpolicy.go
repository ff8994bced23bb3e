// Package langpolicy guesses which language a user writes in so the dialogue
// oracle can answer in kind.
package langpolicy

import (
	"fmt"
	"regexp"
	"strings"
	"unicode"
)

type Language struct {
	Code       string
	Label      string
	Script     string
	Confidence float64
	Reliable   bool
}

var tokenPattern = regexp.MustCompile(`[\p{L}\p{M}]+`)

// keywordHints are scheduling words that tell Latin-script languages apart
var keywordHints = map[string]map[string]struct{}{
	"en": {
		"tomorrow": {}, "today": {}, "meeting": {}, "please": {}, "next": {}, "with": {}, "call": {}, "schedule": {},
	},
	"es": {
		"mañana": {}, "hoy": {}, "reunión": {}, "reunion": {}, "próximo": {}, "lunes": {}, "gracias": {}, "por": {}, "con": {},
	},
	"fr": {
		"demain": {}, "aujourd": {}, "réunion": {}, "lundi": {}, "bonjour": {}, "avec": {}, "merci": {}, "pour": {},
	},
	"pt": {
		"amanhã": {}, "hoje": {}, "reunião": {}, "segunda": {}, "obrigado": {}, "com": {}, "para": {}, "equipe": {},
	},
	"de": {
		"morgen": {}, "heute": {}, "besprechung": {}, "montag": {}, "danke": {}, "mit": {}, "bitte": {}, "termin": {},
	},
	"it": {
		"domani": {}, "oggi": {}, "riunione": {}, "lunedì": {}, "grazie": {}, "con": {}, "per": {}, "incontro": {},
	},
}

var labels = map[string]string{
	"he": "Hebrew",
	"ar": "Arabic",
	"ru": "Russian",
	"es": "Spanish",
	"fr": "French",
	"pt": "Portuguese",
	"de": "German",
	"it": "Italian",
	"en": "English",
}

// Detect classifies text by script first, then by accented letters and keywords.
// Short or ambiguous text comes back unreliable.
func Detect(text string) Language {
	trimmed := strings.TrimSpace(text)
	counts, total := countScripts(trimmed)
	if total == 0 {
		return Language{Label: "Unknown"}
	}

	script, count := dominantScript(counts)
	ratio := float64(count) / float64(total)
	if count >= 2 && ratio >= 0.35 {
		switch script {
		case "hebrew":
			return build("he", script, confidenceFromRatio(ratio))
		case "arabic":
			return build("ar", script, confidenceFromRatio(ratio))
		case "cyrillic":
			return build("ru", script, confidenceFromRatio(ratio))
		}
	}

	if counts["latin"] == 0 {
		return Language{Label: "Unknown"}
	}

	lower := strings.ToLower(trimmed)
	if code, ok := detectBySpecialChars(lower); ok {
		return build(code, "latin", 0.9)
	}

	best, bestScore, secondScore := detectByKeywords(lower)
	if bestScore >= 2 && bestScore > secondScore {
		confidence := 0.72 + float64(bestScore-secondScore)*0.08
		if confidence > 0.95 {
			confidence = 0.95
		}
		return build(best, "latin", confidence)
	}

	return Language{Label: "Unknown", Script: "latin", Confidence: 0.45}
}

// ReplyInstruction is the prompt line asking the model to answer in lang.
// English and unreliable detections need no instruction.
func ReplyInstruction(lang Language) string {
	if !lang.Reliable || lang.Code == "" || lang.Code == "en" {
		return ""
	}
	return fmt.Sprintf(
		"The user writes in %s (%s). Ask your questions and confirm in %s, but keep the JSON block keys and its date and time formats exactly as specified.",
		lang.Label, lang.Code, lang.Label,
	)
}

func build(code, script string, confidence float64) Language {
	return Language{
		Code:       code,
		Label:      labels[code],
		Script:     script,
		Confidence: confidence,
		Reliable:   true,
	}
}

func confidenceFromRatio(ratio float64) float64 {
	confidence := 0.7 + ratio*0.28
	if confidence > 0.98 {
		confidence = 0.98
	}
	return confidence
}

func dominantScript(counts map[string]int) (string, int) {
	bestScript := ""
	bestCount := 0
	for _, script := range []string{"hebrew", "arabic", "cyrillic", "latin"} {
		if counts[script] > bestCount {
			bestCount = counts[script]
			bestScript = script
		}
	}
	return bestScript, bestCount
}

func countScripts(text string) (map[string]int, int) {
	counts := make(map[string]int, 4)
	total := 0
	for _, r := range text {
		if !unicode.IsLetter(r) {
			continue
		}
		total++

		switch {
		case unicode.Is(unicode.Hebrew, r):
			counts["hebrew"]++
		case unicode.Is(unicode.Arabic, r):
			counts["arabic"]++
		case unicode.Is(unicode.Cyrillic, r):
			counts["cyrillic"]++
		case unicode.Is(unicode.Latin, r):
			counts["latin"]++
		}
	}
	return counts, total
}

// detectBySpecialChars needs at least two accented letters pointing the same way;
// a single one (a borrowed name, say) does not decide the language.
func detectBySpecialChars(text string) (string, bool) {
	counts := make(map[string]int, 5)
	for _, r := range text {
		switch r {
		case 'ã', 'õ':
			counts["pt"]++
		case 'ä', 'ö', 'ü', 'ß':
			counts["de"]++
		case 'à', 'â', 'ç', 'è', 'ê', 'ë', 'î', 'ï', 'ô', 'û', 'ù', 'ÿ', 'œ', 'æ':
			counts["fr"]++
		case 'ì', 'ò':
			counts["it"]++
		case 'ñ', '¿', '¡', 'á', 'í', 'ó', 'ú':
			counts["es"]++
		}
	}

	best, bestCount, secondCount := "", 0, 0
	for _, code := range []string{"pt", "de", "fr", "it", "es"} {
		c := counts[code]
		switch {
		case c > bestCount:
			secondCount = bestCount
			bestCount = c
			best = code
		case c > secondCount:
			secondCount = c
		}
	}

	if bestCount >= 2 && bestCount > secondCount {
		return best, true
	}
	return "", false
}

func detectByKeywords(text string) (best string, bestScore, secondScore int) {
	scores := make(map[string]int, len(keywordHints))
	for _, token := range tokenPattern.FindAllString(text, -1) {
		for code, hints := range keywordHints {
			if _, ok := hints[token]; ok {
				scores[code]++
			}
		}
	}

	// fixed order keeps ties deterministic
	for _, code := range []string{"en", "es", "fr", "pt", "de", "it"} {
		score := scores[code]
		switch {
		case score > bestScore:
			secondScore = bestScore
			bestScore = score
			best = code
		case score > secondScore:
			secondScore = score
		}
	}
	return best, bestScore, secondScore
}
