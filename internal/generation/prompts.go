package generation

import (
	"fmt"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

const (
	LengthShort  = "short"
	LengthMedium = "medium"
	LengthLong   = "long"
)

var lengthInstructions = map[string]string{
	LengthShort:  "Write a short article (200-300 words)",
	LengthMedium: "Write a medium-length article (500-700 words)",
	LengthLong:   "Write a long, detailed article (1000-1500 words)",
}

const (
	promptBackgroundRemoval = "Remove background from image"
	promptResumeReview      = "Review the uploaded resume"

	resumeMaxTokens = 1000

	effectBackgroundRemoval = "background_removal"
	effectObjectRemoval     = "gen_remove:%s"
)

// normalizeLength folds the requested length class; unknown classes fall
// back to short.
func normalizeLength(length string) string {
	folded := cases.Fold().String(strings.TrimSpace(length))
	if _, ok := lengthInstructions[folded]; ok {
		return folded
	}
	return LengthShort
}

func articlePrompt(prompt, length string) string {
	return fmt.Sprintf("%s about: %s. Make it engaging, informative, and well-structured with proper headings and paragraphs.",
		lengthInstructions[normalizeLength(length)], prompt)
}

func blogTitlePrompt(prompt string) string {
	return fmt.Sprintf("about: %s. Make it short, intact and meaningful.", prompt)
}

func resumePrompt(text string) string {
	return "Review this resume and provide feedback on its strength, weaknesses, and areas for improvement. Resume content:\n\n" + text
}

func objectRemovedPrompt(object string) string {
	return fmt.Sprintf("Removed %s from image", object)
}

// objectEffect lowercases the object name for the CDN effect key.
func objectEffect(object string) string {
	return fmt.Sprintf(effectObjectRemoval, cases.Lower(language.Und).String(object))
}

// singleToken reports whether s is exactly one whitespace-free word.
func singleToken(s string) bool {
	fields := strings.Fields(s)
	return len(fields) == 1 && fields[0] == s
}
