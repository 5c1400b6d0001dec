package llm

import (
	"strings"

	"github.com/medlens/medlens/internal/entity"
)

// BuildDiseasePrompt embeds the report text and target language into the
// instruction for the first structured record.
func BuildDiseasePrompt(reportText, language string) string {
	var b strings.Builder
	b.WriteString("You are an expert medical AI assistant. Analyze this medical report and provide a comprehensive patient-friendly explanation in ")
	b.WriteString(language)
	b.WriteString(" language.\n\nMEDICAL REPORT TEXT:\n")
	b.WriteString(reportText)
	b.WriteString(`

Provide a detailed JSON response with this EXACT structure (return ONLY JSON, no other text):
{
  "diagnosedConditions": ["condition1", "condition2"],
  "causes": "Detailed explanation of causes in simple terms",
  "earlySymptoms": "What early warning signs to look for",
  "stages": "Description of disease stages",
  "futureSymptoms": "What symptoms might develop if untreated",
  "prevention": "How to prevent worsening",
  "whatToEat": "Detailed food recommendations",
  "whatToAvoid": "Foods and habits to strictly avoid",
  "howToCure": "Treatment approach",
  "healthyLifestyle": "Specific lifestyle changes"
}`)
	return b.String()
}

// BuildMedicationPrompt embeds the report text and target language into the
// instruction for the medication record.
func BuildMedicationPrompt(reportText, language string) string {
	var b strings.Builder
	b.WriteString("You are an expert medical AI assistant and pharmacist. Analyze this medical report in ")
	b.WriteString(language)
	b.WriteString(" language.\n\nMEDICAL REPORT TEXT:\n")
	b.WriteString(reportText)
	b.WriteString(`

Provide a detailed JSON response with this EXACT structure (return ONLY JSON, no other text):
{
  "medications": [
    {
      "name": "Medication name",
      "whyGiven": "Why this medicine is prescribed",
      "benefits": "What benefits this medicine provides",
      "dosage": "Exact dosage and frequency",
      "timing": "When to take - Morning/Afternoon/Evening/Night",
      "beforeOrAfterFood": "Before food / After food / With food"
    }
  ]
}`)
	return b.String()
}

// BuildTranslationPrompt wraps arbitrary report content for a single
// translation round trip. The response is opaque text.
func BuildTranslationPrompt(content, targetLanguage string) string {
	var b strings.Builder
	b.WriteString("Translate the following medical report content into ")
	b.WriteString(targetLanguage)
	b.WriteString(" language. Maintain all medical accuracy. Provide ONLY the translated text.\n\nCONTENT TO TRANSLATE:\n")
	b.WriteString(content)
	return b.String()
}

// BuildPDFCleanupPrompt asks the model to clean a PDF text layer without
// losing medical information.
func BuildPDFCleanupPrompt(pdfText string) string {
	var b strings.Builder
	b.WriteString("Clean and structure this extracted medical PDF text, preserving ALL medical information. Return the cleaned text only.\n\n")
	b.WriteString(pdfText)
	return b.String()
}

// BuildChatPrompt combines optional report context, the replayed conversation
// history, and the current question into one outbound instruction. No state
// is consulted beyond the arguments.
func BuildChatPrompt(query, reportContext, language string, history []entity.ChatMessage) string {
	var b strings.Builder
	b.WriteString("You are a helpful medical AI assistant. Remember the full conversation and answer follow-up questions naturally.\n\n")
	if reportContext != "" {
		b.WriteString("PATIENT REPORT CONTEXT:\n")
		b.WriteString(reportContext)
		b.WriteString("\n")
	}
	if len(history) > 0 {
		b.WriteString("\nCONVERSATION HISTORY:\n")
		for _, msg := range history {
			if msg.Role == "user" {
				b.WriteString("Patient: ")
			} else {
				b.WriteString("AI Doctor: ")
			}
			b.WriteString(msg.Content)
			b.WriteString("\n")
		}
	}
	b.WriteString("\nCURRENT QUESTION (answer in ")
	b.WriteString(language)
	b.WriteString("):\n")
	b.WriteString(query)
	b.WriteString("\n\nBe warm, simple, and practical. For serious concerns say \"please consult your doctor\".")
	return b.String()
}
