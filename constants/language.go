package constants

// DefaultLanguage is used when a request does not name one.
const DefaultLanguage = "English"

// SupportedLanguages lists the languages offered by the front end. The value
// is advisory: language fields are free text and unknown values pass through
// to the model untouched.
var SupportedLanguages = []string{
	"English",
	"Hindi",
	"Bengali",
	"Telugu",
	"Marathi",
	"Tamil",
	"Urdu",
	"Gujarati",
	"Kannada",
	"Odia",
	"Malayalam",
	"Punjabi",
	"Assamese",
	"Nepali",
	"Konkani",
	"Manipuri",
	"Sindhi",
	"Kashmiri",
}
