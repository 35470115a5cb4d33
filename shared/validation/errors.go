package validation

// User-facing messages for failed rules, keyed by "<Struct>.<Field>.<tag>".
// "<Struct>.*.<tag>" matches any field of the struct.
var messages = map[string]string{
	"LoginRequest.*.notblank":     "enter your id and password",
	"RegisterRequest.*.notblank":  "id, password and email are all required",
	"RegisterRequest.Id.max":      "id must be at most 20 characters",
	"RegisterRequest.Email.max":   "email must be at most 45 characters",
	"RegisterRequest.Email.email": "email is not valid",
	"BoardRequest.*.notblank":     "enter a title and content",
	"BoardRequest.Title.max":      "title too long: at most 45 characters",
}

const fallbackMessage = "invalid input"
