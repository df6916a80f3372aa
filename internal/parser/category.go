package parser

import "strings"

// DefaultCategory is returned when no category keyword matches.
const DefaultCategory = "Tasks"

// categoryRule pairs a category name with its keyword list. Rules are
// evaluated in slice order and the first match wins, so the order below is
// a deliberate tie-break: Finance is checked before Health so that "bank
// appointment" lands in Finance rather than Health via "appointment".
type categoryRule struct {
	Name     string
	Keywords []string
}

var categoryRules = []categoryRule{
	{"Finance", []string{
		"pay", "bill", "bank", "money", "transfer", "payment", "invoice",
		"budget", "taxes", "tax", "insurance", "atm", "account",
	}},
	{"Shopping", []string{
		"buy", "purchase", "shop", "store", "grocery", "groceries", "milk", "bread",
		"get from", "pick up", "eggs", "meat", "vegetables", "fruits", "food",
	}},
	{"Meals", []string{
		"cook", "meal", "recipe", "dinner", "lunch", "breakfast", "eat", "food",
		"prepare", "make dinner", "bake", "grill", "restaurant",
	}},
	// Work deliberately has no bare "call" keyword: "call mom" belongs to
	// Personal, and Work is checked first.
	{"Work", []string{
		"meeting", "email", "send", "report", "project", "deadline",
		"presentation", "review", "submit", "office", "work", "client", "boss",
	}},
	{"Health", []string{
		"doctor", "appointment", "gym", "workout", "exercise", "run", "yoga",
		"medicine", "health", "checkup", "dentist", "hospital", "therapy", "physical",
	}},
	{"Home", []string{
		"clean", "laundry", "dishes", "vacuum", "organize", "fix", "repair",
		"maintenance", "chore", "trash", "garbage", "tidy",
	}},
	{"Personal", []string{
		"birthday", "anniversary", "gift", "family", "friend", "mom", "dad",
		"call mom", "call dad", "visit", "party",
	}},
}

// Categories returns the category names in evaluation order, ending with
// the default bucket.
func Categories() []string {
	names := make([]string, 0, len(categoryRules)+1)
	for _, rule := range categoryRules {
		names = append(names, rule.Name)
	}
	return append(names, DefaultCategory)
}

// DetectCategory maps free text to exactly one category name using ordered,
// case-insensitive substring matching. Keywords match inside larger words
// too; that is intentional and matching outcomes depend on it.
func DetectCategory(text string) string {
	lower := strings.ToLower(text)
	for _, rule := range categoryRules {
		for _, keyword := range rule.Keywords {
			if strings.Contains(lower, keyword) {
				return rule.Name
			}
		}
	}
	return DefaultCategory
}
