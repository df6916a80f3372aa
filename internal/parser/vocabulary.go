package parser

// taskKeywords are explicit task-command phrases. Any one of them marks an
// utterance as a task.
var taskKeywords = []string{
	"remind", "reminder", "todo", "to do", "task",
	"need to", "have to", "must", "should",
	"don't forget", "remember to", "make sure",
}

// actionVerbs indicate a task when they appear anywhere in the utterance,
// not just as the leading word.
var actionVerbs = []string{
	// Shopping & errands
	"buy", "purchase", "get", "pick up", "grab", "fetch", "order", "shop", "return", "exchange", "drop off",

	// Communication
	"call", "text", "message", "email", "contact", "reach out", "phone", "notify", "inform", "tell",
	"ask", "reply", "respond", "follow up",

	// Food & cooking
	"cook", "make", "prepare", "bake", "grill", "fry", "roast", "eat", "meal prep", "defrost", "marinate",

	// Cleaning & home
	"clean", "wash", "vacuum", "mop", "sweep", "scrub", "organize", "tidy", "declutter", "dust", "wipe",
	"fix", "repair", "maintain", "replace", "install", "do",

	// Scheduling
	"schedule", "book", "reserve", "arrange", "plan", "set up", "coordinate",

	// Completion
	"finish", "complete", "submit", "send", "deliver", "ship", "mail",

	// Creation
	"write", "draft", "create", "design", "develop", "build",

	// Review
	"review", "check", "verify", "confirm", "validate", "approve", "proofread",

	// Updates
	"update", "revise", "edit", "modify", "change", "amend",

	// Preparation
	"compile", "gather", "collect", "assemble",

	// Participation
	"attend", "join", "participate", "go to", "show up",

	// Meetings & events
	"meet", "discuss", "talk", "present", "pitch", "conference call", "interview",

	// Health & fitness
	"workout", "exercise", "run", "jog", "walk", "swim", "bike", "yoga", "gym", "train", "practice",
	"stretch", "visit", "see",

	// Learning & personal
	"study", "learn", "read", "research", "memorize", "watch", "listen",

	// Social
	"meet up", "hang out", "catch up", "celebrate", "party", "invite", "host", "rsvp",

	// Finance
	"pay", "transfer", "deposit", "withdraw", "budget", "save", "invest", "file",

	// Time management
	"reschedule", "postpone", "move", "shift", "cancel",

	// Miscellaneous
	"pack", "unpack", "upload", "download", "backup", "charge", "refill", "renew", "register",
	"sign up", "enroll", "take", "bring",
}

// taskNouns are category-specific nouns that imply an actionable item.
var taskNouns = []string{
	// Meals
	"breakfast", "brunch", "lunch", "snack", "dinner", "supper", "dessert",

	// Shopping
	"groceries", "shopping", "errands", "supplies",

	// Health
	"doctor", "dentist", "checkup", "physical", "exam", "appointment", "therapy", "counseling",
	"chiropractor", "massage", "vaccination",

	// Work
	"meeting", "presentation", "conference", "standup", "demo", "review", "deadline", "report",
	"memo", "project",

	// Home
	"laundry", "dishes", "trash", "yard work", "lawn",

	// Finance
	"bills", "payment", "taxes", "insurance",

	// Social
	"date", "party", "celebration", "gathering", "meetup", "playdate", "hangout",

	// Exercise & sports
	"practice", "game", "match", "training", "class", "session", "event",
}
