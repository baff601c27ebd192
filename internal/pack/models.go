package pack

type QuestionType string

const (
	QuestionNormal QuestionType = "normal"
	QuestionSecret QuestionType = "secret"
	QuestionEmpty  QuestionType = "empty"
)

type RuleType string

const (
	RuleApp      RuleType = "app"
	RuleEmbedded RuleType = "embedded"
)

// Rule is one unit of reveal content: question-side or answer-side.
// Embedded rules carry HTML/text (possibly wrapping an inline data
// URI); app rules reference external content by path.
type Rule struct {
	Type     RuleType `json:"type"`
	Content  string   `json:"content,omitempty"`
	Duration int      `json:"duration,omitempty"` // seconds
	Path     string   `json:"path,omitempty"`
}

type Price struct {
	Text    string `json:"text"`
	Correct int    `json:"correct"`
	// Incorrect is conventionally the negated absolute base price.
	Incorrect int `json:"incorrect"`
	// RandomRange encodes "<min>-<max>" or the literal "null" when fixed.
	RandomRange string `json:"random_range"`
}

type Question struct {
	ID         int          `json:"id"`
	Type       QuestionType `json:"type"`
	Price      Price        `json:"price"`
	Rules      []Rule       `json:"rules"`
	AfterRound []Rule       `json:"after_round"`
}

type Theme struct {
	ID          int        `json:"id"`
	Name        string     `json:"name"`
	Description string     `json:"description,omitempty"`
	Ordered     bool       `json:"ordered"`
	Questions   []Question `json:"questions"`
}

type Round struct {
	Name   string  `json:"name"`
	Themes []Theme `json:"themes"`
}

// Pack is the top-level quiz document. A Pack returned by the SIQ
// converter is a complete immutable snapshot; later edits go through
// the store.
type Pack struct {
	Author string  `json:"author"`
	Name   string  `json:"name"`
	Rounds []Round `json:"rounds"`
}
