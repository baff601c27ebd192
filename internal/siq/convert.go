package siq

import (
	"context"
	"fmt"
	"log"
	"math"
	"strconv"
	"strings"

	"github.com/packsmith/packsmith/internal/pack"

	"github.com/antchfx/xmlquery"
)

const defaultRuleDuration = 15 // seconds

// converter holds the per-run ID counters. A fresh converter is built
// for every conversion, so IDs restart at 1 and are deterministic for
// identical documents.
type converter struct {
	src            Source
	nextQuestionID int
	nextThemeID    int
}

// Convert reads an SIQ package from src and builds a Pack. Structural
// problems (missing content.xml, malformed XML, wrong root element,
// zero rounds) return an error and no partial Pack; individual media
// misses degrade to plain-text rules instead.
func Convert(ctx context.Context, src Source) (pack.Pack, error) {
	xmlText, err := src.LoadContentXML(ctx)
	if err != nil {
		return pack.Pack{}, err
	}
	doc, err := parseXML(xmlText)
	if err != nil {
		return pack.Pack{}, err
	}
	root := rootElement(doc)
	if root == nil || root.Data != "package" {
		name := "none"
		if root != nil {
			name = root.Data
		}
		return pack.Pack{}, fmt.Errorf("%w (%s)", ErrUnexpectedRoot, name)
	}
	c := &converter{src: src, nextQuestionID: 1, nextThemeID: 1}
	return c.convertPackage(ctx, root)
}

func (c *converter) convertPackage(ctx context.Context, pkg *xmlquery.Node) (pack.Pack, error) {
	infoNode := firstChild(pkg, "info")
	authorScope := firstChild(infoNode, "authors")
	if authorScope == nil {
		authorScope = pkg
	}
	author := textContent(firstChild(authorScope, "author"))
	if author == "" {
		author = "SIQ Import"
	}
	name := attr(pkg, "name")
	if name == "" {
		name = "Converted pack"
	}

	roundNodes := childElements(firstChild(pkg, "rounds"), "round")
	if len(roundNodes) == 0 {
		return pack.Pack{}, ErrNoRounds
	}

	rounds := make([]pack.Round, 0, len(roundNodes))
	for _, rn := range roundNodes {
		r, err := c.convertRound(ctx, rn)
		if err != nil {
			return pack.Pack{}, err
		}
		rounds = append(rounds, r)
	}
	return pack.Pack{Author: author, Name: name, Rounds: rounds}, nil
}

func (c *converter) convertRound(ctx context.Context, node *xmlquery.Node) (pack.Round, error) {
	name := attr(node, "name")
	if name == "" {
		name = "Round"
	}
	themeNodes := childElements(firstChild(node, "themes"), "theme")
	themes := make([]pack.Theme, 0, len(themeNodes))
	for _, tn := range themeNodes {
		t, err := c.convertTheme(ctx, tn)
		if err != nil {
			return pack.Round{}, err
		}
		themes = append(themes, t)
	}
	return pack.Round{Name: name, Themes: themes}, nil
}

func (c *converter) convertTheme(ctx context.Context, node *xmlquery.Node) (pack.Theme, error) {
	name := attr(node, "name")
	if name == "" {
		name = "Untitled Theme"
	}
	questionNodes := childElements(firstChild(node, "questions"), "question")
	questions := make([]pack.Question, 0, len(questionNodes))
	for _, qn := range questionNodes {
		q, err := c.convertQuestion(ctx, qn)
		if err != nil {
			return pack.Theme{}, err
		}
		questions = append(questions, q)
	}

	t := pack.Theme{
		ID:          c.nextThemeID,
		Name:        name,
		Description: infoComments(node),
		// The SIQ format's own ordering flag is not propagated; themes
		// always import unordered.
		Ordered:   false,
		Questions: questions,
	}
	c.nextThemeID++
	return t, nil
}

func (c *converter) convertQuestion(ctx context.Context, node *xmlquery.Node) (pack.Question, error) {
	params := childElements(firstChild(node, "params"), "param")
	questionParam := findParam(params, "question")
	answerParam := findParam(params, "answer")

	rules := c.paramsToRules(ctx, questionParam)
	if comments := infoComments(node); comments != "" {
		// Supplementary narration renders after the primary content.
		rules = append(rules, embeddedRule(comments))
	}

	afterRound := c.paramsToRules(ctx, answerParam)
	for _, ans := range childElements(firstChild(node, "right"), "answer") {
		if text := textContent(ans); text != "" {
			afterRound = append(afterRound, embeddedRule(text))
		}
	}

	qType := pack.QuestionNormal
	switch strings.ToLower(attr(node, "type")) {
	case "secret":
		qType = pack.QuestionSecret
	case "empty":
		qType = pack.QuestionEmpty
	}

	q := pack.Question{
		ID:         c.nextQuestionID,
		Type:       qType,
		Price:      extractPrice(node, params),
		Rules:      rules,
		AfterRound: afterRound,
	}
	c.nextQuestionID++
	return q, nil
}

// paramsToRules flattens a parameter node into an ordered rule
// sequence: nested <param> elements recurse depth-first, then each
// <item> contributes at most one rule.
func (c *converter) paramsToRules(ctx context.Context, paramNode *xmlquery.Node) []pack.Rule {
	if paramNode == nil {
		return nil
	}
	var rules []pack.Rule
	for _, nested := range childElements(paramNode, "param") {
		rules = append(rules, c.paramsToRules(ctx, nested)...)
	}
	for _, item := range childElements(paramNode, "item") {
		if rule, ok := c.itemToRule(ctx, item); ok {
			rules = append(rules, rule)
		}
	}
	return rules
}

// itemToRule converts one content item. Media items resolve through
// the source; when resolution fails but the reference text is
// non-empty, the raw text survives as an embedded rule so author
// intent is not silently dropped.
func (c *converter) itemToRule(ctx context.Context, item *xmlquery.Node) (pack.Rule, bool) {
	rawType := strings.ToLower(attr(item, "type"))
	contentText := textContent(item)

	switch rawType {
	case "image", "audio", "video":
		dataURI, err := c.src.LoadMedia(ctx, rawType, contentText)
		if err != nil {
			log.Printf("siq: media lookup failed for %s: %v", contentText, err)
			dataURI = ""
		}
		if dataURI == "" {
			if contentText == "" {
				return pack.Rule{}, false
			}
			return embeddedRule(contentText), true
		}
		switch rawType {
		case "audio":
			return embeddedRule(fmt.Sprintf(`<audio controls autoplay src="%s"></audio>`, dataURI)), true
		case "video":
			return embeddedRule(fmt.Sprintf(`<video controls autoplay style="max-width: 100%%;" src="%s"></video>`, dataURI)), true
		default:
			return embeddedRule(fmt.Sprintf(`<img src="%s" alt="%s" />`, dataURI, contentText)), true
		}
	}

	if contentText == "" {
		return pack.Rule{}, false
	}
	return embeddedRule(contentText), true
}

func embeddedRule(content string) pack.Rule {
	return pack.Rule{Type: pack.RuleEmbedded, Content: content, Duration: defaultRuleDuration}
}

func findParam(params []*xmlquery.Node, name string) *xmlquery.Node {
	for _, p := range params {
		if attr(p, "name") == name {
			return p
		}
	}
	return nil
}

// infoComments extracts the <info><comments> text of a node, or "".
func infoComments(node *xmlquery.Node) string {
	return textContent(firstChild(firstChild(node, "info"), "comments"))
}

func extractPrice(questionNode *xmlquery.Node, params []*xmlquery.Node) pack.Price {
	rawText := attr(questionNode, "price")
	if rawText == "" {
		rawText = "0"
	}
	var correct, incorrect int
	if v, err := strconv.ParseFloat(strings.TrimSpace(rawText), 64); err == nil && !math.IsNaN(v) && !math.IsInf(v, 0) {
		correct = int(v)
		incorrect = -int(math.Abs(v))
	}

	rng := "null"
	for _, p := range params {
		if attr(p, "name") != "price" || attr(p, "type") != "numberSet" {
			continue
		}
		ns := firstChild(p, "numberSet")
		minimum := attr(ns, "minimum")
		maximum := attr(ns, "maximum")
		if minimum != "" && maximum != "" {
			rng = minimum + "-" + maximum
		}
		break
	}

	return pack.Price{Text: rawText, Correct: correct, Incorrect: incorrect, RandomRange: rng}
}
