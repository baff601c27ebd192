package pack

import (
	"regexp"
	"strings"
)

// NormalizeQuestionIDs assigns IDs to questions that have none,
// continuing after the highest ID already present. Questions that
// arrived with an ID keep it, so converter output (always fully
// numbered) passes through unchanged.
func NormalizeQuestionIDs(p Pack) Pack {
	nextID := 1
	for _, r := range p.Rounds {
		for _, t := range r.Themes {
			for _, q := range t.Questions {
				if q.ID >= nextID {
					nextID = q.ID + 1
				}
			}
		}
	}
	for ri := range p.Rounds {
		for ti := range p.Rounds[ri].Themes {
			qs := p.Rounds[ri].Themes[ti].Questions
			for qi := range qs {
				if qs[qi].ID == 0 {
					qs[qi].ID = nextID
					nextID++
				}
			}
		}
	}
	return p
}

// NextQuestionID returns one past the highest question ID in the pack.
func NextQuestionID(p Pack) int {
	maxID := 0
	for _, r := range p.Rounds {
		for _, t := range r.Themes {
			for _, q := range t.Questions {
				if q.ID > maxID {
					maxID = q.ID
				}
			}
		}
	}
	return maxID + 1
}

var (
	tagRE      = regexp.MustCompile(`<[^>]*>`)
	mediaTagRE = regexp.MustCompile(`<(img|video|audio|iframe)[^>]*>`)
	spaceRunRE = regexp.MustCompile(`\s+`)
)

// IsContentEmpty reports whether rich-text rule content is effectively
// blank: no text beyond whitespace/non-breaking spaces and no media
// element.
func IsContentEmpty(content string) bool {
	if content == "" {
		return true
	}
	plain := tagRE.ReplaceAllString(content, "")
	plain = strings.ReplaceAll(plain, "&nbsp;", " ")
	plain = strings.ReplaceAll(plain, "\u00a0", " ")
	if strings.TrimSpace(plain) != "" {
		return false
	}
	return !mediaTagRE.MatchString(content)
}

// DownloadFileName derives an export filename stem from a pack name.
func DownloadFileName(name string) string {
	if name == "" {
		return "pack"
	}
	return spaceRunRE.ReplaceAllString(strings.ToLower(name), "-")
}
