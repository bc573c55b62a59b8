// Package router classifies inbound messages: photo captions resolve to a
// filter or detection selection, plain text resolves to a command reply. Both
// routers are declarative keyword tables so the matching is data-driven and
// testable on its own.
package router

import "strings"

// Selection is the resolved action for a photo message.
type Selection int

const (
	// Unrecognized means a caption was present but matched no keyword.
	Unrecognized Selection = iota
	// NoCaption means the photo carried no caption at all.
	NoCaption
	Blur
	Contour
	SaltAndPepper
	Segment
	Detect
)

// String names the selection for logs.
func (s Selection) String() string {
	switch s {
	case NoCaption:
		return "no-caption"
	case Blur:
		return "blur"
	case Contour:
		return "contour"
	case SaltAndPepper:
		return "salt-and-pepper"
	case Segment:
		return "segment"
	case Detect:
		return "detect"
	default:
		return "unrecognized"
	}
}

// captionRules maps each selection to its trigger substrings (English and
// Hebrew). Order is the priority order: when a caption matches several rules,
// the first one wins.
var captionRules = []struct {
	selection Selection
	keywords  []string
}{
	{Blur, []string{"blur", "טשטוש"}},
	{Contour, []string{"contour", "קווי מתאר"}},
	{SaltAndPepper, []string{"salt n pepper", "salt and pepper", "מלח פלפל"}},
	{Segment, []string{"segment", "חלוקה"}},
	{Detect, []string{"detect", "זיהוי", "זהה"}},
}

// RouteCaption resolves a photo caption to a selection. present is false when
// the photo carried no caption, a distinct outcome from an unmatched one.
// Matching is case-insensitive substring containment.
func RouteCaption(caption string, present bool) Selection {
	if !present {
		return NoCaption
	}
	lowered := strings.ToLower(caption)
	for _, rule := range captionRules {
		for _, kw := range rule.keywords {
			if strings.Contains(lowered, kw) {
				return rule.selection
			}
		}
	}
	return Unrecognized
}
