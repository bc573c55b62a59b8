package router

import (
	"strings"
	"testing"
)

func TestRouteCaption(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name    string
		caption string
		present bool
		want    Selection
	}{
		{"uppercase blur", "please BLUR this", true, Blur},
		{"hebrew contour", "קווי מתאר", true, Contour},
		{"salt n pepper", "some salt n pepper please", true, SaltAndPepper},
		{"salt and pepper", "Salt And Pepper", true, SaltAndPepper},
		{"segment", "segment", true, Segment},
		{"detect", "detect the objects", true, Detect},
		{"hebrew detect", "זיהוי", true, Detect},
		{"no caption", "", false, NoCaption},
		{"unmatched", "xyz", true, Unrecognized},
		{"empty but present", "", true, Unrecognized},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			if got := RouteCaption(tc.caption, tc.present); got != tc.want {
				t.Fatalf("RouteCaption(%q, %v) = %v, want %v", tc.caption, tc.present, got, tc.want)
			}
		})
	}
}

func TestRouteCaptionPriorityOrder(t *testing.T) {
	t.Parallel()

	// Captions are not required to be mutually exclusive; the fixed rule order
	// is the tie-break.
	if got := RouteCaption("blur then segment", true); got != Blur {
		t.Fatalf("expected Blur to win the tie, got %v", got)
	}
	if got := RouteCaption("segment or detect", true); got != Segment {
		t.Fatalf("expected Segment to win the tie, got %v", got)
	}
}

func TestRouteTextCommands(t *testing.T) {
	t.Parallel()

	if reply := RouteText("/start"); !strings.Contains(reply, "Welcome") {
		t.Fatalf("unexpected /start reply: %q", reply)
	}
	if reply := RouteText("/help"); !strings.Contains(reply, "caption") {
		t.Fatalf("unexpected /help reply: %q", reply)
	}
	actions := RouteText("/actions")
	if !strings.Contains(actions, "Blur - Blurs the image.") {
		t.Fatalf("unexpected /actions reply: %q", actions)
	}
	if legacy := RouteText("/filters"); legacy != actions {
		t.Fatal("expected /filters to resolve to the /actions reply")
	}
	if reply := RouteText("well, I HATE YOU bot"); reply != insultReply {
		t.Fatalf("unexpected insult reply: %q", reply)
	}
	if reply := RouteText("i love you"); reply != loveReply {
		t.Fatalf("unexpected love reply: %q", reply)
	}
}

func TestEasterEggSpellingsAreIdentical(t *testing.T) {
	t.Parallel()

	first := RouteText("supercalifragilisticexpialidocious")
	second := RouteText("supercalifragilisticexpialodocious")
	if first != second {
		t.Fatalf("easter egg replies differ: %q vs %q", first, second)
	}
	if first != easterEggReply {
		t.Fatalf("unexpected easter egg reply: %q", first)
	}
}

func TestRouteTextEchoesUnrecognizedVerbatim(t *testing.T) {
	t.Parallel()

	reply := RouteText("FooBar Baz")
	if !strings.Contains(reply, `"FooBar Baz"`) {
		t.Fatalf("expected verbatim echo in reply, got %q", reply)
	}
	if !strings.Contains(reply, "/help") {
		t.Fatalf("expected help pointer in reply, got %q", reply)
	}
}

func TestRouteTextEchoDoesNotEscapeQuotes(t *testing.T) {
	t.Parallel()

	reply := RouteText(`say "hi" to C:\tmp`)
	if !strings.Contains(reply, `("say "hi" to C:\tmp")`) {
		t.Fatalf("expected raw echo in reply, got %q", reply)
	}
	if strings.Contains(reply, `\"`) {
		t.Fatalf("echo must not escape quotes, got %q", reply)
	}
}
