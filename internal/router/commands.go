package router

import (
	"fmt"
	"strings"
)

const (
	startReply = "Oh, Hi there!\nWelcome to the Snapsight image bot!\n\n" +
		"For information on how to use the bot type \"/help\".\n" +
		"For the list of actions type \"/actions\"."

	helpReply = "In order to use the bot properly you should send any photo, and in the \"caption\" " +
		"type in the name of the action you want to apply.\n\n" +
		"For the list of actions available right now you can type \"/actions\"."

	actionsReply = "The list of actions is:\n\n" +
		"Blur - Blurs the image.\n" +
		"Contour - Shows only outlines.\n" +
		"Salt n Pepper - Randomly place white and black pixels over the picture.\n" +
		"Segment - Makes all the bright parts white and all the dark parts black.\n" +
		"Detect - Finds the objects in the picture and counts them.\n\n" +
		"For information on how to use the actions you can type \"/help\"."

	insultReply = "You've insulted me! And that is not nice at all.. You should be ashamed of yourself."

	loveReply = "Awwww, I love you too! <3 XOXO"

	easterEggReply = "https://boulderbugle.com/super-secret-easter-egg-39tz7pni"

	unrecognizedTemplate = "What you've typed (\"%s\") is not a recognisable command.\n\nTry typing \"/help\""
)

// commandRules maps trigger substrings to their fixed reply, in match order.
// Both misspellings of the easter egg resolve to the identical response.
var commandRules = []struct {
	triggers []string
	reply    string
}{
	{[]string{"/start"}, startReply},
	{[]string{"/help"}, helpReply},
	{[]string{"/actions", "/filters"}, actionsReply},
	{[]string{"i hate you"}, insultReply},
	{[]string{"i love you"}, loveReply},
	{[]string{"supercalifragilisticexpialidocious", "supercalifragilisticexpialodocious"}, easterEggReply},
}

// RouteText resolves a text message to its reply. Unmatched text gets the
// "not recognisable" template echoing the original text verbatim.
func RouteText(text string) string {
	lowered := strings.ToLower(text)
	for _, rule := range commandRules {
		for _, trigger := range rule.triggers {
			if strings.Contains(lowered, trigger) {
				return rule.reply
			}
		}
	}
	return fmt.Sprintf(unrecognizedTemplate, text)
}
