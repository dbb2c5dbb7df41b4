package slack

import "strings"

var broadcastMarkers = []string{"<!channel>", "<!here>", "<!everyone>"}

// FilterMentions returns the messages whose text contains a direct mention of
// userID ("<@userID>") or a broadcast marker. Matching is a case-sensitive
// substring test. Input order is kept and the result is never nil.
func FilterMentions(messages []Message, userID string) []Message {
	result := make([]Message, 0, len(messages))
	if len(messages) == 0 {
		return result
	}

	direct := "<@" + userID + ">"
	for _, msg := range messages {
		if isMention(msg.text, direct) {
			result = append(result, msg)
		}
	}
	return result
}

func isMention(text, direct string) bool {
	if strings.Contains(text, direct) {
		return true
	}
	for _, marker := range broadcastMarkers {
		if strings.Contains(text, marker) {
			return true
		}
	}
	return false
}
