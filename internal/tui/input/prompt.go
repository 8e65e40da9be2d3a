// Package input provides completion for the filter prompt.
package input

import "strings"

// Suggestion describes a completion entry.
type Suggestion struct {
	Name        string
	Description string
}

// FilterKeys are the keys the filter prompt understands.
var FilterKeys = []Suggestion{
	{Name: "court:", Description: "courts, comma separated"},
	{Name: "status:", Description: "confirmed, pending, completed, cancelled or all"},
	{Name: "type:", Description: "booking types, comma separated"},
	{Name: "hours:", Description: "time of day, HH:MM-HH:MM"},
	{Name: "date:", Description: "today, week, month, all or FROM..TO"},
	{Name: "mine", Description: "only bookings I created"},
}

// lastWord returns the word being typed and everything before it.
func lastWord(input string) (head, word string) {
	i := strings.LastIndexByte(input, ' ')
	return input[:i+1], input[i+1:]
}

// Matching returns the suggestions whose name starts with the word being
// typed. A word that already has a value, or no word at all, matches nothing.
func Matching(input string, options []Suggestion) []Suggestion {
	_, word := lastWord(input)
	if word == "" || strings.Contains(word, ":") {
		return nil
	}
	prefix := strings.ToLower(word)
	var matches []Suggestion
	for _, opt := range options {
		if strings.HasPrefix(opt.Name, prefix) {
			matches = append(matches, opt)
		}
	}
	return matches
}

// Autocomplete replaces the word being typed with the first match.
func Autocomplete(input string, options []Suggestion) (string, bool) {
	matches := Matching(input, options)
	if len(matches) == 0 {
		return "", false
	}
	head, _ := lastWord(input)
	completed := head + matches[0].Name
	if !strings.HasSuffix(completed, ":") {
		completed += " "
	}
	return completed, true
}
