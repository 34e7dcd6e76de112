package cli

import (
	"strings"

	"github.com/agnivade/levenshtein"
)

// Command is a parsed input line.
type Command struct {
	Verb string
	Args []string
}

// Directions accepted by walk, mapped to their canonical names.
var directionExpansions = map[string]string{
	"up":    "up",
	"down":  "down",
	"left":  "left",
	"right": "right",
	"north": "up",
	"south": "down",
	"west":  "left",
	"east":  "right",
	"u":     "up",
	"d":     "down",
}

var verbAliases = map[string]string{
	"l":        "look",
	"i":        "inventory",
	"inv":      "inventory",
	"e":        "interact",
	"use":      "interact",
	"talk":     "interact",
	"enter":    "interact",
	"go":       "walk",
	"move":     "walk",
	"z":        "wait",
	"n":        "next",
	"continue": "next",
	"b":        "back",
	"c":        "choose",
	"pick":     "choose",
	"select":   "choose",
	"purchase": "buy",
	"build":    "craft",
	"make":     "craft",
	"x":        "close",
	"leave":    "close",
	"cancel":   "close",
	"approach": "goto",
	"find":     "goto",
	"p":        "progress",
	"stats":    "progress",
	"debug":    "spots",
	"?":        "help",
}

// Verbs lists the canonical commands.
var Verbs = []string{
	"look", "inventory", "interact", "walk", "wait", "goto",
	"next", "back", "close", "choose", "buy", "craft",
	"progress", "spots", "help",
}

// Parse splits an input line into a canonical verb and its arguments. A
// bare direction is shorthand for walk.
func Parse(input string) Command {
	words := strings.Fields(strings.ToLower(strings.TrimSpace(input)))
	if len(words) == 0 {
		return Command{}
	}
	verb, args := words[0], words[1:]

	if canon, ok := verbAliases[verb]; ok {
		verb = canon
	}
	if _, ok := directionExpansions[verb]; ok {
		return Command{Verb: "walk", Args: words}
	}
	return Command{Verb: verb, Args: args}
}

// Known reports whether verb is a canonical command.
func Known(verb string) bool {
	for _, v := range Verbs {
		if v == verb {
			return true
		}
	}
	return false
}

// Suggest returns the command closest to an unknown verb, by edit distance
// against the canonical verbs and their aliases.
func Suggest(verb string) (string, bool) {
	if len(verb) < 2 {
		return "", false
	}
	best, bestDist := "", len(verb)
	consider := func(word, canon string) {
		d := levenshtein.ComputeDistance(verb, word)
		if d < bestDist || (d == bestDist && canon < best) {
			best, bestDist = canon, d
		}
	}
	for _, v := range Verbs {
		consider(v, v)
	}
	for alias, canon := range verbAliases {
		if len(alias) > 2 {
			consider(alias, canon)
		}
	}
	if best == "" || bestDist > max(1, len(verb)/3) {
		return "", false
	}
	return best, true
}

// walkArgs splits walk arguments into canonical directions and an optional
// duration in milliseconds. Unknown words are returned separately.
func walkArgs(args []string) (dirs []string, ms float64, unknown []string) {
	for _, a := range args {
		if d, ok := directionExpansions[a]; ok {
			dirs = append(dirs, d)
			continue
		}
		if n, ok := parseMillis(a); ok {
			ms = n
			continue
		}
		unknown = append(unknown, a)
	}
	return dirs, ms, unknown
}
