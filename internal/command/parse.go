package command

import (
	"strings"
	"unicode"

	"github.com/dekarrin/fsmc/internal/fsmerrors"
)

var (
	// VerbAliases maps shorthand verbs (which must be the first words in a
	// command) to their canonical forms. They are all uppercase.
	VerbAliases map[string]string = map[string]string{
		"RE":      "REGEX",
		"REGEXP":  "REGEX",
		"COMPILE": "REGEX",
		"GR":      "GRAMMAR",
		"READ":    "LOAD",
		"OPEN":    "LOAD",
		"WRITE":   "SAVE",
		"PRINT":   "SHOW",
		"DISPLAY": "SHOW",
		"TREE":    "SHOW AST",
		"ORIGINS": "SHOW ORIGINS",
		"TEST":    "MATCH",
		"RUN":     "MATCH",
		"STATUS":  "INFO",
		"BYE":     "QUIT",
		"EXIT":    "QUIT",
		"Q":       "QUIT",
		"?":       "HELP",
		"/?":      "HELP",
		"/H":      "HELP",
		"-H":      "HELP",
		"H":       "HELP",
	}

	automatonKinds = []string{"NFA", "DFA"}
	saveKinds      = []string{"NFA", "DFA", "MEALY"}
	showKinds      = []string{"NFA", "DFA", "MEALY", "AST", "ORIGINS"}
)

// ParseCommand parses a command from the given text. If it cannot, a non-nil
// error is returned.
//
// If an empty string or a string composed only of whitespace is passed in, nil
// error is returned and a zero value for Command will be returned.
func ParseCommand(toParse string) (Command, error) {
	var parsedCmd Command

	// make entire input upper case to make matching easy
	normalizedCase := strings.ToUpper(toParse)

	// now tokenize our string, collapsing all whitespace
	originalTokens := strings.Fields(normalizedCase)

	// expand verb aliases up to 2 words long
	tokens, consumed := expandVerb(originalTokens, 2)

	if len(tokens) < 1 {
		return parsedCmd, nil
	}

	parsedCmd.Verb = tokens[0]

	// words of the original input that are not part of the verb
	rest := originalTokens[consumed:]

	switch parsedCmd.Verb {
	case "HELP":
		// help takes an optional argument
		if len(tokens) > 1 {
			helpTokens, _ := expandVerb(tokens[1:], 2)
			parsedCmd.Recipient = helpTokens[0]
		}
	case "REGEX":
		parsedCmd.Argument = skipWords(toParse, consumed)
		if parsedCmd.Argument == "" {
			return parsedCmd, fsmerrors.Commandf("I need a pattern to compile, like %s (a|b)*c", originalTokens[0])
		}
	case "GRAMMAR", "LOAD", "MEALY":
		parsedCmd.Argument = skipWords(toParse, consumed)
		if parsedCmd.Argument == "" {
			return parsedCmd, fsmerrors.Commandf("I need the path of a file to %s", strings.ToLower(originalTokens[0]))
		}
	case "SAVE":
		parsedCmd.Recipient = "DFA"
		skip := consumed
		if len(rest) > 0 && oneOf(rest[0], saveKinds) {
			parsedCmd.Recipient = rest[0]
			skip++
		}
		parsedCmd.Argument = skipWords(toParse, skip)
		if parsedCmd.Argument == "" {
			return parsedCmd, fsmerrors.Commandf("I need the path of a file to save the %s to", parsedCmd.Recipient)
		}
	case "SHOW", "DOT":
		kinds := showKinds
		if parsedCmd.Verb == "DOT" {
			kinds = automatonKinds
		}

		parsedCmd.Recipient = "DFA"
		if len(tokens) > 1 {
			parsedCmd.Recipient = tokens[1]
		}
		if !oneOf(parsedCmd.Recipient, kinds) {
			return parsedCmd, fsmerrors.Commandf("I can't %s %q; try one of %s", originalTokens[0], parsedCmd.Recipient, strings.Join(kinds, ", "))
		}
		if len(tokens) > 2 {
			return parsedCmd, fsmerrors.Commandf("%s takes at most one thing to show", originalTokens[0])
		}
	case "MATCH":
		// an empty argument is the empty string, which is a valid input
		parsedCmd.Argument = skipWords(toParse, consumed)
	case "TRIM", "INFO", "QUIT":
		// these take no additional args, make sure this is true
		if len(tokens) > 1 {
			errMsg := "You can't %s *something*; type %s by itself"
			return parsedCmd, fsmerrors.Commandf(errMsg, originalTokens[0], originalTokens[0])
		}
	default:
		return parsedCmd, fsmerrors.Commandf("I don't know what you mean by %q", originalTokens[0])
	}

	return parsedCmd, nil
}

// ExpandAliases takes a slice of tokens of user input and runs alias expansion
// on it. It expects all strings in the given slice to be upper case; failure to
// ensure this may cause the expansion to not work properly. The returned slice
// contains the same tokens but with aliases expanded.
//
// The unexpanded tokens slice is not modified during this operation.
//
// Aliases up to aliasLimit words long are supported. If it is less than 0, it
// is assumed to be 0. Passing 0 means the given tokens will be returned
// unchanged.
//
// Aliases will not be multi-expanded; that is, expansion is not applied to the
// results of an expansion; if the caller needs it, they will need to call
// ExpandAliases again on its output.
func ExpandAliases(tokens []string, aliasLimit int) []string {
	expanded, _ := expandVerb(tokens, aliasLimit)
	return expanded
}

// expandVerb is ExpandAliases but also returns how many of the given tokens
// made up the verb. That is 1 if no alias matched.
func expandVerb(tokens []string, aliasLimit int) ([]string, int) {
	expandedTokens := append([]string{}, tokens...)
	if len(tokens) == 0 {
		return expandedTokens, 0
	}
	if aliasLimit < 1 {
		return expandedTokens, 1
	}

	// only modify verb up to minimum of limit and number of tokens
	if aliasLimit > len(tokens) {
		aliasLimit = len(tokens)
	}

	for curLimit := 1; curLimit <= aliasLimit; curLimit++ {
		checkStr := strings.Join(tokens[:curLimit], " ")
		expansion, ok := VerbAliases[checkStr]
		if ok {
			replacementTokens := strings.Fields(expansion)

			// we are operating from start of tokens passed in so we can just
			// trash all those in the checkStr and replace with the
			// replacementTokens slice
			expandedTokens = append(replacementTokens, tokens[curLimit:]...)
			return expandedTokens, curLimit
		}
	}

	return expandedTokens, 1
}

// skipWords returns s with its first n whitespace-separated words and the
// whitespace around them removed. The rest of s is returned exactly as given
// except for trailing whitespace.
func skipWords(s string, n int) string {
	s = strings.TrimSpace(s)
	for i := 0; i < n; i++ {
		idx := strings.IndexFunc(s, unicode.IsSpace)
		if idx < 0 {
			return ""
		}
		s = strings.TrimLeftFunc(s[idx:], unicode.IsSpace)
	}
	return s
}

func oneOf(s string, options []string) bool {
	for i := range options {
		if options[i] == s {
			return true
		}
	}
	return false
}
