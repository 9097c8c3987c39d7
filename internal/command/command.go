// Package command defines workbench command data types and handles parsing of
// commands from input sources.
package command

// Command is a valid command received from a workbench input source.
type Command struct {

	// Verb is the canonical name of the command being invoked, such as
	// "REGEX", "SHOW", "MATCH", or "QUIT". Some verbs have shorthand forms
	// which are typed differently, for instance "RE" could be typed instead of
	// "REGEX", and for all those cases they result in a Command with the
	// canonical verb.
	Verb string

	// Recipient is the thing the command acts on when it is chosen from a
	// fixed set, for instance "NFA" in "SHOW NFA". It is always upper case.
	Recipient string

	// Argument is free-form text given to the command, such as the pattern in
	// "REGEX (a|b)*c" or the path in "LOAD machine.csv". Unlike the rest of
	// the command, its case and inner spacing are kept exactly as typed.
	Argument string
}

// Verbs is every canonical verb along with a one-line description of what it
// does, in the order they are listed by HELP.
var Verbs = [][2]string{
	{"REGEX", "REGEX PATTERN: compile a regular expression to an NFA and a DFA"},
	{"GRAMMAR", "GRAMMAR FILE: build the automata from a regular grammar file"},
	{"LOAD", "LOAD FILE: read an automaton from a transition table and determinize it"},
	{"MEALY", "MEALY FILE: read a Mealy machine table and convert it to a Moore automaton"},
	{"SAVE", "SAVE [NFA|DFA|MEALY] FILE: write an automaton as a transition table"},
	{"SHOW", "SHOW [NFA|DFA|MEALY|AST|ORIGINS]: print the current automaton or pattern tree"},
	{"DOT", "DOT [NFA|DFA]: print the automaton in Graphviz format"},
	{"MATCH", "MATCH INPUT: check whether the DFA accepts the input"},
	{"TRIM", "TRIM: remove states that cannot be reached from the start state"},
	{"INFO", "INFO: summarize what is currently loaded"},
	{"HELP", "HELP [COMMAND]: show the commands or help on one command"},
	{"QUIT", "QUIT: leave the workbench"},
}
