package render

import (
	"fmt"
	"strings"

	"github.com/dekarrin/fsmc/internal/regex"
)

const (
	treeLevelEmpty               = "        "
	treeLevelOngoing             = "  |     "
	treeLevelPrefix              = "  |%s: "
	treeLevelPrefixLast          = `  \%s: `
	treeLevelPrefixNamePadChar   = '-'
	treeLevelPrefixNamePadAmount = 3
)

func makeTreeLevelPrefix(msg string) string {
	return fmt.Sprintf(treeLevelPrefix, padTreeName(msg))
}

func makeTreeLevelPrefixLast(msg string) string {
	return fmt.Sprintf(treeLevelPrefixLast, padTreeName(msg))
}

func padTreeName(msg string) string {
	for len([]rune(msg)) < treeLevelPrefixNamePadAmount {
		msg = string(treeLevelPrefixNamePadChar) + msg
	}
	return msg
}

// Tree returns a multi-line drawing of a parsed regular expression with one
// node per line.
func Tree(n regex.Node) string {
	return leveledStr(n, "", "")
}

func leveledStr(n regex.Node, firstPrefix, contPrefix string) string {
	switch n := n.(type) {
	case regex.Literal:
		if n.Symbol == regex.Epsilon {
			return firstPrefix + "(EPSILON)"
		}
		return firstPrefix + fmt.Sprintf("(LITERAL %q)", n.Symbol)
	case regex.Concat:
		return binaryStr("CONCAT", n.Left, n.Right, firstPrefix, contPrefix)
	case regex.Alternation:
		return binaryStr("ALT", n.Left, n.Right, firstPrefix, contPrefix)
	case regex.Star:
		return unaryStr("STAR", n.Inner, firstPrefix, contPrefix)
	case regex.Plus:
		return unaryStr("PLUS", n.Inner, firstPrefix, contPrefix)
	case nil:
		return firstPrefix + "(NIL)"
	default:
		return firstPrefix + fmt.Sprintf("(UNKNOWN %T)", n)
	}
}

func unaryStr(name string, inner regex.Node, firstPrefix, contPrefix string) string {
	var sb strings.Builder

	sb.WriteString(firstPrefix)
	sb.WriteString("(" + name + ")\n")
	sb.WriteString(leveledStr(inner, contPrefix+makeTreeLevelPrefixLast(""), contPrefix+treeLevelEmpty))

	return sb.String()
}

func binaryStr(name string, left, right regex.Node, firstPrefix, contPrefix string) string {
	var sb strings.Builder

	sb.WriteString(firstPrefix)
	sb.WriteString("(" + name + ")\n")
	sb.WriteString(leveledStr(left, contPrefix+makeTreeLevelPrefix("L"), contPrefix+treeLevelOngoing))
	sb.WriteRune('\n')
	sb.WriteString(leveledStr(right, contPrefix+makeTreeLevelPrefixLast("R"), contPrefix+treeLevelEmpty))

	return sb.String()
}
