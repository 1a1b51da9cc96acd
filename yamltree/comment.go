package yamltree

import (
	"strings"

	"github.com/goccy/go-yaml/ast"
)

// ExtractDescription pulls a plain-text description out of a mapping
// entry's head or inline comments, usable as a property's description
// when no explicit `description:` key is present. No package of this
// module calls it. Returns "" when no usable comment is found.
func ExtractDescription(node *ast.MappingValueNode) string {
	if node == nil {
		return ""
	}

	if desc := fromCommentGroup(node.GetComment()); desc != "" {
		return desc
	}

	if node.Value != nil {
		if desc := fromCommentGroup(node.Value.GetComment()); desc != "" {
			return desc
		}
	}

	if keyNode, ok := node.Key.(ast.Node); ok {
		if desc := fromCommentGroup(keyNode.GetComment()); desc != "" {
			return desc
		}
	}

	return ""
}

func fromCommentGroup(comment *ast.CommentGroupNode) string {
	if comment == nil {
		return ""
	}

	return cleanComment(comment.String())
}

// cleanComment strips comment markers and whitespace, joining a
// multi-line comment with spaces and keeping only the lines after the
// last blank line (so a long leading license/copyright block doesn't
// leak into a property's description).
func cleanComment(s string) string {
	lines := strings.Split(s, "\n")

	lastBlank := -1

	for i, line := range lines {
		if strings.TrimSpace(stripCommentPrefix(line)) == "" {
			lastBlank = i
		}
	}

	start := 0
	if lastBlank >= 0 && lastBlank < len(lines)-1 {
		start = lastBlank + 1
	}

	var parts []string

	for _, line := range lines[start:] {
		cleaned := strings.TrimSpace(stripCommentPrefix(line))
		if cleaned != "" {
			parts = append(parts, cleaned)
		}
	}

	return strings.Join(parts, " ")
}

// stripCommentPrefix removes leading "#" characters and a single space.
func stripCommentPrefix(line string) string {
	line = strings.TrimSpace(line)
	for strings.HasPrefix(line, "#") {
		line = strings.TrimPrefix(line, "#")
	}

	return strings.TrimPrefix(line, " ")
}
