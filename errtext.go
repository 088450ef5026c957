package mbqc

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

var (
	edgeRefRe     = regexp.MustCompile(`\b([Ee]dge) \((\d+), (\d+)\)`)
	nodeRefRe     = regexp.MustCompile(`\b([Nn]ode) (\d+)\b`)
	bracketListRe = regexp.MustCompile(`\[(\d+(?:,\s*\d+)*)\]`)
)

// TranslateErrorText rewrites engine-reported node indices in msg to wire
// ids: bracketed comma-separated integer lists, "node <int>" tokens, and
// "Edge (<int>, <int>)" pairs, each preserving the original prefix's
// capitalization. An index the reverse map cannot resolve renders as
// ?<index> so the message still reaches the caller. Best-effort text
// surgery, not a structured channel.
func TranslateErrorText(msg string, ids *IDMap) string {
	msg = edgeRefRe.ReplaceAllStringFunc(msg, func(m string) string {
		parts := edgeRefRe.FindStringSubmatch(m)
		return fmt.Sprintf("%s (%s, %s)", parts[1], idToken(parts[2], ids), idToken(parts[3], ids))
	})
	msg = nodeRefRe.ReplaceAllStringFunc(msg, func(m string) string {
		parts := nodeRefRe.FindStringSubmatch(m)
		return parts[1] + " " + idToken(parts[2], ids)
	})
	msg = bracketListRe.ReplaceAllStringFunc(msg, func(m string) string {
		inner := m[1 : len(m)-1]
		fields := strings.Split(inner, ",")
		for i, f := range fields {
			fields[i] = idToken(strings.TrimSpace(f), ids)
		}
		return "[" + strings.Join(fields, ", ") + "]"
	})
	return msg
}

func idToken(num string, ids *IDMap) string {
	idx, err := strconv.Atoi(num)
	if err != nil {
		return num
	}
	if id, ok := ids.ID(idx); ok {
		return id
	}
	return "?" + num
}
