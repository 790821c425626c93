package latex

import "strings"

var escaper = strings.NewReplacer(
	`\`, `\textbackslash{}`,
	`{`, `\{`,
	`}`, `\}`,
	`$`, `\$`,
	`&`, `\&`,
	`#`, `\#`,
	`^`, `\textasciicircum{}`,
	`_`, `\_`,
	`%`, `\%`,
	`~`, `\textasciitilde{}`,
)

// Escape makes plain text safe to embed in LaTeX source. Nodes never
// escape their own content; callers lifting text from other formats do.
func Escape(s string) string {
	return escaper.Replace(s)
}
