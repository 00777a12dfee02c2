package harness

// StripJSONC removes // and /* */ comments from JSONC content so it can
// be fed to encoding/json. String contents are left untouched. Trailing
// commas are not handled; the harnesses that emit JSONC do not write
// them.
func StripJSONC(src string) string {
	out := make([]byte, 0, len(src))

	const (
		code = iota
		str
		lineComment
		blockComment
	)
	state := code
	escaped := false

	for i := 0; i < len(src); i++ {
		c := src[i]
		switch state {
		case code:
			switch {
			case c == '"':
				state = str
				out = append(out, c)
			case c == '/' && i+1 < len(src) && src[i+1] == '/':
				state = lineComment
				i++
			case c == '/' && i+1 < len(src) && src[i+1] == '*':
				state = blockComment
				i++
			default:
				out = append(out, c)
			}
		case str:
			out = append(out, c)
			if escaped {
				escaped = false
			} else if c == '\\' {
				escaped = true
			} else if c == '"' {
				state = code
			}
		case lineComment:
			if c == '\n' {
				state = code
				out = append(out, c)
			}
		case blockComment:
			if c == '*' && i+1 < len(src) && src[i+1] == '/' {
				state = code
				i++
			}
		}
	}

	return string(out)
}
