package parser

import (
	"fmt"
	"strconv"
	"strings"
	"unicode/utf16"
	"unicode/utf8"
)

// unquote decodes the body of a JavaScript string literal (without the
// surrounding quotes).
func unquote(body string) (string, error) {
	if strings.IndexByte(body, '\\') < 0 {
		return body, nil
	}

	var sb strings.Builder
	sb.Grow(len(body))
	for i := 0; i < len(body); i++ {
		c := body[i]
		if c != '\\' {
			sb.WriteByte(c)
			continue
		}
		i++
		if i >= len(body) {
			return "", fmt.Errorf("invalid escape at end of string")
		}
		switch e := body[i]; e {
		case 'n':
			sb.WriteByte('\n')
		case 't':
			sb.WriteByte('\t')
		case 'r':
			sb.WriteByte('\r')
		case 'b':
			sb.WriteByte('\b')
		case 'f':
			sb.WriteByte('\f')
		case 'v':
			sb.WriteByte('\v')
		case '0':
			if i+1 < len(body) && body[i+1] >= '0' && body[i+1] <= '9' {
				return "", fmt.Errorf("octal escape sequences are not allowed")
			}
			sb.WriteByte(0)
		case 'x':
			r, err := parseHex(body, i+1, 2)
			if err != nil {
				return "", err
			}
			sb.WriteRune(r)
			i += 2
		case 'u':
			r, n, err := parseUnicodeEscape(body, i+1)
			if err != nil {
				return "", err
			}
			i += n
			if utf16.IsSurrogate(r) && i+2 < len(body) && body[i+1] == '\\' && body[i+2] == 'u' {
				if r2, n2, err := parseUnicodeEscape(body, i+3); err == nil {
					if dec := utf16.DecodeRune(r, r2); dec != utf8.RuneError {
						r = dec
						i += 2 + n2
					}
				}
			}
			sb.WriteRune(r)
		case '\r':
			// Line continuation; \r\n counts as one terminator.
			if i+1 < len(body) && body[i+1] == '\n' {
				i++
			}
		case '\n':
			// Line continuation.
		default:
			sb.WriteByte(e)
		}
	}
	return sb.String(), nil
}

// parseUnicodeEscape parses the part after \u: either four hex digits or a
// braced code point. It returns the rune and the number of bytes consumed.
func parseUnicodeEscape(body string, i int) (rune, int, error) {
	if i < len(body) && body[i] == '{' {
		end := strings.IndexByte(body[i:], '}')
		if end < 2 {
			return 0, 0, fmt.Errorf("invalid unicode escape")
		}
		r, err := parseHex(body, i+1, end-1)
		if err != nil {
			return 0, 0, err
		}
		if r > utf8.MaxRune {
			return 0, 0, fmt.Errorf("unicode escape out of range")
		}
		return r, end + 1, nil
	}
	r, err := parseHex(body, i, 4)
	return r, 4, err
}

func parseHex(body string, i, n int) (rune, error) {
	if i+n > len(body) {
		return 0, fmt.Errorf("invalid hexadecimal escape")
	}
	v, err := strconv.ParseUint(body[i:i+n], 16, 32)
	if err != nil {
		return 0, fmt.Errorf("invalid hexadecimal escape %q", body[i:i+n])
	}
	return rune(v), nil
}
