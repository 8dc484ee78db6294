// Package pathnorm simplifies slash-separated paths lexically.
//
// Unlike path.Clean it keeps the "./" marker of dotted-relative paths, so a
// specifier written as "./a/../b" stays recognisable as relative after
// normalization ("./b"). It never touches the filesystem and never resolves
// symbolic links.
package pathnorm

import "strings"

// Normalize returns the shortest lexically equivalent form of p.
//
//	"/a//./b"    -> "/a/b"
//	"/a/b/../c"  -> "/a/c"
//	"./a/../b"   -> "./b"
//	"../a/b"     -> "../a/b"
//	"/"          -> "/"
//
// Leading ".." segments are kept for relative paths and dropped for
// absolute ones, since the root has no parent.
func Normalize(p string) string {
	absolute := strings.HasPrefix(p, "/")
	dotted := p == "." || strings.HasPrefix(p, "./")

	var stack []string
	for _, seg := range strings.Split(p, "/") {
		switch seg {
		case "", ".":
			continue
		case "..":
			if n := len(stack); n > 0 && stack[n-1] != ".." {
				stack = stack[:n-1]
				continue
			}
			if !absolute {
				stack = append(stack, "..")
			}
		default:
			stack = append(stack, seg)
		}
	}

	joined := strings.Join(stack, "/")
	switch {
	case absolute:
		return "/" + joined
	case dotted && joined == "":
		return "."
	case dotted:
		return "./" + joined
	default:
		return joined
	}
}

// Join concatenates elem with "/" and normalizes the result. An absolute
// element discards everything before it, the way a path buffer join does.
func Join(elem ...string) string {
	var parts []string
	for _, e := range elem {
		if e == "" {
			continue
		}
		if strings.HasPrefix(e, "/") {
			parts = parts[:0]
		}
		parts = append(parts, e)
	}
	return Normalize(strings.Join(parts, "/"))
}
