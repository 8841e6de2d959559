package markdown

import "strings"

const defaultLanguage = "plain text"

// languages is the set of code languages the remote accepts.
var languages = map[string]struct{}{
	"abap": {}, "arduino": {}, "bash": {}, "basic": {}, "c": {}, "clojure": {},
	"coffeescript": {}, "c++": {}, "c#": {}, "css": {}, "dart": {}, "diff": {},
	"docker": {}, "elixir": {}, "elm": {}, "erlang": {}, "flow": {}, "fortran": {},
	"f#": {}, "gherkin": {}, "glsl": {}, "go": {}, "graphql": {}, "groovy": {},
	"haskell": {}, "html": {}, "java": {}, "javascript": {}, "json": {}, "julia": {},
	"kotlin": {}, "latex": {}, "less": {}, "lisp": {}, "livescript": {}, "lua": {},
	"makefile": {}, "markdown": {}, "markup": {}, "matlab": {}, "mermaid": {},
	"nix": {}, "objective-c": {}, "ocaml": {}, "pascal": {}, "perl": {}, "php": {},
	"plain text": {}, "powershell": {}, "prolog": {}, "protobuf": {}, "python": {},
	"r": {}, "reason": {}, "ruby": {}, "rust": {}, "sass": {}, "scala": {},
	"scheme": {}, "scss": {}, "shell": {}, "sql": {}, "swift": {}, "typescript": {},
	"vb.net": {}, "verilog": {}, "vhdl": {}, "visual basic": {}, "webassembly": {},
	"xml": {}, "yaml": {}, "java/c/c++/c#": {},
}

var aliases = map[string]string{
	"sh":         "shell",
	"zsh":        "shell",
	"console":    "shell",
	"js":         "javascript",
	"jsx":        "javascript",
	"mjs":        "javascript",
	"ts":         "typescript",
	"tsx":        "typescript",
	"py":         "python",
	"rb":         "ruby",
	"rs":         "rust",
	"golang":     "go",
	"yml":        "yaml",
	"md":         "markdown",
	"cpp":        "c++",
	"cc":         "c++",
	"cs":         "c#",
	"csharp":     "c#",
	"fsharp":     "f#",
	"kt":         "kotlin",
	"ps1":        "powershell",
	"dockerfile": "docker",
	"tex":        "latex",
	"proto":      "protobuf",
	"objc":       "objective-c",
	"wasm":       "webassembly",
	"text":       defaultLanguage,
	"txt":        defaultLanguage,
	"plaintext":  defaultLanguage,
}

// Language maps a fence info string onto a language the remote accepts.
func Language(info string) string {
	name := strings.ToLower(strings.TrimSpace(info))
	if alias, ok := aliases[name]; ok {
		return alias
	}
	if _, ok := languages[name]; ok {
		return name
	}
	return defaultLanguage
}
