// Package shell renders directives for the wrapper function that users
// install in their interactive shell, and generates that function.
//
// A process cannot change its parent's working directory, so `lane new` and
// `lane switch` print a line of the form "__lane_cd:<path>" as the very last
// line of stdout. The wrapper captures the output, prints everything before
// that line and runs cd on the path.
package shell

import (
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/shinji-kodama/lane/internal/model"
)

// CDPrefix marks a change-directory line for the wrapper function.
const CDPrefix = "__lane_cd:"

// Kind is a supported interactive shell.
type Kind string

const (
	Bash Kind = "bash"
	Zsh  Kind = "zsh"
	Fish Kind = "fish"
)

// Encode renders d as the line the wrapper understands.
func Encode(d model.Directive) string {
	switch d := d.(type) {
	case model.ChangeDir:
		return CDPrefix + d.Path
	case model.Message:
		return d.Text
	default:
		return ""
	}
}

// Emit writes d to w followed by a newline. Empty messages write nothing.
func Emit(w io.Writer, d model.Directive) error {
	line := Encode(d)
	if line == "" {
		return nil
	}
	_, err := fmt.Fprintln(w, line)
	return err
}

// Decode is the inverse of Encode for a single line.
func Decode(line string) model.Directive {
	if path, ok := strings.CutPrefix(line, CDPrefix); ok {
		return model.ChangeDir{Path: path}
	}
	return model.Message{Text: line}
}

// Detect guesses the shell kind from a $SHELL value. Anything that is not
// fish gets the POSIX-style function, which works for both bash and zsh.
func Detect(shellEnv string) Kind {
	switch base := filepath.Base(shellEnv); {
	case strings.Contains(base, "fish"):
		return Fish
	case strings.Contains(base, "bash"):
		return Bash
	default:
		return Zsh
	}
}

// RCFile returns the startup file the function should be added to.
func (k Kind) RCFile() string {
	switch k {
	case Fish:
		return "~/.config/fish/config.fish"
	case Bash:
		return "~/.bashrc"
	default:
		return "~/.zshrc"
	}
}

// Script returns the wrapper function for k.
func Script(k Kind) string {
	if k == Fish {
		return fishScript
	}
	return posixScript
}

const fishScript = `# Add this to ~/.config/fish/config.fish
function lane
    set -l result (command lane $argv)
    set -l code $status

    for line in $result
        if string match -q "__lane_cd:*" -- "$line"
            cd (string replace "__lane_cd:" "" -- "$line")
        else
            echo "$line"
        end
    end

    return $code
end
`

const posixScript = `# Add this to ~/.zshrc or ~/.bashrc
lane() {
  local result
  result=$(command lane "$@")
  local code=$?

  if [[ "$result" == *$'\n__lane_cd:'* ]]; then
    echo "${result%$'\n'__lane_cd:*}"
    cd "${result##*__lane_cd:}"
  elif [[ "$result" == __lane_cd:* ]]; then
    cd "${result#__lane_cd:}"
  else
    [[ -n "$result" ]] && echo "$result"
  fi

  return $code
}
`
