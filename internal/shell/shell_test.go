package shell

import (
	"bytes"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shinji-kodama/lane/internal/model"
)

func TestEncodeDecode(t *testing.T) {
	assert.Equal(t, "__lane_cd:/tmp/app-lane-x", Encode(model.ChangeDir{Path: "/tmp/app-lane-x"}))
	assert.Equal(t, "hello", Encode(model.Message{Text: "hello"}))
	assert.Equal(t, "", Encode(nil))

	assert.Equal(t, model.ChangeDir{Path: "/a b/c"}, Decode("__lane_cd:/a b/c"))
	assert.Equal(t, model.Message{Text: "Lanes:"}, Decode("Lanes:"))
}

func TestEmit(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Emit(&buf, model.Message{Text: "created"}))
	require.NoError(t, Emit(&buf, model.Message{}))
	require.NoError(t, Emit(&buf, model.ChangeDir{Path: "/x"}))
	assert.Equal(t, "created\n__lane_cd:/x\n", buf.String())
}

func TestDetect(t *testing.T) {
	tests := []struct {
		env  string
		want Kind
	}{
		{"/usr/bin/fish", Fish},
		{"/opt/homebrew/bin/fish", Fish},
		{"/bin/bash", Bash},
		{"/bin/zsh", Zsh},
		{"", Zsh},
		{"/bin/sh", Zsh},
	}
	for _, tt := range tests {
		t.Run(tt.env, func(t *testing.T) {
			assert.Equal(t, tt.want, Detect(tt.env))
		})
	}
}

func TestScript(t *testing.T) {
	assert.Contains(t, Script(Fish), "function lane")
	assert.Contains(t, Script(Bash), "lane() {")
	assert.Equal(t, Script(Bash), Script(Zsh))
	assert.Equal(t, "~/.config/fish/config.fish", Fish.RCFile())
	assert.Equal(t, "~/.bashrc", Bash.RCFile())
}

// TestScript_Bash runs the generated function against a stub lane binary
// and checks that the shell ends up in the directive's directory with the
// other output passed through.
func TestScript_Bash(t *testing.T) {
	bash, err := exec.LookPath("bash")
	if err != nil {
		t.Skip("bash not available")
	}

	binDir := t.TempDir()
	target, err := filepath.EvalSymlinks(t.TempDir())
	require.NoError(t, err)

	stub := "#!/bin/sh\necho \"Lane created\"\necho \"__lane_cd:" + target + "\"\n"
	require.NoError(t, os.WriteFile(filepath.Join(binDir, "lane"), []byte(stub), 0o755))

	script := Script(Bash) + "\nlane new x\npwd -P\n"
	cmd := exec.Command(bash, "-c", script)
	cmd.Env = append(os.Environ(), "PATH="+binDir+string(os.PathListSeparator)+os.Getenv("PATH"))
	out, err := cmd.CombinedOutput()
	require.NoError(t, err, string(out))

	lines := strings.Split(strings.TrimSpace(string(out)), "\n")
	require.Len(t, lines, 2)
	assert.Equal(t, "Lane created", lines[0])
	assert.Equal(t, target, lines[1])
}
