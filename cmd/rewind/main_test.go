package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/gdamore/tcell/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tidwall/gjson"
)

func execute(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	var out, errOut bytes.Buffer
	root := newRootCmd(&out, &errOut)
	root.SetArgs(args)
	err := root.ExecuteContext(context.Background())
	return out.String(), errOut.String(), err
}

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestEditorCommand(t *testing.T) {
	out, _, err := execute(t, "editor")
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 6)
	assert.Contains(t, lines[0], `Initial state:`)
	assert.Contains(t, lines[0], `content="Initial content" cursor=0 dirty=false`)
	assert.Contains(t, lines[1], `content="First change" cursor=12 dirty=true`)
	assert.Contains(t, lines[2], `content="Initial content" cursor=0 dirty=false`)
	assert.Contains(t, lines[3], `After redo:`)
	assert.Contains(t, lines[3], `content="First change"`)
	assert.Contains(t, lines[4], "position:")
	assert.Contains(t, lines[5], "entries:")
}

func TestEditorCommandJSON(t *testing.T) {
	out, _, err := execute(t, "editor", "--json", "--set", `{"content":"Second change","cursor":13}`)
	require.NoError(t, err)
	require.True(t, gjson.Valid(out), out)

	steps := gjson.Get(out, "steps").Array()
	require.Len(t, steps, 5)
	assert.Equal(t, "After undo", steps[2].Get("step").String())
	assert.Equal(t, "Initial content", steps[2].Get("state.content").String())
	assert.Equal(t, "Second change", steps[4].Get("state.content").String())
	assert.Equal(t, int64(2), gjson.Get(out, "position").Int())
	assert.Equal(t, int64(3), gjson.Get(out, "entries").Int())
}

func TestEditorCommandRejectsUnknownKey(t *testing.T) {
	_, _, err := execute(t, "editor", "--set", `{"colour":"red"}`)
	require.Error(t, err)
	assert.Contains(t, err.Error(), `invalid override "colour"`)
}

func TestEditorCommandLenientConfig(t *testing.T) {
	path := writeFile(t, "rewind.toml", "[history]\nstrict_overrides = false\n[editor]\ninitial_content = \"draft\"\n")

	out, _, err := execute(t, "--config", path, "editor", "--json", "--set", `{"colour":"red","cursor":1}`)
	require.NoError(t, err)
	assert.Equal(t, "draft", gjson.Get(out, "steps.0.state.content").String())
	assert.Equal(t, int64(1), gjson.Get(out, "steps.4.state.cursor").Int())
}

func TestGameCommand(t *testing.T) {
	out, _, err := execute(t, "game")
	require.NoError(t, err)

	assert.Contains(t, out, `level=1 health=100 position="Start"`)
	assert.Contains(t, out, `level=4 health=30 position="Dragon Castle"`)

	lines := strings.Split(strings.TrimSpace(out), "\n")
	restored := lines[len(lines)-2]
	assert.Contains(t, restored, "Restored:")
	assert.Contains(t, restored, `level=3 health=50 position="Dark Cave"`)
	assert.Contains(t, lines[len(lines)-1], "checkpoints:")
	assert.Contains(t, lines[len(lines)-1], "2")
}

func TestGameCommandJSONWithPlay(t *testing.T) {
	out, _, err := execute(t, "game", "--json", "--play", `{"inventory":["key"]}`)
	require.NoError(t, err)

	steps := gjson.Get(out, "steps").Array()
	last := steps[len(steps)-1]
	assert.Equal(t, "Restored", last.Get("step").String())
	assert.Equal(t, "Dragon Castle", last.Get("state.position").String())
	assert.Empty(t, last.Get("state.inventory").Array())
	assert.Equal(t, int64(3), gjson.Get(out, "checkpoints").Int())
}

func TestRunCommand(t *testing.T) {
	path := writeFile(t, "walk.lua", `
		editor.edit{content = "scripted"}
		print(editor.current().content)
		game.checkpoint()
		game.play{health = 1}
		print(game.rollback().health)
	`)

	out, _, err := execute(t, "run", path)
	require.NoError(t, err)
	assert.Equal(t, "scripted\n100\n", out)
}

func TestRunCommandScriptError(t *testing.T) {
	path := writeFile(t, "bad.lua", `editor.edit{nope = 1}`)

	_, _, err := execute(t, "run", path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "nope")
}

func TestRunCommandNeedsScript(t *testing.T) {
	_, _, err := execute(t, "run")
	assert.Error(t, err)
}

func TestVersionCommand(t *testing.T) {
	out, _, err := execute(t, "version")
	require.NoError(t, err)
	assert.Contains(t, out, "rewind dev")
}

func TestInvalidLogLevel(t *testing.T) {
	_, _, err := execute(t, "--log-level", "loud", "editor")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid log level")
}

func TestDebugLogging(t *testing.T) {
	_, errOut, err := execute(t, "--log-level", "debug", "editor")
	require.NoError(t, err)
	assert.Contains(t, errOut, "[DEBUG]")
	assert.Contains(t, errOut, "editor metrics: saves=2")
}

func TestMissingConfigFile(t *testing.T) {
	_, _, err := execute(t, "--config", filepath.Join(t.TempDir(), "absent.toml"), "editor")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "loading config")
}

func TestBrowseRequiresTerminal(t *testing.T) {
	_, _, err := execute(t, "browse")
	assert.ErrorIs(t, err, ErrNotTerminal)
}

func TestBrowseWithSimulationScreen(t *testing.T) {
	path := writeFile(t, "rewind.toml", "[logging]\nlevel = \"info\"\n")

	var out, errOut bytes.Buffer
	c := &cli{configPath: path, out: &out, errOut: &errOut}
	require.NoError(t, c.setup(nil, nil))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.NoError(t, c.browse(ctx, tcell.NewSimulationScreen("UTF-8")))
}
