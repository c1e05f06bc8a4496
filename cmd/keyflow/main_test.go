package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/verte-zerg/keyflow/internal/config"
	"github.com/verte-zerg/keyflow/internal/model"
)

func setupHome(t *testing.T) {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", dir)
	t.Setenv("XDG_DATA_HOME", dir)
}

func execute(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetOut(&out)
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestInferSource(t *testing.T) {
	cases := []struct {
		args []string
		want string
	}{
		{nil, model.SourceSample},
		{[]string{"--text", "abc"}, model.SourceText},
		{[]string{"--file", "p.txt"}, model.SourceFile},
		{[]string{"--passage-id", "3"}, model.SourceLibrary},
		{[]string{"--words", "10"}, model.SourceWords},
		{[]string{"--file", "p.txt", "--source", "sample"}, model.SourceSample},
	}
	for _, tc := range cases {
		cmd := newRootCmd()
		require.NoError(t, cmd.ParseFlags(tc.args))
		assert.Equal(t, tc.want, inferSource(cmd, practiceSource), "args %v", tc.args)
	}
}

func TestValidateConfig(t *testing.T) {
	valid := model.Config{Source: model.SourceSample, Words: 10, FocusFactor: 1}
	require.NoError(t, validateConfig(valid))

	bad := valid
	bad.Source = "radio"
	assert.ErrorContains(t, validateConfig(bad), "--source")

	bad = valid
	bad.Words = 0
	assert.ErrorContains(t, validateConfig(bad), "--words")

	bad = valid
	bad.FocusFactor = -1
	assert.ErrorContains(t, validateConfig(bad), "--focus-factor")

	bad = valid
	bad.Source = model.SourceFile
	assert.ErrorContains(t, validateConfig(bad), "--file")
}

func TestApplyConfigFlagWins(t *testing.T) {
	target := "flag"
	value := "file"
	applyStringConfig(true, &target, &value)
	assert.Equal(t, "flag", target)

	applyStringConfig(false, &target, nil)
	assert.Equal(t, "flag", target)

	applyStringConfig(false, &target, &value)
	assert.Equal(t, "file", target)

	words := 25
	fromFile := 40
	applyIntConfig(false, &words, &fromFile)
	assert.Equal(t, 40, words)
}

func TestDefaultConfigTemplateDecodes(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte(defaultConfigTemplate()), 0o644))
	cfg, err := config.LoadConfig(path)
	require.NoError(t, err)
	assert.Nil(t, cfg.Practice.Source)
	assert.Nil(t, cfg.Log.Level)
}

func TestPassageAddListShowRemove(t *testing.T) {
	setupHome(t)

	out, err := execute(t, "", "passage", "add", "--title", "Fox", "the  quick", "brown fox")
	require.NoError(t, err)
	assert.Equal(t, "1\n", out)

	out, err = execute(t, "jumps over\nthe lazy dog\n", "passage", "add")
	require.NoError(t, err)
	assert.Equal(t, "2\n", out)

	out, err = execute(t, "", "passage", "list")
	require.NoError(t, err)
	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	require.Len(t, lines, 3)
	assert.Contains(t, lines[0], "Title")
	assert.Contains(t, lines[1], "Fox")
	assert.Contains(t, lines[2], "jumps over the lazy dog")

	out, err = execute(t, "", "passage", "show", "1")
	require.NoError(t, err)
	assert.Equal(t, "Fox\n\nthe quick brown fox\n", out)

	_, err = execute(t, "", "passage", "remove", "1")
	require.NoError(t, err)
	_, err = execute(t, "", "passage", "show", "1")
	assert.ErrorContains(t, err, "no passage with id 1")
	_, err = execute(t, "", "passage", "remove", "1")
	assert.ErrorContains(t, err, "no passage with id 1")
}

func TestPassageAddRejectsEmptyText(t *testing.T) {
	setupHome(t)
	_, err := execute(t, "  \n\t", "passage", "add")
	assert.ErrorContains(t, err, "empty")
}

func TestPassageShowRejectsBadID(t *testing.T) {
	setupHome(t)
	_, err := execute(t, "", "passage", "show", "abc")
	assert.ErrorContains(t, err, "invalid passage id")
}

func TestPassageListEmpty(t *testing.T) {
	setupHome(t)
	out, err := execute(t, "", "passage", "list")
	require.NoError(t, err)
	assert.Contains(t, out, "No passages found")
}

func TestDefaultTitle(t *testing.T) {
	assert.Equal(t, "a b c", defaultTitle("a b c"))
	assert.Equal(t, "one two three four five …", defaultTitle("one two three four five six"))
}

func writeConfig(t *testing.T, body string) {
	t.Helper()
	path := config.DefaultConfigPath()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
}

func TestBrokenConfigStillOpensEditor(t *testing.T) {
	setupHome(t)
	t.Setenv("EDITOR", "true")
	writeConfig(t, "[practice]\nwrods = 10\n")

	_, err := execute(t, "", "config")
	require.NoError(t, err)

	out, err := execute(t, "", "passage", "list")
	require.NoError(t, err)
	assert.Contains(t, out, "No passages found")
}

func TestBrokenConfigBlocksPractice(t *testing.T) {
	setupHome(t)
	writeConfig(t, "[practice]\nwrods = 10\n")

	_, err := execute(t, "")
	assert.ErrorContains(t, err, `unknown config key "practice.wrods"`)
}

func TestConfigLogLevelApplies(t *testing.T) {
	setupHome(t)
	writeConfig(t, "[log]\nlevel = \"warn\"\n")

	_, err := execute(t, "", "passage", "list")
	require.NoError(t, err)
	assert.Equal(t, "warn", logLevel)
}

func TestPassageTableTruncatesLongTitles(t *testing.T) {
	passages := []model.Passage{{
		ID:    7,
		Title: "A very long passage title that overflows",
		Body:  "one two",
	}}
	lines := passageTable(passages, minTitleWidth).Lines()
	require.Len(t, lines, 2)
	assert.Contains(t, lines[1], "…")
	assert.NotContains(t, lines[1], "overflows")
	assert.Contains(t, lines[1], "7")

	lines = passageTable(passages, 0).Lines()
	assert.Contains(t, lines[1], "overflows")
}
