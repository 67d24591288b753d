package ui

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"atlas-repacker/discovery"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func key(s string) tea.KeyMsg {
	switch s {
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "down":
		return tea.KeyMsg{Type: tea.KeyDown}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func TestFolderSelector(t *testing.T) {
	root := t.TempDir()
	data := filepath.Join(root, "Data")
	require.NoError(t, os.MkdirAll(data, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(data, "sharedassets0.assets"), []byte{1}, 0o644))

	s, err := CreateFolderSelector(root)
	require.NoError(t, err)
	assert.Equal(t, []string{"..", "Data"}, s.entries)
	assert.Equal(t, CwdStateIncorrect, s.cwdState)

	_, cmd := s.Update(key("s"))
	assert.Nil(t, cmd)

	s.Update(key("down"))
	s.Update(key("enter"))
	assert.Equal(t, data, s.cwd)
	assert.Equal(t, CwdStateCorrect, s.cwdState)
	assert.Contains(t, s.View(), "valid data folder")

	_, cmd = s.Update(key("s"))
	assert.NotNil(t, cmd)
	dir, ok := s.Selected()
	assert.True(t, ok)
	assert.Equal(t, data, dir)
}

func TestScanProgress(t *testing.T) {
	started := make(chan struct{})
	model := NewScanProgress(context.Background(), "Hero", func(ctx context.Context) (discovery.Entry, error) {
		close(started)
		<-ctx.Done()
		return discovery.Entry{}, ctx.Err()
	})
	cmd := model.Init()
	result := make(chan tea.Msg)
	go func() { result <- cmd() }()
	<-started

	model.Update(progressMsg(discovery.Progress{Searched: 1, Total: 4, File: "sharedassets0.assets"}))
	assert.Contains(t, model.View(), "1/4 files")

	_, quit := model.Update(key("esc"))
	assert.Nil(t, quit)
	assert.Contains(t, model.View(), "Cancelling")

	_, quit = model.Update(<-result)
	assert.NotNil(t, quit)
	_, err := model.Result()
	assert.ErrorIs(t, err, context.Canceled)
}

func TestBar(t *testing.T) {
	assert.Equal(t, "["+strings.Repeat(" ", barWidth)+"]", bar(0, 0))
	assert.Equal(t, "["+strings.Repeat("#", barWidth)+"]", bar(3, 3))
}
