package ui

import (
	"context"

	"atlas-repacker/discovery"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/pkg/errors"
)

// SelectDataDir runs the folder selector from start. ok is false when the
// user quit without choosing.
func SelectDataDir(start string) (dir string, ok bool, err error) {
	selector, err := CreateFolderSelector(start)
	if err != nil {
		return "", false, err
	}
	if err := tea.NewProgram(selector).Start(); err != nil {
		return "", false, errors.Wrap(err, "ui.SelectDataDir error")
	}
	dir, ok = selector.Selected()
	return dir, ok, nil
}

// RunScan locates an atlas while showing the scan progress.
func RunScan(ctx context.Context, locator *discovery.Locator, name string, lowRes bool) (discovery.Entry, error) {
	model := NewScanProgress(ctx, name, func(ctx context.Context) (discovery.Entry, error) {
		return locator.Locate(ctx, name, lowRes)
	})
	program := tea.NewProgram(model)

	previous := locator.Scanner.OnProgress
	locator.Scanner.OnProgress = func(progress discovery.Progress) {
		program.Send(progressMsg(progress))
	}
	defer func() { locator.Scanner.OnProgress = previous }()

	if err := program.Start(); err != nil {
		return discovery.Entry{}, errors.Wrap(err, "ui.RunScan error")
	}
	return model.Result()
}
