package ui

import (
	"os"
	"path/filepath"
	"sort"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/pkg/errors"
	"github.com/samber/lo"
)

type CwdState string

const (
	CwdStateCorrect   = CwdState("correct")
	CwdStateIncorrect = CwdState("incorrect")
	CwdStateBlank     = CwdState("")
)

const parentEntry = ".."

// FolderSelector lets the user walk the file system and pick the directory
// holding the extracted asset containers.
type FolderSelector struct {
	cwd      string
	cwdState CwdState
	entries  []string
	cursor   int
	selected bool
	err      error
}

func CreateFolderSelector(start string) (*FolderSelector, error) {
	cwd, err := filepath.Abs(start)
	if err != nil {
		return nil, errors.Wrap(err, "CreateFolderSelector get absolute path error")
	}
	s := &FolderSelector{}
	s.enter(cwd)
	return s, nil
}

// ReadDirectory lists the sub directories of path, sorted, after a ".." entry.
func ReadDirectory(path string) ([]string, error) {
	entries, err := os.ReadDir(path)
	if err != nil {
		return nil, errors.Wrap(err, "ReadDirectory error")
	}
	dirs := lo.FilterMap(entries, func(entry os.DirEntry, _ int) (string, bool) {
		return entry.Name(), entry.IsDir() && !strings.HasPrefix(entry.Name(), ".")
	})
	sort.Strings(dirs)
	return append([]string{parentEntry}, dirs...), nil
}

// LooksLikeDataDir reports whether path holds asset containers.
func LooksLikeDataDir(path string) bool {
	entries, err := os.ReadDir(path)
	if err != nil {
		return false
	}
	return lo.SomeBy(entries, func(entry os.DirEntry) bool {
		name := entry.Name()
		return entry.Type().IsRegular() &&
			(strings.HasSuffix(name, ".assets") || name == "globalgamemanagers")
	})
}

func (s *FolderSelector) enter(path string) {
	entries, err := ReadDirectory(path)
	if err != nil {
		s.err = err
		return
	}
	s.cwd = path
	s.entries = entries
	s.cursor = 0
	s.err = nil
	s.cwdState = lo.Ternary(LooksLikeDataDir(path), CwdStateCorrect, CwdStateIncorrect)
}

// Selected returns the chosen directory once the user confirmed it.
func (s *FolderSelector) Selected() (string, bool) {
	return s.cwd, s.selected
}

func (s *FolderSelector) View() string {
	output := "ATLAS REPACKER\n\n"
	output += "Current directory: " + s.cwd + "\n"
	switch s.cwdState {
	case CwdStateCorrect:
		output += "Looks like a valid data folder. Press s to use it.\n"
	case CwdStateIncorrect, CwdStateBlank:
		output += "Please choose the folder with the extracted asset files.\n"
	}
	if s.err != nil {
		output += "Error: " + s.err.Error() + "\n"
	}
	output += "\n"
	for i, entry := range s.entries {
		output += lo.Ternary(i == s.cursor, "> ", "  ") + entry + "\n"
	}
	output += "\nup/down: move  enter: open  backspace: parent  q: quit\n"
	return output
}

func (s *FolderSelector) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return s, nil
	}
	switch key.String() {
	case "ctrl+c", "esc", "q":
		return s, tea.Quit
	case "up", "k":
		s.cursor = lo.Clamp(s.cursor-1, 0, len(s.entries)-1)
	case "down", "j":
		s.cursor = lo.Clamp(s.cursor+1, 0, len(s.entries)-1)
	case "backspace":
		s.enter(filepath.Dir(s.cwd))
	case "enter":
		if len(s.entries) == 0 {
			break
		}
		entry := s.entries[s.cursor]
		if entry == parentEntry {
			s.enter(filepath.Dir(s.cwd))
		} else {
			s.enter(filepath.Join(s.cwd, entry))
		}
	case "s":
		if s.cwdState == CwdStateCorrect {
			s.selected = true
			return s, tea.Quit
		}
	}
	return s, nil
}

func (s *FolderSelector) Init() tea.Cmd {
	return nil
}
