// Package loader opens libraries for the CLI and the UI.
// This file keeps the library's .vidnav state directory out of git.
package loader

import (
	"bufio"
	"os"
	"path/filepath"
	"strings"

	"github.com/vanderheijden86/vidnav/pkg/config"
)

const gitignoreComment = "# vidnav local state"

// EnsureStateDirIgnored makes sure the .vidnav/ directory is listed in the
// .gitignore of libraryDir, creating the file when needed. Calling it again
// is a no-op. An empty libraryDir means the working directory.
func EnsureStateDirIgnored(libraryDir string) error {
	if libraryDir == "" {
		var err error
		libraryDir, err = os.Getwd()
		if err != nil {
			return err
		}
	}

	gitignorePath := filepath.Join(libraryDir, ".gitignore")
	present, err := stateDirIgnored(gitignorePath)
	if err != nil && !os.IsNotExist(err) {
		return err
	}
	if present {
		return nil
	}
	return appendToGitignore(gitignorePath, config.StateDirName+"/")
}

// stateDirIgnored reports whether a line of the .gitignore at path already
// covers the state directory.
func stateDirIgnored(path string) (bool, error) {
	file, err := os.Open(path)
	if err != nil {
		return false, err
	}
	defer file.Close()

	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		if coversStateDir(line) {
			return true, nil
		}
	}
	return false, scanner.Err()
}

func coversStateDir(line string) bool {
	name := config.StateDirName
	switch strings.TrimPrefix(line, "/") {
	case name, name + "/", name + "/*", name + "/**", name + "/**/*":
		return true
	}
	return false
}

// appendToGitignore appends pattern under a comment, creating the file if
// needed and keeping a blank line between it and existing content.
func appendToGitignore(path string, pattern string) error {
	content, err := os.ReadFile(path)
	if err != nil && !os.IsNotExist(err) {
		return err
	}

	file, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return err
	}
	defer file.Close()

	var toWrite string
	if len(content) > 0 {
		if content[len(content)-1] != '\n' {
			toWrite = "\n"
		}
		toWrite += "\n"
	}
	toWrite += gitignoreComment + "\n" + pattern + "\n"

	_, err = file.WriteString(toWrite)
	return err
}
