// Package gitinfo reads the current branch straight from .git without
// shelling out, so the status line stays cheap to build.
package gitinfo

import (
	"bufio"
	"errors"
	"os"
	"path/filepath"
	"strings"
)

// Branch returns the branch name for the repository containing path,
// or "" when path is not inside a work tree.
func Branch(path string) string {
	gitDir, err := findGitDir(path)
	if err != nil || gitDir == "" {
		return ""
	}
	branch, err := readHead(gitDir)
	if err != nil {
		return ""
	}
	return branch
}

func findGitDir(path string) (string, error) {
	start := path
	info, err := os.Stat(start)
	if err != nil {
		return "", err
	}
	if !info.IsDir() {
		start = filepath.Dir(start)
	}
	for {
		gitPath := filepath.Join(start, ".git")
		if info, err := os.Stat(gitPath); err == nil {
			if info.IsDir() {
				return gitPath, nil
			}
			// Worktrees and submodules keep a pointer file instead.
			if info.Mode().IsRegular() {
				data, err := os.ReadFile(gitPath)
				if err != nil {
					return "", err
				}
				line := strings.TrimSpace(string(data))
				const prefix = "gitdir:"
				if strings.HasPrefix(line, prefix) {
					dir := strings.TrimSpace(strings.TrimPrefix(line, prefix))
					if !filepath.IsAbs(dir) {
						dir = filepath.Join(start, dir)
					}
					return dir, nil
				}
			}
		}
		parent := filepath.Dir(start)
		if parent == start {
			break
		}
		start = parent
	}
	return "", errors.New("git dir not found")
}

func readHead(gitDir string) (string, error) {
	headPath := filepath.Join(gitDir, "HEAD")
	f, err := os.Open(headPath)
	if err != nil {
		return "", err
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	if !scanner.Scan() {
		return "", errors.New("empty HEAD")
	}
	line := strings.TrimSpace(scanner.Text())
	const refPrefix = "ref:"
	if strings.HasPrefix(line, refPrefix) {
		ref := strings.TrimSpace(strings.TrimPrefix(line, refPrefix))
		return filepath.Base(ref), nil
	}
	if len(line) >= 7 {
		return "detached:" + line[:7], nil
	}
	return "detached", nil
}
