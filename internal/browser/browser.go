// Package browser opens files with the operating system's default application.
package browser

import (
	"fmt"
	"os/exec"
	"runtime"
)

// Opener opens a file path with an external application
type Opener func(path string) error

// OpenCommand returns the program and arguments that open path on goos
func OpenCommand(goos, path string) (string, []string, error) {
	switch goos {
	case "windows":
		// empty quoted title so start treats path as the target
		return "cmd", []string{"/c", "start", `""`, path}, nil
	case "darwin":
		return "open", []string{path}, nil
	case "linux", "freebsd", "openbsd", "netbsd":
		return "xdg-open", []string{path}, nil
	default:
		return "", nil, fmt.Errorf("unsupported platform: %s", goos)
	}
}

// OpenFile opens path in the default application and returns without
// waiting for it to exit
func OpenFile(path string) error {
	name, args, err := OpenCommand(runtime.GOOS, path)
	if err != nil {
		return err
	}

	cmd := exec.Command(name, args...)
	if err := cmd.Start(); err != nil {
		return fmt.Errorf("failed to open %s: %w", path, err)
	}

	// reap the launcher in the background
	go func() { _ = cmd.Wait() }()
	return nil
}
