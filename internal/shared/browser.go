package shared

import (
	"fmt"
	"os/exec"
	"runtime"
)

var getRuntime = func() string { return runtime.GOOS }

// OpenBrowser launches the default system browser at url. The command is
// started, not waited on; auth flows print the URL as a fallback when this
// fails.
func OpenBrowser(url string) error {
	name, args := browserCommand(getRuntime(), url)
	if name == "" {
		return fmt.Errorf("cannot open browser on %s", getRuntime())
	}

	if err := exec.Command(name, args...).Start(); err != nil {
		return fmt.Errorf("failed to open browser: %w", err)
	}
	return nil
}

func browserCommand(goos, url string) (string, []string) {
	switch goos {
	case "darwin":
		return "open", []string{url}
	case "linux":
		return "xdg-open", []string{url}
	case "windows":
		return "cmd", []string{"/c", "start", url}
	}
	return "", nil
}
