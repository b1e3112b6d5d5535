package shared

import (
	"fmt"
	"net/url"
	"os/exec"
	"runtime"
)

var getRuntime = func() string { return runtime.GOOS }

// launchers maps GOOS to the command that hands a URL to the desktop.
var launchers = map[string][]string{
	"darwin":  {"open"},
	"linux":   {"xdg-open"},
	"freebsd": {"xdg-open"},
	"windows": {"rundll32", "url.dll,FileProtocolHandler"},
}

// Opener opens a URL outside the terminal. [OpenBrowser] is the default.
type Opener func(url string) error

// OpenBrowser hands link to the system browser without waiting for it.
//
// Only absolute http(s) links are accepted.
func OpenBrowser(link string) error {
	u, err := url.Parse(link)
	if err != nil || link == "" || (u.Scheme != "http" && u.Scheme != "https") {
		return fmt.Errorf("%w: not a web link: %q", ErrInvalidArgument, link)
	}

	launcher, ok := launchers[getRuntime()]
	if !ok {
		return fmt.Errorf("unsupported platform: %s", getRuntime())
	}

	cmd := exec.Command(launcher[0], append(launcher[1:], u.String())...)
	if err := cmd.Start(); err != nil {
		return fmt.Errorf("failed to open browser: %w", err)
	}
	return nil
}
