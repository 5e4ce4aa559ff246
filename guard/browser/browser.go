// Package browser is the interception layer: it drives a chromium
// instance over the devtools protocol, pauses top-frame document requests
// and resumes or aborts them based on the decision engine's outcome.
package browser

import (
	"io/ioutil"
	"net"
	"runtime"

	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
	"github.com/wirepair/gcd"
)

// flags for a user-facing guarded session; unlike a scanner we keep the
// window visible and popups working, the user is actually browsing
var startupFlags = []string{
	"--enable-features=NetworkService",
	"--disable-client-side-phishing-detection",
	"--disable-component-update",
	"--disable-infobars",
	"--disable-domain-reliability",
	"--disable-background-networking",
	"--disable-sync",
	"--disable-default-apps",
	"--disable-extensions",
	"--disable-features=TranslateUI",
	"--no-first-run",
	"--window-size=1280,900",
	"--password-store=basic",
	"about:blank",
}

var (
	// ErrNoTab no debuggable page target was available
	ErrNoTab = errors.New("no tab available")
	// ErrTabCrashed the chrome tab crashed or detached
	ErrTabCrashed = errors.New("tab crashed")
)

// Browser wraps a launched or attached chromium debugger connection
type Browser struct {
	g        *gcd.Gcd
	launched bool
}

// Launch a new chromium process with a throwaway profile. Empty chromePath
// uses the platform default location.
func Launch(chromePath string) (*Browser, error) {
	g := gcd.NewChromeDebugger()
	g.DeleteProfileOnExit()

	if chromePath == "" {
		chromePath = defaultChromePath()
	}
	profile, err := ioutil.TempDir("", "navguard")
	if err != nil {
		return nil, errors.Wrap(err, "failed to create profile directory")
	}

	g.AddFlags(startupFlags)
	if err := g.StartProcess(chromePath, profile, randPort()); err != nil {
		return nil, errors.Wrap(err, "failed to start chrome")
	}
	log.Info().Str("chrome", chromePath).Str("profile", profile).Msg("browser started")
	return &Browser{g: g, launched: true}, nil
}

// Connect to an already running chromium started with a remote debugging
// port
func Connect(host, port string) (*Browser, error) {
	g := gcd.NewChromeDebugger()
	if err := g.ConnectToInstance(host, port); err != nil {
		return nil, errors.Wrap(err, "failed to connect to chrome instance")
	}
	return &Browser{g: g}, nil
}

// FirstTab returns the first debuggable page target
func (b *Browser) FirstTab() (*gcd.ChromeTarget, error) {
	target, err := b.g.GetFirstTab()
	if err != nil {
		return nil, errors.Wrap(ErrNoTab, err.Error())
	}
	return target, nil
}

// Close shuts the process down if we launched it
func (b *Browser) Close() error {
	if !b.launched {
		return nil
	}
	return b.g.ExitProcess()
}

func randPort() string {
	l, err := net.Listen("tcp", ":0")
	if err != nil {
		log.Warn().Err(err).Msg("unable to get port using default 9022")
		return "9022"
	}
	_, port, _ := net.SplitHostPort(l.Addr().String())
	l.Close()
	return port
}

func defaultChromePath() string {
	switch runtime.GOOS {
	case "windows":
		return "C:\\Program Files (x86)\\Google\\Chrome\\Application\\chrome.exe"
	case "darwin":
		return "/Applications/Google Chrome.app/Contents/MacOS/Google Chrome"
	}
	return "/usr/bin/chromium-browser"
}
