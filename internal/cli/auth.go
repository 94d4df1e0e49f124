package cli

import (
	"bufio"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/Makepad-fr/tada/internal/auth"
	"github.com/Makepad-fr/tada/internal/ui"
)

const authUsage = "usage: tada auth <login [token]|logout|status|whoami>"

func doAuth(a []string, opt Options) int {
	if len(a) == 0 {
		ui.Fail(authUsage)
		return 2
	}
	switch a[0] {
	case "login":
		return doAuthLogin(a[1:], opt)
	case "logout":
		return doAuthLogout()
	case "status":
		return doAuthStatus()
	case "whoami":
		return doAuthWhoAmI()
	default:
		ui.Fail(authUsage)
		return 2
	}
}

func doAuthLogin(a []string, opt Options) int {
	var token string
	if len(a) > 0 {
		token = strings.Join(a, " ")
	} else {
		fmt.Fprint(ui.Stdout(), "Paste your token: ")
		line, err := bufio.NewReader(opt.In).ReadString('\n')
		if err != nil && line == "" {
			ui.Fail("read token: " + err.Error())
			return 1
		}
		token = line
	}
	if err := auth.SetToken(token, nil); err != nil {
		ui.Fail("save token: " + err.Error())
		return 1
	}
	ui.OK("logged in")
	return 0
}

func doAuthLogout() int {
	ti, _ := auth.GetToken()
	if ti != nil && ti.Source == auth.SourceEnv {
		ui.OK("token is provided by " + auth.EnvToken + " env var (nothing to delete)")
		return 0
	}
	if err := auth.DeleteToken(); err != nil {
		ui.Fail("logout: " + err.Error())
		return 1
	}
	ui.OK("logged out")
	return 0
}

func doAuthStatus() int {
	out := ui.Stdout()
	ti, err := auth.GetToken()
	if err != nil {
		ui.Fail("read token: " + err.Error())
		return 1
	}
	if ti == nil {
		fmt.Fprintln(out, ui.C(ui.Current().Muted, "not logged in"))
		fmt.Fprintln(out, "Run: tada auth login")
		return 0
	}
	fmt.Fprintf(out, "source: %s\n", ti.Source)
	switch {
	case ti.ExpiresAt == nil:
		fmt.Fprintln(out, "expires: (unknown)")
	case ti.Expired(time.Now()):
		fmt.Fprintf(out, "expires: %s %s\n", ti.ExpiresAt.UTC().Format(time.RFC3339), ui.C(ui.Current().Error, "(expired)"))
	default:
		fmt.Fprintf(out, "expires: %s\n", ti.ExpiresAt.UTC().Format(time.RFC3339))
	}
	fmt.Fprintln(out, "env override: "+auth.EnvToken)
	return 0
}

// whoami decodes a JWT locally (unsigned); opaque tokens print basic info.
func doAuthWhoAmI() int {
	out := ui.Stdout()
	ti, _ := auth.GetToken()
	if ti == nil {
		ui.Fail("not logged in. Run: tada auth login")
		return 2
	}
	claims, err := auth.Claims(ti.Token)
	if err != nil {
		fmt.Fprintln(out, "Opaque token (cannot introspect locally).")
		fmt.Fprintln(out, "source:", ti.Source)
		return 0
	}
	b, err := json.MarshalIndent(claims, "", "  ")
	if err != nil {
		ui.Fail("whoami: " + err.Error())
		return 1
	}
	fmt.Fprintln(out, "JWT payload:")
	fmt.Fprintln(out, string(b))
	return 0
}
