package snippet

import "strings"

// Credential selects how yt-dlp authenticates to the platform. At most one
// kind is active per run; selection is run-level, never per-job.
type Credential struct {
	// CookieFile is a path to a cookies.txt export. A supplied file is
	// explicit and user-verified, so its failure is diagnostic: no fallback.
	CookieFile string
	// Browser is a browser name to extract cookies from. Browser cookies
	// are opportunistic (the store is often locked while the browser runs),
	// so a failed attempt falls back to no credential.
	Browser string
}

// NewCredential builds a Credential from the two mutually preferred sources.
// When both are set the cookie file wins, matching yt-dlp's own precedence.
func NewCredential(cookieFile, browser string) Credential {
	return Credential{
		CookieFile: strings.TrimSpace(cookieFile),
		Browser:    strings.TrimSpace(browser),
	}
}

// IsZero reports whether no credential is configured.
func (c Credential) IsZero() bool {
	return c.CookieFile == "" && c.Browser == ""
}

// Attempt is one entry in the ordered credential strategy list. Args are
// appended to the yt-dlp argument vector before the URL.
type Attempt struct {
	// Label names the attempt in warnings and combined errors.
	Label string
	Args  []string
	// FallbackHint is emitted as a warning when the attempt fails and a
	// later attempt exists.
	FallbackHint string
	// Remediation lines are emitted when every attempt has failed.
	Remediation []string
}

// Attempts returns the strategies to try, in order, short-circuiting on the
// first success. The list is data so new strategies can be added without
// touching the retry control flow.
func (c Credential) Attempts() []Attempt {
	if c.CookieFile != "" {
		return []Attempt{{
			Label: "cookie file " + c.CookieFile,
			Args:  []string{"--cookies", c.CookieFile},
			Remediation: []string{
				"Check that the cookie file exists and is a valid Netscape-format export.",
			},
		}}
	}

	if c.Browser != "" {
		return []Attempt{
			{
				Label:        "cookies from " + c.Browser,
				Args:         []string{"--cookies-from-browser", c.Browser},
				FallbackHint: "cookie extraction from " + c.Browser + " failed; this usually happens when the browser is running. Retrying without cookies...",
			},
			{
				Label: "no cookies",
				Remediation: []string{
					"Close ALL " + c.Browser + " windows and try again.",
					"Export cookies manually and pass --cookies <file>: https://github.com/yt-dlp/yt-dlp/wiki/FAQ#how-do-i-pass-cookies-to-yt-dlp",
					"Try a different browser (e.g. --cookies-from-browser firefox).",
				},
			},
		}
	}

	return []Attempt{{Label: "no cookies"}}
}
