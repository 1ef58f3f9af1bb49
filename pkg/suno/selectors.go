package suno

import (
	"fmt"
	"strings"

	"github.com/entrhq/suno-mcp/pkg/browser"
)

// Candidate locators for each logical element of the site. Earlier entries
// target the current markup; later ones cover older layouts.
var (
	loginTrigger = browser.SelectorSet{
		Name: "login trigger",
		Candidates: []string{
			`button:has-text("Sign in")`,
			`a:has-text("Sign in")`,
			`button:has-text("Login")`,
			`a:has-text("Login")`,
			`[data-testid="login-button"]`,
			`.login-button`,
		},
		Action: browser.ActionClick,
	}

	emailField = browser.SelectorSet{
		Name: "email",
		Candidates: []string{
			`input[type="email"]`,
			`input[name="email"]`,
			`input[placeholder*="email" i]`,
			`#email`,
			`[data-testid="email-input"]`,
		},
		Action: browser.ActionFill,
	}

	passwordField = browser.SelectorSet{
		Name: "password",
		Candidates: []string{
			`input[type="password"]`,
			`input[name="password"]`,
			`input[placeholder*="password" i]`,
			`#password`,
			`[data-testid="password-input"]`,
		},
		Action: browser.ActionFill,
	}

	loginSubmit = browser.SelectorSet{
		Name: "login submit",
		Candidates: []string{
			`button[type="submit"]`,
			`button:has-text("Sign in")`,
			`button:has-text("Login")`,
			`button:has-text("Continue")`,
			`[data-testid="submit-button"]`,
			`.submit-button`,
		},
		Action: browser.ActionClick,
	}

	promptField = browser.SelectorSet{
		Name: "prompt",
		Candidates: []string{
			`textarea[placeholder*="Describe" i]`,
			`textarea[placeholder*="prompt" i]`,
			`textarea[name="prompt"]`,
			`textarea[data-testid="prompt-input"]`,
			`.prompt-input`,
			`#prompt`,
		},
		Action: browser.ActionFill,
	}

	lyricsField = browser.SelectorSet{
		Name: "lyrics",
		Candidates: []string{
			`textarea[placeholder*="lyrics" i]`,
			`textarea[name="lyrics"]`,
			`textarea[data-testid="lyrics-input"]`,
			`.lyrics-input`,
		},
		Action: browser.ActionFill,
	}

	styleField = browser.SelectorSet{
		Name: "style",
		Candidates: []string{
			`select[name="style"]`,
			`input[placeholder*="style" i]`,
			`select[data-testid="style-select"]`,
		},
		Action: browser.ActionSelectOrFill,
	}

	generateTrigger = browser.SelectorSet{
		Name: "generate trigger",
		Candidates: []string{
			`button:has-text("Create")`,
			`button:has-text("Generate")`,
			`button:has-text("Make Song")`,
			`button[type="submit"]`,
			`[data-testid="generate-button"]`,
			`.generate-button`,
		},
		Action: browser.ActionClick,
	}

	downloadTrigger = browser.SelectorSet{
		Name: "download trigger",
		Candidates: []string{
			`button:has-text("Download")`,
			`button:has-text("Export")`,
			`a:has-text("Download")`,
			`[data-testid="download-button"]`,
			`.download-button`,
		},
		Action: browser.ActionClick,
	}
)

// generatingIndicators signal that generation has begun.
var generatingIndicators = []string{
	`[data-testid="generating"]`,
	`.generating`,
	`[data-status="generating"]`,
}

// stemsTriggers are tried one by one, each with its own download listener.
var stemsTriggers = []string{
	`button:has-text("Download Stems")`,
	`button:has-text("Export Stems")`,
	`[data-testid="stems-button"]`,
	`.stems-button`,
}

// trackCards matches every listed track in the library.
const trackCards = `[data-testid*="track"], .track-card, .song-card`

// trackLocators returns the direct locators for a track identifier.
func trackLocators(trackID string) []string {
	trackID = strings.ReplaceAll(trackID, `"`, `\"`)
	return []string{
		fmt.Sprintf(`[data-track-id="%s"]`, trackID),
		fmt.Sprintf(`[data-song-id="%s"]`, trackID),
		fmt.Sprintf(`a[href*="%s"]`, trackID),
		fmt.Sprintf(`[data-testid="track-%s"]`, trackID),
	}
}
