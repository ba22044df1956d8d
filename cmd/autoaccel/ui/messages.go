package ui

// Messages pages emit for the app shell to act on.
type (
	// SignInRequestedMsg asks the shell to run the Google sign-in flow.
	SignInRequestedMsg struct{}

	// SignOutRequestedMsg asks the shell to sign the user out.
	SignOutRequestedMsg struct{}

	// ShowResponseMsg asks the shell to replace the current page with the
	// response page. Raw is the undecoded API response body; the response
	// page performs the decode on mount.
	ShowResponseMsg struct{ Raw string }

	// ThemeChangedMsg asks the shell to persist and apply a theme choice.
	ThemeChangedMsg struct{ Name string }

	// GenerationResultMsg carries the outcome of a submit attempt back to
	// the select page.
	GenerationResultMsg struct {
		Raw string
		Err error
	}
)
