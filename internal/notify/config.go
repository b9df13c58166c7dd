// Package notify sends opt-in webhook notifications for AtlasERP session events.
package notify

// Config holds webhook notification configuration.
type Config struct {
	// Enabled controls whether notifications are sent.
	Enabled bool `toml:"enabled" json:"enabled"`

	// WebhookURL is the incoming webhook URL (Slack-compatible payloads).
	WebhookURL string `toml:"webhook_url" json:"webhook_url"`

	// Channel overrides the webhook's default channel.
	Channel string `toml:"channel,omitempty" json:"channel,omitempty"`

	// NotifyOn controls which events trigger notifications.
	NotifyOn NotifySettings `toml:"notify_on" json:"notify_on"`
}

// NotifySettings controls which events trigger notifications.
type NotifySettings struct {
	// Login notifies on every successful sign-in.
	Login bool `toml:"login" json:"login"`

	// Logout notifies on sign-out (can be noisy).
	Logout bool `toml:"logout" json:"logout"`

	// ModuleInitFailed notifies when a module's initialization hook fails.
	ModuleInitFailed bool `toml:"module_init_failed" json:"module_init_failed"`
}

// DefaultConfig returns a disabled config with sensible event defaults.
func DefaultConfig() *Config {
	return &Config{
		Enabled: false,
		NotifyOn: NotifySettings{
			Login:            true,
			Logout:           false, // Too noisy by default
			ModuleInitFailed: true,
		},
	}
}
