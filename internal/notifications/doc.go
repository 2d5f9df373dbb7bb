// Package notifications delivers job lifecycle updates via ntfy.
//
// The default implementation publishes to the topic configured in
// config.toml and gracefully degrades to a no-op when notifications are
// disabled. Completion and error notifications can be toggled independently
// so a noisy queue does not have to ping anyone's phone.
//
// Extend this package if you need alternative transports; pipeline code
// depends only on the Service interface.
package notifications
