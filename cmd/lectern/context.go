package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"syscall"

	"github.com/spf13/cobra"

	"lectern/internal/config"
	"lectern/internal/ipc"
	"lectern/internal/jobaccess"
	"lectern/internal/registry"
)

// commandContext carries the persistent flag values and a memoized config so
// every subcommand resolves them the same way.
type commandContext struct {
	socketFlag *string
	configFlag *string

	configOnce sync.Once
	config     *config.Config
	configErr  error
}

func newCommandContext(socketFlag, configFlag *string) *commandContext {
	return &commandContext{socketFlag: socketFlag, configFlag: configFlag}
}

// ensureConfig loads, validates, and caches the configuration. Every call
// after the first returns the cached result, including a cached failure.
func (c *commandContext) ensureConfig() (*config.Config, error) {
	c.configOnce.Do(func() {
		c.config, c.configErr = loadCommandConfig(c.configFlag)
	})
	return c.config, c.configErr
}

func loadCommandConfig(pathFlag *string) (*config.Config, error) {
	var path string
	if pathFlag != nil {
		path = strings.TrimSpace(*pathFlag)
	}
	cfg, _, _, err := config.Load(path)
	if err != nil {
		return nil, err
	}
	if err := cfg.EnsureDirectories(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *commandContext) configValue() *config.Config {
	cfg, _ := c.ensureConfig()
	return cfg
}

// socketPath resolves the daemon socket, writing the default back into the
// flag so later reads agree with what was dialed.
func (c *commandContext) socketPath() string {
	if c.socketFlag == nil {
		return defaultSocketPath()
	}
	if strings.TrimSpace(*c.socketFlag) == "" {
		*c.socketFlag = defaultSocketPath()
	}
	return *c.socketFlag
}

func (c *commandContext) withClient(fn func(*ipc.Client) error) error {
	client, err := c.dialClient()
	if err != nil {
		return err
	}
	defer client.Close()
	return fn(client)
}

func (c *commandContext) dialClient() (*ipc.Client, error) {
	socket := c.socketPath()
	client, err := ipc.Dial(socket)
	if err != nil {
		return nil, wrapDialError(err, socket)
	}
	return client, nil
}

// openJobSession provides registry access through the daemon when it is
// running and falls back to the database directly when it is not.
func (c *commandContext) openJobSession() (jobaccess.Session, error) {
	return jobaccess.OpenWithFallback(
		func() (*ipc.Client, error) {
			return ipc.Dial(c.socketPath())
		},
		func() (*registry.Store, error) {
			cfg, err := c.ensureConfig()
			if err != nil {
				return nil, err
			}
			return registry.Open(cfg)
		},
	)
}

func wrapDialError(err error, socket string) error {
	switch {
	case errors.Is(err, syscall.ENOENT) || os.IsNotExist(err):
		return fmt.Errorf("connect to daemon: socket %s not found; start the daemon with `lectern start`", socket)
	case errors.Is(err, syscall.ECONNREFUSED):
		return fmt.Errorf("connect to daemon: socket %s refused the connection; verify the daemon is running", socket)
	default:
		return fmt.Errorf("connect to daemon: %w", err)
	}
}

// defaultSocketPath mirrors the daemon's socket derivation without requiring
// a readable config: fall back through the standard log dir to the tmp dir.
func defaultSocketPath() string {
	if cfg, _, _, err := config.Load(""); err == nil {
		return cfg.SocketPath()
	}
	logDir, err := config.ExpandPath("~/.local/share/lectern/logs")
	if err != nil {
		return filepath.Join(os.TempDir(), "lecternd.sock")
	}
	return filepath.Join(logDir, "lecternd.sock")
}

func shouldSkipConfig(cmd *cobra.Command) bool {
	for c := cmd; c != nil; c = c.Parent() {
		if c.Annotations != nil && c.Annotations["skipConfigLoad"] == "true" {
			return true
		}
	}
	return false
}

func yesNo(value bool) string {
	if value {
		return "yes"
	}
	return "no"
}
