package main

import (
	"fmt"
	"strings"
	"sync"

	"github.com/spf13/cobra"

	"texturematch/config"
	"texturematch/logging"
	"texturematch/signalhandler"
)

const defaultLogPath = "texturematch.log"

type globalFlags struct {
	config  string
	debug   bool
	logfile string
}

type commandContext struct {
	flags *globalFlags

	configOnce sync.Once
	config     *config.Config
	configPath string
	configErr  error
}

func newCommandContext(flags *globalFlags) *commandContext {
	return &commandContext{flags: flags}
}

func (c *commandContext) ensureConfig() (*config.Config, error) {
	c.configOnce.Do(func() {
		cfg, path, _, err := config.Load(strings.TrimSpace(c.flags.config))
		if err != nil {
			c.configErr = fmt.Errorf("load config: %w", err)
			return
		}
		c.config = cfg
		c.configPath = path
	})
	return c.config, c.configErr
}

// configCopy returns a copy of the loaded config that a command may override
// with its own flags
func (c *commandContext) configCopy() (config.Config, error) {
	cfg, err := c.ensureConfig()
	if err != nil {
		return config.Config{}, err
	}
	out := *cfg
	out.Matcher.Extensions = append([]string(nil), cfg.Matcher.Extensions...)
	out.Atlas.Extensions = append([]string(nil), cfg.Atlas.Extensions...)
	return out, nil
}

func (c *commandContext) debugMode() bool {
	return c.flags.debug
}

func (c *commandContext) setupLogging(cmd *cobra.Command) error {
	if !c.flags.debug && c.flags.logfile == "" {
		return nil
	}

	logPath := c.flags.logfile
	if logPath == "" {
		logPath = defaultLogPath
	}
	if err := logging.SetupLogger(logPath); err != nil {
		fmt.Fprintf(cmd.ErrOrStderr(), "Warning: Failed to setup logging: %v\n", err)
		return nil
	}
	signalhandler.OnShutdown(logging.CloseLogger)
	if c.flags.debug {
		fmt.Fprintf(cmd.OutOrStdout(), "Debug mode enabled. Logging to: %s\n", logPath)
	}
	return nil
}

func runCleanups() {
	signalhandler.RunCleanups()
}

func shouldSkipConfig(cmd *cobra.Command) bool {
	for c := cmd; c != nil; c = c.Parent() {
		if c.Annotations != nil && c.Annotations["skipConfigLoad"] == "true" {
			return true
		}
	}
	return false
}

// applyConfigChanges normalizes and validates cfg after flag overrides
func applyConfigChanges(cfg *config.Config) error {
	if err := cfg.Normalize(); err != nil {
		return err
	}
	return cfg.Validate()
}

func yesNo(value bool) string {
	if value {
		return "yes"
	}
	return "no"
}
