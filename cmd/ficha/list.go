package main

import (
	"context"
	"errors"
	"fmt"
	"strings"

	flag "github.com/spf13/pflag"
)

// runList prints the register identifiers, one per line.
func runList(ctx context.Context, args []string, env *Environment) error {
	flags, positional, err := parseListFlags(args, env.Stderr)
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return nil
		}
		return fmt.Errorf("%w: %v", ErrInvalidFlags, err)
	}
	if len(positional) > 0 {
		return fmt.Errorf("%w: list takes no arguments", ErrInvalidFlags)
	}
	if !flags.common.quiet {
		warnUnknownEnvVars(env.Stderr)
	}

	cfg, err := loadConfig(flags.common, loadEnvConfig())
	if err != nil {
		return err
	}
	mergeRegisterFlags(flags.register, cfg)
	if err := cfg.Validate(); err != nil {
		return err
	}

	reg, err := openRegister(cfg)
	if err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	for _, rec := range reg.Records() {
		id := strings.TrimSpace(rec.ID)
		if flags.long {
			fmt.Fprintf(env.Stdout, "%s\t%s\n", id, oneLine(rec.Description))
			continue
		}
		fmt.Fprintln(env.Stdout, id)
	}
	env.logger(flags.common).Debug("listed register", "path", cfg.Register.Path, "records", reg.Len())
	return nil
}

// oneLine collapses whitespace runs, including newlines, to single spaces.
func oneLine(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
