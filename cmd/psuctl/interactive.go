package main

import (
	"context"
	"fmt"
	"log"

	"github.com/chzyer/readline"

	"github.com/psu-tools/psu-go/pkg/dispatch"
)

func newCompleter() *readline.PrefixCompleter {
	items := make([]readline.PrefixCompleterInterface, 0, len(dispatch.Commands()))
	for _, cmd := range dispatch.Commands() {
		items = append(items, readline.PcItem(cmd))
	}
	return readline.NewPrefixCompleter(items...)
}

func runInteractive(ctx context.Context, cfg *Config, dcfg dispatch.Config) int {
	rl, err := readline.NewEx(&readline.Config{
		Prompt:          "psu> ",
		InterruptPrompt: "^C",
		EOFPrompt:       "exit",
		AutoComplete:    newCompleter(),
	})
	if err != nil {
		log.Printf("Failed to create readline: %v", err)
		return exitFailure
	}
	defer rl.Close()

	// Keep log output from tearing the prompt.
	log.SetOutput(rl.Stderr())

	// Unblock Readline when a signal cancels the context.
	go func() {
		<-ctx.Done()
		_ = rl.Close()
	}()

	dcfg.Out = rl.Stdout()
	d := dispatch.New(dcfg)

	d.Execute(ctx, "help")
	connectCmd := "connect"
	if cfg.Address != "" {
		connectCmd += " " + cfg.Address
	}
	d.Execute(ctx, connectCmd)
	fmt.Fprintln(rl.Stdout())

	if err := d.RunInteractive(ctx, rl); err != nil {
		log.Printf("Interactive mode ended: %v", err)
		return exitFailure
	}
	return exitOK
}
