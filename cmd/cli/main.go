package main

import (
	"context"
	"flag"
	"os"
	"path"

	"github.com/google/subcommands"
)

func main() {
	commander := subcommands.NewCommander(flag.CommandLine, path.Base(os.Args[0]))
	commander.Register(commander.HelpCommand(), "")
	commander.Register(commander.FlagsCommand(), "")

	env := newEnv(os.Stdout, os.Stderr)
	flag.BoolVar(&env.ignoreCorrupt, "ignore-corrupt", false,
		"Start from an empty portfolio when the store cannot be read. The next change overwrites it.")

	for _, c := range commands(env) {
		commander.Register(c, "portfolio")
	}

	flag.Parse()
	os.Exit(int(commander.Execute(context.Background())))
}
