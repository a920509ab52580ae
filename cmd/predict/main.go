package main

import (
	"os"

	"github.com/spacesedan/sentidash/config"
)

func main() {
	env := os.Getenv("APP_ENV")
	if env == "" {
		env = "dev"
	}
	config.LoadEnv(env)

	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
