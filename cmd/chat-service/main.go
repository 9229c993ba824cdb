package main

import (
	"os"

	"github.com/rs/zerolog/log"
	"github.com/support-chat/chat-service/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		log.Error().Err(err).Msg("chat-service exited")
		os.Exit(1)
	}
}
