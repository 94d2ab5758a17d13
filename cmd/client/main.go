package main

import (
	"log"
	"os"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/Pushkaraj-Palli/Discord-Clone/internal/client"
)

func main() {
	host := os.Getenv("GATEWAY_ADDR")
	if host == "" {
		host = "localhost:8080"
	}

	token := os.Getenv("TOKEN")
	serverID := os.Getenv("SERVER_ID")
	channelID := os.Getenv("CHANNEL_ID")
	if token == "" || serverID == "" || channelID == "" {
		log.Fatal("TOKEN, SERVER_ID and CHANNEL_ID must be set")
	}

	model, err := client.NewModel(host, token, serverID, channelID)
	if err != nil {
		log.Fatal(err)
	}

	p := tea.NewProgram(model)
	if _, err := p.Run(); err != nil {
		log.Fatal(err)
	}
}
