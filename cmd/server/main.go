package main

import (
	"log"
	"os"

	"github.com/Pushkaraj-Palli/Discord-Clone/internal/api"
	"github.com/Pushkaraj-Palli/Discord-Clone/internal/db"
)

func main() {
	path := os.Getenv("DB_PATH")
	if path == "" {
		path = "discord.db"
	}

	database, err := db.InitDB(path)
	if err != nil {
		log.Fatal(err)
	}

	addr := os.Getenv("PORT")
	if addr == "" {
		addr = "8080"
	}

	log.Printf("listening on :%s", addr)
	log.Fatal(api.Serve(database, ":"+addr))
}
