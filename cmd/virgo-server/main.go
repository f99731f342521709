package main

import (
	"log"
	"net/http"
	"os"

	"github.com/joho/godotenv"

	"github.com/cwchanap/Virgo/internal/server"
)

func main() {
	log.SetOutput(os.Stdout)
	log.SetFlags(log.LstdFlags | log.Lshortfile)

	if err := godotenv.Load(); err != nil {
		log.Println("no .env file, using system env")
	}

	cfg := server.LoadConfigFromEnv()
	srv := server.New(cfg)

	log.Printf("startup addr=%s dir=%s", cfg.Addr, cfg.DTXDir)
	if err := http.ListenAndServe(cfg.Addr, srv.Router()); err != nil {
		log.Printf("startup_error err=%v", err)
		os.Exit(1)
	}
}
