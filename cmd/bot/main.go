package main

import (
	protocol "cinemabot/protocal"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
)

func main() {
	// Environment variables from a local .env file override nothing already set
	if err := godotenv.Load(); err != nil {
		logrus.Debugf(".env file not loaded: %v", err)
	}

	err := protocol.Serve()
	if err != nil {
		logrus.Println(err)
	}
}
