package initializers

import (
	"log"

	"github.com/joho/godotenv"
)

// LoadEnv reads .env into the process environment. Missing file is
// fine in deployed environments where variables come from the host.
func LoadEnv() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using existing environment")
	}
}
