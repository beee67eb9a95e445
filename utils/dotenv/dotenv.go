package dotenv

import (
	"os"

	"github.com/joho/godotenv"
)

const (
	envFile      = ".env"
	localEnvFile = ".env.local"
)

// LoadDotEnvs loads .env then .env.local from the working directory. Missing
// files are skipped, values already present in the environment win.
func LoadDotEnvs() error {
	for _, file := range []string{localEnvFile, envFile} {
		if _, err := os.Stat(file); err != nil {
			continue
		}
		if err := godotenv.Load(file); err != nil {
			return err
		}
	}
	return nil
}
