package util

import (
	"fmt"
	"strings"

	"github.com/ValentinKolb/hKV/lib/hist"
	"github.com/ValentinKolb/hKV/lib/hist/engines/arena"
	"github.com/ValentinKolb/hKV/lib/hist/engines/chain"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

const (
	// Wrap is the number of characters to Wrap the help text at
	Wrap int = 50
)

// WrapString wraps a string at Wrap characters
func WrapString(text string) string {
	var wrappedLines []string
	var currentLine strings.Builder
	lineWidth := 0

	for _, word := range strings.Fields(text) {
		wordWidth := len(word)

		// Check if we need to wrap
		if lineWidth > 0 && lineWidth+1+wordWidth > Wrap {
			wrappedLines = append(wrappedLines, currentLine.String())
			currentLine.Reset()
			lineWidth = 0
		}

		// Add space before word (if not first word on line)
		if lineWidth > 0 {
			currentLine.WriteString(" ")
			lineWidth++
		}

		// Add the word
		currentLine.WriteString(word)
		lineWidth += wordWidth
	}

	// Add any remaining text
	if currentLine.Len() > 0 {
		wrappedLines = append(wrappedLines, currentLine.String())
	}

	return strings.Join(wrappedLines, "\n")
}

// InitEnvConfig initializes configuration from environment variables
func InitEnvConfig() {
	// load env files
	_ = godotenv.Load(".env")
	_ = godotenv.Load(".env.local")

	// initialize viper
	viper.SetEnvPrefix("hkv")
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv() // read in environment variables that match
}

// GetHistFactory creates a history engine factory based on configuration
func GetHistFactory() (hist.HistFactory[string], error) {
	capacity := viper.GetInt("capacity")

	switch viper.GetString("engine") {
	case "chain":
		return func() hist.IHistory[string] {
			return chain.NewHistory[string](&chain.Options{InitialCapacity: capacity})
		}, nil
	case "arena":
		return func() hist.IHistory[string] {
			return arena.NewHistory[string](&arena.Options{InitialCapacity: capacity})
		}, nil
	default:
		return nil, fmt.Errorf("invalid engine %s", viper.GetString("engine"))
	}
}

// GetEngineName retrieves the configured engine name
func GetEngineName() string {
	return viper.GetString("engine")
}

// BindCommandFlags binds a command's flags to viper
func BindCommandFlags(cmd *cobra.Command) error {
	return viper.BindPFlags(cmd.Flags())
}
