package cmd

import (
	"os"

	"github.com/spf13/cobra"

	"gemini-transcriber/cmd/transcriber/cmd/serve"
	"gemini-transcriber/cmd/transcriber/cmd/version"
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "transcriber",
	Short: "Transcribe video and audio files into speaker-labeled Japanese text with Gemini",
	Long: `Transcribe video and audio files into speaker-labeled Japanese text with Gemini.
- Run "transcriber serve" and open the page in a browser
- Pick a video or audio file of up to 100MB
- The transcript is produced by the Gemini API; nothing is stored.`,
	TraverseChildren: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.AddCommand(serve.Cmd)
	rootCmd.AddCommand(version.Cmd)
}
