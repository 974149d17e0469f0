// Package cmd defines the ragchat command line interface.
package cmd

import (
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "ragchat",
	Short: "ragchat - retrieval-augmented FAQ chat service",
	Long: `ragchat answers product questions from a curated FAQ knowledge base.

It ingests question/answer spreadsheets into a pgvector collection and serves
a chat API that retrieves the most relevant entries, grounds a Gemini model
in them, and reports a confidence score with every answer.`,
	SilenceUsage: true,
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}
