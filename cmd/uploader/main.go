package main

import (
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

func main() {
	rootCmd := &cobra.Command{
		Use:           "uploader",
		Short:         "Medical records maintenance tools",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	rootCmd.AddCommand(newUploadCommand())

	if err := rootCmd.Execute(); err != nil {
		logrus.WithError(err).Fatal("uploader failed")
	}
}
