package cmd

import (
	"context"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var healthCmd = &cobra.Command{
	Use:   "health",
	Short: "Check that the ranking service is up",
	Run: func(cmd *cobra.Command, _ []string) {
		health(cmd.Context())
	},
}

func init() {
	rootCmd.AddCommand(healthCmd)
}

func health(ctx context.Context) {
	if ctx == nil {
		ctx = context.Background()
	}

	logger, _, client := setup()

	if err := client.Health(ctx); err != nil {
		logger.Fatal("ranking service is not healthy", zap.String("url", client.APIURL), zap.Error(err))
	}

	logger.Info("ranking service is healthy", zap.String("url", client.APIURL))
}
