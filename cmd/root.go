package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/sunnyside/storefront/internal/constants"
	"github.com/sunnyside/storefront/internal/log"
	storeCmd "github.com/sunnyside/storefront/store/cmd"
	storefrontCmd "github.com/sunnyside/storefront/storefront/cmd"
	userCmd "github.com/sunnyside/storefront/user/cmd"
)

func Start() {
	logger := log.Get("/var/log/sunnyside.log", os.Getenv("APP_ENV")).
		With().
		Str(constants.KEY_APP_NAME, constants.APP_MAIN_STOREFRONT).
		Str(constants.KEY_TAG, "main Start").
		Logger()

	logger.Info().Msg("adding listener for SIGINT and SIGTERM")
	c, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	logger.Info().Msg("added listener for SIGINT and SIGTERM")

	c = logger.WithContext(c)

	rootCmd := &cobra.Command{Use: "sunnyside"}
	commands := []*cobra.Command{
		{
			Use:   "storefront",
			Short: "Run storefront service",
			Run: func(cmd *cobra.Command, args []string) {
				storefrontCmd.RunStorefrontService(cmd.Context())
			},
		},
		{
			Use:   "store",
			Short: "Run store service",
			Run: func(cmd *cobra.Command, args []string) {
				storeCmd.RunStoreService(cmd.Context())
			},
		},
		{
			Use:   "user",
			Short: "Run user service",
			Run: func(cmd *cobra.Command, args []string) {
				userCmd.RunUserService(cmd.Context())
			},
		},
	}
	rootCmd.AddCommand(commands...)
	if err := rootCmd.ExecuteContext(c); err != nil {
		logger.Fatal().Err(err).Msgf("error when executing command=%s", err.Error())
	}
}
