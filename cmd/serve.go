package cmd

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"license-auditor/core/loader"
	"license-auditor/core/logger"
	"license-auditor/core/middleware/auth"
	"license-auditor/core/middleware/rayid"
	"license-auditor/feature/audit"

	"github.com/gofiber/fiber/v2"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// serveCmd represents the serve command
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the audit HTTP API",
	Long:  `Starts the HTTP server exposing audits and the run history.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		rt, err := setup(cmd.Context())
		if err != nil {
			return err
		}
		defer rt.log.Sync()
		zap.ReplaceGlobals(rt.log)

		app := fiber.New(fiber.Config{
			DisableStartupMessage: true,
			BodyLimit:             rt.cfg.Server.BodyLimit(),
		})

		// RayID first so every log line of the request carries it.
		app.Use(rayid.New())
		app.Use(func(c *fiber.Ctx) error {
			l := logger.WithRayID(rt.log, c)
			l.Info("Request started",
				zap.String("method", c.Method()),
				zap.String("path", c.Path()),
				zap.String("ip", c.IP()),
			)
			err := c.Next()
			if err != nil {
				l.Error("Request error", zap.Error(err))
			}
			return err
		})
		app.Use(auth.New(auth.Config{ApiKey: rt.cfg.Server.ApiKey}))
		if rt.cfg.Server.ApiKey == "" {
			rt.log.Warn("No API key configured, the API is unprotected")
		}

		mgr := loader.NewManager(rt.log)
		mgr.Register(audit.NewFeature(rt.service))
		if err := mgr.LoadAll(app); err != nil {
			return err
		}

		errCh := make(chan error, 1)
		go func() {
			rt.log.Info("Starting server", zap.String("port", rt.cfg.Server.Port))
			errCh <- app.Listen(rt.cfg.Server.Address())
		}()

		sig := make(chan os.Signal, 1)
		signal.Notify(sig, os.Interrupt, syscall.SIGTERM)
		select {
		case err := <-errCh:
			return fmt.Errorf("server failed: %w", err)
		case <-sig:
		}

		rt.log.Info("Shutting down server...")
		return app.Shutdown()
	},
}

func init() {
	RootCmd.AddCommand(serveCmd)
}
