package cmd

import (
	"os"

	"github.com/apex/log"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/spf13/cobra"

	"github.com/hackos/hackd/pkg/assistant"
	"github.com/hackos/hackd/pkg/blobstor"
	"github.com/hackos/hackd/pkg/clog"
	"github.com/hackos/hackd/pkg/config"
	"github.com/hackos/hackd/pkg/console"
	"github.com/hackos/hackd/pkg/engine"
	"github.com/hackos/hackd/pkg/eventdb"
	"github.com/hackos/hackd/pkg/eventdb/stor"
	"github.com/hackos/hackd/pkg/feed"
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "hackd",
	Short: "Run the hackathon coordination server",
	Long:  ``,
	Run: func(cmd *cobra.Command, args []string) {
		c := config.MustLoadFromDotenv()

		if err := clog.SetGlobalLoggerLevelFromString(c.GetKeyWithDefault("HACKD_LOG_LEVEL", "info")); err != nil {
			log.Fatalf("Bad HACKD_LOG_LEVEL: %s", err)
		}

		db := eventdb.MustConnectToDB()
		if err := eventdb.Migrate(db); err != nil {
			log.Fatalf("Unable to migrate db: %s", err)
		}

		hub := feed.NewHub()
		go hub.Run()

		stors := stor.NewGormStors(db, hub)
		if _, err := stors.ConfigStor.EnsureConfig(); err != nil {
			log.Fatalf("Unable to ensure global config: %s", err)
		}

		blobs, err := blobstor.NewDiskStore(c.MustGetKey("HACKD_BLOB_DIR"))
		if err != nil {
			log.Fatalf("Unable to open blob store: %s", err)
		}

		var asker assistant.Asker
		if assistURL := c.GetKey("HACKD_ASSISTANT_URL"); assistURL != "" {
			asker = assistant.NewClient(assistURL)
		} else {
			asker = assistant.NewMockClient("Assistant is offline. Raise your hand for help.")
		}

		wizard := engine.NewWizard(stors.TeamStor, stors.ConfigStor)

		if consolePort := c.GetKey("HACKD_CONSOLE_PORT"); consolePort != "" {
			sshServer, err := console.NewServer(
				c.GetKeyWithDefault("HACKD_CONSOLE_HOST", "0.0.0.0"),
				consolePort,
				c.GetKeyWithDefault("HACKD_CONSOLE_HOST_KEY", ".ssh/hackd_ed25519"),
				stors.TeamStor, wizard)
			if err != nil {
				log.Fatalf("Unable to start ssh console: %s", err)
			}
			go func() {
				if err := sshServer.ListenAndServe(); err != nil {
					log.Errorf("ssh console stopped: %s", err)
				}
			}()
		}

		e := echo.New()
		e.HideBanner = true
		e.HidePort = true
		e.Use(middleware.Recover())

		setupRoutes(e, RouteOpts{
			stors:  stors,
			hub:    hub,
			blobs:  blobs,
			asker:  asker,
			wizard: wizard,
		})

		port := c.GetKeyWithDefault("HACKD_PORT", "1350")
		log.Infof("hackd listening on :%s", port)
		if err := e.Start(":" + port); err != nil {
			log.Fatalf("Unable to start server: %v", err)
		}
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}
