package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"path/filepath"

	"github.com/AnasShams/reddit-persona-generator/internal/config"
	"github.com/AnasShams/reddit-persona-generator/internal/database"
	"github.com/AnasShams/reddit-persona-generator/internal/pipeline"
	"github.com/AnasShams/reddit-persona-generator/internal/reddit"
	"github.com/AnasShams/reddit-persona-generator/internal/server"
	"github.com/spf13/cobra"
)

var version = "dev"

var (
	verbose    bool
	configPath string
	cfg        *config.Config
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:     "redditpersona",
	Short:   "Generate user personas from public Reddit activity",
	Long:    "redditpersona fetches a Reddit user's posts and comments and distills them into a citation-backed persona report.",
	Version: version,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if verbose {
			log.SetFlags(log.LstdFlags | log.Lshortfile)
		} else {
			log.SetFlags(log.LstdFlags)
		}

		// Skip config loading for init and version
		if cmd.Name() == "init" || cmd.Name() == "version" {
			return nil
		}

		path, err := config.ResolveConfigPath(configPath)
		if err != nil {
			return err
		}
		cfg, err = config.Load(path)
		if err != nil {
			return fmt.Errorf("loading config: %w", err)
		}
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose output")
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "Path to config file")

	rootCmd.AddCommand(initCmd)
	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(statusCmd)
	rootCmd.AddCommand(generateCmd)
	rootCmd.AddCommand(serveCmd)
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println("redditpersona", version)
	},
}

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize configuration in ~/.config/redditpersona/",
	RunE: func(cmd *cobra.Command, args []string) error {
		target := filepath.Join(config.ConfigDir(), "config.yaml")
		if _, err := os.Stat(target); err == nil {
			fmt.Printf("Config already exists: %s\n", target)
			return nil
		}

		if err := os.MkdirAll(config.ConfigDir(), 0o755); err != nil {
			return fmt.Errorf("creating config directory: %w", err)
		}

		if err := os.WriteFile(target, config.DefaultConfigYAML, 0o644); err != nil {
			return fmt.Errorf("writing config: %w", err)
		}

		fmt.Printf("Created config: %s\n", target)
		fmt.Println("Edit it to adjust keyword taxonomies, limits, and the user agent.")
		return nil
	},
}

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show database status",
	RunE: func(cmd *cobra.Command, args []string) error {
		db, err := openDB()
		if err != nil {
			return err
		}
		defer db.Close()

		stats, err := db.GetStats()
		if err != nil {
			return fmt.Errorf("getting stats: %w", err)
		}

		fmt.Printf("Database: %s\n\n", db.Path())
		fmt.Printf("Users analyzed: %d\n", stats.Users)
		fmt.Printf("Stored reports: %d\n", stats.Reports)
		fmt.Printf("Stored snapshots: %d\n", stats.Snapshots)
		return nil
	},
}

// --- generate command ---

var (
	outPath string
	offline bool
	useRSS  bool
)

var generateCmd = &cobra.Command{
	Use:   "generate [username or profile URL]",
	Short: "Fetch a user's activity and generate a persona report",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		username, err := reddit.ExtractUsername(args[0])
		if err != nil {
			return err
		}

		db, err := openDB()
		if err != nil {
			return err
		}
		defer db.Close()

		pipe := pipeline.New(cfg, db)
		if useRSS {
			pipe.SetSource(reddit.NewFeedSource(cfg.Reddit.BaseURL))
		}

		result := pipe.Run(context.Background(), username, offline)

		for i, step := range result.Steps {
			fmt.Printf("\nStep %d/3: %s\n", i+1, step.Name)
			if step.Err != nil {
				fmt.Printf("  Error: %v\n", step.Err)
			} else {
				fmt.Printf("  %s\n", step.Summary)
			}
		}
		if result.Failed() {
			return fmt.Errorf("generation failed for u/%s", username)
		}

		if outPath != "" {
			if err := os.WriteFile(outPath, []byte(result.Report), 0o644); err != nil {
				return fmt.Errorf("writing report: %w", err)
			}
			fmt.Printf("\nReport written to %s\n", outPath)
		} else {
			fmt.Println()
			fmt.Println(result.Report)
		}

		fmt.Println("Run 'redditpersona serve' to browse stored personas.")
		return nil
	},
}

func init() {
	generateCmd.Flags().StringVarP(&outPath, "out", "o", "", "Write the report to a file instead of stdout")
	generateCmd.Flags().BoolVar(&offline, "offline", false, "Reuse the latest stored snapshot instead of fetching")
	generateCmd.Flags().BoolVar(&useRSS, "rss", false, "Fetch via the RSS feed instead of the JSON API")
}

// --- serve command ---

var servePort int

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the local web server",
	RunE: func(cmd *cobra.Command, args []string) error {
		db, err := openDB()
		if err != nil {
			return err
		}
		defer db.Close()

		port := servePort
		if !cmd.Flags().Changed("port") && cfg.Server.Port != 0 {
			port = cfg.Server.Port
		}

		pipe := pipeline.New(cfg, db)
		fmt.Printf("Starting server at http://localhost:%d\n", port)
		fmt.Println("Press Ctrl+C to stop")
		return server.Serve(db, pipe, port)
	},
}

func init() {
	serveCmd.Flags().IntVarP(&servePort, "port", "p", 8000, "Port to run server on")
}

func openDB() (*database.DB, error) {
	dataDir := cfg.GetDataDir()
	if err := os.MkdirAll(dataDir, 0o755); err != nil {
		return nil, fmt.Errorf("creating data directory: %w", err)
	}
	dbPath := filepath.Join(dataDir, "redditpersona.db")
	return database.Open(dbPath)
}
