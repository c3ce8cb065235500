package commands

import (
	"fmt"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/dyluth/lineage/internal/config"
	"github.com/dyluth/lineage/internal/listing"
	"github.com/dyluth/lineage/internal/logging"
	"github.com/dyluth/lineage/internal/printer"
	"github.com/dyluth/lineage/internal/treefile"
	"github.com/dyluth/lineage/pkg/genealogy"
)

var (
	version string
	commit  string
	date    string
)

// Global flags and the state PersistentPreRunE derives from them.
var (
	configPath string
	treePath   string
	logLevel   string

	cfg *config.LineageConfig
	log *logrus.Logger
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "lineage",
	Short: "Lineage - family tree keeper with multi-calendar dates",
	Long: `Lineage keeps family trees in plain YAML or JSON files.

Persons, life events and pictures are recorded with dates in the Gregorian,
Julian, Coptic, Ethiopian or French republican calendars, each of which may
be exact, approximate, a range or a set of alternatives.

Trees can be shared through Redis with 'lineage push' and 'lineage pull'.`,
	Version: version,
	// Prevent silent success when unknown flags are passed to root command
	RunE: func(cmd *cobra.Command, args []string) error {
		return cmd.Help()
	},
	PersistentPreRunE: setup,
	// Enable strict flag parsing - unknown flags will cause an error
	FParseErrWhitelist: cobra.FParseErrWhitelist{},
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() error {
	// Silence Cobra's default error and usage printing
	// We print formatted colored errors directly in the printer package
	rootCmd.SilenceErrors = true
	rootCmd.SilenceUsage = true
	return rootCmd.Execute()
}

// SetVersionInfo sets the version information for the CLI
func SetVersionInfo(v, c, d string) {
	version = v
	commit = c
	date = d
	rootCmd.Version = fmt.Sprintf("%s (commit: %s, built: %s)", v, c, d)
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", config.DefaultPath, "Path to lineage.yml")
	rootCmd.PersistentFlags().StringVarP(&treePath, "tree", "t", "tree.yml", "Tree file (.yml, .yaml or .json)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "Override log.level from the configuration")
}

func setup(cmd *cobra.Command, args []string) error {
	printer.Stdout = cmd.OutOrStdout()
	printer.Stderr = cmd.ErrOrStderr()

	var err error
	cfg, err = config.LoadOrDefault(configPath)
	if err != nil {
		return printer.Error(
			"invalid configuration",
			err.Error(),
			[]string{fmt.Sprintf("Fix or remove %s", configPath)},
		)
	}

	level := cfg.Log.Level
	if logLevel != "" {
		level = logLevel
	}
	log, err = logging.NewWithWriter(cmd.ErrOrStderr(), level)
	if err != nil {
		return printer.Error("invalid log level", err.Error(), nil)
	}
	log.WithFields(logrus.Fields{"config": configPath, "tree": treePath}).Debug("configuration loaded")
	return nil
}

// dateStyle returns the date rendering chosen in the configuration.
func dateStyle() listing.DateStyle {
	cal, ok := cfg.DisplayCalendar()
	return listing.DateStyle{Calendar: cal, Convert: ok}
}

// loadTree reads the tree file named by --tree.
func loadTree() (*genealogy.FamilyTree, error) {
	tree, err := treefile.Load(treePath)
	if err != nil {
		return nil, printer.ModelError("load "+treePath, err)
	}
	log.WithFields(logrus.Fields{"tree": treePath, "persons": tree.Len()}).Debug("tree loaded")
	return tree, nil
}

// saveTree writes tree back to --tree.
func saveTree(tree *genealogy.FamilyTree) error {
	if err := treefile.Save(treePath, tree); err != nil {
		return printer.Error(fmt.Sprintf("failed to save %s", treePath), err.Error(), nil)
	}
	log.WithField("tree", treePath).Debug("tree saved")
	return nil
}
