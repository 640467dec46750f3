package cmd

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

var (
	cfgFile string
	Version = "1.0.0"
)

var (
	dryRun      bool
	seed        int64
	profilePath string
)

var rootCmd = &cobra.Command{
	Use:   "addtx [transactions_per_user]",
	Short: "Add generated transactions to every active customer",
	Long: `
addtx connects to an existing application database, loads every active
customer (role = 'customer', is_active = true) and inserts an additional
batch of randomly generated financial transactions for each of them.

All rows are written in a single database transaction. When
transactions_per_user is omitted or is not a valid non-negative number
(including values such as -5), a random count between 10 and 30 is used.
Only the first argument is read; any further arguments are ignored.

Database Support:
- PostgreSQL
- MySQL
- SQLite`,
	Args:         cobra.ArbitraryArgs,
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		showVersion, _ := cmd.Flags().GetBool("version")
		if showVersion {
			fmt.Fprintf(cmd.OutOrStdout(), "addtx version %s\n", Version)
			return nil
		}

		cfg, err := loadConfig()
		if err != nil {
			return err
		}

		_, err = runAdd(cmd.Context(), cfg, args, runOptions{DryRun: dryRun, Output: commandOutput(cmd)})
		return err
	},
}

func Execute() error {
	return executeArgs(os.Args[1:])
}

func executeArgs(args []string) error {
	rootCmd.SetArgs(normalizeArgs(rootCmd, args))
	return rootCmd.Execute()
}

// commandOutput keeps color.Output for the terminal so colors work on Windows.
func commandOutput(cmd *cobra.Command) io.Writer {
	out := cmd.OutOrStdout()
	if out == os.Stdout {
		return color.Output
	}
	return out
}

// normalizeArgs moves dash-leading tokens that are not root flags (such as
// "-5") behind "--", so they reach RunE as the count argument instead of
// failing flag parsing. Subcommand invocations are left untouched.
func normalizeArgs(root *cobra.Command, args []string) []string {
	root.InitDefaultHelpCmd()
	root.InitDefaultCompletionCmd()
	root.InitDefaultHelpFlag()
	if len(args) > 0 && strings.HasPrefix(args[0], "__complete") {
		return args
	}
	if target, _, err := root.Find(args); err == nil && target != root {
		return args
	}

	flags := root.Flags()
	var known, positional []string
	for i := 0; i < len(args); i++ {
		arg := args[i]
		if arg == "--" {
			positional = append(positional, args[i+1:]...)
			break
		}
		if !strings.HasPrefix(arg, "-") || arg == "-" {
			positional = append(positional, arg)
			continue
		}

		f, inlineValue := lookupFlag(flags, arg)
		if f == nil {
			positional = append(positional, arg)
			continue
		}
		known = append(known, arg)
		if f.NoOptDefVal == "" && !inlineValue && i+1 < len(args) {
			i++
			known = append(known, args[i])
		}
	}

	if !hasDashToken(positional) {
		return args
	}
	return append(append(known, "--"), positional...)
}

func lookupFlag(flags *pflag.FlagSet, arg string) (f *pflag.Flag, inlineValue bool) {
	if name, ok := strings.CutPrefix(arg, "--"); ok {
		name, _, inlineValue = strings.Cut(name, "=")
		return flags.Lookup(name), inlineValue
	}
	return flags.ShorthandLookup(arg[1:2]), len(arg) > 2
}

func hasDashToken(args []string) bool {
	for _, arg := range args {
		if strings.HasPrefix(arg, "-") && arg != "-" {
			return true
		}
	}
	return false
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ./addtx.config.json)")

	rootCmd.Flags().BoolVar(&dryRun, "dry-run", false, "Generate and insert, then roll back instead of committing")
	rootCmd.Flags().Int64Var(&seed, "seed", 0, "Random seed for reproducible runs (0 = time based)")
	rootCmd.Flags().StringVar(&profilePath, "profile", "", "YAML transaction catalog (default is the built-in catalog)")
	rootCmd.Flags().BoolP("version", "v", false, "Show CLI version")

	viper.BindPFlag("generator.seed", rootCmd.Flags().Lookup("seed"))
	viper.BindPFlag("generator.profile", rootCmd.Flags().Lookup("profile"))
}

func initConfig() {
	if err := godotenv.Load(); err != nil {
		godotenv.Load(".env.local")
	}

	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.AddConfigPath(".")
		viper.SetConfigType("json")
		viper.SetConfigName("addtx.config")
	}

	viper.SetEnvPrefix("ADDTX")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			color.Yellow("⚠️  Could not read config file: %v", err)
		}
	}
}
