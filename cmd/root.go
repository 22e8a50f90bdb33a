package cmd

import (
	"context"
	"log"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/hashicorp/logutils"
	"github.com/spf13/cobra"

	"github.com/ftl/iqscope/core"
	coreapp "github.com/ftl/iqscope/core/app"
	"github.com/ftl/iqscope/core/cfg"
	uiapp "github.com/ftl/iqscope/ui/app"
)

var logLevels = []logutils.LogLevel{"DEBUG", "INFO", "WARN", "ERROR"}

var rootFlags = struct {
	logLevel        string
	testmode        string
	centerFrequency float64
	sampleRate      int
	log2Decimation  int
	shift           float64
	dcBlock         bool
	iqCorrection    bool
	windowSize      int
	mode            string
	trigger         string
	levelHigh       float64
	levelLow        float64
	preTrigger      int
	export          string
	exportTarget    string
}{}

var rootCmd = &cobra.Command{
	Use:   "iqscope",
	Short: "an oscilloscope for IQ samples with level trigger",
	Long: `iqscope shows the I and Q components of a complex signal in two scopes.
The signal is read from an RTL-SDR dongle or from a synthetic test input.`,
	PersistentPreRun: setupLogging,
	Run:              runGUI,
}

// Execute the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		log.Fatal(err)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&rootFlags.logLevel, "log-level", "INFO", "the minimum log level (DEBUG, INFO, WARN, ERROR)")
	rootCmd.PersistentFlags().StringVar(&rootFlags.testmode, "testmode", "", "use a synthetic input instead of the RTL-SDR dongle ("+strings.Join(coreapp.Testmodes, ", ")+")")
	rootCmd.PersistentFlags().Float64Var(&rootFlags.centerFrequency, "center", 0, "the center frequency in Hz")
	rootCmd.PersistentFlags().IntVar(&rootFlags.sampleRate, "rate", 0, "the sample rate in samples per second")
	rootCmd.PersistentFlags().IntVar(&rootFlags.log2Decimation, "decimation", 0, "the decimation as power of two")
	rootCmd.PersistentFlags().Float64Var(&rootFlags.shift, "shift", 0, "shift the signal by this frequency in Hz before the decimation")
	rootCmd.PersistentFlags().BoolVar(&rootFlags.dcBlock, "dc-block", false, "remove the DC offset")
	rootCmd.PersistentFlags().BoolVar(&rootFlags.iqCorrection, "iq-correction", false, "correct the IQ imbalance")
	rootCmd.PersistentFlags().IntVar(&rootFlags.windowSize, "window", 0, "the number of samples in one capture window")
	rootCmd.PersistentFlags().StringVar(&rootFlags.mode, "mode", "", "the display mode ("+displayModeNames()+")")
	rootCmd.PersistentFlags().StringVar(&rootFlags.trigger, "trigger", "", "the trigger channel (i, q, free)")
	rootCmd.PersistentFlags().Float64Var(&rootFlags.levelHigh, "level-high", 0, "the upper trigger level")
	rootCmd.PersistentFlags().Float64Var(&rootFlags.levelLow, "level-low", 0, "the lower trigger level")
	rootCmd.PersistentFlags().IntVar(&rootFlags.preTrigger, "pre-trigger", 0, "the number of samples before the trigger point")
	rootCmd.PersistentFlags().StringVar(&rootFlags.export, "export", "", "export the captured windows (csv, sqlite, mysql)")
	rootCmd.PersistentFlags().StringVar(&rootFlags.exportTarget, "export-target", "", "the file name or DSN for the export")
}

func displayModeNames() string {
	names := make([]string, len(core.DisplayModes))
	for i, mode := range core.DisplayModes {
		names[i] = mode.String()
	}
	return strings.Join(names, ", ")
}

func setupLogging(cmd *cobra.Command, args []string) {
	filter := &logutils.LevelFilter{
		Levels:   logLevels,
		MinLevel: logutils.LogLevel(strings.ToUpper(rootFlags.logLevel)),
		Writer:   os.Stderr,
	}
	log.SetOutput(filter)
	log.Print("[DEBUG] Debug is on")
}

func runWithCtx(f func(ctx context.Context, config core.Configuration, cmd *cobra.Command, args []string) error) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		config, err := loadConfiguration(cmd)
		if err != nil {
			return err
		}
		ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer cancel()
		return f(ctx, config, cmd, args)
	}
}

func loadConfiguration(cmd *cobra.Command) (core.Configuration, error) {
	configuration, err := cfg.Load()
	if err != nil {
		log.Printf("[INFO] %v, using the defaults", err)
		configuration = cfg.Static()
	}
	return applyFlags(configuration, cmd)
}

func applyFlags(config core.Configuration, cmd *cobra.Command) (core.Configuration, error) {
	flags := cmd.Flags()
	if flags.Changed("testmode") {
		config.Testmode = rootFlags.testmode
	}
	if flags.Changed("center") {
		config.CenterFrequency = core.Frequency(rootFlags.centerFrequency)
	}
	if flags.Changed("rate") {
		config.SampleRate = rootFlags.sampleRate
	}
	if flags.Changed("decimation") {
		config.Log2Decimation = rootFlags.log2Decimation
	}
	if flags.Changed("shift") {
		config.Shift = core.Frequency(rootFlags.shift)
	}
	if flags.Changed("dc-block") {
		config.DCBlock = rootFlags.dcBlock
	}
	if flags.Changed("iq-correction") {
		config.IQCorrection = rootFlags.iqCorrection
	}
	if flags.Changed("window") {
		config.WindowSize = rootFlags.windowSize
	}
	if flags.Changed("mode") {
		mode, err := core.ParseDisplayMode(rootFlags.mode)
		if err != nil {
			return config, err
		}
		config.View.Mode = mode
	}
	if flags.Changed("trigger") {
		channel, err := core.ParseTriggerChannel(rootFlags.trigger)
		if err != nil {
			return config, err
		}
		config.Trigger.Channel = channel
	}
	if flags.Changed("level-high") {
		config.Trigger.LevelHigh = rootFlags.levelHigh
	}
	if flags.Changed("level-low") {
		config.Trigger.LevelLow = rootFlags.levelLow
	}
	if flags.Changed("pre-trigger") {
		config.Trigger.PreTrigger = rootFlags.preTrigger
	}
	if flags.Changed("export") {
		config.Export = rootFlags.export
	}
	if flags.Changed("export-target") {
		config.ExportTarget = rootFlags.exportTarget
	}
	return config, nil
}

func runGUI(cmd *cobra.Command, args []string) {
	config, err := loadConfiguration(cmd)
	if err != nil {
		log.Fatal(err)
	}

	controller := coreapp.New(config)
	uiapp.Run(controller, append([]string{os.Args[0]}, args...))
}
