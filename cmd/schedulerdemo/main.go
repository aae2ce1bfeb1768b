// Command schedulerdemo runs a small, hard-coded task graph through the
// scheduler so its flags can be used to poke at concurrency, keep-going,
// and verbosity behavior from the command line.
package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/corvidwork/scheduler"
	"github.com/corvidwork/scheduler/logctx"
	"github.com/corvidwork/scheduler/metrics"
	"github.com/corvidwork/scheduler/uidtask"
)

var rootCmd = &cobra.Command{
	Use:   "schedulerdemo",
	Short: "Runs a sample dependency graph through the scheduler",
	RunE:  run,
}

func init() {
	flags := rootCmd.Flags()
	flags.IntP("jobs", "j", 1, "maximum number of tasks to execute concurrently")
	flags.IntP("keep-going", "k", 0, "0 stops on first failure, 1 stops only on a runnable-status error, >=2 keeps dispatching")
	flags.BoolP("verbose", "v", false, "also record canceled tasks in the error report")
	flags.String("fail", "", "name of a task to make fail, to exercise keep-going behavior")
	flags.String("config", "", "optional config file (yaml/json/toml) supplying the settings above; flags given on the command line take precedence")

	for _, name := range []string{"jobs", "keep-going", "verbose", "fail"} {
		if err := viper.BindPFlag(name, flags.Lookup(name)); err != nil {
			panic(err)
		}
	}
	viper.SetEnvPrefix("schedulerdemo")
	viper.AutomaticEnv()
}

func run(cmd *cobra.Command, _ []string) error {
	if cfgFile, _ := cmd.Flags().GetString("config"); cfgFile != "" {
		viper.SetConfigFile(cfgFile)
		if err := viper.ReadInConfig(); err != nil {
			return fmt.Errorf("reading config file: %w", err)
		}
	}

	logger := zerolog.New(zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.Kitchen}).With().Timestamp().Logger()
	bctx := logctx.NewContext(logger, 0)

	failName := viper.GetString("fail")
	producer, total := buildDemoGraph(bctx.Log(), failName)
	bctx.SetTotal(total)

	provider := metrics.NewPrometheusProvider(prometheusRegistererOrNil())

	drv, err := scheduler.New(producer, bctx,
		scheduler.WithNumJobs(viper.GetInt("jobs")),
		scheduler.WithKeepGoing(viper.GetInt("keep-going")),
		withVerboseOption(viper.GetBool("verbose")),
		scheduler.WithMetricsProvider(provider),
	)
	if err != nil {
		return fmt.Errorf("constructing driver: %w", err)
	}

	if err := drv.Start(context.Background()); err != nil {
		return fmt.Errorf("build failed: %w", err)
	}

	if errs := drv.Errors(); len(errs) > 0 {
		for _, t := range errs {
			logger.Error().Msgf("task failed: %v", t)
		}
		return fmt.Errorf("%d task(s) failed", len(errs))
	}

	logger.Info().Msg("build completed successfully")
	return nil
}

func prometheusRegistererOrNil() prometheus.Registerer {
	return prometheus.NewRegistry()
}

func withVerboseOption(verbose bool) scheduler.Option {
	if verbose {
		return scheduler.WithVerbose()
	}
	return func(*scheduler.Config) {}
}

// buildDemoGraph wires three tasks, build then test then package, the
// second optionally failing, so --fail=test and --keep-going can be
// combined to watch cancellation ripple downstream.
func buildDemoGraph(log scheduler.LogSink, failName string) (scheduler.Producer, int) {
	build := uidtask.New("build", nil, 2, nil, func() error {
		log.Infof("compiling")
		return nil
	})

	test := uidtask.New("test", []scheduler.Node{build}, 1, nil, func() error {
		log.Infof("running tests")
		if failName == "test" {
			return fmt.Errorf("unit tests failed")
		}
		return nil
	})

	pkg := uidtask.New("package", []scheduler.Node{test}, 0, func() (scheduler.Status, error) {
		if test.Hasrun == scheduler.Failure {
			return scheduler.CancelMe, nil
		}
		return scheduler.RunMe, nil
	}, func() error {
		log.Infof("packaging artifact")
		if failName == "package" {
			return fmt.Errorf("packaging failed")
		}
		return nil
	})

	tasks := []scheduler.Task{build, test, pkg}
	return scheduler.NewSliceProducer([][]scheduler.Task{tasks}), len(tasks)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
