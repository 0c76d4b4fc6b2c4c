package main

import (
	"fmt"
	"os"

	"github.com/spf13/pflag"
	"github.com/xmidt-org/semdemo/gate"
	"github.com/xmidt-org/semdemo/logging"
	"github.com/xmidt-org/semdemo/semaphore"
	"github.com/xmidt-org/semdemo/threadcoord"
	"github.com/xmidt-org/semdemo/xmetrics"
	"github.com/xmidt-org/semdemo/xviper"
	"go.uber.org/zap"
)

const (
	applicationName = "threadsema"

	exitSuccess = 0
	exitUsage   = 2
)

func newFlagSet() *pflag.FlagSet {
	flagSet := pflag.NewFlagSet(applicationName, pflag.ContinueOnError)
	flagSet.StringP(xviper.DefaultFileFlag, "f", "", "the configuration file")
	flagSet.Duration("unit", threadcoord.DefaultUnit, "the pause after each print")
	flagSet.Int("iterations", threadcoord.DefaultIterations, "the number of prints per thread")
	flagSet.StringSlice("labels", threadcoord.DefaultLabels, "the line each thread prints")
	flagSet.IntSlice("pauses", []int{1, 1}, "the pause of each thread, in units")
	flagSet.String("metrics", "", "write semaphore metrics to this file in the Prometheus text format")
	return flagSet
}

func threadsema(arguments []string) int {
	f := newFlagSet()
	if err := f.Parse(arguments); err != nil {
		fmt.Fprintf(os.Stderr, "%s: %s\n", applicationName, err)
		return exitUsage
	}

	v, err := xviper.New(
		xviper.StdOptions(applicationName, f),
		xviper.BindConfigFile(f, xviper.DefaultFileFlag),
		xviper.WithDefaults(logging.Defaults()),
		xviper.ReadInConfig(true),
	)

	if err != nil {
		fmt.Fprintf(os.Stderr, "%s: unable to read configuration: %s\n", applicationName, err)
		return exitUsage
	}

	logOptions, err := logging.FromViper(logging.Sub(v))
	if err != nil {
		fmt.Fprintf(os.Stderr, "%s: unable to read logging options: %s\n", applicationName, err)
		return exitUsage
	}

	logger := logging.New(logOptions)
	defer logger.Sync()

	var (
		registry    xmetrics.Registry
		metricsFile = v.GetString("metrics")
		instrument  []semaphore.InstrumentOption
		g           = gate.New(gate.WithInitiallyClosed())
	)

	if len(metricsFile) > 0 {
		registry = xmetrics.NewRegistry(&xmetrics.Options{Namespace: applicationName})
		instrument = semaphore.RegistryOptions(registry)
		g = gate.New(
			gate.WithInitiallyClosed(),
			gate.WithClosedGauge(registry.NewGauge(xmetrics.GateClosed)),
			gate.WithOpenings(registry.NewCounter(xmetrics.GateOpenings)),
		)
	}

	err = threadcoord.Run(threadcoord.Options{
		Labels:     v.GetStringSlice("labels"),
		Iterations: v.GetInt("iterations"),
		Unit:       v.GetDuration("unit"),
		Pauses:     v.GetIntSlice("pauses"),
		Gate:       g,
		Instrument: instrument,
		Logger:     logger,
	})

	if registry != nil {
		if werr := registry.WriteTextfile(metricsFile); werr != nil {
			logger.Warn("unable to write metrics", zap.String("file", metricsFile), zap.Error(werr))
		}
	}

	return finish(logger, err)
}

// finish reports a failed run without changing the exit status.  Once the threads have started,
// the command always exits successfully.
func finish(logger *zap.Logger, err error) int {
	if err != nil {
		fmt.Fprintf(os.Stderr, "%s: %s\n", applicationName, err)
		logger.Error("run failed", zap.Error(err))
	}

	return exitSuccess
}

func main() {
	os.Exit(threadsema(os.Args[1:]))
}
