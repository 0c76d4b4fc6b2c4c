package main

import (
	"fmt"
	"os"

	"github.com/segmentio/ksuid"
	"github.com/spf13/pflag"
	"github.com/xmidt-org/semdemo/ipcsem"
	"github.com/xmidt-org/semdemo/logging"
	"github.com/xmidt-org/semdemo/processcoord"
	"github.com/xmidt-org/semdemo/semaphore"
	"github.com/xmidt-org/semdemo/xmetrics"
	"github.com/xmidt-org/semdemo/xviper"
	"go.uber.org/zap"
)

const (
	applicationName = "forksema"
)

func newFlagSet() *pflag.FlagSet {
	flagSet := pflag.NewFlagSet(applicationName, pflag.ContinueOnError)
	flagSet.StringP(xviper.DefaultFileFlag, "f", "", "the configuration file")
	flagSet.String("key", ipcsem.DefaultKey.String(), "the System V key of the shared semaphore")
	flagSet.Duration("unit", processcoord.DefaultUnit, "the scale of the jittered pauses")
	flagSet.Bool("unsynchronized", !processcoord.Synchronized, "print without acquiring the semaphore")
	flagSet.Bool("keep", false, "leave the semaphore at its key after the run")
	flagSet.String("metrics", "", "write the parent's semaphore metrics to this file in the Prometheus text format")
	return flagSet
}

// failed writes the diagnostic for a failed run and returns its exit status
func failed(logger *zap.Logger, err error) int {
	code := processcoord.ExitCode(err)
	if err != nil {
		fmt.Fprintf(os.Stderr, "%s: %s\n", applicationName, err)
		logger.Error("run failed", zap.Error(err), zap.Int("exitCode", code))
	}

	return code
}

func forksema(arguments []string) int {
	f := newFlagSet()
	if err := f.Parse(arguments); err != nil {
		fmt.Fprintf(os.Stderr, "%s: %s\n", applicationName, err)
		return processcoord.ExitUsage
	}

	v, err := xviper.New(
		xviper.StdOptions(applicationName, f),
		xviper.BindConfigFile(f, xviper.DefaultFileFlag),
		xviper.WithDefaults(logging.Defaults()),
		xviper.ReadInConfig(true),
	)

	if err != nil {
		fmt.Fprintf(os.Stderr, "%s: unable to read configuration: %s\n", applicationName, err)
		return processcoord.ExitUsage
	}

	logOptions, err := logging.FromViper(logging.Sub(v))
	if err != nil {
		fmt.Fprintf(os.Stderr, "%s: unable to read logging options: %s\n", applicationName, err)
		return processcoord.ExitUsage
	}

	logger := logging.New(logOptions)
	defer logger.Sync()

	key, err := ipcsem.ParseKey(v.GetString("key"))
	if err != nil {
		fmt.Fprintf(os.Stderr, "%s: %s\n", applicationName, err)
		return processcoord.ExitUsage
	}

	index, child, err := processcoord.PeerFromEnv()
	if err != nil {
		fmt.Fprintf(os.Stderr, "%s: %s\n", applicationName, err)
		return processcoord.ExitUsage
	}

	runID := os.Getenv(processcoord.RunEnv)
	if len(runID) == 0 {
		runID = ksuid.New().String()
	}

	logger = logger.With(zap.String("run", runID))

	var (
		registry    xmetrics.Registry
		metricsFile = v.GetString("metrics")
		instrument  []semaphore.InstrumentOption
	)

	if !child && len(metricsFile) > 0 {
		registry = xmetrics.NewRegistry(&xmetrics.Options{Namespace: applicationName})
		instrument = semaphore.RegistryOptions(registry)
	}

	c := processcoord.New(processcoord.Options{
		Key:            key,
		Unit:           v.GetDuration("unit"),
		Unsynchronized: v.GetBool("unsynchronized"),
		Keep:           v.GetBool("keep"),
		Spawner:        processcoord.ExecSpawner{RunID: runID},
		Instrument:     instrument,
		Logger:         logger,
	})

	if child {
		report, err := c.Child(index)
		if reports, ok := processcoord.ReportFile(); ok {
			if werr := processcoord.WriteReport(reports, report); werr != nil {
				logger.Warn("unable to send report", zap.Error(werr))
			}

			reports.Close()
		}

		return failed(logger, err)
	}

	err = c.Parent()
	if registry != nil {
		if werr := registry.WriteTextfile(metricsFile); werr != nil {
			logger.Warn("unable to write metrics", zap.String("file", metricsFile), zap.Error(werr))
		}
	}

	return failed(logger, err)
}

func main() {
	os.Exit(forksema(os.Args[1:]))
}
