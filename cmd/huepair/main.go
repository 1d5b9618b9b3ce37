// huepair finds a Hue bridge on the local network, pairs with it through the
// link button and keeps the resulting credentials in a JSON file. Once paired
// it can list lights and change their state.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"sort"
	"syscall"
	"text/tabwriter"

	"github.com/rs/zerolog"
	"github.com/spf13/pflag"
	"golang.org/x/term"

	"hue-bridge-client/internal/adapters/input/console"
	"hue-bridge-client/internal/adapters/output/hueapi"
	"hue-bridge-client/internal/adapters/output/persistence"
	"hue-bridge-client/internal/adapters/output/ssdp"
	"hue-bridge-client/internal/config"
	"hue-bridge-client/internal/domain/model"
	"hue-bridge-client/internal/domain/service"
	"hue-bridge-client/internal/domain/translator"
	"hue-bridge-client/internal/logging"
	"hue-bridge-client/internal/ports"
)

type exitError struct {
	code int
	err  error
}

func (e *exitError) Error() string { return e.err.Error() }
func (e *exitError) Unwrap() error { return e.err }
func (e *exitError) ExitCode() int { return e.code }

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := run(ctx, os.Args[1:], os.Stdin, os.Stdout, os.Stderr)
	stop()
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		var coder interface{ ExitCode() int }
		if errors.As(err, &coder) {
			os.Exit(coder.ExitCode())
		}
		os.Exit(1)
	}
}

type options struct {
	configPath string
	stateFile  string
	address    string
	selection  string
	logLevel   string
}

func run(ctx context.Context, args []string, stdin io.Reader, stdout, stderr io.Writer) error {
	var opts options
	flagSet := pflag.NewFlagSet("huepair", pflag.ContinueOnError)
	flagSet.SetOutput(stderr)
	flagSet.StringVarP(&opts.configPath, "config", "c", "huepair.yaml", "path to the YAML configuration file")
	flagSet.StringVar(&opts.stateFile, "state", "", "path to the bridge credentials file (overrides bridge.state_file)")
	flagSet.StringVar(&opts.address, "address", "", "bridge IP to use when discovery finds nothing")
	flagSet.StringVar(&opts.selection, "select", "", "index of the bridge to use when discovery finds several")
	flagSet.StringVar(&opts.logLevel, "log-level", "", "debug, info, warn or error (overrides log.level)")
	flagSet.Usage = func() { printHelp(stderr, flagSet) }

	if err := flagSet.Parse(args); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return nil
		}
		return &exitError{code: 2, err: err}
	}
	rest := flagSet.Args()
	if len(rest) == 0 {
		printHelp(stderr, flagSet)
		return &exitError{code: 2, err: errors.New("missing command")}
	}

	cfg, err := config.Load(opts.configPath)
	if err != nil {
		return fmt.Errorf("load config %s: %w", opts.configPath, err)
	}
	if opts.stateFile != "" {
		cfg.Bridge.StateFile = opts.stateFile
	}
	if opts.logLevel != "" {
		cfg.Log.Level = opts.logLevel
	}

	logger, closer, err := logging.New(cfg.Log, stderr)
	if err != nil {
		return &exitError{code: 2, err: err}
	}
	defer closer.Close()

	session := newSession(cfg, opts, stdin, stdout, logger)

	switch cmd := rest[0]; cmd {
	case "setup":
		return runSetup(ctx, session, stdout)
	case "info":
		if err := session.LoadConfig(ctx); err != nil {
			return fmt.Errorf("no paired bridge in %s: %w", cfg.Bridge.StateFile, err)
		}
		fmt.Fprintln(stdout, session.Info())
		return nil
	case "lights":
		if err := runSetup(ctx, session, io.Discard); err != nil {
			return err
		}
		return listLights(ctx, session, stdout)
	case "light":
		if len(rest) < 3 {
			return &exitError{code: 2, err: errors.New("usage: huepair light <id> key=value...")}
		}
		state, err := translator.Parse(rest[2:])
		if err == nil {
			err = state.Validate()
		}
		if err != nil {
			return &exitError{code: 2, err: err}
		}
		if err := runSetup(ctx, session, io.Discard); err != nil {
			return err
		}
		return setLight(ctx, session, rest[1], state, stdout)
	default:
		return &exitError{code: 2, err: fmt.Errorf("unknown command %q", cmd)}
	}
}

func newSession(cfg *config.Config, opts options, stdin io.Reader, stdout io.Writer, logger zerolog.Logger) *service.BridgeSession {
	api := hueapi.NewClient(cfg.Discovery.URL, cfg.Bridge.Timeout.Duration())
	store := persistence.NewJSONConfigRepository(cfg.Bridge.StateFile)

	var input ports.OperatorInput
	if opts.address != "" || opts.selection != "" || !isTerminal(stdin) {
		input = console.Static{Address: opts.address, Selection: opts.selection}
	} else {
		input = console.NewPrompter(stdin, stdout)
	}

	sessionOpts := []service.Option{
		service.WithLogger(logger),
		service.WithPairing(cfg.Pairing.DeviceType, cfg.Pairing.Attempts, cfg.Pairing.Interval.Duration()),
		service.WithMaxSelectionAttempts(cfg.Discovery.MaxSelectionAttempts),
	}
	if cfg.Discovery.SSDP {
		sessionOpts = append(sessionOpts, service.WithLocalDiscovery(ssdp.NewSearcher("", cfg.Discovery.SSDPTimeout.Duration())))
	}
	return service.NewBridgeSession(api, store, input, sessionOpts...)
}

func isTerminal(r io.Reader) bool {
	f, ok := r.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

func runSetup(ctx context.Context, session *service.BridgeSession, out io.Writer) error {
	result := session.Setup(ctx)
	fmt.Fprintf(out, "setup: %s\n", result)
	if result != model.SetupSuccess {
		return &exitError{code: 1, err: fmt.Errorf("bridge setup: %s", result)}
	}
	fmt.Fprintln(out, session.Info())
	return nil
}

func listLights(ctx context.Context, session *service.BridgeSession, out io.Writer) error {
	lights, err := session.Lights(ctx)
	if err != nil {
		return fmt.Errorf("list lights: %w", err)
	}
	tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tNAME\tTYPE\tON\tBRI\tREACHABLE")
	for _, l := range lights {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%t\t%d\t%t\n", l.ID, l.Name, l.Type, l.On, l.Brightness, l.Reachable)
	}
	return tw.Flush()
}

func setLight(ctx context.Context, session *service.BridgeSession, id string, state model.LightState, out io.Writer) error {
	result, err := session.SetLight(ctx, id, state)
	if result != nil {
		keys := make([]string, 0, len(result.Applied))
		for k := range result.Applied {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			fmt.Fprintf(out, "ok    %s = %v\n", k, result.Applied[k])
		}
		for _, e := range result.Errors {
			fmt.Fprintf(out, "error %s: %s\n", e.Address, e.Description)
		}
	}
	if err != nil {
		return &exitError{code: 1, err: fmt.Errorf("set light %s: %w", id, err)}
	}
	return nil
}

func printHelp(w io.Writer, flagSet *pflag.FlagSet) {
	fmt.Fprint(w, `huepair pairs with a Philips Hue bridge and controls its lights.

Usage:
  huepair [flags] <command>

Commands:
  setup                 load stored credentials or discover and pair a bridge
  info                  print the stored bridge identity
  lights                list the lights of the paired bridge
  light <id> k=v...     change a light, e.g. light 1 on=true bri=200 xy=0.3,0.4

Flags:
`)
	flagSet.SetOutput(w)
	flagSet.PrintDefaults()
}
