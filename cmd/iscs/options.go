package main

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

const (
	defaultPort       = 7999
	defaultConfigFile = "ips.json"
)

const usageHeader = `ISCS: Inter-Service Communication System

Load balancer and request forwarder for the user, product and order services.
Requests are answered with a 307 redirect to the next replica of the matching
service.

Usage: iscs [-d] [-c config] [--admin-addr addr] [port]

`

type options struct {
	port       int
	configFile string
	debug      bool
	adminAddr  string
}

// parseOptions reads flags, the optional positional port and ISCS_* environment
// overrides. Usage problems are reported on stderr.
func parseOptions(args []string, stderr io.Writer) (*options, error) {
	fs := pflag.NewFlagSet("iscs", pflag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.Usage = func() {
		fmt.Fprint(stderr, usageHeader)
		fs.PrintDefaults()
	}
	fs.BoolP("debug", "d", false, "Enable debug mode")
	fs.StringP("config", "c", defaultConfigFile, "Path of the backend registry file (json, yaml or toml)")
	fs.String("admin-addr", "", "Address serving /metrics and /debug/pprof (disabled when empty)")

	if err := fs.Parse(args); err != nil {
		if err != pflag.ErrHelp {
			fmt.Fprintln(stderr, err)
			fs.Usage()
		}
		return nil, err
	}

	v := viper.New()
	v.SetEnvPrefix("ISCS")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()
	v.SetDefault("port", defaultPort)
	if err := v.BindPFlags(fs); err != nil {
		return nil, err
	}

	rawPort := v.GetString("port")
	switch fs.NArg() {
	case 0:
	case 1:
		rawPort = fs.Arg(0)
	default:
		err := fmt.Errorf("expected at most one positional argument, got %d", fs.NArg())
		fmt.Fprintln(stderr, err)
		fs.Usage()
		return nil, err
	}

	port, err := strconv.Atoi(rawPort)
	if err != nil || port < 1 || port > 65535 {
		err := fmt.Errorf("invalid port %q", rawPort)
		fmt.Fprintln(stderr, err)
		fs.Usage()
		return nil, err
	}

	return &options{
		port:       port,
		configFile: v.GetString("config"),
		debug:      v.GetBool("debug"),
		adminAddr:  v.GetString("admin-addr"),
	}, nil
}
