package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/indigo-web/arango/client"
	"github.com/indigo-web/arango/config"
	"github.com/indigo-web/arango/guard"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

const (
	keyConfig          = "config"
	keyEndpoint        = "endpoint"
	keyDatabase        = "database"
	keyUser            = "user"
	keyPassword        = "password"
	keyTimeout         = "timeout"
	keyConnection      = "connection"
	keyReconnect       = "reconnect"
	keyAcceptEncoding  = "accept-encoding"
	keyVerifyPeer      = "tls-verify-peer"
	keyVerifyName      = "tls-verify-name"
	keyAllowSelfSigned = "tls-allow-self-signed"
	keyCiphers         = "tls-ciphers"
	keyLogLevel        = "log-level"
	keyLogFormat       = "log-format"
	keyFailFast        = "fail-fast"
)

type app struct {
	v *viper.Viper
}

func newRootCommand() *cobra.Command {
	a := &app{v: viper.New()}
	defaults := config.Default()

	cmd := &cobra.Command{
		Use:           "arangoc",
		Short:         "arangoc sends requests and batches of requests to an ArangoDB server",
		SilenceErrors: true,
		Example: `
  # server version over a unix socket
  arangoc --endpoint unix:///tmp/arangodb.sock request GET /_api/version

  # create a document in the shop database
  ARANGO_DATABASE=shop arangoc request POST /_api/document/users '{"name":"alice"}'

  # send requests listed in a file as one batch, refusing any non-2xx part
  arangoc --fail-fast batch requests.json
`,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			cmd.SilenceUsage = true
			return a.loadConfigFile()
		},
	}

	flags := cmd.PersistentFlags()
	flags.StringP(keyConfig, "c", "", "path to a config file (yaml, json or toml)")
	flags.StringP(keyEndpoint, "e", defaults.Endpoint, "server endpoint: tcp://, ssl://, http://, https:// or unix://")
	flags.StringP(keyDatabase, "d", defaults.Database, "database requests are scoped to")
	flags.StringP(keyUser, "u", "", "user for basic authentication")
	flags.String(keyPassword, "", "password for basic authentication")
	flags.Duration(keyTimeout, defaults.NET.Timeout, "timeout of every socket operation")
	flags.String(keyConnection, defaults.NET.Connection, "connection type: Keep-Alive or Close")
	flags.Bool(keyReconnect, defaults.NET.Reconnect, "reopen kept-alive connections closed by the server")
	flags.String(keyAcceptEncoding, defaults.NET.AcceptEncoding, "comma-separated content codings to accept: gzip, deflate, zstd")
	flags.Bool(keyVerifyPeer, defaults.TLS.VerifyPeer, "verify the server certificate")
	flags.Bool(keyVerifyName, defaults.TLS.VerifyName, "verify the server host name")
	flags.Bool(keyAllowSelfSigned, defaults.TLS.AllowSelfSigned, "accept self-signed server certificates")
	flags.String(keyCiphers, defaults.TLS.Ciphers, "colon-separated list of TLS cipher suites")
	flags.String(keyLogLevel, "warn", "log level: trace, debug, info, warn or error")
	flags.String(keyLogFormat, "text", "log format: text or json")
	flags.Bool(keyFailFast, false, "fail on the first response with non-2xx status")

	a.bindFlags(flags)

	cmd.AddCommand(a.newRequestCommand(), a.newBatchCommand())

	return cmd
}

func (a *app) bindFlags(flags *pflag.FlagSet) {
	a.v.SetEnvPrefix("ARANGO")
	a.v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	a.v.AutomaticEnv()

	flags.VisitAll(func(flag *pflag.Flag) {
		if err := a.v.BindPFlag(flag.Name, flag); err != nil {
			panic(err)
		}
	})
}

func (a *app) loadConfigFile() error {
	path := strings.TrimSpace(a.v.GetString(keyConfig))
	if len(path) == 0 {
		return nil
	}

	a.v.SetConfigFile(path)
	if err := a.v.ReadInConfig(); err != nil {
		return fmt.Errorf("read config file %q: %w", path, err)
	}

	return nil
}

func (a *app) logger(out io.Writer) (*logrus.Logger, error) {
	logger := logrus.New()
	logger.SetOutput(out)

	level, err := logrus.ParseLevel(a.v.GetString(keyLogLevel))
	if err != nil {
		return nil, err
	}

	logger.SetLevel(level)

	switch format := a.v.GetString(keyLogFormat); format {
	case "text":
		logger.SetFormatter(&logrus.TextFormatter{DisableColors: true})
	case "json":
		logger.SetFormatter(&logrus.JSONFormatter{})
	default:
		return nil, fmt.Errorf("unknown log format %q", format)
	}

	return logger, nil
}

func (a *app) config(log *logrus.Logger) *config.Config {
	cfg := config.Default()
	cfg.Endpoint = a.v.GetString(keyEndpoint)
	cfg.Database = a.v.GetString(keyDatabase)
	cfg.NET.Timeout = a.v.GetDuration(keyTimeout)
	cfg.NET.Connection = a.v.GetString(keyConnection)
	cfg.NET.Reconnect = a.v.GetBool(keyReconnect)
	cfg.NET.AcceptEncoding = a.v.GetString(keyAcceptEncoding)
	cfg.Auth.User = a.v.GetString(keyUser)
	cfg.Auth.Password = a.v.GetString(keyPassword)
	cfg.TLS.VerifyPeer = a.v.GetBool(keyVerifyPeer)
	cfg.TLS.VerifyName = a.v.GetBool(keyVerifyName)
	cfg.TLS.AllowSelfSigned = a.v.GetBool(keyAllowSelfSigned)
	cfg.TLS.Ciphers = a.v.GetString(keyCiphers)
	cfg.Logger = log

	return cfg
}

// dial builds the client out of flags, environment and the config file, in that order of
// precedence.
func (a *app) dial(cmd *cobra.Command, defaultGuard guard.Guard) (*client.Client, error) {
	log, err := a.logger(cmd.ErrOrStderr())
	if err != nil {
		return nil, err
	}

	return client.Dial(a.config(log), client.WithDefaultGuard(defaultGuard))
}

func (a *app) failFast() bool {
	return a.v.GetBool(keyFailFast)
}
