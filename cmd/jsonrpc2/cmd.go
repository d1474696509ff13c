// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/gorilla/rpc/v2/json2"
	"github.com/luxfi/jsonrpc2"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

const (
	configF   = "config"
	timeoutF  = "timeout"
	asyncF    = "async"
	labelF    = "label"
	headerF   = "header"
	logLevelF = "log-level"

	defaultTimeout  = jsonrpc2.DefaultTimeout
	defaultLogLevel = "warn"

	envPrefix = "JSONRPC2"

	configFlagUsage   = "The yaml configuration file."
	timeoutFlagUsage  = "Time to wait for the response."
	asyncFlagUsage    = "Send the request without an id."
	labelFlagUsage    = "Label attached to the call in log output."
	headerFlagUsage   = `HTTP header to send, as "Key: Value". Repeatable.`
	logLevelFlagUsage = "Log level: debug, info, warn, error."
)

// Config holds the settings of the call command after flags, environment
// and config file are merged.
type Config struct {
	Timeout  time.Duration `mapstructure:"timeout"`
	Async    bool          `mapstructure:"async"`
	Label    string        `mapstructure:"label"`
	Headers  []string      `mapstructure:"header"`
	LogLevel string        `mapstructure:"log-level"`
}

func NewCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "jsonrpc2",
		Short:         "JSON-RPC 2.0 client for TCP and HTTP endpoints.",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	rootCmd.AddCommand(newCallCmd())
	return rootCmd
}

func newCallCmd() *cobra.Command {
	var cfgFile string

	callCmd := &cobra.Command{
		Use:   "call <address> <method> [param ...]",
		Short: "Call a method and print its result.",
		Long: `Call a method and print its result as JSON.

Each param is parsed as JSON and sent as a string when it is not valid JSON.
A single param that is a JSON array is sent as the whole params list.`,
		Args: cobra.MinimumNArgs(2),
	}

	callCmd.Flags().StringVar(&cfgFile, configF, "", configFlagUsage)
	callCmd.Flags().Duration(timeoutF, defaultTimeout, timeoutFlagUsage)
	callCmd.Flags().Bool(asyncF, false, asyncFlagUsage)
	callCmd.Flags().String(labelF, "", labelFlagUsage)
	callCmd.Flags().StringArray(headerF, nil, headerFlagUsage)
	callCmd.Flags().String(logLevelF, defaultLogLevel, logLevelFlagUsage)

	callCmd.RunE = func(cmd *cobra.Command, args []string) error {
		v := viper.New()
		v.SetEnvPrefix(envPrefix)
		v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
		v.AutomaticEnv()
		if cfgFile != "" {
			v.SetConfigType("yaml")
			v.SetConfigFile(cfgFile)
			if err := v.ReadInConfig(); err != nil {
				return err
			}
		}
		if err := v.BindPFlags(cmd.Flags()); err != nil {
			return err
		}

		cfg := new(Config)
		if err := v.Unmarshal(cfg); err != nil {
			return err
		}
		return runCall(cmd, cfg, args[0], args[1], args[2:])
	}
	return callCmd
}

func runCall(cmd *cobra.Command, cfg *Config, address, method string, args []string) error {
	logger, err := newLogger(cfg.LogLevel, cmd.ErrOrStderr())
	if err != nil {
		return err
	}
	defer logger.Sync() //nolint:errcheck

	opts := []jsonrpc2.Option{
		jsonrpc2.WithTimeout(cfg.Timeout),
		jsonrpc2.WithLogger(jsonrpc2.ZapLogFunc(logger)),
		jsonrpc2.WithDebugLogger(logger),
	}
	for _, h := range cfg.Headers {
		key, value, ok := strings.Cut(h, ":")
		if !ok {
			return fmt.Errorf("invalid header %q, want \"Key: Value\"", h)
		}
		opts = append(opts, jsonrpc2.WithHeader(strings.TrimSpace(key), strings.TrimSpace(value)))
	}

	client, err := jsonrpc2.New(address, opts...)
	if err != nil {
		return err
	}
	defer client.Close()

	callOpts := []jsonrpc2.CallOption{jsonrpc2.Label(cfg.Label)}
	if cfg.Async {
		callOpts = append(callOpts, jsonrpc2.Async())
	}

	result, err := client.CallRaw(cmd.Context(), method, parseParams(args), callOpts...)
	if err != nil {
		var rpcErr *json2.Error
		if errors.As(err, &rpcErr) {
			data, _ := json.Marshal(rpcErr.Data)
			return fmt.Errorf("rpc error %d: %s (data: %s)", rpcErr.Code, rpcErr.Message, data)
		}
		return err
	}
	if result == nil {
		result = json.RawMessage("null")
	}
	_, err = fmt.Fprintln(cmd.OutOrStdout(), string(result))
	return err
}

// parseParams turns command line arguments into call params. With a single
// argument the value itself is passed so a JSON array becomes the params
// list.
func parseParams(args []string) interface{} {
	values := make([]interface{}, 0, len(args))
	for _, arg := range args {
		if json.Valid([]byte(arg)) {
			values = append(values, json.RawMessage(arg))
		} else {
			values = append(values, arg)
		}
	}
	if len(values) == 1 {
		return values[0]
	}
	return values
}

func newLogger(level string, w io.Writer) (*zap.Logger, error) {
	lvl, err := zapcore.ParseLevel(level)
	if err != nil {
		return nil, err
	}
	encoderCfg := zap.NewDevelopmentEncoderConfig()
	encoderCfg.EncodeTime = zapcore.TimeEncoderOfLayout("15:04:05.000 02/01/2006 -07:00")
	core := zapcore.NewCore(zapcore.NewConsoleEncoder(encoderCfg), zapcore.AddSync(w), lvl)
	return zap.New(core), nil
}
