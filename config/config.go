package config

import (
	"errors"
	"fmt"
	"net"
	"os"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

const (
	BackendSQLite    = "sqlite"
	BackendKV        = "kv"
	BackendFirestore = "firestore"
)

type Config struct {
	Addr             string
	Backend          string
	DBUrl            string
	DataDir          string
	FirestoreProject string
	TokenSecret      string
	TokenTTL         time.Duration
	AddUser          string
	Debug            bool
	LogJSON          bool
}

func ParseFlags() (Config, error) {
	return Parse(os.Args[1:])
}

// Parse reads the configuration from args. Every flag can also be given
// as a QCONTRACT_* environment variable or in the file named by -config;
// flags win over env, env over file.
func Parse(args []string) (cfg Config, err error) {
	flags := pflag.NewFlagSet("quick-contract", pflag.ContinueOnError)
	flags.String("config", "", "optional config file (yaml, toml or json)")
	flags.String("host", "0.0.0.0", "listen host name")
	flags.Uint("port", 8080, "listen port number")
	flags.String("backend", BackendSQLite, "where blueprints and contracts are stored: sqlite, kv or firestore")
	flags.String("db-url", "qcontract.sqlite", "path to SQLite3 DB file (users, tokens and the sqlite backend)")
	flags.String("data-dir", "data", "directory of the kv backend")
	flags.String("firestore-project", "", "Google Cloud project of the firestore backend")
	flags.String("token-secret", "", "secret key for token encryption and decryption")
	flags.Uint("token-ttl", 120, "token TTL in seconds")
	flags.String("add-user", "", "create or reset an editor account at startup, as user:password")
	flags.Bool("debug", false, "log at DEBUG level")
	flags.Bool("log-json", false, "log one JSON object per line")
	if err = flags.Parse(args); err != nil {
		return
	}

	v := viper.New()
	v.SetEnvPrefix("QCONTRACT")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()
	if err = v.BindPFlags(flags); err != nil {
		return
	}
	if file := v.GetString("config"); file != "" {
		v.SetConfigFile(file)
		if err = v.ReadInConfig(); err != nil {
			return cfg, fmt.Errorf("read config %s: %w", file, err)
		}
	}

	cfg.Addr = net.JoinHostPort(v.GetString("host"), strconv.Itoa(v.GetInt("port")))
	cfg.Backend = v.GetString("backend")
	cfg.DBUrl = v.GetString("db-url")
	cfg.DataDir = v.GetString("data-dir")
	cfg.FirestoreProject = v.GetString("firestore-project")
	cfg.TokenSecret = v.GetString("token-secret")
	cfg.TokenTTL = time.Duration(v.GetInt("token-ttl")) * time.Second
	cfg.AddUser = v.GetString("add-user")
	cfg.Debug = v.GetBool("debug")
	cfg.LogJSON = v.GetBool("log-json")

	err = cfg.validate()
	return
}

func (cfg Config) validate() error {
	switch cfg.Backend {
	case BackendSQLite, BackendKV:
	case BackendFirestore:
		if cfg.FirestoreProject == "" {
			return errors.New("missing parameter -firestore-project")
		}
	default:
		return fmt.Errorf("unknown backend %q", cfg.Backend)
	}
	if cfg.TokenSecret == "" {
		return errors.New("missing parameter -token-secret")
	}
	if cfg.AddUser != "" && !strings.Contains(cfg.AddUser, ":") {
		return errors.New("parameter -add-user must be user:password")
	}
	return nil
}

// NewUser splits the -add-user parameter.
func (cfg Config) NewUser() (username, password string, ok bool) {
	return strings.Cut(cfg.AddUser, ":")
}

func (cfg Config) Url() (url string) {
	url = cfg.Addr
	url = regexp.MustCompile(`^0.0.0.0`).ReplaceAllString(url, "localhost")
	url = "http://" + url
	return
}
