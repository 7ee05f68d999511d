// redis-resolve resolves the current master of a sentinel-monitored Redis
// service and reports its address and role. With a plain address it acts
// as a minimal connectivity probe instead.
package main

import (
	"fmt"
	"net"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	redisclient "github.com/raniellyferreira/redis-wire-client"
)

var rootCmd = &cobra.Command{
	Use:   "redis-resolve",
	Short: "Resolve the current Redis master through sentinels",
	Long: `redis-resolve connects to a Redis deployment, resolving the current
write master through a list of sentinel endpoints when --sentinels is
given, and prints the address it ended up connected to.

All flags can also be set through environment variables with the
REDIS_RESOLVE_ prefix (for example REDIS_RESOLVE_SERVICE).`,
	SilenceUsage: true,
	RunE:         run,
}

func init() {
	flags := rootCmd.Flags()
	flags.StringSlice("sentinels", nil, "comma-separated sentinel endpoints (host:port)")
	flags.String("service", "mymaster", "sentinel service name")
	flags.Duration("wait", 250*time.Millisecond, "wait between discovery rounds after a role mismatch")
	flags.String("addr", "localhost:6379", "server address when no sentinels are given")
	flags.String("username", "", "AUTH username (optional)")
	flags.String("password", "", "AUTH password (optional)")
	flags.Int("db", 0, "logical database to select")
	flags.Bool("ping", false, "send a PING after connecting")
	flags.Bool("verbose", false, "enable debug logging")

	viper.SetEnvPrefix("REDIS_RESOLVE")
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv()
	if err := viper.BindPFlags(flags); err != nil {
		panic(err)
	}
}

func run(cmd *cobra.Command, args []string) error {
	opts, err := buildOptions()
	if err != nil {
		return err
	}

	conn, err := redisclient.Connect(opts...)
	if err != nil {
		return err
	}
	defer conn.Close()

	fmt.Printf("connected to %s\n", conn.RemoteAddr())

	role, err := conn.Role()
	if err != nil {
		return err
	}
	fmt.Printf("role: %s (replication offset %d)\n", role.Kind, role.ReplOffset)
	for _, r := range role.Replicas {
		fmt.Printf("  replica %s:%d offset %d\n", r.Host, r.Port, r.ReplOffset)
	}

	if viper.GetBool("ping") {
		if err := conn.Ping(); err != nil {
			return err
		}
		fmt.Println("ping: ok")
	}

	return nil
}

func buildOptions() ([]redisclient.Option, error) {
	var opts []redisclient.Option

	if viper.GetBool("verbose") {
		z, err := zap.NewDevelopment()
		if err != nil {
			return nil, err
		}
		opts = append(opts, redisclient.WithLogger(redisclient.NewZapLogger(z)))
	}

	if password := viper.GetString("password"); password != "" {
		opts = append(opts, redisclient.WithAuth(viper.GetString("username"), password))
	}

	if db := viper.GetInt("db"); db != 0 {
		opts = append(opts, redisclient.WithDatabase(db))
	}

	sentinels := viper.GetStringSlice("sentinels")
	if len(sentinels) > 0 {
		endpoints := make([]redisclient.Endpoint, 0, len(sentinels))
		for _, s := range sentinels {
			ep, err := parseEndpoint(s)
			if err != nil {
				return nil, err
			}
			endpoints = append(endpoints, ep)
		}
		opts = append(opts, redisclient.WithSentinel(redisclient.SentinelConfig{
			Endpoints:           endpoints,
			ServiceName:         viper.GetString("service"),
			WaitBetweenFailures: viper.GetDuration("wait"),
		}))
		return opts, nil
	}

	ep, err := parseEndpoint(viper.GetString("addr"))
	if err != nil {
		return nil, err
	}
	opts = append(opts, redisclient.WithAddr(ep.Host, ep.Port))
	return opts, nil
}

func parseEndpoint(s string) (redisclient.Endpoint, error) {
	host, portStr, err := net.SplitHostPort(s)
	if err != nil {
		return redisclient.Endpoint{}, fmt.Errorf("invalid endpoint %q: %w", s, err)
	}
	port, err := strconv.Atoi(portStr)
	if err != nil {
		return redisclient.Endpoint{}, fmt.Errorf("invalid port in endpoint %q: %w", s, err)
	}
	return redisclient.Endpoint{Host: host, Port: port}, nil
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
