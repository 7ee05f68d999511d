// Package redisclient is a client driver for the Redis binary wire
// protocol. It serializes typed values into command frames, decodes typed
// reply frames, manages the transport lifecycle (TLS, authentication,
// logical-database selection) and resolves the current write master
// through Redis Sentinel when the store runs in a monitored topology.
//
// Basic usage:
//
//	conn, err := redisclient.Connect(
//		redisclient.WithAddr("localhost", 6379),
//		redisclient.WithAuth("", "secret"),
//		redisclient.WithDatabase(2),
//	)
//	if err != nil {
//		log.Fatal(err)
//	}
//	defer conn.Close()
//
//	if err := conn.Set("greeting", []byte("hello")); err != nil {
//		log.Fatal(err)
//	}
//
// Sentinel-monitored deployments resolve the master at connect time:
//
//	conn, err := redisclient.Connect(
//		redisclient.WithSentinel(redisclient.SentinelConfig{
//			Endpoints:           []redisclient.Endpoint{{Host: "s1", Port: 26379}},
//			ServiceName:         "mymaster",
//			WaitBetweenFailures: 250 * time.Millisecond,
//		}),
//	)
//
// A Conn carries exactly one in-flight command and is not safe for
// concurrent use; reconnection after a failure is always explicit via
// Reconnect. See the protocol package for the wire codec and the typed
// argument serialization layer.
package redisclient
