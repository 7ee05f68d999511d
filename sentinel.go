package redisclient

import (
	"time"
)

// discoverMaster resolves the live master for the configured service by
// walking the sentinel endpoint list, following the service-discovery
// procedure Redis documents for sentinel-aware clients.
//
// Each round scans every endpoint in configured order. Endpoint failures
// are logged and skipped. A candidate whose role probe does not report
// master triggers the configured wait and a restart of the whole scan;
// rounds repeat until one terminates with neither a master nor a restart.
// Discovery runs once per top-level connect and is not reentrant.
func (c *Conn) discoverMaster(sc *SentinelConfig) (*Conn, error) {
	restart := false
	unreachable := true

	for {
		c.metrics.RecordSentinelRound()

		for _, ep := range sc.Endpoints {
			// Step 1: connect to the sentinel (plain TCP, no handshake)
			sentinelConn, err := connectBare(ep, c.cfg)
			if err != nil {
				c.logger.Debug("Cannot connect to sentinel",
					F("sentinel", ep.Addr()), F("error", err.Error()))
				continue
			}

			// Step 2: ask for the master address
			master, err := sentinelConn.SentinelGetMasterAddrByName(sc.ServiceName)
			sentinelConn.Close()
			if err != nil {
				c.logger.Debug("Cannot query master address from sentinel",
					F("sentinel", ep.Addr()), F("error", err.Error()))
				continue
			}

			if master == nil {
				// The sentinel answered: it just does not track this
				// service. That rules out "unreachable" as the cause.
				c.logger.Debug("Sentinel does not know service",
					F("sentinel", ep.Addr()), F("service", sc.ServiceName))
				unreachable = false
				continue
			}

			// Step 3: probe the candidate's replication role
			candidate, err := c.connectCandidate(*master)
			if err != nil {
				return nil, err
			}

			role, err := candidate.Role()
			if err != nil {
				candidate.Close()
				return nil, err
			}

			if role.Kind == RoleMaster {
				return candidate, nil
			}

			// Stale role data, likely mid-failover. Wait before
			// rescanning so the election has a chance to settle.
			candidate.Close()
			c.logger.Debug("Candidate is not a master, restarting scan",
				F("candidate", master.Addr()), F("role", string(role.Kind)))
			time.Sleep(sc.WaitBetweenFailures)
			restart = true
			break
		}

		if !restart {
			break
		}
		restart = false
	}

	cause := SentinelMasterUnknown
	if unreachable {
		cause = SentinelUnreachable
	}
	c.metrics.RecordError("sentinel")
	return nil, &SentinelError{Service: sc.ServiceName, Cause: cause}
}

// connectCandidate opens a bare connection to a resolved master candidate,
// carrying over the outer TLS settings. Credentials and database selection
// are applied later by the adopting connection's handshake.
func (c *Conn) connectCandidate(ep Endpoint) (*Conn, error) {
	cfg := defaultConfig()
	cfg.addr = &Endpoint{Host: ep.Host, Port: ep.Port}
	cfg.tlsConfig = c.cfg.tlsConfig
	cfg.logger = c.logger
	cfg.metrics = c.metrics
	return establishBare(cfg)
}

// connectBare opens a plain connection to a sentinel endpoint. Sentinels
// are addressed directly: no TLS, no credentials, no database selection.
func connectBare(ep Endpoint, parent *config) (*Conn, error) {
	cfg := defaultConfig()
	cfg.addr = &Endpoint{Host: ep.Host, Port: ep.Port}
	cfg.logger = parent.logger
	cfg.metrics = parent.metrics
	return establishBare(cfg)
}

// establishBare dials and readies a connection without any handshake steps.
func establishBare(cfg *config) (*Conn, error) {
	c := &Conn{
		cfg:     cfg,
		state:   StateDisconnected,
		logger:  cfg.logger,
		metrics: cfg.metrics,
	}
	if err := c.establish(); err != nil {
		c.state = StateFailed
		return nil, err
	}
	return c, nil
}
