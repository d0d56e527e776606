// Package events publishes wizard state snapshots over NATS so that other
// rendering surfaces (and `estimator watch`) can follow a session live.
// Only core NATS is used: nothing is stored.
package events

import (
	"errors"
	"fmt"
	"time"

	"github.com/nats-io/nats-server/v2/server"
	"github.com/nats-io/nats.go"
	"github.com/rbsiding/estimator/internal/logger"
)

// StartEmbedded starts an embedded NATS server. With port 0 the server does
// not listen on the network and is reachable only in-process.
func StartEmbedded(port int) (*server.Server, error) {
	opts := &server.Options{
		Host:   "127.0.0.1",
		Port:   port,
		NoLog:  true,
		NoSigs: true,
	}
	if port == 0 {
		opts.DontListen = true
	}
	logger.Debug("Starting embedded NATS server (port=%d)", port)

	ns, err := server.NewServer(opts)
	if err != nil {
		logger.Error("Failed to create NATS server: %v", err)
		return nil, fmt.Errorf("creating nats server: %w", err)
	}

	go ns.Start()

	if !ns.ReadyForConnections(4 * time.Second) {
		logger.Error("NATS server failed to start within 4s timeout")
		ns.Shutdown()
		return nil, errors.New("nats server failed to start within timeout")
	}

	logger.Debug("NATS server ready for connections")
	return ns, nil
}

// ConnectInProcess creates an in-process connection to the embedded server.
func ConnectInProcess(ns *server.Server) (*nats.Conn, error) {
	conn, err := nats.Connect("", nats.InProcessServer(ns))
	if err != nil {
		logger.Error("Failed to connect to NATS in-process: %v", err)
		return nil, fmt.Errorf("connecting in-process: %w", err)
	}
	return conn, nil
}

// Connect dials a NATS server by URL, e.g. nats://127.0.0.1:4222.
func Connect(url string) (*nats.Conn, error) {
	conn, err := nats.Connect(url, nats.Name("estimator-watch"))
	if err != nil {
		return nil, fmt.Errorf("connecting to %s: %w", url, err)
	}
	return conn, nil
}

// Shutdown drains the connection and stops the server, each with a timeout.
// Either argument may be nil.
func Shutdown(nc *nats.Conn, ns *server.Server) error {
	if nc != nil {
		drainDone := make(chan error, 1)
		go func() {
			drainDone <- nc.Drain()
		}()

		select {
		case err := <-drainDone:
			if err != nil {
				logger.Warn("NATS drain failed, forcing close: %v", err)
				nc.Close()
			}
		case <-time.After(2 * time.Second):
			logger.Warn("NATS drain timed out after 2s, forcing close")
			nc.Close()
		}
	}

	if ns != nil {
		ns.Shutdown()

		shutdownDone := make(chan struct{})
		go func() {
			ns.WaitForShutdown()
			close(shutdownDone)
		}()

		select {
		case <-shutdownDone:
			logger.Debug("NATS server shut down cleanly")
		case <-time.After(5 * time.Second):
			logger.Error("NATS server shutdown timed out after 5s")
			return errors.New("nats server shutdown timed out")
		}
	}
	return nil
}
