package main

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/ardanlabs/conf/v3"
	"github.com/blocknetlabs/blocknet/app/services/node/handlers"
	"github.com/blocknetlabs/blocknet/foundation/blockchain/p2p"
	"github.com/blocknetlabs/blocknet/foundation/blockchain/peer"
	"github.com/blocknetlabs/blocknet/foundation/blockchain/state"
	"github.com/blocknetlabs/blocknet/foundation/blockchain/worker"
	"github.com/blocknetlabs/blocknet/foundation/events"
	"github.com/blocknetlabs/blocknet/foundation/logger"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// build is the git version of this program. It is set using build flags in the makefile.
var build = "develop"

func main() {

	// Construct the application logger.
	log, err := logger.New("NODE")
	if err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
	defer log.Sync()

	// Perform the startup and shutdown sequence.
	if err := run(log); err != nil {
		log.Errorw("startup", "ERROR", err)
		log.Sync()
		os.Exit(1)
	}
}

func run(log *zap.SugaredLogger) error {

	// =========================================================================
	// Configuration

	cfg := struct {
		conf.Version
		Web struct {
			ReadTimeout     time.Duration `conf:"default:5s"`
			WriteTimeout    time.Duration `conf:"default:120s"`
			IdleTimeout     time.Duration `conf:"default:120s"`
			ShutdownTimeout time.Duration `conf:"default:20s"`
			DebugHost       string        `conf:"default:0.0.0.0:7080"`
			PublicHost      string        `conf:"default:0.0.0.0:5000"`
		}
		Node struct {
			P2PHost       string   `conf:"default:127.0.0.1"`
			P2PPortOffset int      `conf:"default:1000"`
			KnownPeers    []string
		}
	}{
		Version: conf.Version{
			Build: build,
			Desc:  "copyright information here",
		},
	}

	// Parse will set the defaults and then look for any overriding values
	// in environment variables and command line flags.
	const prefix = "NODE"
	help, err := conf.Parse(prefix, &cfg)
	if err != nil {
		if errors.Is(err, conf.ErrHelpWanted) {
			fmt.Println(help)
			return nil
		}
		return fmt.Errorf("parsing config: %w", err)
	}

	// =========================================================================
	// App Starting

	log.Infow("starting service", "version", build)
	defer log.Infow("shutdown complete")

	// Display the current configuration to the logs.
	out, err := conf.String(&cfg)
	if err != nil {
		return fmt.Errorf("generating config for output: %w", err)
	}
	log.Infow("startup", "config", out)

	// =========================================================================
	// Node Identity

	// A globally unique address for this node. Mining rewards are credited
	// to this identifier.
	nodeID := strings.ReplaceAll(uuid.NewString(), "-", "")
	log.Infow("startup", "status", "node identity", "nodeID", nodeID)

	// =========================================================================
	// Blockchain Support

	// The p2p listening port is always the control-surface port plus the
	// fixed offset. Peers use the same arithmetic to reach us.
	_, publicPortStr, err := net.SplitHostPort(cfg.Web.PublicHost)
	if err != nil {
		return fmt.Errorf("parsing public host: %w", err)
	}
	publicPort, err := strconv.Atoi(publicPortStr)
	if err != nil {
		return fmt.Errorf("parsing public port: %w", err)
	}
	p2pListenAddr := net.JoinHostPort(cfg.Node.P2PHost, strconv.Itoa(publicPort+cfg.Node.P2PPortOffset))

	// The address other nodes would register for this node. Keeping it in
	// the set mirrors how nodes self-register, the state package excludes
	// it from peer operations.
	selfAddr := net.JoinHostPort(cfg.Node.P2PHost, publicPortStr)

	// A peer set is a collection of known nodes in the network so
	// transactions and blocks can be shared.
	peerSet := peer.NewPeerSet()
	self, err := peer.New(selfAddr)
	if err != nil {
		return fmt.Errorf("registering self: %w", err)
	}
	peerSet.Add(self)

	for _, address := range cfg.Node.KnownPeers {
		pr, err := peer.New(address)
		if err != nil {
			return fmt.Errorf("registering known peer %q: %w", address, err)
		}
		peerSet.Add(pr)
	}

	// The blockchain packages accept a function of this signature to allow
	// the application to log. These raw messages are also sent to any
	// websocket client connected through the events package.
	evts := events.New()
	ev := func(v string, args ...any) {
		s := fmt.Sprintf(v, args...)
		log.Infow(s, "traceid", "00000000-0000-0000-0000-000000000000")
		evts.Send(s)
	}

	// The state value represents the node and manages the chain, the
	// pending transaction buffer, and the peer set.
	st, err := state.New(state.Config{
		NodeID:        nodeID,
		Host:          selfAddr,
		P2PPortOffset: cfg.Node.P2PPortOffset,
		KnownPeers:    peerSet,
		EvHandler:     ev,
	})
	if err != nil {
		return err
	}
	defer st.Shutdown()

	// The worker package implements the background workflows such as
	// consensus resolution and sharing blocks and transactions. The worker
	// will register itself with the state.
	worker.Run(st, ev)

	// The p2p package implements the point to point transport. It will
	// register itself with the state and start listening.
	if _, err := p2p.Run(st, p2pListenAddr, ev); err != nil {
		return fmt.Errorf("starting p2p transport: %w", err)
	}

	// =========================================================================
	// Start Debug Service

	log.Infow("startup", "status", "debug router started", "host", cfg.Web.DebugHost)

	// The Debug function returns a mux to listen and serve on for all the
	// debug related endpoints. This includes the standard library endpoints.
	debugMux := handlers.DebugMux(build, log)

	// Start the service listening for debug requests.
	// Not concerned with shutting this down with load shedding.
	go func() {
		if err := http.ListenAndServe(cfg.Web.DebugHost, debugMux); err != nil {
			log.Errorw("shutdown", "status", "debug router closed", "host", cfg.Web.DebugHost, "ERROR", err)
		}
	}()

	// =========================================================================
	// Service Start/Stop Support

	// Make a channel to listen for an interrupt or terminate signal from the OS.
	// Use a buffered channel because the signal package requires it.
	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, syscall.SIGINT, syscall.SIGTERM)

	// Make a channel to listen for errors coming from the listener. Use a
	// buffered channel so the goroutine can exit if we don't collect this error.
	serverErrors := make(chan error, 1)

	// =========================================================================
	// Start Public Service

	log.Infow("startup", "status", "initializing public API support")

	// Construct the mux for the public API calls.
	publicMux := handlers.PublicMux(handlers.MuxConfig{
		Shutdown: shutdown,
		Log:      log,
		State:    st,
		Evts:     evts,
	})

	// Construct a server to service the requests against the mux.
	public := http.Server{
		Addr:         cfg.Web.PublicHost,
		Handler:      publicMux,
		ReadTimeout:  cfg.Web.ReadTimeout,
		WriteTimeout: cfg.Web.WriteTimeout,
		IdleTimeout:  cfg.Web.IdleTimeout,
		ErrorLog:     zap.NewStdLog(log.Desugar()),
	}

	// Start the service listening for api requests.
	go func() {
		log.Infow("startup", "status", "public api router started", "host", public.Addr)
		serverErrors <- public.ListenAndServe()
	}()

	// =========================================================================
	// Shutdown

	// Blocking main and waiting for shutdown.
	select {
	case err := <-serverErrors:
		return fmt.Errorf("server error: %w", err)

	case sig := <-shutdown:
		log.Infow("shutdown", "status", "shutdown started", "signal", sig)
		defer log.Infow("shutdown", "status", "shutdown complete", "signal", sig)

		// Release any web sockets that are currently active.
		log.Infow("shutdown", "status", "shutdown web socket channels")
		evts.Shutdown()

		// Give outstanding requests a deadline for completion.
		ctx, cancel := context.WithTimeout(context.Background(), cfg.Web.ShutdownTimeout)
		defer cancel()

		// Asking listener to shut down and shed load.
		log.Infow("shutdown", "status", "shutdown public API started")
		if err := public.Shutdown(ctx); err != nil {
			public.Close()
			return fmt.Errorf("could not stop public service gracefully: %w", err)
		}
	}

	return nil
}
