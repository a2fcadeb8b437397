package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"Brackenhold/commands"
	"Brackenhold/internal/config"
	"Brackenhold/internal/game"
	"Brackenhold/internal/logging"
	"Brackenhold/internal/metrics"
	"Brackenhold/internal/store"
	"Brackenhold/internal/worldfile"
)

var serveFlags struct {
	addr          string
	websocketAddr string
	metricsAddr   string
	worldFile     string
	charset       string
	storageKind   string
	storagePath   string
	admins        []string
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the MUD server",
	Long:  `Load the newest saved world (or the configured world file) and accept telnet and websocket players until shut down.`,
	Args:  cobra.NoArgs,
	RunE:  runServe,
}

func init() {
	f := serveCmd.Flags()
	f.StringVar(&serveFlags.addr, "addr", "", "telnet listen address")
	f.StringVar(&serveFlags.websocketAddr, "websocket-addr", "", "websocket listen address")
	f.StringVar(&serveFlags.metricsAddr, "metrics-addr", "", "Prometheus metrics listen address")
	f.StringVar(&serveFlags.worldFile, "world", "", "XML world to load when no save exists")
	f.StringVar(&serveFlags.charset, "charset", "", "telnet client charset (utf-8, latin1, cp437)")
	f.StringVar(&serveFlags.storageKind, "storage", "", "save archive kind (xml or bolt)")
	f.StringVar(&serveFlags.storagePath, "storage-path", "", "save directory (xml) or database file (bolt)")
	f.StringSliceVar(&serveFlags.admins, "admin", nil, "character allowed to use admin commands (repeatable)")
}

func runServe(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	log, err := logging.New(cfg.Log)
	if err != nil {
		return fmt.Errorf("create logger: %w", err)
	}
	defer log.Sync()

	archive, closer, err := openArchive(cfg.Storage)
	if err != nil {
		return err
	}
	defer closer.Close()

	world, err := loadWorld(cfg, archive, log)
	if err != nil {
		return err
	}
	world.AttachArchive(archive)
	world.SetAdmins(cfg.Admins)

	recorder := metrics.NewRecorder(time.Now())
	world.SetObserver(recorder)

	charset, err := game.Charset(cfg.Charset)
	if err != nil {
		return err
	}
	opts := []game.ServerOption{
		game.WithWelcome(cfg.WelcomeMessage),
		game.WithCharset(charset),
	}
	if cfg.WebsocketAddr != "" {
		opts = append(opts, game.WithWebsocket(cfg.WebsocketAddr))
	}
	if cfg.MetricsAddr != "" {
		opts = append(opts, game.WithMetrics(cfg.MetricsAddr, recorder.Handler()))
	}

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sigChan)
	go func() {
		sig, ok := <-sigChan
		if !ok {
			return
		}
		log.Info("received shutdown signal", zap.String("signal", sig.String()))
		world.Shutdown()
	}()

	log.Info("world ready",
		zap.Int("rooms", world.RoomCount()),
		zap.String("storage", cfg.Storage.Kind),
		zap.String("path", cfg.Storage.Path))
	return game.ListenAndServe(world, cfg.Addr, commands.Dispatch, opts...)
}

// loadConfig reads the config file and applies any serve flags the user set.
func loadConfig(cmd *cobra.Command) (config.Config, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return config.Config{}, err
	}
	flags := cmd.Flags()
	override := func(name string, dst *string, value string) {
		if flags.Changed(name) {
			*dst = value
		}
	}
	override("addr", &cfg.Addr, serveFlags.addr)
	override("websocket-addr", &cfg.WebsocketAddr, serveFlags.websocketAddr)
	override("metrics-addr", &cfg.MetricsAddr, serveFlags.metricsAddr)
	override("world", &cfg.WorldFile, serveFlags.worldFile)
	override("charset", &cfg.Charset, serveFlags.charset)
	override("storage", &cfg.Storage.Kind, serveFlags.storageKind)
	override("storage-path", &cfg.Storage.Path, serveFlags.storagePath)
	if flags.Changed("admin") {
		cfg.Admins = serveFlags.admins
	}
	if err := cfg.Validate(); err != nil {
		return config.Config{}, err
	}
	return cfg, nil
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }

func openArchive(s config.Storage) (game.Archive, io.Closer, error) {
	switch s.Kind {
	case config.StorageBolt:
		a, err := store.Open(s.Path)
		if err != nil {
			return nil, nil, err
		}
		return a, a, nil
	case config.StorageXML:
		return worldfile.NewDir(s.Path), nopCloser{}, nil
	}
	return nil, nil, fmt.Errorf("unknown storage kind %q", s.Kind)
}

// loadWorld restores the newest save. With no saves it builds the configured
// world file, and with neither it starts from a bare two-room world.
func loadWorld(cfg config.Config, archive game.Archive, log *zap.Logger) (*game.World, error) {
	doc, err := archive.Latest()
	switch {
	case err == nil:
		log.Info("restoring latest save")
	case !errors.Is(err, game.ErrEmptyArchive):
		return nil, fmt.Errorf("load latest save: %w", err)
	case cfg.WorldFile != "":
		log.Info("loading world file", zap.String("path", cfg.WorldFile))
		doc, err = worldfile.ReadFile(cfg.WorldFile)
		if err != nil {
			return nil, err
		}
	default:
		log.Warn("no saved world or world file, starting empty")
		world := defaultWorld()
		world.SetLogger(log)
		return world, nil
	}
	world, warnings := game.Build(doc, log)
	if len(warnings) > 0 {
		log.Warn("world loaded with warnings", zap.Int("count", len(warnings)))
	}
	return world, nil
}

func defaultWorld() *game.World {
	world := game.NewWorldWithRooms(
		game.NewRoom("Limbo", "A grey nothing between places. Players wait here while they are away."),
		game.NewRoom("Brackenhold Green", "A village green ringed with bracken. Nothing has been built yet."),
	)
	world.SetMessages("Welcome to Brackenhold.", "Until next time.")
	return world
}
