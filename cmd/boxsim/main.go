// cmd/boxsim/main.go
package main

import (
	"context"
	"errors"
	"io"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/arvheim/boxsim/pkg/config"
	"github.com/arvheim/boxsim/pkg/health"
	"github.com/arvheim/boxsim/pkg/logging"
	"github.com/arvheim/boxsim/pkg/render"
	engorender "github.com/arvheim/boxsim/pkg/render/engo"
	"github.com/arvheim/boxsim/pkg/resource"
	"github.com/arvheim/boxsim/pkg/sim"
	"github.com/arvheim/boxsim/pkg/view"
)

var (
	configFile string
	width      float64
	height     float64
	gravity    float64
	interval   time.Duration
	spawnCount int
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "boxsim",
		Short: "frame-paced rectangle simulation",
		RunE:  runLive,
	}

	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "config file path (yaml)")
	rootCmd.PersistentFlags().Float64Var(&width, "width", config.DefaultWidth, "viewport width")
	rootCmd.PersistentFlags().Float64Var(&height, "height", config.DefaultHeight, "viewport height")
	rootCmd.PersistentFlags().Float64Var(&gravity, "gravity", config.DefaultGravity, "world gravity")
	rootCmd.PersistentFlags().DurationVar(&interval, "interval", config.DefaultTickInterval, "minimum time between simulation passes")
	rootCmd.PersistentFlags().IntVar(&spawnCount, "count", config.DefaultSpawnCount, "rectangles to spawn at startup")

	runCmd := &cobra.Command{
		Use:   "run",
		Short: "run headless with health endpoints",
		RunE:  runHeadless,
	}

	windowCmd := &cobra.Command{
		Use:   "window",
		Short: "run in a graphical window",
		RunE:  runWindow,
	}

	configCmd := &cobra.Command{
		Use:   "config [path]",
		Short: "write the default config file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return config.Save(config.DefaultConfig(), args[0])
		},
	}

	rootCmd.AddCommand(runCmd, windowCmd, configCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// loadConfig layers the config file, environment, and changed flags
// over the defaults.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg := config.DefaultConfig()
	if configFile != "" {
		loaded, err := config.Load(configFile)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}

	if err := config.ApplyEnvironmentOverrides(cfg); err != nil {
		return nil, err
	}

	flags := cmd.Flags()
	if flags.Changed("width") {
		cfg.Viewport.Width = width
	}
	if flags.Changed("height") {
		cfg.Viewport.Height = height
	}
	if flags.Changed("gravity") {
		cfg.World.Gravity = gravity
	}
	if flags.Changed("interval") {
		cfg.Loop.TickInterval = interval
	}
	if flags.Changed("count") {
		cfg.Spawn.Count = spawnCount
	}
	return cfg, nil
}

// runLive starts the interactive terminal view. The bubbletea program
// drives the frame chain, so Present output is discarded and the view
// reads the surface buffer directly.
func runLive(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	surface := render.NewASCIISurface(64, 20, io.Discard)
	simulator, err := sim.New(cfg, surface)
	if err != nil {
		return err
	}
	for i := 0; i < cfg.Spawn.Count; i++ {
		simulator.Spawn()
	}

	model := view.NewModel(simulator, surface, cfg.Loop.FramePeriod)
	program := tea.NewProgram(model, tea.WithAltScreen())
	_, err = program.Run()
	return err
}

// runHeadless runs the simulation loop until a signal arrives, with
// health endpoints and resource monitoring for orchestrators.
func runHeadless(cmd *cobra.Command, args []string) error {
	logger := logging.NewLogger()
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	simulator, err := sim.New(cfg, render.NewNullSurface())
	if err != nil {
		return err
	}
	for i := 0; i < cfg.Spawn.Count; i++ {
		simulator.Spawn()
	}

	monitor := resource.NewMonitor(500, 30*time.Second)
	if err := monitor.Start(); err != nil {
		return err
	}

	healthChecker := health.NewHealthChecker()
	healthChecker.AddCheck(health.NewSimulatorHealthCheck(
		func() bool { return simulator.State() == sim.Running },
	))
	healthChecker.AddCheck(health.NewFrameAdvanceHealthCheck(simulator.FrameCount))
	healthChecker.AddCheck(health.NewMemoryHealthCheck(500, func() int64 {
		monitor.Sample()
		return monitor.MemoryUsageMB()
	}))

	healthPort := "8080"
	if envPort := os.Getenv("BOXSIM_HEALTH_PORT"); envPort != "" {
		if _, err := strconv.Atoi(envPort); err == nil {
			healthPort = envPort
		}
	}

	healthMux := http.NewServeMux()
	healthMux.HandleFunc("/health", healthChecker.LivenessHandler)
	healthMux.HandleFunc("/ready", healthChecker.ReadinessHandler)

	healthServer := &http.Server{
		Addr:         ":" + healthPort,
		Handler:      healthMux,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 5 * time.Second,
	}

	go func() {
		logger.Info(ctx, "starting health endpoints", "port", healthPort)
		if err := healthServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error(ctx, "health server failed", err)
		}
	}()

	clock := sim.NewTickerClock(cfg.Loop.FramePeriod)
	defer clock.Stop()

	logger.Info(ctx, "starting simulation loop",
		"gravity", cfg.World.Gravity,
		"tick_interval", cfg.Loop.TickInterval.String(),
		"entities", simulator.Engine().Len(),
	)
	simulator.Start()

	err = simulator.Run(ctx, clock)
	if err != nil && !errors.Is(err, context.Canceled) {
		return err
	}

	logger.Info(ctx, "shutting down", "frames", simulator.FrameCount())
	simulator.Stop()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := healthServer.Shutdown(shutdownCtx); err != nil {
		logger.Error(ctx, "health server shutdown failed", err)
	}
	if err := monitor.Stop(shutdownCtx); err != nil {
		logger.Error(ctx, "resource monitor shutdown failed", err)
	}
	return nil
}

// runWindow opens the graphical backend. The window's update loop
// becomes the host frame clock.
func runWindow(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	surface := engorender.NewSurface()
	simulator, err := sim.New(cfg, surface)
	if err != nil {
		return err
	}
	for i := 0; i < cfg.Spawn.Count; i++ {
		simulator.Spawn()
	}

	engorender.Run(cfg, engorender.NewScene(simulator, surface))
	return nil
}
