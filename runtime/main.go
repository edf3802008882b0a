package main

import (
	"fmt"
	"os"
	"runtime"

	"Forge3D/internal/config"
	"Forge3D/internal/loader"

	"github.com/spf13/cobra"
)

func init() {
	// GLFW and the GL context must stay on the main thread.
	runtime.LockOSThread()
}

type options struct {
	configPath string
	scenePath  string
	frames     uint64
	headless   bool
	deferred   bool
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	opts := &options{}
	cmd := &cobra.Command{
		Use:   "forge3d",
		Short: "Load an OVO scene and render it",
		Long: `Loads an OVO scene and renders it with the forward pipeline, or the
deferred one when --deferred is given.

Right mouse drag rotates the scene, the wheel zooms and W toggles wireframe.`,
		Args:         cobra.NoArgs,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig(opts.configPath)
			if err != nil {
				return err
			}
			if opts.headless {
				cfg.Engine.Headless = true
			}
			return runDemo(cfg, opts)
		},
	}
	cmd.Flags().StringVarP(&opts.configPath, "config", "c", "", "configuration file (default: ~/"+config.FileName+" or ./"+config.BundledFileName+")")
	cmd.Flags().StringVarP(&opts.scenePath, "scene", "s", "simple3dScene.ovo", "OVO scene to load")
	cmd.Flags().Uint64Var(&opts.frames, "frames", 0, "stop after this many frames (0 renders until the window closes)")
	cmd.Flags().BoolVar(&opts.headless, "headless", false, "render on the null driver without opening a window")
	cmd.Flags().BoolVar(&opts.deferred, "deferred", false, "shade from a G-buffer instead of one forward pass per light")

	cmd.AddCommand(newSampleCmd(), newConfigCmd())
	return cmd
}

func loadConfig(path string) (config.Config, error) {
	if path == "" {
		return config.LoadDefault()
	}
	return config.Load(path)
}

func newSampleCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "sample [path]",
		Short: "Write the built-in sample scene as an OVO file",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := "simple3dScene.ovo"
			if len(args) == 1 {
				path = args[0]
			}
			f, err := os.Create(path)
			if err != nil {
				return err
			}
			if err := loader.WriteSampleScene(f); err != nil {
				f.Close()
				return fmt.Errorf("writing %s: %w", path, err)
			}
			if err := f.Close(); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Sample scene written to %s\n", path)
			return nil
		},
	}
}

func newConfigCmd() *cobra.Command {
	var path string
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Print the effective configuration",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig(path)
			if err != nil {
				return err
			}
			return config.Write(cmd.OutOrStdout(), cfg)
		},
	}
	cmd.Flags().StringVarP(&path, "config", "c", "", "configuration file")
	return cmd
}
