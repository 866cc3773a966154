package main

import (
	"errors"
	"fmt"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/ivlev/babaru/internal/config"
	"github.com/ivlev/babaru/internal/engine"
	"github.com/ivlev/babaru/internal/system"
	"github.com/ivlev/babaru/internal/video"
)

type renderFlags struct {
	composition string
	width       int
	height      int
	assets      string
	clip        string
}

func (f *renderFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.composition, "composition", "", `Composition YAML ("latest" for the newest in compositions/, empty for the built-in intro)`)
	cmd.Flags().IntVar(&f.width, "width", 0, "Output width (0: from config or composition)")
	cmd.Flags().IntVar(&f.height, "height", 0, "Output height (0: from config or composition)")
	cmd.Flags().StringVar(&f.assets, "assets", "", "Sprite directory or PDF character sheet")
	cmd.Flags().StringVar(&f.clip, "clip", "", "Video to use for the character reveal")
}

func newRenderCommand(ctx *commandContext) *cobra.Command {
	var flags renderFlags
	var output, encoder, audio string
	var workers, quality int

	cmd := &cobra.Command{
		Use:   "render",
		Short: "Export the composition to MP4",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			logger := ctx.log()
			r := cfg.Render
			applyRenderFlags(&r, flags)
			if cmd.Flags().Changed("workers") {
				r.Workers = workers
			}
			if cmd.Flags().Changed("quality") {
				r.Quality = quality
			}
			if encoder != "" {
				r.Encoder = encoder
			}
			if audio != "" {
				r.AudioPath = audio
			}

			if !system.HasFFmpeg() {
				return errors.New("ffmpeg not found in PATH")
			}
			system.InitResourceLimits(logger)

			a, err := ctx.animator(r.Composition)
			if err != nil {
				return err
			}
			width, height := outputSize(a, r.Width, r.Height)
			raster, release, err := ctx.rasterizer(cmd.Context(), r, a, width, height)
			if err != nil {
				return err
			}
			defer release()

			if r.AudioPath == "latest" {
				r.AudioPath, err = system.FindLatestAudio(filepath.Join("input", "audio"))
				if err != nil {
					return err
				}
			}
			if r.AudioPath != "" {
				if d, err := system.GetAudioDuration(cmd.Context(), r.AudioPath); err == nil {
					fmt.Printf("[*] Audio: %s (%.2fs, video is %.2fs)\n", r.AudioPath, d, a.Duration())
				} else {
					fmt.Printf("[!] Audio duration unknown: %v\n", err)
				}
			}

			enc := engine.ResolveEncoder(cmd.Context(), r.Encoder)
			if enc != "libx264" {
				fmt.Printf("[*] Hardware encoder: %s\n", enc)
			}
			if output == "" {
				output = engine.OutputPath(r.OutputDir, a.Composition().Name, time.Now())
			}

			project := engine.NewProject(a, raster, video.Settings{
				Encoder:   enc,
				Quality:   r.Quality,
				AudioPath: r.AudioPath,
				Output:    output,
			}, logger)
			project.Workers = system.Probe().Workers(r.Workers, int64(width)*int64(height)*4)
			project.Progress = progressPrinter(a.TotalFrames())

			fmt.Printf("[*] Rendering %d frames at %dx%d with %d workers\n", a.TotalFrames(), width, height, project.Workers)
			report, err := project.Run(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Print(report.String())
			if err := report.AppendBenchmark(filepath.Join(r.OutputDir, "benchmark.log"), time.Now()); err != nil {
				fmt.Printf("[!] Benchmark log: %v\n", err)
			}
			fmt.Printf("[+] Done: %s\n", report.Output)
			return nil
		},
	}

	flags.register(cmd)
	cmd.Flags().StringVarP(&output, "output", "o", "", "Output MP4 (default: timestamped file in the output dir)")
	cmd.Flags().StringVar(&encoder, "encoder", "", "auto, libx264, h264_nvenc or h264_videotoolbox")
	cmd.Flags().StringVar(&audio, "audio", "", `Audio track ("latest" for the newest in input/audio)`)
	cmd.Flags().IntVar(&workers, "workers", 0, "Render workers (0: sized from CPU and memory)")
	cmd.Flags().IntVar(&quality, "quality", 0, "CRF for x264/nvenc, Q*100 kbit/s for VideoToolbox")
	return cmd
}

func applyRenderFlags(r *config.Render, f renderFlags) {
	if f.composition != "" {
		r.Composition = f.composition
	}
	if f.width > 0 {
		r.Width = f.width
	}
	if f.height > 0 {
		r.Height = f.height
	}
	if f.assets != "" {
		r.AssetDir = f.assets
	}
	if f.clip != "" {
		r.ClipPath = f.clip
	}
}

// progressPrinter prints every tenth of the export.
func progressPrinter(total int) func(done, total int) {
	step := max(total/10, 1)
	return func(done, total int) {
		if done%step == 0 || done == total {
			fmt.Printf("[*] %3d%% (%d/%d)\n", done*100/total, done, total)
		}
	}
}

func newFrameCommand(ctx *commandContext) *cobra.Command {
	var flags renderFlags
	var output string

	cmd := &cobra.Command{
		Use:   "frame <index>",
		Short: "Render one frame to PNG",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var index int
			if _, err := fmt.Sscan(args[0], &index); err != nil {
				return fmt.Errorf("frame index %q: %w", args[0], err)
			}
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			r := cfg.Render
			applyRenderFlags(&r, flags)

			a, err := ctx.animator(r.Composition)
			if err != nil {
				return err
			}
			width, height := outputSize(a, r.Width, r.Height)
			raster, release, err := ctx.rasterizer(cmd.Context(), r, a, width, height)
			if err != nil {
				return err
			}
			defer release()

			if output == "" {
				output = filepath.Join(r.OutputDir, fmt.Sprintf("frame_%04d.png", index))
			}
			if err := engine.ExportFrame(a, raster, index, output); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "[+] Frame %d: %s\n", index, output)
			return nil
		},
	}
	flags.register(cmd)
	cmd.Flags().StringVarP(&output, "output", "o", "", "Output PNG")
	return cmd
}
