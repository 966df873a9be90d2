package commands

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"

	"github.com/noliv3/videoaudio/pkg/audio/pcm"
	"github.com/noliv3/videoaudio/pkg/audio/resampler"
	"github.com/noliv3/videoaudio/pkg/audio/waveform"
	"github.com/noliv3/videoaudio/pkg/cli"
	"github.com/noliv3/videoaudio/pkg/frames"
	"github.com/noliv3/videoaudio/pkg/lipsync"
)

// runJob is a run described in a YAML or JSON file.
type runJob struct {
	Frames    string `yaml:"frames" json:"frames"`
	Audio     string `yaml:"audio" json:"audio"`
	Out       string `yaml:"out" json:"out"`
	Mode      string `yaml:"mode,omitempty" json:"mode,omitempty"`
	BatchSize int    `yaml:"batch_size,omitempty" json:"batch_size,omitempty"`
	OnNoFace  string `yaml:"on_no_face,omitempty" json:"on_no_face,omitempty"`
}

type runSummary struct {
	Outcome    string `yaml:"outcome" json:"outcome"`
	Error      string `yaml:"error,omitempty" json:"error,omitempty"`
	FramesIn   int    `yaml:"frames_in" json:"frames_in"`
	FramesOut  int    `yaml:"frames_out" json:"frames_out"`
	SampleRate int    `yaml:"sample_rate" json:"sample_rate"`
	Audio      string `yaml:"audio" json:"audio"`
	Output     string `yaml:"output" json:"output"`
	Elapsed    string `yaml:"elapsed" json:"elapsed"`
}

var (
	runFile        string
	runFrames      string
	runAudio       string
	runOut         string
	runMode        string
	runBatch       int
	runOnNoFace    string
	runEngine      string
	runProvider    string
	runModel       string
	runTimeout     time.Duration
	runMetricsFile string
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Lip-sync a PNG frame directory to a WAV file",
	Long: `Read frames from a directory of PNG files and audio from a WAV file,
run the configured engine and write the resulting frames as PNG files.

If the engine is unavailable or fails, the input frames are written
unchanged. If the engine finds no face, the input frames are written
unless --on-no-face=error is given.

Flags override the job file (-f), which overrides config.yaml.

Examples:
  videoaudio run --frames in/ --audio voice.wav --out out/
  videoaudio run -f job.yaml --provider wav2lip --timeout 10m
  videoaudio run -f job.yaml --format json --metrics-file lipsync.prom`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}

		job := runJob{Mode: cfg.Mode, BatchSize: cfg.BatchSize, OnNoFace: cfg.OnNoFace}
		if runFile != "" {
			if err := cli.LoadRequest(runFile, &job); err != nil {
				return err
			}
		}
		flags := cmd.Flags()
		if flags.Changed("frames") {
			job.Frames = runFrames
		}
		if flags.Changed("audio") {
			job.Audio = runAudio
		}
		if flags.Changed("out") {
			job.Out = runOut
		}
		if flags.Changed("mode") {
			job.Mode = runMode
		}
		if flags.Changed("batch") {
			job.BatchSize = runBatch
		}
		if flags.Changed("on-no-face") {
			job.OnNoFace = runOnNoFace
		}
		if flags.Changed("engine") {
			cfg.Engine = runEngine
		}
		if flags.Changed("provider") {
			cfg.Provider = runProvider
		}
		if flags.Changed("model") {
			cfg.ModelPath = runModel
		}
		if flags.Changed("timeout") {
			cfg.Timeout = runTimeout.String()
		}
		if job.Frames == "" || job.Audio == "" || job.Out == "" {
			return errors.New("--frames, --audio and --out are required (or set them in -f)")
		}
		timeout, err := cfg.TimeoutDuration()
		if err != nil {
			return err
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
		defer stop()

		seq, err := frames.ReadPNGDir(ctx, job.Frames)
		if err != nil {
			return fmt.Errorf("read frames: %w", err)
		}
		wav, err := readAudio(job.Audio)
		if err != nil {
			return err
		}
		audio := waveform.Map{"sample_rate": wav.SampleRate, "waveform": wav.Channels}

		opts := []lipsync.Option{
			lipsync.WithLogger(slog.Default()),
			lipsync.WithResolver(lipsync.FromRegistry(cfg.EngineConfig())),
			lipsync.WithModelPath(cfg.ModelPath),
			lipsync.WithTempDir(cfg.TempDir),
			lipsync.WithTimeout(timeout),
		}
		var reg *prometheus.Registry
		if runMetricsFile != "" {
			reg = prometheus.NewRegistry()
			opts = append(opts, lipsync.WithMetrics(lipsync.NewMetrics(reg)))
		}
		node, err := lipsync.NewNode(opts...)
		if err != nil {
			return err
		}

		start := time.Now()
		res, err := node.Execute(ctx, lipsync.Input{
			Images:    seq,
			Audio:     audio,
			Mode:      job.Mode,
			BatchSize: job.BatchSize,
			OnNoFace:  job.OnNoFace,
		})
		if err != nil {
			return err
		}
		elapsed := time.Since(start)

		out, err := frames.ToUint8(res.Frames)
		if err != nil {
			return fmt.Errorf("convert output: %w", err)
		}
		if err := frames.WritePNGDir(ctx, job.Out, out); err != nil {
			return fmt.Errorf("write frames: %w", err)
		}
		if reg != nil {
			if err := prometheus.WriteToTextfile(runMetricsFile, reg); err != nil {
				return fmt.Errorf("write metrics: %w", err)
			}
		}

		summary := runSummary{
			Outcome:    res.Outcome.Kind.String(),
			FramesIn:   len(seq),
			FramesOut:  len(out),
			SampleRate: wav.SampleRate,
			Audio:      describeArtifact(wav),
			Output:     job.Out,
			Elapsed:    cli.FormatDuration(elapsed),
		}
		if res.Outcome.Err != nil {
			summary.Error = res.Outcome.Err.Error()
		}
		return output(cmd, summary, func() error {
			return cli.PrintStatus(cmd.OutOrStdout(), styles(), "videoaudio run", summaryLines(summary))
		})
	},
}

// readAudio decodes a WAV file.
func readAudio(path string) (*pcm.WAV, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("read audio: %w", err)
	}
	defer f.Close()
	w, err := pcm.ReadWAV(f)
	if err != nil {
		return nil, fmt.Errorf("read audio %s: %w", path, err)
	}
	return w, nil
}

// describeArtifact reports the length and PCM size of the 16 kHz audio
// handed to the engine.
func describeArtifact(w *pcm.WAV) string {
	n := w.Frames()
	if n >= 2 && w.SampleRate != resampler.TargetRate {
		n = resampler.OutputLen(n, w.SampleRate, resampler.TargetRate)
	}
	f := pcm.L16Mono16K
	return fmt.Sprintf("%s, %s %s",
		cli.FormatDuration(f.SampleDuration(n)), cli.FormatBytes(f.Bytes(int64(n))), f)
}

func summaryLines(s runSummary) []cli.Line {
	status := cli.StatusOK
	if s.Outcome != lipsync.OutcomeProduced.String() {
		status = cli.StatusWarn
	}
	detail := "input frames passed through"
	if status == cli.StatusOK {
		detail = "engine frames written"
	}
	if s.Error != "" {
		detail += ": " + s.Error
	}
	return []cli.Line{
		{Status: status, Label: s.Outcome, Detail: detail},
		{Status: cli.StatusOK, Label: "frames", Detail: fmt.Sprintf("%d in, %d out", s.FramesIn, s.FramesOut)},
		{Status: cli.StatusOK, Label: "audio", Detail: s.Audio},
		{Status: cli.StatusOK, Label: "output", Detail: s.Output},
		{Status: cli.StatusOK, Label: "elapsed", Detail: s.Elapsed},
	}
}

func init() {
	f := runCmd.Flags()
	f.StringVarP(&runFile, "file", "f", "", "job file (YAML or JSON)")
	f.StringVar(&runFrames, "frames", "", "input directory of PNG frames")
	f.StringVar(&runAudio, "audio", "", "input WAV file")
	f.StringVar(&runOut, "out", "", "output directory for PNG frames")
	f.StringVar(&runMode, "mode", "", "sequential or repetitive")
	f.IntVar(&runBatch, "batch", 0, "engine batch size (1-64)")
	f.StringVar(&runOnNoFace, "on-no-face", "", "passthrough or error")
	f.StringVar(&runEngine, "engine", "", "registered engine name")
	f.StringVar(&runProvider, "provider", "", "provider name for the exec engine")
	f.StringVar(&runModel, "model", "", "model path passed to the engine")
	f.DurationVar(&runTimeout, "timeout", 0, "engine call timeout (0 for none)")
	f.StringVar(&runMetricsFile, "metrics-file", "", "write Prometheus metrics to this file")

	rootCmd.AddCommand(runCmd)
}
