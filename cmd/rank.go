package cmd

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"time"

	"github.com/manifoldco/promptui"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/spigell/resume-screener/internal/export"
	"github.com/spigell/resume-screener/internal/intake"
	"github.com/spigell/resume-screener/internal/render"
	"github.com/spigell/resume-screener/internal/session"
)

const (
	PromptThreshold  = "Change threshold"
	PromptToggleMode = "Toggle display mode"
	PromptExcel      = "Export to Excel"
	PromptToFile     = "Dump results to file"
	PromptResubmit   = "Resubmit"
	PromptExit       = "Exit"
)

var errExit = errors.New("exit requested")

// Replaced in tests.
var (
	stdout       io.Writer = os.Stdout
	thresholdAsk           = askThreshold
)

var prompt = promptui.Select{
	Label: "What next?",
	Items: []string{PromptThreshold, PromptToggleMode, PromptExcel, PromptToFile, PromptResubmit, PromptExit},
}

var rankCmd = &cobra.Command{
	Use:   "rank [resume files...]",
	Short: "Rank resumes against a job description",
	Args:  cobra.ArbitraryArgs,
	Run: func(cmd *cobra.Command, args []string) {
		rank(cmd, args)
	},
}

func init() {
	rootCmd.AddCommand(rankCmd)

	rankCmd.Flags().String("job-description", "", "job description text")
	rankCmd.Flags().String("job-description-file", "", "file with the job description text")
	rankCmd.Flags().Float64P("threshold", "t", 50, "minimum score for a candidate to qualify (0-100)")
	rankCmd.Flags().StringP("mode", "m", "all", "display mode: all or qualified")
	rankCmd.Flags().BoolP("auto-approve", "y", false, "print the ranking once and exit without prompting")

	viper.BindPFlag("display.threshold", rankCmd.Flags().Lookup("threshold"))
	viper.BindPFlag("display.mode", rankCmd.Flags().Lookup("mode"))
}

// rank is the main command for the cli.
func rank(cmd *cobra.Command, args []string) {
	ctx := context.Background()

	logger, config, client := setup()

	logger.Info("starting the resume-screener", zap.String("version", version))

	// do not bother error since there is a valid parseable config
	pretty, _ := json.MarshalIndent(config, "", "  ")
	logger.Debug(fmt.Sprintf("starting with config: \n %s", pretty))

	mode, err := render.ParseMode(config.Display.Mode)
	if err != nil {
		logger.Fatal("parsing display mode", zap.Error(err))
	}

	jobDescription, err := readJobDescription(cmd)
	if err != nil {
		logger.Fatal("reading the job description", zap.Error(err))
	}

	files, err := intake.Load(ctx, args)
	if err != nil {
		logger.Fatal("loading resume files", zap.Error(err))
	}

	ctrl := session.New(client, logger,
		session.WithThreshold(config.Display.Threshold),
		session.WithMode(mode),
	)

	selected := ctrl.SelectFiles(files)
	if dropped := len(files) - selected.Len(); dropped > 0 {
		logger.Warn("some files were skipped",
			zap.Int("dropped", dropped),
			zap.String("hint", "only unique PDF and DOCX files are sent"),
		)
	}

	if err := submit(ctx, ctrl, jobDescription, logger); err != nil && cmd.Flag("auto-approve").Value.String() == "true" {
		os.Exit(1)
	}

	if cmd.Flag("auto-approve").Value.String() == "true" {
		return
	}

	for {
		_, action, err := prompt.Run()
		if err != nil {
			logger.Fatal("exiting", zap.Error(err))
		}

		if err := handleAction(ctx, action, ctrl, config, jobDescription, logger); err != nil {
			if errors.Is(err, errExit) {
				return
			}
			logger.Fatal("exiting", zap.Error(err))
		}
	}
}

func handleAction(ctx context.Context, action string, ctrl *session.Controller, config *Config, jobDescription string, logger *zap.Logger) error {
	switch action {
	case PromptThreshold:
		threshold, err := thresholdAsk(ctrl.Threshold())
		if err != nil {
			return err
		}
		if err := ctrl.SetThreshold(threshold); err != nil {
			return err
		}
		return printView(ctrl)
	case PromptToggleMode:
		if ctrl.Mode() == render.ModeAll {
			ctrl.SetMode(render.ModeQualified)
		} else {
			ctrl.SetMode(render.ModeAll)
		}
		logger.Info("display mode changed", zap.String("mode", string(ctrl.Mode())))
		return printView(ctrl)
	case PromptExcel:
		path, err := export.ToExcel(ctrl.View(), jobDescription, export.DefaultFileName(config.Export.Dir, time.Now()))
		if err != nil {
			return fmt.Errorf("export results to excel: %w", err)
		}
		logger.Info("exported results to excel", zap.String("filename", path))
		return nil
	case PromptToFile:
		filename, err := ctrl.DumpResults()
		if err != nil {
			logger.Warn("nothing dumped", zap.Error(err))
			return nil
		}
		logger.Info("dumping result to file", zap.String("filename", filename))
		return nil
	case PromptResubmit:
		// Failures are already reported to the user.
		_ = submit(ctx, ctrl, jobDescription, logger)
		return nil
	case PromptExit:
		logger.Info("exiting", zap.String("reason", "got exit from prompt"))
		return errExit
	default:
		return fmt.Errorf("invalid action: %s", action)
	}
}

// submit sends one ranking request and prints the outcome. Ctrl-C aborts
// only this request; later submissions start from a live context.
func submit(ctx context.Context, ctrl *session.Controller, jobDescription string, logger *zap.Logger) error {
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt)
	defer stop()

	state, err := ctrl.Submit(ctx, jobDescription)
	if err != nil {
		if msg, ok := ctrl.Error(); ok {
			fmt.Fprintf(stdout, "Error: %s\n", msg)
		}
		logger.Debug("submission finished with an error", zap.String("state", string(state.Kind)), zap.Error(err))
		return err
	}

	return printView(ctrl)
}

func printView(ctrl *session.Controller) error {
	fmt.Fprintln(stdout)
	return render.WriteConsole(stdout, ctrl.View())
}

func askThreshold(current float64) (float64, error) {
	p := promptui.Prompt{
		Label:   fmt.Sprintf("Threshold (%d-%d)", render.MinThreshold, render.MaxThreshold),
		Default: strconv.FormatFloat(current, 'f', -1, 64),
		Validate: func(input string) error {
			_, err := parseThreshold(input)
			return err
		},
	}

	input, err := p.Run()
	if err != nil {
		return 0, err
	}

	return parseThreshold(input)
}

func parseThreshold(input string) (float64, error) {
	v, err := strconv.ParseFloat(strings.TrimSpace(input), 64)
	if err != nil || math.IsNaN(v) {
		return 0, errors.New("threshold must be a number")
	}
	if v < render.MinThreshold || v > render.MaxThreshold {
		return 0, fmt.Errorf("threshold must be between %d and %d", render.MinThreshold, render.MaxThreshold)
	}
	return v, nil
}

func readJobDescription(cmd *cobra.Command) (string, error) {
	text, _ := cmd.Flags().GetString("job-description")
	file, _ := cmd.Flags().GetString("job-description-file")

	if file == "" {
		return text, nil
	}
	if text != "" {
		return "", errors.New("use either --job-description or --job-description-file, not both")
	}

	data, err := os.ReadFile(file)
	if err != nil {
		return "", fmt.Errorf("reading %s: %w", file, err)
	}

	return string(data), nil
}
